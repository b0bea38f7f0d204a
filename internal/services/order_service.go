package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/chrisdamba/comanda/internal/logger"
	"github.com/chrisdamba/comanda/internal/models"
	"github.com/chrisdamba/comanda/internal/repositories"
)

type OrderService struct {
	orders repositories.OrderRepository
	dishes repositories.DishRepository
	sync   *Reconciler
	events eventSink
	log    *logger.Logger
	strict bool
}

func NewOrderService(store *repositories.Store, sync *Reconciler, sink eventSink, log *logger.Logger, strict bool) *OrderService {
	return &OrderService{
		orders: store.Orders,
		dishes: store.Dishes,
		sync:   sync,
		events: sink,
		log:    log,
		strict: strict,
	}
}

func (s *OrderService) List(ctx context.Context) ([]*models.Order, error) {
	return s.orders.GetAll(ctx)
}

func (s *OrderService) Get(ctx context.Context, id int64) (*models.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *OrderService) ListByTable(ctx context.Context, tableNumber int) ([]*models.Order, error) {
	return s.orders.GetByTable(ctx, tableNumber)
}

func (s *OrderService) ListByStatus(ctx context.Context, statusName string) ([]*models.Order, error) {
	status, err := models.ParseOrderStatus(statusName)
	if err != nil {
		return nil, err
	}
	return s.orders.GetByStatus(ctx, status)
}

// ListActive returns orders that are neither paid nor cancelled, oldest first.
func (s *OrderService) ListActive(ctx context.Context) ([]*models.Order, error) {
	return s.orders.GetActive(ctx)
}

// fillFromCatalog completes a line whose name or price was left out.
func (s *OrderService) fillFromCatalog(ctx context.Context, item *models.OrderItem) error {
	if item.DishID == 0 || (item.DishName != "" && !item.UnitPrice.IsZero()) {
		return nil
	}
	dish, err := s.dishes.GetByID(ctx, item.DishID)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load dish %d: %w", item.DishID, err)
	}
	if item.DishName == "" {
		item.DishName = dish.Name
	}
	if item.UnitPrice.IsZero() {
		item.UnitPrice = dish.Price
	}
	return nil
}

func (s *OrderService) prepareItems(ctx context.Context, items []models.OrderItem) error {
	for i := range items {
		items[i].ID = 0
		if err := s.fillFromCatalog(ctx, &items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *OrderService) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	order.ID = 0
	if order.Status == "" {
		order.Status = models.OrderStatusNew
	} else if _, err := models.ParseOrderStatus(string(order.Status)); err != nil {
		return nil, err
	} else if s.strict && order.Status != models.OrderStatusNew {
		return nil, models.NewValidationError("status", "new orders must start as NEW")
	}
	if order.Items == nil {
		order.Items = []models.OrderItem{}
	}
	if err := s.prepareItems(ctx, order.Items); err != nil {
		return nil, err
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	order.CalculateTotal()

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	s.events.statusChanged(ctx, models.EventOrderStatusChanged, models.EntityOrder, order.ID, order.ID, "", string(order.Status))
	s.sync.reconcile(ctx, order.ID, OriginOrder)
	return order, nil
}

// Update copies the editable fields from details. An empty status leaves the
// status unchanged and nil items leave the lines unchanged.
func (s *OrderService) Update(ctx context.Context, id int64, details *models.Order) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := order.Status

	order.TableNumber = details.TableNumber
	order.CustomerName = details.CustomerName
	order.CustomerPhone = details.CustomerPhone
	order.DeliveryAddress = details.DeliveryAddress
	order.Notes = details.Notes
	order.DeliveryFee = details.DeliveryFee

	if details.Status != "" && details.Status != order.Status {
		target, err := models.ParseOrderStatus(string(details.Status))
		if err != nil {
			return nil, err
		}
		if err := order.SetStatus(target, s.strict); err != nil {
			return nil, err
		}
	}
	if details.Items != nil {
		items := append([]models.OrderItem(nil), details.Items...)
		if err := s.prepareItems(ctx, items); err != nil {
			return nil, err
		}
		order.ReplaceItems(items)
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	order.CalculateTotal()

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	if from != order.Status {
		s.events.statusChanged(ctx, models.EventOrderStatusChanged, models.EntityOrder, order.ID, order.ID, string(from), string(order.Status))
	}
	if from != order.Status || details.Items != nil {
		s.sync.reconcile(ctx, order.ID, OriginOrder)
	}
	return order, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id int64, statusName string) (*models.Order, error) {
	target, err := models.ParseOrderStatus(statusName)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if err := order.SetStatus(target, s.strict); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	s.events.statusChanged(ctx, models.EventOrderStatusChanged, models.EntityOrder, order.ID, order.ID, string(from), string(target))
	s.sync.reconcile(ctx, order.ID, OriginOrder)
	return order, nil
}

func (s *OrderService) AddItem(ctx context.Context, id int64, item models.OrderItem) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item.ID = 0
	if err := s.fillFromCatalog(ctx, &item); err != nil {
		return nil, err
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	order.AddItem(item)
	return s.saveItems(ctx, order)
}

func (s *OrderService) RemoveItem(ctx context.Context, id, itemID int64) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.RemoveItem(itemID); err != nil {
		return nil, err
	}
	return s.saveItems(ctx, order)
}

func (s *OrderService) UpdateItemQuantity(ctx context.Context, id, itemID int64, quantity int) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.UpdateItemQuantity(itemID, quantity); err != nil {
		return nil, err
	}
	return s.saveItems(ctx, order)
}

func (s *OrderService) saveItems(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order items: %w", err)
	}
	s.sync.reconcile(ctx, order.ID, OriginOrder)
	return order, nil
}

// Delete cancels the kitchen ticket, if any, then removes the order and its lines.
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.sync.ReconcileDeleted(ctx, order); err != nil {
		logger.FromContext(ctx, s.log).Warn("delete_order", "failed to cancel kitchen order", err, "order_id", id)
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	s.events.emit(ctx, models.EventOrderDeleted, map[string]int64{"orderId": id})
	return nil
}
