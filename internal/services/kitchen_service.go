package services

import (
	"context"
	"fmt"
	"time"

	"github.com/chrisdamba/comanda/internal/logger"
	"github.com/chrisdamba/comanda/internal/models"
	"github.com/chrisdamba/comanda/internal/repositories"
)

type KitchenService struct {
	kitchen repositories.KitchenOrderRepository
	sync    *Reconciler
	events  eventSink
	log     *logger.Logger
	strict  bool
}

func NewKitchenService(kitchen repositories.KitchenOrderRepository, sync *Reconciler, sink eventSink, log *logger.Logger, strict bool) *KitchenService {
	return &KitchenService{
		kitchen: kitchen,
		sync:    sync,
		events:  sink,
		log:     log,
		strict:  strict,
	}
}

var liveStatuses = []models.OrderStatus{
	models.OrderStatusNew,
	models.OrderStatusPreparing,
	models.OrderStatusReady,
}

// Create stores a ticket built by hand rather than through an order.
func (s *KitchenService) Create(ctx context.Context, ticket *models.KitchenOrder) (*models.KitchenOrder, error) {
	ticket.ID = 0
	if ticket.Priority == 0 {
		ticket.Priority = models.PriorityNormal
	}
	if err := models.ValidatePriority(ticket.Priority); err != nil {
		return nil, err
	}
	status := ticket.Status
	if status == "" {
		status = models.OrderStatusNew
	} else if _, err := models.ParseOrderStatus(string(status)); err != nil {
		return nil, err
	}
	if ticket.EstimatedTime < 0 {
		return nil, models.NewValidationError("estimatedTime", "estimated time must not be negative")
	}
	if ticket.Items == nil {
		ticket.Items = []models.KitchenOrderItem{}
	}
	for i := range ticket.Items {
		ticket.Items[i].ID = 0
		if ticket.Items[i].PreparationStatus == "" {
			ticket.Items[i].PreparationStatus = models.PreparationPending
		}
		if ticket.Items[i].Quantity < 1 {
			return nil, models.NewValidationError("quantity", "quantity must be at least 1")
		}
	}
	ticket.CalculateTotal()
	ticket.StartedAt, ticket.ReadyAt = nil, nil
	ticket.SetStatus(status)

	if err := s.kitchen.Save(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create kitchen order: %w", err)
	}
	s.events.emit(ctx, models.EventTicketCreated, ticket)
	return ticket, nil
}

func (s *KitchenService) Get(ctx context.Context, id int64) (*models.KitchenOrder, error) {
	return s.kitchen.GetByID(ctx, id)
}

func (s *KitchenService) GetByOrderID(ctx context.Context, orderID int64) (*models.KitchenOrder, error) {
	return s.kitchen.GetByOrderID(ctx, orderID)
}

func (s *KitchenService) List(ctx context.Context) ([]*models.KitchenOrder, error) {
	return s.kitchen.Find(ctx, repositories.KitchenOrderFilter{})
}

func (s *KitchenService) ListActive(ctx context.Context) ([]*models.KitchenOrder, error) {
	return s.kitchen.Find(ctx, repositories.KitchenOrderFilter{
		Statuses: liveStatuses,
		OrderBy:  repositories.OrderByPriorityThenCreated,
	})
}

func (s *KitchenService) ListNew(ctx context.Context) ([]*models.KitchenOrder, error) {
	return s.kitchen.Find(ctx, repositories.KitchenOrderFilter{
		Statuses: []models.OrderStatus{models.OrderStatusNew},
		OrderBy:  repositories.OrderByPriorityThenCreated,
	})
}

func (s *KitchenService) ListPreparing(ctx context.Context) ([]*models.KitchenOrder, error) {
	return s.kitchen.Find(ctx, repositories.KitchenOrderFilter{
		Statuses: []models.OrderStatus{models.OrderStatusPreparing},
		OrderBy:  repositories.OrderByStartedAsc,
	})
}

func (s *KitchenService) ListReady(ctx context.Context) ([]*models.KitchenOrder, error) {
	return s.kitchen.Find(ctx, repositories.KitchenOrderFilter{
		Statuses: []models.OrderStatus{models.OrderStatusReady},
		OrderBy:  repositories.OrderByReadyAsc,
	})
}

func (s *KitchenService) ListByTable(ctx context.Context, tableNumber int) ([]*models.KitchenOrder, error) {
	return s.kitchen.Find(ctx, repositories.KitchenOrderFilter{
		Statuses:    append(append([]models.OrderStatus(nil), liveStatuses...), models.OrderStatusDelivered),
		TableNumber: &tableNumber,
		OrderBy:     repositories.OrderByCreatedDesc,
	})
}

func (s *KitchenService) ListByPriority(ctx context.Context, priority int) ([]*models.KitchenOrder, error) {
	if err := models.ValidatePriority(priority); err != nil {
		return nil, err
	}
	return s.kitchen.Find(ctx, repositories.KitchenOrderFilter{Priority: priority})
}

func (s *KitchenService) ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.KitchenOrder, error) {
	if end.Before(start) {
		return nil, models.NewValidationError("endDate", "end date must not be before start date")
	}
	return s.kitchen.Find(ctx, repositories.KitchenOrderFilter{
		From:    start,
		To:      end,
		OrderBy: repositories.OrderByCreatedDesc,
	})
}

func (s *KitchenService) CountByStatus(ctx context.Context, statusName string) (int, error) {
	status, err := models.ParseOrderStatus(statusName)
	if err != nil {
		return 0, err
	}
	return s.kitchen.CountByStatus(ctx, status)
}

func (s *KitchenService) UpdateStatus(ctx context.Context, id int64, statusName string) (*models.KitchenOrder, error) {
	status, err := models.ParseOrderStatus(statusName)
	if err != nil {
		return nil, err
	}
	return s.changeStatus(ctx, id, status, nil)
}

func (s *KitchenService) MarkReady(ctx context.Context, id int64) (*models.KitchenOrder, error) {
	return s.changeStatus(ctx, id, models.OrderStatusReady, nil)
}

// MarkAllItemsReady flags every line READY and moves the ticket to READY.
func (s *KitchenService) MarkAllItemsReady(ctx context.Context, id int64) (*models.KitchenOrder, error) {
	return s.changeStatus(ctx, id, models.OrderStatusReady, func(k *models.KitchenOrder) {
		k.MarkAllItemsReady()
	})
}

func (s *KitchenService) MarkDelivered(ctx context.Context, id int64) (*models.KitchenOrder, error) {
	return s.changeStatus(ctx, id, models.OrderStatusDelivered, nil)
}

func (s *KitchenService) Cancel(ctx context.Context, id int64) (*models.KitchenOrder, error) {
	return s.changeStatus(ctx, id, models.OrderStatusCancelled, nil)
}

// changeStatus validates and applies target, then writes READY and DELIVERED
// back to the order. A nil apply just sets the status.
func (s *KitchenService) changeStatus(ctx context.Context, id int64, target models.OrderStatus, apply func(*models.KitchenOrder)) (*models.KitchenOrder, error) {
	ticket, err := s.kitchen.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := ticket.Status
	// bulk item updates may skip forward steps but never move a ticket back
	forced := apply != nil && from.IsActive() && from.Rank() <= target.Rank()
	if s.strict && !forced && !from.CanTransitionTo(target) {
		return nil, &models.TransitionError{Entity: models.EntityKitchen, From: string(from), To: string(target)}
	}
	if apply != nil {
		apply(ticket)
	} else {
		ticket.SetStatus(target)
	}
	if err := s.kitchen.Save(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to update kitchen order status: %w", err)
	}
	if from != ticket.Status {
		s.events.statusChanged(ctx, models.EventTicketStatusChanged, models.EntityKitchen,
			ticket.ID, ticket.OrderID, string(from), string(ticket.Status))
	}
	if ticket.OrderID != 0 && (target == models.OrderStatusReady || target == models.OrderStatusDelivered) {
		s.sync.reconcile(ctx, ticket.OrderID, OriginKitchen)
	}
	return ticket, nil
}

func (s *KitchenService) UpdateItemStatus(ctx context.Context, id, itemID int64, statusName string) (*models.KitchenOrder, error) {
	status, err := models.ParsePreparationStatus(statusName)
	if err != nil {
		return nil, err
	}
	return s.updateItem(ctx, id, itemID, func(item *models.KitchenOrderItem) {
		item.PreparationStatus = status
	})
}

func (s *KitchenService) AddItemNotes(ctx context.Context, id, itemID int64, notes string) (*models.KitchenOrder, error) {
	return s.updateItem(ctx, id, itemID, func(item *models.KitchenOrderItem) {
		item.PreparationNotes = notes
	})
}

func (s *KitchenService) updateItem(ctx context.Context, id, itemID int64, apply func(*models.KitchenOrderItem)) (*models.KitchenOrder, error) {
	ticket, err := s.kitchen.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item, ok := ticket.Item(itemID)
	if !ok {
		return nil, models.NewNotFound(models.EntityKitchenItem, itemID)
	}
	apply(item)
	if err := s.kitchen.Save(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to update kitchen order item: %w", err)
	}
	return ticket, nil
}

func (s *KitchenService) UpdatePriority(ctx context.Context, id int64, priority int) (*models.KitchenOrder, error) {
	if err := models.ValidatePriority(priority); err != nil {
		return nil, err
	}
	return s.update(ctx, id, func(k *models.KitchenOrder) { k.Priority = priority })
}

func (s *KitchenService) AddNotes(ctx context.Context, id int64, notes string) (*models.KitchenOrder, error) {
	return s.update(ctx, id, func(k *models.KitchenOrder) { k.Notes = notes })
}

func (s *KitchenService) UpdateEstimatedTime(ctx context.Context, id int64, minutes int) (*models.KitchenOrder, error) {
	if minutes < 0 {
		return nil, models.NewValidationError("estimatedTime", "estimated time must not be negative")
	}
	return s.update(ctx, id, func(k *models.KitchenOrder) { k.EstimatedTime = minutes })
}

func (s *KitchenService) update(ctx context.Context, id int64, apply func(*models.KitchenOrder)) (*models.KitchenOrder, error) {
	ticket, err := s.kitchen.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(ticket)
	if err := s.kitchen.Save(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to update kitchen order: %w", err)
	}
	return ticket, nil
}

func (s *KitchenService) Delete(ctx context.Context, id int64) error {
	return s.kitchen.Delete(ctx, id)
}
