package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/chrisdamba/comanda/internal/logger"
	"github.com/chrisdamba/comanda/internal/models"
	"github.com/chrisdamba/comanda/internal/repositories"
)

// Origin names the side that changed before a reconcile.
type Origin string

const (
	OriginOrder   Origin = "order"
	OriginKitchen Origin = "kitchen"
	OriginPayment Origin = "payment"
)

// Reconciler brings an order and its kitchen ticket into agreement after
// either side, or a payment, changed.
type Reconciler struct {
	orders            repositories.OrderRepository
	kitchen           repositories.KitchenOrderRepository
	payments          repositories.PaymentRepository
	events            eventSink
	log               *logger.Logger
	createOnPlacement bool
}

func NewReconciler(store *repositories.Store, sink eventSink, log *logger.Logger, createOnPlacement bool) *Reconciler {
	return &Reconciler{
		orders:            store.Orders,
		kitchen:           store.Kitchen,
		payments:          store.Payments,
		events:            sink,
		log:               log,
		createOnPlacement: createOnPlacement,
	}
}

// Reconcile loads the order and its ticket and applies the rules for origin.
func (r *Reconciler) Reconcile(ctx context.Context, orderID int64, origin Origin) error {
	order, err := r.orders.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to load order %d: %w", orderID, err)
	}
	switch origin {
	case OriginOrder:
		return r.fromOrder(ctx, order)
	case OriginKitchen:
		return r.fromKitchen(ctx, order)
	case OriginPayment:
		return r.fromPayment(ctx, order)
	}
	return fmt.Errorf("unknown reconcile origin: %s", origin)
}

// ReconcileDeleted cancels the ticket of an order that is about to be removed.
func (r *Reconciler) ReconcileDeleted(ctx context.Context, order *models.Order) error {
	cancelled := *order
	cancelled.Status = models.OrderStatusCancelled
	return r.fromOrder(ctx, &cancelled)
}

// reconcile runs Reconcile and logs a failure instead of returning it.
func (r *Reconciler) reconcile(ctx context.Context, orderID int64, origin Origin) {
	if err := r.Reconcile(ctx, orderID, origin); err != nil {
		logger.FromContext(ctx, r.log).Warn("reconcile", "failed to reconcile order", err,
			"order_id", orderID, "origin", string(origin))
	}
}

func (r *Reconciler) ticketFor(ctx context.Context, orderID int64) (*models.KitchenOrder, error) {
	ticket, err := r.kitchen.GetByOrderID(ctx, orderID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load kitchen order for order %d: %w", orderID, err)
	}
	return ticket, nil
}

func (r *Reconciler) fromOrder(ctx context.Context, order *models.Order) error {
	ticket, err := r.ticketFor(ctx, order.ID)
	if err != nil {
		return err
	}

	switch order.Status {
	case models.OrderStatusPreparing:
		if ticket == nil {
			return r.createTicket(ctx, order, models.OrderStatusPreparing)
		}
		from := ticket.Status
		ticket.SyncFromOrder(order)
		ticket.SetStatus(models.OrderStatusPreparing)
		return r.saveTicket(ctx, ticket, from)

	case models.OrderStatusNew:
		if ticket == nil {
			if r.createOnPlacement {
				return r.createTicket(ctx, order, models.OrderStatusNew)
			}
			return nil
		}
		if ticket.Status.IsTerminal() {
			return nil
		}
		ticket.SyncFromOrder(order)
		return r.saveTicket(ctx, ticket, ticket.Status)

	case models.OrderStatusReady, models.OrderStatusDelivered, models.OrderStatusCancelled:
		if ticket == nil || ticket.Status.IsTerminal() || ticket.Status == order.Status {
			return nil
		}
		from := ticket.Status
		ticket.SetStatus(order.Status)
		return r.saveTicket(ctx, ticket, from)
	}
	return nil
}

func (r *Reconciler) createTicket(ctx context.Context, order *models.Order, status models.OrderStatus) error {
	ticket := models.NewKitchenOrder(order, status)
	if err := r.kitchen.Save(ctx, ticket); err != nil {
		return fmt.Errorf("failed to create kitchen order for order %d: %w", order.ID, err)
	}
	r.events.emit(ctx, models.EventTicketCreated, ticket)
	return nil
}

func (r *Reconciler) saveTicket(ctx context.Context, ticket *models.KitchenOrder, from models.OrderStatus) error {
	if err := r.kitchen.Save(ctx, ticket); err != nil {
		return fmt.Errorf("failed to update kitchen order %d: %w", ticket.ID, err)
	}
	if from != ticket.Status {
		r.events.statusChanged(ctx, models.EventTicketStatusChanged, models.EntityKitchen,
			ticket.ID, ticket.OrderID, string(from), string(ticket.Status))
	}
	return nil
}

// fromKitchen only ever moves the order forward.
func (r *Reconciler) fromKitchen(ctx context.Context, order *models.Order) error {
	ticket, err := r.ticketFor(ctx, order.ID)
	if err != nil || ticket == nil {
		return err
	}
	switch ticket.Status {
	case models.OrderStatusReady, models.OrderStatusDelivered:
	default:
		return nil
	}
	if !order.Status.IsActive() || order.Status.Rank() >= ticket.Status.Rank() {
		return nil
	}
	return r.advanceOrder(ctx, order, ticket.Status)
}

func (r *Reconciler) fromPayment(ctx context.Context, order *models.Order) error {
	if order.Status != models.OrderStatusDelivered {
		return nil
	}
	paid, err := r.payments.HasCompleted(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("failed to check payments for order %d: %w", order.ID, err)
	}
	if !paid {
		return nil
	}
	return r.advanceOrder(ctx, order, models.OrderStatusPaid)
}

func (r *Reconciler) advanceOrder(ctx context.Context, order *models.Order, target models.OrderStatus) error {
	from := order.Status
	order.Status = target
	if err := r.orders.Save(ctx, order); err != nil {
		return fmt.Errorf("failed to update order %d: %w", order.ID, err)
	}
	r.events.statusChanged(ctx, models.EventOrderStatusChanged, models.EntityOrder,
		order.ID, order.ID, string(from), string(target))
	return nil
}
