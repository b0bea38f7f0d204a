// Package services holds the use cases behind the HTTP API and the CLI.
// Every write goes through a repository first; events and cross-entity
// reconciliation run afterwards and never fail the write.
package services

import (
	"context"

	"github.com/chrisdamba/comanda/internal/events"
	"github.com/chrisdamba/comanda/internal/logger"
	"github.com/chrisdamba/comanda/internal/models"
	"github.com/chrisdamba/comanda/internal/repositories"
)

type Options struct {
	StrictTransitions       bool
	CreateTicketOnPlacement bool
}

func OptionsFromConfig(cfg *models.Config) Options {
	return Options{
		StrictTransitions:       cfg.Orders.StrictTransitions,
		CreateTicketOnPlacement: cfg.Kitchen.CreateOnPlacement,
	}
}

type Services struct {
	Dishes     *DishService
	Orders     *OrderService
	Kitchen    *KitchenService
	Payments   *PaymentService
	Reconciler *Reconciler
}

func New(store *repositories.Store, publisher events.Publisher, log *logger.Logger, opts Options) *Services {
	sink := eventSink{publisher: publisher, log: log}
	reconciler := NewReconciler(store, sink, log, opts.CreateTicketOnPlacement)
	return &Services{
		Dishes:     NewDishService(store.Dishes),
		Orders:     NewOrderService(store, reconciler, sink, log, opts.StrictTransitions),
		Kitchen:    NewKitchenService(store.Kitchen, reconciler, sink, log, opts.StrictTransitions),
		Payments:   NewPaymentService(store, reconciler, sink, log),
		Reconciler: reconciler,
	}
}

// eventSink publishes best-effort: a failed publish is logged and dropped.
type eventSink struct {
	publisher events.Publisher
	log       *logger.Logger
}

func (s eventSink) emit(ctx context.Context, eventType string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	event := events.NewEvent(eventType, payload)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("publish_event", "failed to publish event", err, "event_type", eventType, "event_id", event.ID)
	}
}

func (s eventSink) statusChanged(ctx context.Context, eventType, entity string, id, orderID int64, from, to string) {
	s.emit(ctx, eventType, events.StatusChange{Entity: entity, ID: id, OrderID: orderID, From: from, To: to})
}
