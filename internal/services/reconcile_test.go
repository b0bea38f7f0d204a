package services

import (
	"errors"
	"testing"

	"github.com/chrisdamba/comanda/internal/models"
)

func TestReconcile_OrderStatusMirroredOntoTicket(t *testing.T) {
	tests := []struct {
		target string
		want   models.OrderStatus
	}{
		{"READY", models.OrderStatusReady},
		{"CANCELLED", models.OrderStatusCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			f := newFixture(t, strictOptions())
			order := f.placeOrder(t)
			if _, err := f.svc.Orders.UpdateStatus(f.ctx, order.ID, "PREPARING"); err != nil {
				t.Fatal(err)
			}
			if _, err := f.svc.Orders.UpdateStatus(f.ctx, order.ID, tt.target); err != nil {
				t.Fatal(err)
			}
			if got := f.ticketFor(t, order.ID).Status; got != tt.want {
				t.Errorf("ticket status = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestReconcile_TerminalTicketIsLeftAlone(t *testing.T) {
	f := newFixture(t, strictOptions())
	order, ticket := f.preparingTicket(t)
	if _, err := f.svc.Kitchen.Cancel(f.ctx, ticket.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Orders.UpdateStatus(f.ctx, order.ID, "READY"); err != nil {
		t.Fatal(err)
	}
	if got := f.ticketFor(t, order.ID).Status; got != models.OrderStatusCancelled {
		t.Errorf("cancelled ticket changed to %s", got)
	}
}

func TestReconcile_KitchenNeverMovesOrderBackwards(t *testing.T) {
	f := newFixture(t, Options{StrictTransitions: false})
	order, ticket := f.preparingTicket(t)

	// the order runs ahead of the kitchen
	if _, err := f.svc.Orders.UpdateStatus(f.ctx, order.ID, "DELIVERED"); err != nil {
		t.Fatal(err)
	}
	ticket.Status = models.OrderStatusReady
	if err := f.store.Kitchen.Save(f.ctx, ticket); err != nil {
		t.Fatal(err)
	}

	if err := f.svc.Reconciler.Reconcile(f.ctx, order.ID, OriginKitchen); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	f.mustStatus(t, order.ID, models.OrderStatusDelivered)
}

func TestReconcile_PreparingAgainResyncsExistingTicket(t *testing.T) {
	f := newFixture(t, Options{StrictTransitions: false})
	order, ticket := f.preparingTicket(t)
	startedAt := *ticket.StartedAt

	if _, err := f.svc.Orders.UpdateStatus(f.ctx, order.ID, "NEW"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Orders.UpdateStatus(f.ctx, order.ID, "PREPARING"); err != nil {
		t.Fatal(err)
	}

	tickets, _ := f.svc.Kitchen.List(f.ctx)
	if len(tickets) != 1 {
		t.Fatalf("expected the ticket to be reused, got %d tickets", len(tickets))
	}
	if !tickets[0].StartedAt.Equal(startedAt) {
		t.Errorf("startedAt overwritten")
	}
}

func TestReconcile_Errors(t *testing.T) {
	f := newFixture(t, strictOptions())
	order := f.placeOrder(t)

	if err := f.svc.Reconciler.Reconcile(f.ctx, 9999, OriginOrder); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("missing order: expected not found, got %v", err)
	}
	if err := f.svc.Reconciler.Reconcile(f.ctx, order.ID, Origin("waiter")); err == nil {
		t.Error("unknown origin should fail")
	}
}

func TestReconcile_PublishesStatusEvents(t *testing.T) {
	f := newFixture(t, strictOptions())
	_, ticket := f.preparingTicket(t)
	if _, err := f.svc.Kitchen.MarkReady(f.ctx, ticket.ID); err != nil {
		t.Fatal(err)
	}

	counts := map[string]int{}
	for _, typ := range f.publisher.types() {
		counts[typ]++
	}
	if counts[models.EventTicketCreated] != 1 {
		t.Errorf("ticket created events = %d", counts[models.EventTicketCreated])
	}
	// placement, PREPARING, then READY written back from the kitchen
	if counts[models.EventOrderStatusChanged] != 3 {
		t.Errorf("order status events = %d, want 3", counts[models.EventOrderStatusChanged])
	}
	if counts[models.EventTicketStatusChanged] != 1 {
		t.Errorf("ticket status events = %d, want 1", counts[models.EventTicketStatusChanged])
	}
}
