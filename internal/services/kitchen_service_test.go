package services

import (
	"errors"
	"testing"
	"time"

	"github.com/chrisdamba/comanda/internal/models"
)

func (f *fixture) preparingTicket(t *testing.T) (*models.Order, *models.KitchenOrder) {
	t.Helper()
	order := f.placeOrder(t)
	if _, err := f.svc.Orders.UpdateStatus(f.ctx, order.ID, "PREPARING"); err != nil {
		t.Fatalf("update status: %v", err)
	}
	return order, f.ticketFor(t, order.ID)
}

func TestKitchenService_CreateDefaults(t *testing.T) {
	f := newFixture(t, strictOptions())

	ticket, err := f.svc.Kitchen.Create(f.ctx, &models.KitchenOrder{
		CustomerName: "Balcão",
		Items: []models.KitchenOrderItem{
			{DishName: "Batata Frita", Quantity: 2, UnitPrice: dec("8.90")},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ticket.Priority != models.PriorityNormal || ticket.Status != models.OrderStatusNew {
		t.Errorf("defaults not applied: priority=%d status=%s", ticket.Priority, ticket.Status)
	}
	if ticket.Items[0].PreparationStatus != models.PreparationPending {
		t.Errorf("item status = %s", ticket.Items[0].PreparationStatus)
	}
	if !ticket.TotalAmount.Equal(dec("17.80")) {
		t.Errorf("total = %s, want 17.80", ticket.TotalAmount)
	}

	if _, err := f.svc.Kitchen.Create(f.ctx, &models.KitchenOrder{Priority: 7}); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("priority 7: expected invalid argument, got %v", err)
	}
}

func TestKitchenService_ReadyWritesBackToOrder(t *testing.T) {
	f := newFixture(t, strictOptions())
	order, ticket := f.preparingTicket(t)

	ticket, err := f.svc.Kitchen.MarkReady(f.ctx, ticket.ID)
	if err != nil {
		t.Fatalf("mark ready: %v", err)
	}
	if ticket.ReadyAt == nil {
		t.Error("readyAt should be set")
	}
	f.mustStatus(t, order.ID, models.OrderStatusReady)

	if _, err := f.svc.Kitchen.MarkDelivered(f.ctx, ticket.ID); err != nil {
		t.Fatalf("mark delivered: %v", err)
	}
	f.mustStatus(t, order.ID, models.OrderStatusDelivered)
}

func TestKitchenService_MarkAllItemsReady(t *testing.T) {
	f := newFixture(t, strictOptions())
	order, ticket := f.preparingTicket(t)

	ticket, err := f.svc.Kitchen.MarkAllItemsReady(f.ctx, ticket.ID)
	if err != nil {
		t.Fatalf("mark all items ready: %v", err)
	}
	for _, item := range ticket.Items {
		if item.PreparationStatus != models.PreparationReady {
			t.Errorf("item %d status = %s", item.ID, item.PreparationStatus)
		}
	}
	if ticket.Status != models.OrderStatusReady {
		t.Errorf("ticket status = %s", ticket.Status)
	}
	f.mustStatus(t, order.ID, models.OrderStatusReady)

	if _, err := f.svc.Kitchen.MarkAllItemsReady(f.ctx, ticket.ID); err != nil {
		t.Errorf("re-marking a READY ticket should succeed: %v", err)
	}
}

func TestKitchenService_InvalidTransition(t *testing.T) {
	f := newFixture(t, strictOptions())
	_, ticket := f.preparingTicket(t)

	_, err := f.svc.Kitchen.UpdateStatus(f.ctx, ticket.ID, "PAID")
	var te *models.TransitionError
	if !errors.As(err, &te) || te.From != "PREPARING" || te.To != "PAID" {
		t.Fatalf("expected PREPARING -> PAID transition error, got %v", err)
	}
}

func TestKitchenService_CancelDoesNotTouchOrder(t *testing.T) {
	f := newFixture(t, strictOptions())
	order, ticket := f.preparingTicket(t)

	if _, err := f.svc.Kitchen.Cancel(f.ctx, ticket.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	f.mustStatus(t, order.ID, models.OrderStatusPreparing)
}

func TestKitchenService_ItemUpdates(t *testing.T) {
	f := newFixture(t, strictOptions())
	_, ticket := f.preparingTicket(t)
	itemID := ticket.Items[0].ID

	ticket, err := f.svc.Kitchen.UpdateItemStatus(f.ctx, ticket.ID, itemID, "IN_PROGRESS")
	if err != nil || ticket.Items[0].PreparationStatus != models.PreparationInProgress {
		t.Fatalf("update item status: %v %+v", err, ticket)
	}
	ticket, err = f.svc.Kitchen.AddItemNotes(f.ctx, ticket.ID, itemID, "sem cebola")
	if err != nil || ticket.Items[0].PreparationNotes != "sem cebola" {
		t.Fatalf("add item notes: %v", err)
	}
	if _, err := f.svc.Kitchen.UpdateItemStatus(f.ctx, ticket.ID, itemID, "DONE"); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("expected invalid argument, got %v", err)
	}
	if _, err := f.svc.Kitchen.UpdateItemStatus(f.ctx, ticket.ID, 9999, "READY"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestKitchenService_TicketFields(t *testing.T) {
	f := newFixture(t, strictOptions())
	_, ticket := f.preparingTicket(t)

	tests := []struct {
		name    string
		run     func() (*models.KitchenOrder, error)
		wantErr error
	}{
		{"priority", func() (*models.KitchenOrder, error) { return f.svc.Kitchen.UpdatePriority(f.ctx, ticket.ID, models.PriorityUrgent) }, nil},
		{"priority out of range", func() (*models.KitchenOrder, error) { return f.svc.Kitchen.UpdatePriority(f.ctx, ticket.ID, 4) }, models.ErrInvalidArgument},
		{"notes", func() (*models.KitchenOrder, error) { return f.svc.Kitchen.AddNotes(f.ctx, ticket.ID, "mesa VIP") }, nil},
		{"estimated time", func() (*models.KitchenOrder, error) { return f.svc.Kitchen.UpdateEstimatedTime(f.ctx, ticket.ID, 25) }, nil},
		{"negative estimated time", func() (*models.KitchenOrder, error) { return f.svc.Kitchen.UpdateEstimatedTime(f.ctx, ticket.ID, -1) }, models.ErrInvalidArgument},
		{"missing ticket", func() (*models.KitchenOrder, error) { return f.svc.Kitchen.AddNotes(f.ctx, 9999, "x") }, models.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.run()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	got, _ := f.svc.Kitchen.Get(f.ctx, ticket.ID)
	if got.Priority != models.PriorityUrgent || got.Notes != "mesa VIP" || got.EstimatedTime != 25 {
		t.Errorf("fields not persisted: %+v", got)
	}
}

func TestKitchenService_Queries(t *testing.T) {
	f := newFixture(t, strictOptions())
	_, first := f.preparingTicket(t)
	_, second := f.preparingTicket(t)
	if _, err := f.svc.Kitchen.UpdatePriority(f.ctx, second.ID, models.PriorityHigh); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Kitchen.MarkReady(f.ctx, first.ID); err != nil {
		t.Fatal(err)
	}

	active, _ := f.svc.Kitchen.ListActive(f.ctx)
	if len(active) != 2 || active[0].ID != second.ID {
		t.Errorf("active should list the high priority ticket first: %v", active)
	}
	preparing, _ := f.svc.Kitchen.ListPreparing(f.ctx)
	if len(preparing) != 1 || preparing[0].ID != second.ID {
		t.Errorf("preparing = %v", preparing)
	}
	ready, _ := f.svc.Kitchen.ListReady(f.ctx)
	if len(ready) != 1 || ready[0].ID != first.ID {
		t.Errorf("ready = %v", ready)
	}
	newOnes, _ := f.svc.Kitchen.ListNew(f.ctx)
	if len(newOnes) != 0 {
		t.Errorf("new = %v", newOnes)
	}
	byTable, _ := f.svc.Kitchen.ListByTable(f.ctx, 4)
	if len(byTable) != 2 {
		t.Errorf("by table = %d", len(byTable))
	}
	byPriority, err := f.svc.Kitchen.ListByPriority(f.ctx, models.PriorityHigh)
	if err != nil || len(byPriority) != 1 {
		t.Errorf("by priority = %v, err = %v", byPriority, err)
	}
	count, err := f.svc.Kitchen.CountByStatus(f.ctx, "PREPARING")
	if err != nil || count != 1 {
		t.Errorf("count = %d, err = %v", count, err)
	}

	now := time.Now()
	inRange, err := f.svc.Kitchen.ListByDateRange(f.ctx, now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil || len(inRange) != 2 {
		t.Errorf("date range = %v, err = %v", inRange, err)
	}
	if _, err := f.svc.Kitchen.ListByDateRange(f.ctx, now, now.Add(-time.Hour)); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("reversed range: expected invalid argument, got %v", err)
	}
}

func TestKitchenService_Delete(t *testing.T) {
	f := newFixture(t, strictOptions())
	_, ticket := f.preparingTicket(t)

	if err := f.svc.Kitchen.Delete(f.ctx, ticket.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.Kitchen.Get(f.ctx, ticket.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestKitchenService_MarkAllItemsReadySkipsForward(t *testing.T) {
	tests := []struct {
		name    string
		advance []string
		wantErr bool
	}{
		{name: "from NEW"},
		{name: "from PREPARING", advance: []string{"PREPARING"}},
		{name: "from DELIVERED", advance: []string{"PREPARING", "READY", "DELIVERED"}, wantErr: true},
		{name: "from CANCELLED", advance: []string{"CANCELLED"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{StrictTransitions: true, CreateTicketOnPlacement: true})
			order := f.placeOrder(t)
			ticket := f.ticketFor(t, order.ID)
			for _, status := range tt.advance {
				if _, err := f.svc.Kitchen.UpdateStatus(f.ctx, ticket.ID, status); err != nil {
					t.Fatalf("advance to %s: %v", status, err)
				}
			}

			got, err := f.svc.Kitchen.MarkAllItemsReady(f.ctx, ticket.ID)
			if tt.wantErr {
				if !errors.Is(err, models.ErrInvalidTransition) {
					t.Fatalf("expected invalid transition, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("mark all items ready: %v", err)
			}
			if got.Status != models.OrderStatusReady || got.ReadyAt == nil {
				t.Errorf("ticket status = %s readyAt = %v", got.Status, got.ReadyAt)
			}
			for _, item := range got.Items {
				if item.PreparationStatus != models.PreparationReady {
					t.Errorf("item %d status = %s", item.ID, item.PreparationStatus)
				}
			}
		})
	}
}
