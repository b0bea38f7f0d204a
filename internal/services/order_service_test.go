package services

import (
	"errors"
	"testing"

	"github.com/chrisdamba/comanda/internal/models"
)

func TestOrderService_CreateFillsFromCatalogAndTotals(t *testing.T) {
	f := newFixture(t, strictOptions())
	order := f.placeOrder(t)

	if order.Status != models.OrderStatusNew {
		t.Errorf("status = %s, want NEW", order.Status)
	}
	if order.Items[0].DishName != "Pizza Margherita" || !order.Items[0].UnitPrice.Equal(dec("25.90")) {
		t.Errorf("line not filled from catalog: %+v", order.Items[0])
	}
	if !order.TotalAmount.Equal(dec("56.30")) {
		t.Errorf("total = %s, want 56.30", order.TotalAmount)
	}
	if _, err := f.store.Kitchen.GetByOrderID(f.ctx, order.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("no ticket expected before PREPARING, got err=%v", err)
	}
}

func TestOrderService_CreateOnPlacementOpensTicket(t *testing.T) {
	f := newFixture(t, Options{StrictTransitions: true, CreateTicketOnPlacement: true})
	order := f.placeOrder(t)

	ticket := f.ticketFor(t, order.ID)
	if ticket.Status != models.OrderStatusNew {
		t.Errorf("ticket status = %s, want NEW", ticket.Status)
	}
}

func TestOrderService_CreateRejectsInvalidInput(t *testing.T) {
	f := newFixture(t, strictOptions())

	tests := []struct {
		name  string
		order *models.Order
	}{
		{"negative fee", &models.Order{DeliveryFee: dec("-1")}},
		{"zero quantity", &models.Order{Items: []models.OrderItem{{DishID: f.pizza.ID, Quantity: 0}}}},
		{"unknown dish without name", &models.Order{Items: []models.OrderItem{{DishID: 999, Quantity: 1}}}},
		{"bad status", &models.Order{Status: "preparing"}},
		{"placed past NEW", &models.Order{Status: models.OrderStatusReady}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Orders.Create(f.ctx, tt.order)
			if !errors.Is(err, models.ErrInvalidArgument) {
				t.Fatalf("expected invalid argument, got %v", err)
			}
		})
	}
}

func TestOrderService_UpdateStatusTransitions(t *testing.T) {
	f := newFixture(t, strictOptions())
	order := f.placeOrder(t)

	if _, err := f.svc.Orders.UpdateStatus(f.ctx, order.ID, "DELIVERED"); !errors.Is(err, models.ErrInvalidTransition) {
		t.Fatalf("NEW -> DELIVERED: expected invalid transition, got %v", err)
	}
	if _, err := f.svc.Orders.UpdateStatus(f.ctx, order.ID, "bogus"); !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if _, err := f.svc.Orders.UpdateStatus(f.ctx, 404, "PREPARING"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	for _, s := range []string{"PREPARING", "READY", "DELIVERED"} {
		if _, err := f.svc.Orders.UpdateStatus(f.ctx, order.ID, s); err != nil {
			t.Fatalf("-> %s: %v", s, err)
		}
	}
	f.mustStatus(t, order.ID, models.OrderStatusDelivered)
}

func TestOrderService_LenientTransitions(t *testing.T) {
	f := newFixture(t, Options{StrictTransitions: false})
	order := f.placeOrder(t)

	if _, err := f.svc.Orders.UpdateStatus(f.ctx, order.ID, "DELIVERED"); err != nil {
		t.Fatalf("lenient mode should accept any parsed status: %v", err)
	}
}

func TestOrderService_PreparingCreatesTicket(t *testing.T) {
	f := newFixture(t, strictOptions())
	order := f.placeOrder(t)

	if _, err := f.svc.Orders.UpdateStatus(f.ctx, order.ID, "PREPARING"); err != nil {
		t.Fatalf("update status: %v", err)
	}
	ticket := f.ticketFor(t, order.ID)
	if ticket.Status != models.OrderStatusPreparing {
		t.Errorf("ticket status = %s, want PREPARING", ticket.Status)
	}
	if ticket.StartedAt == nil {
		t.Error("startedAt should be set")
	}
	if len(ticket.Items) != 2 || ticket.Items[0].PreparationStatus != models.PreparationPending {
		t.Errorf("unexpected ticket items: %+v", ticket.Items)
	}
	if !ticket.TotalAmount.Equal(dec("56.30")) {
		t.Errorf("ticket total = %s", ticket.TotalAmount)
	}
}

func TestOrderService_ItemChangesResyncTicket(t *testing.T) {
	f := newFixture(t, strictOptions())
	order := f.placeOrder(t)
	if _, err := f.svc.Orders.UpdateStatus(f.ctx, order.ID, "PREPARING"); err != nil {
		t.Fatal(err)
	}
	ticket := f.ticketFor(t, order.ID)
	if _, err := f.svc.Kitchen.UpdateItemStatus(f.ctx, ticket.ID, ticket.Items[0].ID, "IN_PROGRESS"); err != nil {
		t.Fatal(err)
	}

	updated, err := f.svc.Orders.UpdateItemQuantity(f.ctx, order.ID, order.Items[1].ID, 3)
	if err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	if !updated.TotalAmount.Equal(dec("65.30")) {
		t.Errorf("order total = %s, want 65.30", updated.TotalAmount)
	}

	ticket = f.ticketFor(t, order.ID)
	if ticket.Items[0].PreparationStatus != models.PreparationInProgress {
		t.Errorf("unchanged line lost its progress: %s", ticket.Items[0].PreparationStatus)
	}
	if ticket.Items[1].Quantity != 3 || ticket.Items[1].PreparationStatus != models.PreparationPending {
		t.Errorf("changed line not resynced: %+v", ticket.Items[1])
	}
	if !ticket.TotalAmount.Equal(dec("65.30")) {
		t.Errorf("ticket total = %s, want 65.30", ticket.TotalAmount)
	}
}

func TestOrderService_AddAndRemoveItems(t *testing.T) {
	f := newFixture(t, strictOptions())
	order := f.placeOrder(t)

	order, err := f.svc.Orders.AddItem(f.ctx, order.ID, models.OrderItem{DishID: f.soda.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if len(order.Items) != 2 || order.Items[1].Quantity != 3 {
		t.Fatalf("expected merge into the soda line, got %+v", order.Items)
	}

	if _, err := f.svc.Orders.RemoveItem(f.ctx, order.ID, 9999); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	order, err = f.svc.Orders.RemoveItem(f.ctx, order.ID, order.Items[0].ID)
	if err != nil {
		t.Fatalf("remove item: %v", err)
	}
	if !order.TotalAmount.Equal(dec("13.50")) {
		t.Errorf("total = %s, want 13.50", order.TotalAmount)
	}

	if _, err := f.svc.Orders.UpdateItemQuantity(f.ctx, order.ID, order.Items[0].ID, 0); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("expected invalid argument for quantity 0, got %v", err)
	}
}

func TestOrderService_Update(t *testing.T) {
	f := newFixture(t, strictOptions())
	order := f.placeOrder(t)

	updated, err := f.svc.Orders.Update(f.ctx, order.ID, &models.Order{
		CustomerName:    "Ana Souza",
		TableNumber:     0,
		DeliveryAddress: "Rua A, 10",
		DeliveryFee:     dec("5.00"),
		Status:          models.OrderStatusPreparing,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.IsDelivery() || updated.CustomerName != "Ana Souza" {
		t.Errorf("fields not copied: %+v", updated)
	}
	if len(updated.Items) != 2 {
		t.Errorf("nil items must leave lines untouched, got %d", len(updated.Items))
	}
	if !updated.TotalAmount.Equal(dec("61.30")) {
		t.Errorf("total = %s, want 61.30", updated.TotalAmount)
	}
	f.ticketFor(t, order.ID)

	_, err = f.svc.Orders.Update(f.ctx, order.ID, &models.Order{Status: models.OrderStatusPaid})
	if !errors.Is(err, models.ErrInvalidTransition) {
		t.Errorf("PREPARING -> PAID: expected invalid transition, got %v", err)
	}
}

func TestOrderService_DeleteCancelsTicket(t *testing.T) {
	f := newFixture(t, strictOptions())
	order := f.placeOrder(t)
	if _, err := f.svc.Orders.UpdateStatus(f.ctx, order.ID, "PREPARING"); err != nil {
		t.Fatal(err)
	}

	if err := f.svc.Orders.Delete(f.ctx, order.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.Orders.Get(f.ctx, order.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("order should be gone, got %v", err)
	}
	if ticket := f.ticketFor(t, order.ID); ticket.Status != models.OrderStatusCancelled {
		t.Errorf("ticket status = %s, want CANCELLED", ticket.Status)
	}
	if err := f.svc.Orders.Delete(f.ctx, order.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second delete: expected not found, got %v", err)
	}
}

func TestOrderService_Queries(t *testing.T) {
	f := newFixture(t, strictOptions())
	first := f.placeOrder(t)
	second := f.placeOrder(t)
	if _, err := f.svc.Orders.UpdateStatus(f.ctx, second.ID, "CANCELLED"); err != nil {
		t.Fatal(err)
	}

	active, err := f.svc.Orders.ListActive(f.ctx)
	if err != nil || len(active) != 1 || active[0].ID != first.ID {
		t.Fatalf("active = %v, err = %v", active, err)
	}
	byTable, _ := f.svc.Orders.ListByTable(f.ctx, 4)
	if len(byTable) != 2 {
		t.Errorf("by table = %d, want 2", len(byTable))
	}
	cancelled, err := f.svc.Orders.ListByStatus(f.ctx, "CANCELLED")
	if err != nil || len(cancelled) != 1 {
		t.Errorf("by status = %v, err = %v", cancelled, err)
	}
	if _, err := f.svc.Orders.ListByStatus(f.ctx, "cancelled"); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("lower-case status must be rejected, got %v", err)
	}
}

func TestOrderService_CreateInitialStatus(t *testing.T) {
	tests := []struct {
		name   string
		opts   Options
		status models.OrderStatus
		want   models.OrderStatus
	}{
		{"strict defaults to NEW", strictOptions(), "", models.OrderStatusNew},
		{"strict accepts NEW", strictOptions(), models.OrderStatusNew, models.OrderStatusNew},
		{"lenient accepts READY", Options{}, models.OrderStatusReady, models.OrderStatusReady},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.opts)
			order, err := f.svc.Orders.Create(f.ctx, &models.Order{
				CustomerName: "Ana",
				Status:       tt.status,
				Items:        []models.OrderItem{{DishID: f.soda.ID, Quantity: 1}},
			})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if order.Status != tt.want {
				t.Errorf("status = %s, want %s", order.Status, tt.want)
			}
		})
	}
}

func TestOrderService_RepeatedDishLinesKeepDistinctTicketItems(t *testing.T) {
	f := newFixture(t, strictOptions())
	order, err := f.svc.Orders.Create(f.ctx, &models.Order{
		CustomerName: "Ana",
		TableNumber:  2,
		Items: []models.OrderItem{
			{DishID: f.pizza.ID, Quantity: 1},
			{DishID: f.pizza.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := f.svc.Orders.UpdateStatus(f.ctx, order.ID, "PREPARING"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Orders.AddItem(f.ctx, order.ID, models.OrderItem{DishID: f.soda.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	ticket := f.ticketFor(t, order.ID)
	if len(ticket.Items) != 3 {
		t.Fatalf("ticket items = %d, want 3", len(ticket.Items))
	}
	seen := make(map[int64]bool)
	for _, item := range ticket.Items {
		if item.ID == 0 || seen[item.ID] {
			t.Fatalf("ticket item ids not unique: %+v", ticket.Items)
		}
		seen[item.ID] = true
	}
}
