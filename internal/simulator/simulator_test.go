package simulator

import (
	"context"
	"testing"
	"time"

	"github.com/chrisdamba/comanda/internal/logger"
	"github.com/chrisdamba/comanda/internal/models"
	"github.com/chrisdamba/comanda/internal/repositories/memory"
	"github.com/chrisdamba/comanda/internal/services"
)

func TestStepQueueOrdersByTimeThenInsertion(t *testing.T) {
	q := NewStepQueue()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	q.Enqueue(&Step{Time: base.Add(2 * time.Minute), Type: StepPayOrder, OrderID: 1})
	q.Enqueue(&Step{Time: base, Type: StepPlaceOrder, OrderID: 2})
	q.Enqueue(&Step{Time: base, Type: StepPlaceOrder, OrderID: 3})
	q.Enqueue(&Step{Time: base.Add(time.Minute), Type: StepOrderReady, OrderID: 4})

	if q.Peek().OrderID != 2 {
		t.Fatalf("peek = %d, want 2", q.Peek().OrderID)
	}
	var got []int64
	for step := q.Dequeue(); step != nil; step = q.Dequeue() {
		got = append(got, step.OrderID)
	}
	want := []int64{2, 3, 4, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if q.Len() != 0 {
		t.Errorf("queue not drained")
	}
}

func newServices(t *testing.T) *services.Services {
	t.Helper()
	svc := services.New(memory.NewStore(), nil, logger.Nop(), services.Options{StrictTransitions: true})
	if _, err := svc.Dishes.SeedDefaults(context.Background()); err != nil {
		t.Fatal(err)
	}
	return svc
}

func TestSimulatorRunsOrdersToCompletion(t *testing.T) {
	ctx := context.Background()
	svc := newServices(t)
	start := time.Date(2024, 5, 1, 11, 30, 0, 0, time.UTC)

	sim := NewSimulator(svc, Config{Orders: 25, StartTime: start, CancelRate: 0.2, Seed: 7}, logger.Nop()).
		WithProgress(nil)
	report, err := sim.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Placed != 25 || report.Failed != 0 || report.Paid+report.Cancelled != 25 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Duration <= 0 {
		t.Errorf("simulated duration = %v", report.Duration)
	}

	orders, _ := svc.Orders.List(ctx)
	paid := 0
	for _, o := range orders {
		switch o.Status {
		case models.OrderStatusPaid:
			paid++
		case models.OrderStatusCancelled:
		default:
			t.Errorf("order %d left in %s", o.ID, o.Status)
		}
	}
	if paid != report.Paid {
		t.Errorf("paid orders = %d, report says %d", paid, report.Paid)
	}

	now := time.Now()
	revenue, err := svc.Payments.Revenue(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if !revenue.TotalRevenue.Equal(report.Revenue) || revenue.CompletedPayments != report.Paid {
		t.Errorf("revenue %s/%d does not match report %s/%d",
			revenue.TotalRevenue, revenue.CompletedPayments, report.Revenue, report.Paid)
	}

	tickets, _ := svc.Kitchen.ListActive(ctx)
	if len(tickets) != 0 {
		t.Errorf("%d kitchen tickets still active", len(tickets))
	}
}

func TestSimulatorNeedsDishesAndOrders(t *testing.T) {
	ctx := context.Background()
	empty := services.New(memory.NewStore(), nil, logger.Nop(), services.Options{})

	if _, err := NewSimulator(empty, Config{Orders: 3}, logger.Nop()).WithProgress(nil).Run(ctx); err == nil {
		t.Error("expected an error with an empty catalog")
	}
	if _, err := NewSimulator(newServices(t), Config{}, logger.Nop()).WithProgress(nil).Run(ctx); err == nil {
		t.Error("expected an error for zero orders")
	}
}

func TestPrepTimeStaysWithinVariability(t *testing.T) {
	sim := NewSimulator(nil, Config{Seed: 1}, logger.Nop())
	for i := 0; i < 100; i++ {
		d := prepTime(sim.rng, 20)
		if d < 16*time.Minute || d > 24*time.Minute {
			t.Fatalf("prep time %v outside 20m ±20%%", d)
		}
	}
	if !isPeakHour(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)) || isPeakHour(time.Date(2024, 1, 1, 16, 0, 0, 0, time.UTC)) {
		t.Error("peak hour detection")
	}
}
