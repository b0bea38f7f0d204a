package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/chrisdamba/comanda/internal/factories"
	"github.com/chrisdamba/comanda/internal/logger"
	"github.com/chrisdamba/comanda/internal/models"
	"github.com/chrisdamba/comanda/internal/services"
	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
)

type Config struct {
	Orders     int
	StartTime  time.Time
	MeanGap    time.Duration // mean time between placements
	CancelRate float64
	Seed       int64
}

func (c *Config) setDefaults() {
	if c.StartTime.IsZero() {
		c.StartTime = time.Now()
	}
	if c.MeanGap <= 0 {
		c.MeanGap = 3 * time.Minute
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
}

// Report summarises a run. Every placed order ends up paid, cancelled or failed.
type Report struct {
	Placed    int
	Paid      int
	Cancelled int
	Failed    int
	Revenue   decimal.Decimal
	Steps     int
	Duration  time.Duration // simulated
}

// Simulator drives fake orders through placement, the kitchen, delivery and
// payment using the public services. Steps are ordered on a simulated clock so
// orders interleave the way they would during a real shift.
type Simulator struct {
	svc      *services.Services
	cfg      Config
	queue    *StepQueue
	rng      *rand.Rand
	clock    time.Time
	dishes   []*models.Dish
	cashiers []string
	progress io.Writer
	bar      *progressbar.ProgressBar
	report   Report
	log      *logger.Logger
}

func NewSimulator(svc *services.Services, cfg Config, log *logger.Logger) *Simulator {
	cfg.setDefaults()
	return &Simulator{
		svc:      svc,
		cfg:      cfg,
		queue:    NewStepQueue(),
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		clock:    cfg.StartTime,
		cashiers: []string{"caixa1", "caixa2", "garcom"},
		progress: os.Stderr,
		report:   Report{Revenue: decimal.Zero},
		log:      log,
	}
}

// WithProgress redirects the progress bar. A nil writer hides it.
func (s *Simulator) WithProgress(w io.Writer) *Simulator {
	if w == nil {
		w = io.Discard
	}
	s.progress = w
	return s
}

func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	if s.cfg.Orders <= 0 {
		return nil, models.NewValidationError("orders", "number of orders must be positive")
	}
	dishes, err := s.svc.Dishes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dishes: %w", err)
	}
	for _, d := range dishes {
		if d.Available {
			s.dishes = append(s.dishes, d)
		}
	}
	if len(s.dishes) == 0 {
		return nil, errors.New("no available dishes to order, seed the catalog first")
	}

	at := s.clock
	for i := 0; i < s.cfg.Orders; i++ {
		s.queue.Enqueue(&Step{Time: at, Type: StepPlaceOrder})
		at = at.Add(nextArrival(s.rng, at, s.cfg.MeanGap))
	}

	s.bar = progressbar.NewOptions(s.cfg.Orders,
		progressbar.OptionSetWriter(s.progress),
		progressbar.OptionSetDescription("simulating orders"),
		progressbar.OptionShowCount(),
	)
	s.log.Info("simulate", "simulation started",
		"orders", s.cfg.Orders,
		"start", s.cfg.StartTime.Format(time.RFC3339),
		"seed", s.cfg.Seed,
	)

	for {
		if err := ctx.Err(); err != nil {
			return &s.report, err
		}
		step := s.queue.Dequeue()
		if step == nil {
			break
		}
		s.clock = step.Time
		s.report.Steps++
		if err := s.processStep(ctx, step); err != nil {
			s.log.Warn("simulate", "step failed", err, "step", step.Type, "order_id", step.OrderID)
			s.finish(&s.report.Failed)
		}
	}
	s.bar.Finish()
	s.report.Duration = s.clock.Sub(s.cfg.StartTime)

	s.log.Info("simulate", "simulation completed",
		"placed", s.report.Placed,
		"paid", s.report.Paid,
		"cancelled", s.report.Cancelled,
		"failed", s.report.Failed,
		"revenue", s.report.Revenue.StringFixed(2),
	)
	return &s.report, nil
}

func (s *Simulator) processStep(ctx context.Context, step *Step) error {
	switch step.Type {
	case StepPlaceOrder:
		return s.handlePlaceOrder(ctx)
	case StepPrepareOrder:
		return s.handlePrepareOrder(ctx, step.OrderID)
	case StepOrderReady:
		return s.handleOrderReady(ctx, step.OrderID)
	case StepDeliverOrder:
		return s.handleDeliverOrder(ctx, step.OrderID)
	case StepPayOrder:
		return s.handlePayOrder(ctx, step.OrderID)
	case StepCancelOrder:
		return s.handleCancelOrder(ctx, step.OrderID)
	}
	return fmt.Errorf("unknown step %q", step.Type)
}

func (s *Simulator) schedule(after time.Duration, stepType string, orderID int64) {
	s.queue.Enqueue(&Step{Time: s.clock.Add(after), Type: stepType, OrderID: orderID})
}

func (s *Simulator) finish(counter *int) {
	*counter++
	s.bar.Add(1)
}

func (s *Simulator) handlePlaceOrder(ctx context.Context) error {
	order, err := s.svc.Orders.Create(ctx, factories.NewOrder(s.dishes))
	if err != nil {
		return err
	}
	s.report.Placed++

	if s.rng.Float64() < s.cfg.CancelRate {
		s.schedule(normalMinutes(s.rng, 4, 2, 1, 10), StepCancelOrder, order.ID)
		return nil
	}
	s.schedule(normalMinutes(s.rng, 3, 1, 1, 8), StepPrepareOrder, order.ID)
	return nil
}

func (s *Simulator) handlePrepareOrder(ctx context.Context, orderID int64) error {
	if _, err := s.svc.Orders.UpdateStatus(ctx, orderID, string(models.OrderStatusPreparing)); err != nil {
		return err
	}
	ticket, err := s.svc.Kitchen.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	s.schedule(prepTime(s.rng, ticket.EstimatedTime), StepOrderReady, orderID)
	return nil
}

func (s *Simulator) handleOrderReady(ctx context.Context, orderID int64) error {
	ticket, err := s.svc.Kitchen.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if _, err := s.svc.Kitchen.MarkReady(ctx, ticket.ID); err != nil {
		return err
	}
	order, err := s.svc.Orders.Get(ctx, orderID)
	if err != nil {
		return err
	}
	// delivery orders spend longer on the road than table orders in the hall
	pickup := normalMinutes(s.rng, 3, 1, 1, 8)
	if order.IsDelivery() {
		pickup = normalMinutes(s.rng, 25, 8, 10, 60)
	}
	s.schedule(pickup, StepDeliverOrder, orderID)
	return nil
}

func (s *Simulator) handleDeliverOrder(ctx context.Context, orderID int64) error {
	ticket, err := s.svc.Kitchen.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if _, err := s.svc.Kitchen.MarkDelivered(ctx, ticket.ID); err != nil {
		return err
	}
	s.schedule(normalMinutes(s.rng, 30, 12, 5, 90), StepPayOrder, orderID)
	return nil
}

func (s *Simulator) handlePayOrder(ctx context.Context, orderID int64) error {
	order, err := s.svc.Orders.Get(ctx, orderID)
	if err != nil {
		return err
	}
	method := factories.RandomPaymentMethod()
	payment, err := s.svc.Payments.Create(ctx, services.CreatePaymentRequest{
		OrderID:       orderID,
		Amount:        order.TotalAmount,
		PaymentMethod: string(method),
	})
	if err != nil {
		return err
	}

	cashier := s.cashiers[s.rng.Intn(len(s.cashiers))]
	switch method {
	case models.PaymentMethodCash:
		// customers hand over the next multiple of ten
		received := order.TotalAmount.Div(decimal.NewFromInt(10)).Ceil().Mul(decimal.NewFromInt(10))
		_, err = s.svc.Payments.ProcessCash(ctx, payment.ID, received, cashier)
	case models.PaymentMethodPix:
		_, err = s.svc.Payments.ProcessPix(ctx, payment.ID, "", cashier)
	default:
		_, err = s.svc.Payments.ProcessCard(ctx, payment.ID, "", factories.CardLastFour(), cashier)
	}
	if err != nil {
		return err
	}

	s.report.Revenue = s.report.Revenue.Add(order.TotalAmount)
	s.finish(&s.report.Paid)
	return nil
}

func (s *Simulator) handleCancelOrder(ctx context.Context, orderID int64) error {
	if _, err := s.svc.Orders.UpdateStatus(ctx, orderID, string(models.OrderStatusCancelled)); err != nil {
		return err
	}
	s.finish(&s.report.Cancelled)
	return nil
}
