package services

import (
	"context"
	"fmt"
	"time"

	"github.com/chrisdamba/comanda/internal/logger"
	"github.com/chrisdamba/comanda/internal/models"
	"github.com/chrisdamba/comanda/internal/repositories"
	"github.com/lucsky/cuid"
	"github.com/shopspring/decimal"
)

type PaymentService struct {
	payments repositories.PaymentRepository
	orders   repositories.OrderRepository
	sync     *Reconciler
	events   eventSink
	log      *logger.Logger
}

func NewPaymentService(store *repositories.Store, sync *Reconciler, sink eventSink, log *logger.Logger) *PaymentService {
	return &PaymentService{
		payments: store.Payments,
		orders:   store.Orders,
		sync:     sync,
		events:   sink,
		log:      log,
	}
}

type CreatePaymentRequest struct {
	OrderID       int64           `json:"orderId"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	Notes         string          `json:"notes"`
}

func (s *PaymentService) Create(ctx context.Context, req CreatePaymentRequest) (*models.Payment, error) {
	method, err := models.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	payment, err := models.NewPayment(req.OrderID, req.Amount, method)
	if err != nil {
		return nil, err
	}
	if _, err := s.orders.GetByID(ctx, req.OrderID); err != nil {
		return nil, err
	}
	payment.Notes = req.Notes
	if err := s.payments.Save(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	s.events.emit(ctx, models.EventPaymentCreated, payment)
	return payment, nil
}

func (s *PaymentService) Get(ctx context.Context, id int64) (*models.Payment, error) {
	return s.payments.GetByID(ctx, id)
}

func (s *PaymentService) List(ctx context.Context) ([]*models.Payment, error) {
	return s.payments.Find(ctx, repositories.PaymentFilter{})
}

func (s *PaymentService) ListByOrder(ctx context.Context, orderID int64) ([]*models.Payment, error) {
	return s.payments.Find(ctx, repositories.PaymentFilter{OrderID: orderID})
}

func (s *PaymentService) ListCompletedByOrder(ctx context.Context, orderID int64) ([]*models.Payment, error) {
	return s.payments.Find(ctx, repositories.PaymentFilter{OrderID: orderID, Status: models.PaymentStatusCompleted})
}

func (s *PaymentService) ListByStatus(ctx context.Context, statusName string) ([]*models.Payment, error) {
	status, err := models.ParsePaymentStatus(statusName)
	if err != nil {
		return nil, err
	}
	return s.payments.Find(ctx, repositories.PaymentFilter{Status: status})
}

func (s *PaymentService) ListByMethod(ctx context.Context, methodName string) ([]*models.Payment, error) {
	method, err := models.ParsePaymentMethod(methodName)
	if err != nil {
		return nil, err
	}
	return s.payments.Find(ctx, repositories.PaymentFilter{Method: method})
}

// ListByProcessedBy returns the most recently processed payments first.
func (s *PaymentService) ListByProcessedBy(ctx context.Context, processedBy string) ([]*models.Payment, error) {
	if processedBy == "" {
		return nil, models.NewValidationError("processedBy", "processedBy is required")
	}
	return s.payments.Find(ctx, repositories.PaymentFilter{ProcessedBy: processedBy})
}

// ListCompletedBetween feeds the revenue report and the Parquet export.
func (s *PaymentService) ListCompletedBetween(ctx context.Context, start, end time.Time) ([]*models.Payment, error) {
	if end.Before(start) {
		return nil, models.NewValidationError("endDate", "end date must not be before start date")
	}
	return s.payments.Find(ctx, repositories.PaymentFilter{
		Status: models.PaymentStatusCompleted,
		From:   start,
		To:     end,
	})
}

func (s *PaymentService) Revenue(ctx context.Context, start, end time.Time) (*models.Revenue, error) {
	payments, err := s.ListCompletedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return models.NewRevenue(payments, start, end), nil
}

// IsOrderFullyPaid reports whether any completed payment exists for the order.
func (s *PaymentService) IsOrderFullyPaid(ctx context.Context, orderID int64) (bool, error) {
	return s.payments.HasCompleted(ctx, orderID)
}

func (s *PaymentService) ProcessCash(ctx context.Context, id int64, cashReceived decimal.Decimal, processedBy string) (*models.Payment, error) {
	return s.process(ctx, id, func(p *models.Payment) error {
		return p.ProcessCash(cashReceived, processedBy)
	})
}

func (s *PaymentService) ProcessCard(ctx context.Context, id int64, transactionID, cardLastFour, processedBy string) (*models.Payment, error) {
	return s.process(ctx, id, func(p *models.Payment) error {
		return p.ProcessCard(reference(transactionID), cardLastFour, processedBy)
	})
}

func (s *PaymentService) ProcessPix(ctx context.Context, id int64, transactionID, processedBy string) (*models.Payment, error) {
	return s.process(ctx, id, func(p *models.Payment) error {
		return p.ProcessPix(reference(transactionID), processedBy)
	})
}

// reference generates a transaction id when the caller supplied none.
func reference(transactionID string) string {
	if transactionID != "" {
		return transactionID
	}
	return cuid.New()
}

func (s *PaymentService) process(ctx context.Context, id int64, apply func(*models.Payment) error) (*models.Payment, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := payment.Status
	if err := apply(payment); err != nil {
		return nil, err
	}
	if err := s.payments.Save(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to process payment: %w", err)
	}
	s.afterStatusChange(ctx, payment, from)
	return payment, nil
}

func (s *PaymentService) afterStatusChange(ctx context.Context, payment *models.Payment, from models.PaymentStatus) {
	s.events.statusChanged(ctx, models.EventPaymentStatusChanged, models.EntityPayment,
		payment.ID, payment.OrderID, string(from), string(payment.Status))
	if payment.IsCompleted() {
		s.events.emit(ctx, models.EventPaymentCompleted, payment)
		s.sync.reconcile(ctx, payment.OrderID, OriginPayment)
	}
}

func (s *PaymentService) UpdateStatus(ctx context.Context, id int64, statusName string) (*models.Payment, error) {
	status, err := models.ParsePaymentStatus(statusName)
	if err != nil {
		return nil, err
	}
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := payment.Status
	payment.SetStatus(status)
	if err := s.payments.Save(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	if from != status {
		s.afterStatusChange(ctx, payment, from)
	}
	return payment, nil
}

func (s *PaymentService) AddNotes(ctx context.Context, id int64, notes string) (*models.Payment, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	payment.Notes = notes
	if err := s.payments.Save(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to update payment notes: %w", err)
	}
	return payment, nil
}

func (s *PaymentService) Delete(ctx context.Context, id int64) error {
	return s.payments.Delete(ctx, id)
}
