package models

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

var cardLastFourPattern = regexp.MustCompile(`^[0-9]{4}$`)

type Payment struct {
	ID            int64            `json:"id"`
	OrderID       int64            `json:"orderId"`
	Amount        decimal.Decimal  `json:"amount"`
	Method        PaymentMethod    `json:"paymentMethod"`
	Status        PaymentStatus    `json:"status"`
	TransactionID string           `json:"transactionId,omitempty"`
	CardLastFour  string           `json:"cardLastFour,omitempty"`
	CashReceived  *decimal.Decimal `json:"cashReceived,omitempty"`
	ChangeAmount  *decimal.Decimal `json:"changeAmount,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	ProcessedBy   string           `json:"processedBy,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	ProcessedAt   *time.Time       `json:"processedAt,omitempty"`
}

func NewPayment(orderID int64, amount decimal.Decimal, method PaymentMethod) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, NewValidationError("amount", "amount must be greater than zero")
	}
	return &Payment{
		OrderID: orderID,
		Amount:  amount,
		Method:  method,
		Status:  PaymentStatusPending,
	}, nil
}

// SetStatus sets processedAt on the first completion only.
func (p *Payment) SetStatus(status PaymentStatus) {
	p.Status = status
	if status == PaymentStatusCompleted && p.ProcessedAt == nil {
		now := time.Now()
		p.ProcessedAt = &now
	}
}

func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}

func (p *Payment) checkProcessable() error {
	switch p.Status {
	case PaymentStatusCompleted, PaymentStatusRefunded:
		return &TransitionError{Entity: EntityPayment, From: string(p.Status), To: string(PaymentStatusCompleted)}
	}
	return nil
}

// ProcessCash completes a cash payment and records the change due.
func (p *Payment) ProcessCash(cashReceived decimal.Decimal, processedBy string) error {
	if p.Method != PaymentMethodCash {
		return NewValidationError("paymentMethod", "payment method is not CASH")
	}
	if err := p.checkProcessable(); err != nil {
		return err
	}
	if cashReceived.LessThan(p.Amount) {
		return NewValidationError("cashReceived", "cash received is less than the payment amount")
	}
	change := cashReceived.Sub(p.Amount)
	p.CashReceived = &cashReceived
	p.ChangeAmount = &change
	p.ProcessedBy = processedBy
	p.SetStatus(PaymentStatusCompleted)
	return nil
}

func (p *Payment) ProcessCard(transactionID, cardLastFour, processedBy string) error {
	if p.Method == PaymentMethodCash {
		return NewValidationError("paymentMethod", "card processing is not valid for CASH payments")
	}
	if err := p.checkProcessable(); err != nil {
		return err
	}
	if cardLastFour != "" && !cardLastFourPattern.MatchString(cardLastFour) {
		return NewValidationError("cardLastFour", "card last four must be exactly 4 digits")
	}
	p.TransactionID = transactionID
	p.CardLastFour = cardLastFour
	p.ProcessedBy = processedBy
	p.SetStatus(PaymentStatusCompleted)
	return nil
}

func (p *Payment) ProcessPix(transactionID, processedBy string) error {
	if p.Method != PaymentMethodPix {
		return NewValidationError("paymentMethod", "payment method is not PIX")
	}
	if err := p.checkProcessable(); err != nil {
		return err
	}
	p.TransactionID = transactionID
	p.ProcessedBy = processedBy
	p.SetStatus(PaymentStatusCompleted)
	return nil
}

// Revenue aggregates completed payments over a date range.
type Revenue struct {
	TotalRevenue      decimal.Decimal                   `json:"totalRevenue"`
	CompletedPayments int                               `json:"completedPayments"`
	RevenueByMethod   map[PaymentMethod]decimal.Decimal `json:"revenueByMethod"`
}

// NewRevenue sums the completed payments created within [start, end].
func NewRevenue(payments []*Payment, start, end time.Time) *Revenue {
	r := &Revenue{
		TotalRevenue:    decimal.Zero,
		RevenueByMethod: make(map[PaymentMethod]decimal.Decimal),
	}
	for _, p := range payments {
		if !p.IsCompleted() || p.CreatedAt.Before(start) || p.CreatedAt.After(end) {
			continue
		}
		r.TotalRevenue = r.TotalRevenue.Add(p.Amount)
		r.CompletedPayments++
		r.RevenueByMethod[p.Method] = r.RevenueByMethod[p.Method].Add(p.Amount)
	}
	return r
}
