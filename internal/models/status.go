package models

import "fmt"

// OrderStatus is shared by orders and kitchen tickets.
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "NEW"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

var orderStatusDescriptions = map[OrderStatus]string{
	OrderStatusNew:       "New order",
	OrderStatusPreparing: "Preparing",
	OrderStatusReady:     "Ready",
	OrderStatusDelivered: "Delivered",
	OrderStatusPaid:      "Paid",
	OrderStatusCancelled: "Cancelled",
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusNew:       {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {OrderStatusPaid},
}

// ParseOrderStatus is case-sensitive: "preparing" is rejected.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := orderStatusDescriptions[status]; !ok {
		return "", NewValidationError("status", fmt.Sprintf("invalid status: %q", s))
	}
	return status, nil
}

func (s OrderStatus) Description() string {
	return orderStatusDescriptions[s]
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsActive() bool {
	return s != OrderStatusPaid && s != OrderStatusCancelled
}

func (s OrderStatus) IsTerminal() bool {
	return !s.IsActive()
}

// Rank orders the forward lifecycle. CANCELLED has no rank.
func (s OrderStatus) Rank() int {
	switch s {
	case OrderStatusNew:
		return 1
	case OrderStatusPreparing:
		return 2
	case OrderStatusReady:
		return 3
	case OrderStatusDelivered:
		return 4
	case OrderStatusPaid:
		return 5
	}
	return 0
}

// PreparationStatus tracks a single kitchen line.
type PreparationStatus string

const (
	PreparationPending    PreparationStatus = "PENDING"
	PreparationInProgress PreparationStatus = "IN_PROGRESS"
	PreparationReady      PreparationStatus = "READY"
	PreparationServed     PreparationStatus = "SERVED"
)

func ParsePreparationStatus(s string) (PreparationStatus, error) {
	switch p := PreparationStatus(s); p {
	case PreparationPending, PreparationInProgress, PreparationReady, PreparationServed:
		return p, nil
	}
	return "", NewValidationError("status", fmt.Sprintf("invalid preparation status: %q", s))
}

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentMethodPix          PaymentMethod = "PIX"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

var PaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodCreditCard,
	PaymentMethodDebitCard,
	PaymentMethodPix,
	PaymentMethodBankTransfer,
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	for _, m := range PaymentMethods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", NewValidationError("paymentMethod", fmt.Sprintf("invalid payment method: %q", s))
}

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusProcessing PaymentStatus = "PROCESSING"
	PaymentStatusCompleted  PaymentStatus = "COMPLETED"
	PaymentStatusFailed     PaymentStatus = "FAILED"
	PaymentStatusRefunded   PaymentStatus = "REFUNDED"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch p := PaymentStatus(s); p {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted,
		PaymentStatusFailed, PaymentStatusRefunded:
		return p, nil
	}
	return "", NewValidationError("status", fmt.Sprintf("invalid payment status: %q", s))
}
