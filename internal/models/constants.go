package models

const (
	PriorityNormal = 1
	PriorityHigh   = 2
	PriorityUrgent = 3

	// DeliveryTable marks an order that is not tied to a table.
	DeliveryTable = 0

	EventOrderStatusChanged   = "order.status_changed"
	EventOrderDeleted         = "order.deleted"
	EventTicketCreated        = "kitchen.ticket.created"
	EventTicketStatusChanged  = "kitchen.ticket.status_changed"
	EventPaymentCreated       = "payment.created"
	EventPaymentCompleted     = "payment.completed"
	EventPaymentStatusChanged = "payment.status_changed"
)

const (
	EntityDish        = "dish"
	EntityOrder       = "order"
	EntityOrderItem   = "order item"
	EntityKitchen     = "kitchen order"
	EntityKitchenItem = "kitchen order item"
	EntityPayment     = "payment"
)
