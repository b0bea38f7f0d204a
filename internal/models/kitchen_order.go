package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type KitchenOrderItem struct {
	ID                int64             `json:"id"`
	DishID            int64             `json:"dishId"`
	DishName          string            `json:"dishName"`
	DishDescription   string            `json:"dishDescription,omitempty"`
	Quantity          int               `json:"quantity"`
	UnitPrice         decimal.Decimal   `json:"unitPrice"`
	TotalPrice        decimal.Decimal   `json:"totalPrice"`
	PreparationStatus PreparationStatus `json:"preparationStatus"`
	PreparationNotes  string            `json:"preparationNotes,omitempty"`
	EstimatedPrepTime int               `json:"estimatedPrepTime"` // minutes
}

func NewKitchenOrderItem(item OrderItem) KitchenOrderItem {
	ki := KitchenOrderItem{
		DishID:            item.DishID,
		DishName:          item.DishName,
		Quantity:          item.Quantity,
		UnitPrice:         item.UnitPrice,
		PreparationStatus: PreparationPending,
	}
	ki.CalculateTotal()
	return ki
}

func (i *KitchenOrderItem) CalculateTotal() {
	i.TotalPrice = LineTotal(i.UnitPrice, i.Quantity)
}

// KitchenOrder is the kitchen-facing ticket for one order.
type KitchenOrder struct {
	ID              int64              `json:"id"`
	OrderID         int64              `json:"orderId"`
	TableNumber     int                `json:"tableNumber"`
	CustomerName    string             `json:"customerName"`
	CustomerPhone   string             `json:"customerPhone,omitempty"`
	DeliveryAddress string             `json:"deliveryAddress,omitempty"`
	Status          OrderStatus        `json:"status"`
	Items           []KitchenOrderItem `json:"items"`
	TotalAmount     decimal.Decimal    `json:"totalAmount"`
	EstimatedTime   int                `json:"estimatedTime"` // minutes
	Priority        int                `json:"priority"`
	Notes           string             `json:"notes,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
	StartedAt       *time.Time         `json:"startedAt,omitempty"`
	ReadyAt         *time.Time         `json:"readyAt,omitempty"`
}

// NewKitchenOrder builds a ticket from the order snapshot with every line pending.
func NewKitchenOrder(order *Order, status OrderStatus) *KitchenOrder {
	k := &KitchenOrder{
		OrderID:  order.ID,
		Priority: PriorityNormal,
		Status:   OrderStatusNew,
	}
	k.copySnapshot(order)
	k.Items = make([]KitchenOrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		k.Items = append(k.Items, NewKitchenOrderItem(item))
	}
	k.CalculateTotal()
	k.SetStatus(status)
	return k
}

func (k *KitchenOrder) copySnapshot(order *Order) {
	k.TableNumber = order.TableNumber
	k.CustomerName = order.CustomerName
	k.CustomerPhone = order.CustomerPhone
	k.DeliveryAddress = order.DeliveryAddress
	if order.Notes != "" {
		k.Notes = order.Notes
	}
}

// SyncFromOrder replaces the lines with the order's lines. A line keeps its
// preparation progress when the same dish is still ordered in the same quantity.
func (k *KitchenOrder) SyncFromOrder(order *Order) {
	k.copySnapshot(order)

	// an order may carry several lines for one dish; each previous line is
	// reused at most once so item ids stay unique
	previous := make(map[int64][]KitchenOrderItem, len(k.Items))
	for _, item := range k.Items {
		previous[item.DishID] = append(previous[item.DishID], item)
	}

	items := make([]KitchenOrderItem, 0, len(order.Items))
	for _, oi := range order.Items {
		ki := NewKitchenOrderItem(oi)
		candidates := previous[oi.DishID]
		for i, prev := range candidates {
			if prev.Quantity != oi.Quantity {
				continue
			}
			ki.ID = prev.ID
			ki.DishDescription = prev.DishDescription
			ki.PreparationStatus = prev.PreparationStatus
			ki.PreparationNotes = prev.PreparationNotes
			ki.EstimatedPrepTime = prev.EstimatedPrepTime
			previous[oi.DishID] = append(candidates[:i:i], candidates[i+1:]...)
			break
		}
		items = append(items, ki)
	}
	k.Items = items
	k.CalculateTotal()
}

// SetStatus records startedAt and readyAt only on the first entry into
// PREPARING and READY.
func (k *KitchenOrder) SetStatus(status OrderStatus) {
	k.Status = status
	now := time.Now()
	switch status {
	case OrderStatusPreparing:
		if k.StartedAt == nil {
			k.StartedAt = &now
		}
	case OrderStatusReady:
		if k.ReadyAt == nil {
			k.ReadyAt = &now
		}
	}
}

// PreparationTime is the minutes between start and ready, 0 until both are known.
func (k *KitchenOrder) PreparationTime() int {
	if k.StartedAt == nil || k.ReadyAt == nil {
		return 0
	}
	return int(k.ReadyAt.Sub(*k.StartedAt).Minutes())
}

func (k *KitchenOrder) CalculateTotal() {
	total := decimal.Zero
	for i := range k.Items {
		k.Items[i].CalculateTotal()
		total = total.Add(k.Items[i].TotalPrice)
	}
	k.TotalAmount = total
}

func (k *KitchenOrder) Item(itemID int64) (*KitchenOrderItem, bool) {
	for i := range k.Items {
		if k.Items[i].ID == itemID {
			return &k.Items[i], true
		}
	}
	return nil, false
}

func (k *KitchenOrder) MarkAllItemsReady() {
	for i := range k.Items {
		k.Items[i].PreparationStatus = PreparationReady
	}
	k.SetStatus(OrderStatusReady)
}

func ValidatePriority(priority int) error {
	if priority < PriorityNormal || priority > PriorityUrgent {
		return NewValidationError("priority", "priority must be 1 (normal), 2 (high) or 3 (urgent)")
	}
	return nil
}
