package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ID         int64           `json:"id"`
	DishID     int64           `json:"dishId"`
	DishName   string          `json:"dishName"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

func (i *OrderItem) CalculateTotal() {
	i.TotalPrice = LineTotal(i.UnitPrice, i.Quantity)
}

func (i *OrderItem) Validate() error {
	if i.Quantity < 1 {
		return NewValidationError("quantity", "quantity must be at least 1")
	}
	if i.UnitPrice.IsNegative() {
		return NewValidationError("unitPrice", "unit price must not be negative")
	}
	if i.DishName == "" {
		return NewValidationError("dishName", "dish name is required")
	}
	return nil
}

// Order owns its items; they are addressed by item id and carry no reference back.
type Order struct {
	ID              int64           `json:"id"`
	CustomerName    string          `json:"customerName"`
	CustomerPhone   string          `json:"customerPhone,omitempty"`
	TableNumber     int             `json:"tableNumber"`
	DeliveryAddress string          `json:"deliveryAddress,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	Status          OrderStatus     `json:"status"`
	Items           []OrderItem     `json:"items"`
	DeliveryFee     decimal.Decimal `json:"deliveryFee"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// CalculateTotal refreshes every line total and the order total.
func (o *Order) CalculateTotal() {
	total := decimal.Zero
	for i := range o.Items {
		o.Items[i].CalculateTotal()
		total = total.Add(o.Items[i].TotalPrice)
	}
	o.TotalAmount = total.Add(o.DeliveryFee)
}

func (o *Order) IsDelivery() bool {
	return o.TableNumber == DeliveryTable
}

func (o *Order) Item(itemID int64) (*OrderItem, bool) {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i], true
		}
	}
	return nil, false
}

// AddItem merges into an existing line for the same dish, otherwise appends.
// AddItem merges item into an existing line for the same catalog dish.
// Off-catalog lines (dish id 0) are always appended.
func (o *Order) AddItem(item OrderItem) {
	for i := range o.Items {
		if item.DishID != 0 && o.Items[i].DishID == item.DishID {
			o.Items[i].Quantity += item.Quantity
			o.CalculateTotal()
			return
		}
	}
	o.Items = append(o.Items, item)
	o.CalculateTotal()
}

func (o *Order) RemoveItem(itemID int64) error {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.CalculateTotal()
			return nil
		}
	}
	return NewNotFound(EntityOrderItem, itemID)
}

func (o *Order) UpdateItemQuantity(itemID int64, quantity int) error {
	if quantity < 1 {
		return NewValidationError("quantity", "quantity must be at least 1")
	}
	item, ok := o.Item(itemID)
	if !ok {
		return NewNotFound(EntityOrderItem, itemID)
	}
	item.Quantity = quantity
	o.CalculateTotal()
	return nil
}

func (o *Order) ReplaceItems(items []OrderItem) {
	o.Items = append([]OrderItem(nil), items...)
	o.CalculateTotal()
}

// SetStatus moves the order to target. With strict set, only lifecycle
// transitions are accepted.
func (o *Order) SetStatus(target OrderStatus, strict bool) error {
	if strict && !o.Status.CanTransitionTo(target) {
		return &TransitionError{Entity: EntityOrder, From: string(o.Status), To: string(target)}
	}
	o.Status = target
	return nil
}

func (o *Order) Validate() error {
	if o.DeliveryFee.IsNegative() {
		return NewValidationError("deliveryFee", "delivery fee must not be negative")
	}
	if o.TableNumber < 0 {
		return NewValidationError("tableNumber", "table number must not be negative")
	}
	for i := range o.Items {
		if err := o.Items[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
