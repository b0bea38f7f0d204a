package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleOrder() *Order {
	o := &Order{
		ID:           1,
		CustomerName: "Ana",
		Status:       OrderStatusNew,
		DeliveryFee:  dec("5.00"),
		Items: []OrderItem{
			{ID: 10, DishID: 1, DishName: "Pizza Margherita", Quantity: 2, UnitPrice: dec("25.90")},
			{ID: 11, DishID: 5, DishName: "Refrigerante", Quantity: 3, UnitPrice: dec("4.50")},
		},
	}
	o.CalculateTotal()
	return o
}

func assertTotal(t *testing.T, o *Order) {
	t.Helper()
	want := o.DeliveryFee
	for _, item := range o.Items {
		want = want.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if !o.TotalAmount.Equal(want) {
		t.Fatalf("total = %s, want %s", o.TotalAmount, want)
	}
}

func TestOrderCalculateTotal(t *testing.T) {
	o := sampleOrder()
	if !o.TotalAmount.Equal(dec("70.30")) {
		t.Fatalf("total = %s, want 70.30", o.TotalAmount)
	}
	if !o.Items[0].TotalPrice.Equal(dec("51.80")) {
		t.Fatalf("line total = %s, want 51.80", o.Items[0].TotalPrice)
	}
}

func TestOrderItemMutationsKeepTotal(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *Order) error
		lines  int
	}{
		{
			name: "add new dish",
			mutate: func(o *Order) error {
				o.AddItem(OrderItem{DishID: 3, DishName: "Salada Caesar", Quantity: 1, UnitPrice: dec("15.90")})
				return nil
			},
			lines: 3,
		},
		{
			name: "add existing dish merges quantity",
			mutate: func(o *Order) error {
				o.AddItem(OrderItem{DishID: 1, DishName: "Pizza Margherita", Quantity: 1, UnitPrice: dec("25.90")})
				if o.Items[0].Quantity != 3 {
					return errors.New("quantity not merged")
				}
				return nil
			},
			lines: 2,
		},
		{
			name: "off-catalog lines never merge",
			mutate: func(o *Order) error {
				o.AddItem(OrderItem{DishName: "Bolo do dia", Quantity: 1, UnitPrice: dec("12.00")})
				o.AddItem(OrderItem{DishName: "Suco natural", Quantity: 2, UnitPrice: dec("7.50")})
				if o.Items[2].DishName != "Bolo do dia" || o.Items[2].Quantity != 1 {
					return errors.New("off-catalog line merged")
				}
				return nil
			},
			lines: 4,
		},
		{
			name:   "remove item",
			mutate: func(o *Order) error { return o.RemoveItem(11) },
			lines:  1,
		},
		{
			name:   "update quantity",
			mutate: func(o *Order) error { return o.UpdateItemQuantity(10, 4) },
			lines:  2,
		},
		{
			name: "replace items",
			mutate: func(o *Order) error {
				o.ReplaceItems([]OrderItem{{DishID: 4, DishName: "Batata Frita", Quantity: 2, UnitPrice: dec("8.90")}})
				return nil
			},
			lines: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := sampleOrder()
			if err := tt.mutate(o); err != nil {
				t.Fatalf("mutate: %v", err)
			}
			if len(o.Items) != tt.lines {
				t.Fatalf("lines = %d, want %d", len(o.Items), tt.lines)
			}
			assertTotal(t, o)
		})
	}
}

func TestOrderRemoveMissingItem(t *testing.T) {
	o := sampleOrder()
	err := o.RemoveItem(99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Entity != EntityOrderItem {
		t.Fatalf("err = %#v, want order item not found", err)
	}
}

func TestOrderUpdateItemQuantityValidation(t *testing.T) {
	o := sampleOrder()
	if err := o.UpdateItemQuantity(10, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want invalid argument", err)
	}
	if err := o.UpdateItemQuantity(42, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestOrderSetStatus(t *testing.T) {
	t.Run("strict lifecycle", func(t *testing.T) {
		o := sampleOrder()
		for _, s := range []OrderStatus{OrderStatusPreparing, OrderStatusReady, OrderStatusDelivered, OrderStatusPaid} {
			if err := o.SetStatus(s, true); err != nil {
				t.Fatalf("SetStatus(%s): %v", s, err)
			}
		}
	})

	t.Run("strict rejects skip", func(t *testing.T) {
		o := sampleOrder()
		err := o.SetStatus(OrderStatusDelivered, true)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("err = %v, want invalid transition", err)
		}
		if o.Status != OrderStatusNew {
			t.Fatalf("status changed to %s", o.Status)
		}
	})

	t.Run("lenient accepts anything", func(t *testing.T) {
		o := sampleOrder()
		if err := o.SetStatus(OrderStatusDelivered, false); err != nil {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestOrderValidate(t *testing.T) {
	tests := []struct {
		name    string
		order   Order
		wantErr bool
	}{
		{name: "valid", order: *sampleOrder()},
		{name: "negative fee", order: Order{DeliveryFee: dec("-1")}, wantErr: true},
		{name: "negative table", order: Order{TableNumber: -2}, wantErr: true},
		{name: "zero quantity", order: Order{Items: []OrderItem{{DishName: "x", Quantity: 0}}}, wantErr: true},
		{name: "missing dish name", order: Order{Items: []OrderItem{{Quantity: 1}}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.order.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
