package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Dish struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Available   bool            `json:"available"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (d *Dish) Validate() error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return NewValidationError("name", "name is required")
	}
	if len(name) > 255 {
		return NewValidationError("name", "name must be at most 255 characters")
	}
	if d.Price.IsNegative() {
		return NewValidationError("price", "price must not be negative")
	}
	return nil
}

// DefaultDishes is the starter catalog loaded into an empty store.
func DefaultDishes() []*Dish {
	return []*Dish{
		{Name: "Pizza Margherita", Description: "Molho de tomate, mussarela e manjericão", Price: decimal.RequireFromString("25.90"), Category: "main course", Available: true},
		{Name: "Hambúrguer Clássico", Description: "Pão, carne, queijo, alface e tomate", Price: decimal.RequireFromString("18.50"), Category: "main course", Available: true},
		{Name: "Salada Caesar", Description: "Alface romana, croutons, parmesão e molho caesar", Price: decimal.RequireFromString("15.90"), Category: "appetizer", Available: true},
		{Name: "Batata Frita", Description: "Porção de batatas fritas crocantes", Price: decimal.RequireFromString("8.90"), Category: "side dish", Available: true},
		{Name: "Refrigerante", Description: "Lata 350ml", Price: decimal.RequireFromString("4.50"), Category: "drink", Available: true},
	}
}
