package models

import "github.com/shopspring/decimal"

func init() {
	// money is exchanged as plain JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// LineTotal is unit price times quantity.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
