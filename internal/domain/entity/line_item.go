package entity

import "github.com/shopspring/decimal"

// LineItem is one billed service line. Amount is always Quantity * Rate.
type LineItem struct {
	ID          string
	InvoiceID   string
	Position    int
	Description string
	Quantity    int64
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}
