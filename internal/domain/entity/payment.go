package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMode is how the money was received.
type PaymentMode string

const (
	PaymentModeUPI  PaymentMode = "UPI"
	PaymentModeBank PaymentMode = "Bank"
	PaymentModeCash PaymentMode = "Cash"
)

// IsValid reports whether m is a supported payment mode.
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeUPI, PaymentModeBank, PaymentModeCash:
		return true
	}
	return false
}

// Payment is an immutable receipt recorded against an invoice.
type Payment struct {
	ID          string
	InvoiceID   string
	PaymentDate time.Time
	AmountPaid  decimal.Decimal
	Mode        PaymentMode
	ReferenceID string
	CreatedAt   time.Time
}
