package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the collection state of an invoice.
type InvoiceStatus string

// Invoice statuses. Draft and Sent are chosen by the operator; the rest are
// derived from the payment ledger and the due date.
const (
	StatusDraft         InvoiceStatus = "draft"
	StatusSent          InvoiceStatus = "sent"
	StatusPartiallyPaid InvoiceStatus = "partially_paid"
	StatusPaid          InvoiceStatus = "paid"
	StatusOverdue       InvoiceStatus = "overdue"
)

// StatusOrigin tells who is allowed to put an invoice in a given status.
type StatusOrigin int

const (
	OriginUnknown StatusOrigin = iota
	OriginUserSet
	OriginSystemDerived
)

// Origin classifies the status as user-set or system-derived.
func (s InvoiceStatus) Origin() StatusOrigin {
	switch s {
	case StatusDraft, StatusSent:
		return OriginUserSet
	case StatusPartiallyPaid, StatusPaid, StatusOverdue:
		return OriginSystemDerived
	default:
		return OriginUnknown
	}
}

// IsValid reports whether s is one of the five known statuses.
func (s InvoiceStatus) IsValid() bool { return s.Origin() != OriginUnknown }

// IsUserSettable reports whether an edit request may carry this status.
func (s InvoiceStatus) IsUserSettable() bool { return s.Origin() == OriginUserSet }

// GSTType indicates how GST is split on an invoice.
type GSTType string

const (
	GSTTypeIntraState GSTType = "CGST_SGST" // same state: CGST + SGST
	GSTTypeInterState GSTType = "IGST"      // different states: IGST
)

// DefaultSACCode is the SAC code for IT design and development services.
const DefaultSACCode = "998313"

// Invoice is the financial aggregate: client details, line items and the totals
// derived from them. Payments reference the invoice by ID and are not embedded.
type Invoice struct {
	ID            string
	InvoiceNumber string
	ClientName    string
	ClientAddress string
	ClientGSTIN   string
	ClientState   string
	InvoiceDate   time.Time
	DueDate       time.Time
	PONumber      string
	SACCode       string
	Items         []LineItem
	Subtotal      decimal.Decimal
	GSTType       GSTType
	CGSTAmount    decimal.Decimal
	SGSTAmount    decimal.Decimal
	IGSTAmount    decimal.Decimal
	GSTAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	Status        InvoiceStatus
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
