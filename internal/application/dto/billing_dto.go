package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceRequest body for POST /api/invoices and PUT /api/invoices/:id.
// Totals are never accepted from the client; they are derived from Items.
type InvoiceRequest struct {
	InvoiceNumber string               `json:"invoice_number,omitempty"` // optional; generated as <prefix>-<year>-<seq>
	ClientName    string               `json:"client_name"`
	ClientAddress string               `json:"client_address,omitempty"`
	ClientGSTIN   string               `json:"client_gstin,omitempty"`
	ClientState   string               `json:"client_state"`
	InvoiceDate   string               `json:"invoice_date,omitempty"` // YYYY-MM-DD, default today
	DueDate       string               `json:"due_date,omitempty"`     // YYYY-MM-DD, default invoice date + 7 days
	PONumber      string               `json:"po_number,omitempty"`
	SACCode       string               `json:"sac_code,omitempty"`
	Status        string               `json:"status,omitempty"` // draft | sent
	Notes         string               `json:"notes,omitempty"`
	Items         []InvoiceItemRequest `json:"items"`
}

// InvoiceItemRequest one service line.
type InvoiceItemRequest struct {
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// InvoiceResponse invoice with its items and derived totals.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	ClientName    string                `json:"client_name"`
	ClientAddress string                `json:"client_address,omitempty"`
	ClientGSTIN   string                `json:"client_gstin,omitempty"`
	ClientState   string                `json:"client_state"`
	InvoiceDate   string                `json:"invoice_date"`
	DueDate       string                `json:"due_date"`
	PONumber      string                `json:"po_number,omitempty"`
	SACCode       string                `json:"sac_code"`
	Items         []InvoiceItemResponse `json:"items"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	GSTType       string                `json:"gst_type"`
	CGSTAmount    decimal.Decimal       `json:"cgst_amount"`
	SGSTAmount    decimal.Decimal       `json:"sgst_amount"`
	IGSTAmount    decimal.Decimal       `json:"igst_amount"`
	GSTAmount     decimal.Decimal       `json:"gst_amount"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	Status        string                `json:"status"`
	Notes         string                `json:"notes,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// InvoiceItemResponse line item in responses.
type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// CreatePaymentRequest body for POST /api/payments.
type CreatePaymentRequest struct {
	InvoiceID   string          `json:"invoice_id"`
	PaymentDate string          `json:"payment_date,omitempty"` // YYYY-MM-DD, default today
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	Mode        string          `json:"mode,omitempty"` // UPI | Bank | Cash, default UPI
	ReferenceID string          `json:"reference_id,omitempty"`
}

// PaymentResponse payment in responses.
type PaymentResponse struct {
	ID          string          `json:"id"`
	InvoiceID   string          `json:"invoice_id"`
	PaymentDate string          `json:"payment_date"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	Mode        string          `json:"mode"`
	ReferenceID string          `json:"reference_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// RecordPaymentResponse result of POST /api/payments: the stored payment and
// the invoice state after it was applied.
type RecordPaymentResponse struct {
	Payment       PaymentResponse `json:"payment"`
	InvoiceStatus string          `json:"invoice_status"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	Balance       decimal.Decimal `json:"balance"`
}

// LedgerResponse body of GET /api/payments/invoice/:invoiceId.
type LedgerResponse struct {
	InvoiceID string            `json:"invoice_id"`
	Payments  []PaymentResponse `json:"payments"`
	TotalPaid decimal.Decimal   `json:"total_paid"`
	Balance   decimal.Decimal   `json:"balance"`
}
