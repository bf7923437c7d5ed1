package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-invoicing/internal/application/dto"
	"github.com/jhoicas/gst-invoicing/internal/domain/entity"
	"github.com/jhoicas/gst-invoicing/internal/domain/gst"
	"github.com/jhoicas/gst-invoicing/internal/domain/lifecycle"
	"github.com/jhoicas/gst-invoicing/internal/domain/repository"
)

// BillingTxRunner runs fn inside one transaction with repositories bound to it.
// Invoice reads made through GetForUpdate stay locked until fn returns.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}

// InvoiceDocument is a fully computed invoice ready to be rendered. Renderers
// only format these values; they never recompute totals.
type InvoiceDocument struct {
	Invoice   *entity.Invoice
	Company   entity.CompanyProfile
	Rates     gst.Rates
	TotalPaid decimal.Decimal
	Balance   decimal.Decimal
	Payable   decimal.Decimal // Balance rounded up to the paisa; what UPILink asks for
	UPILink   string          // upi://pay URI for Payable; empty when nothing is due
}

// InvoicePDFGenerator renders the printable invoice.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}

// RegisterExporter writes the invoice and payment register for the accountant.
type RegisterExporter interface {
	ExportRegister(ctx context.Context, invoices []*entity.Invoice, payments []entity.Payment) ([]byte, error)
}

// VoucherExporter writes one invoice as an accounting voucher.
type VoucherExporter interface {
	ExportVoucher(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}

// Settings are the per-deployment invoicing rules shared by the use cases.
// The value is immutable once built.
type Settings struct {
	InvoicePrefix string
	Location      *time.Location
	Company       entity.CompanyProfile
	Calculator    gst.Calculator
	Clock         func() time.Time
}

// DefaultInvoicePrefix is used when Settings.InvoicePrefix is empty.
const DefaultInvoicePrefix = "WDGS"

// DefaultPaymentTermDays is the gap between invoice date and default due date.
const DefaultPaymentTermDays = 7

// WithDefaults fills every zero field with its default.
func (s Settings) WithDefaults() Settings {
	if s.InvoicePrefix == "" {
		s.InvoicePrefix = DefaultInvoicePrefix
	}
	if s.Location == nil {
		s.Location = time.UTC
	}
	if s.Company.State == "" {
		s.Company = entity.DefaultCompanyProfile()
	}
	if s.Calculator.Rates().IGST.IsZero() {
		s.Calculator = gst.NewCalculator(gst.DefaultRates())
	}
	if s.Clock == nil {
		s.Clock = time.Now
	}
	return s
}

// Now is the current time in the business location.
func (s Settings) Now() time.Time { return s.Clock().In(s.Location) }

// today is the current calendar date at midnight in the business location.
func (s Settings) today() time.Time {
	return s.CalendarDate(s.Now())
}

// CalendarDate keeps t's year, month and day and anchors them at midnight in
// the business location. Stores may hand dates back in UTC.
func (s Settings) CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.Location)
}

func (s Settings) parseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(dto.DateLayout, raw, s.Location)
}

// IsOverdue reports whether inv is past its due date and not paid.
func (s Settings) IsOverdue(inv *entity.Invoice, now time.Time) bool {
	if inv.Status == entity.StatusPaid || inv.DueDate.IsZero() {
		return false
	}
	return lifecycle.IsOverdue(s.CalendarDate(inv.DueDate), now)
}

// lifecycleInput assembles the status machine input for inv with base as the
// current status.
func (s Settings) lifecycleInput(inv *entity.Invoice, base entity.InvoiceStatus, totalPaid decimal.Decimal, now time.Time) lifecycle.Input {
	due := inv.DueDate
	if !due.IsZero() {
		due = s.CalendarDate(due)
	}
	return lifecycle.Input{
		Current:     base,
		TotalAmount: inv.TotalAmount,
		TotalPaid:   totalPaid,
		DueDate:     due,
		Now:         now,
	}
}
