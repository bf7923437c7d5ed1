package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gst-invoicing/internal/application/billing"
	"github.com/jhoicas/gst-invoicing/internal/application/dto"
	"github.com/jhoicas/gst-invoicing/internal/domain/entity"
	"github.com/jhoicas/gst-invoicing/internal/infrastructure/memory"
)

var ist = mustLoad("Asia/Kolkata")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// clock is a settable time source for the use cases under test.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

type fixture struct {
	store    *memory.Store
	clock    *clock
	settings billing.Settings
	invoices *billing.InvoiceUseCase
	payments *billing.PaymentUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c := &clock{t: time.Date(2026, time.March, 10, 10, 0, 0, 0, ist)}
	s := memory.NewStore()
	company := entity.DefaultCompanyProfile()
	company.UPIID = "wedigi@okaxis"
	settings := billing.Settings{
		InvoicePrefix: "WDGS",
		Location:      ist,
		Company:       company,
		Clock:         c.now,
	}
	return &fixture{
		store:    s,
		clock:    c,
		settings: settings,
		invoices: billing.NewInvoiceUseCase(s, s.Invoices(), s.Payments(), settings),
		payments: billing.NewPaymentUseCase(s, s.Invoices(), s.Payments(), settings),
	}
}

func invoiceRequest(state string, rate int64) dto.InvoiceRequest {
	return dto.InvoiceRequest{
		ClientName:  "Acme Pvt Ltd",
		ClientState: state,
		InvoiceDate: "2026-03-01",
		DueDate:     "2026-03-08",
		Items: []dto.InvoiceItemRequest{
			{Description: "Website design", Quantity: 1, Rate: decimal.NewFromInt(rate)},
		},
	}
}

func (f *fixture) createInvoice(t *testing.T, in dto.InvoiceRequest) *dto.InvoiceResponse {
	t.Helper()
	out, err := f.invoices.Create(context.Background(), in)
	require.NoError(t, err)
	return out
}

func (f *fixture) pay(t *testing.T, invoiceID string, amount string) *dto.RecordPaymentResponse {
	t.Helper()
	out, err := f.payments.Record(context.Background(), dto.CreatePaymentRequest{
		InvoiceID:  invoiceID,
		AmountPaid: decimal.RequireFromString(amount),
	})
	require.NoError(t, err)
	return out
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
