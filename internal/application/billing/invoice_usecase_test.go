package billing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gst-invoicing/internal/application/dto"
	"github.com/jhoicas/gst-invoicing/internal/domain"
	"github.com/jhoicas/gst-invoicing/internal/domain/entity"
)

// ─────────────────────────────────────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────────────────────────────────────

func TestCreate_IntraState(t *testing.T) {
	f := newFixture(t)

	out := f.createInvoice(t, invoiceRequest("Tamil Nadu", 10000))

	assert.Equal(t, "WDGS-2026-001", out.InvoiceNumber)
	assert.Equal(t, "draft", out.Status)
	assert.Equal(t, "CGST_SGST", out.GSTType)
	assert.True(t, out.Subtotal.Equal(dec("10000")))
	assert.True(t, out.CGSTAmount.Equal(dec("900")))
	assert.True(t, out.SGSTAmount.Equal(dec("900")))
	assert.True(t, out.IGSTAmount.IsZero())
	assert.True(t, out.GSTAmount.Equal(dec("1800")))
	assert.True(t, out.TotalAmount.Equal(dec("11800")))
	assert.Equal(t, entity.DefaultSACCode, out.SACCode)
	require.Len(t, out.Items, 1)
	assert.True(t, out.Items[0].Amount.Equal(dec("10000")))
	assert.NotEmpty(t, out.Items[0].ID)
}

func TestCreate_InterState(t *testing.T) {
	f := newFixture(t)

	out := f.createInvoice(t, invoiceRequest("Karnataka", 10000))

	assert.Equal(t, "IGST", out.GSTType)
	assert.True(t, out.IGSTAmount.Equal(dec("1800")))
	assert.True(t, out.CGSTAmount.IsZero())
	assert.True(t, out.TotalAmount.Equal(dec("11800")))
}

func TestCreate_ItemAmountsAreRecomputed(t *testing.T) {
	f := newFixture(t)
	in := invoiceRequest("Karnataka", 0)
	in.Items = []dto.InvoiceItemRequest{
		{Description: "Logo", Quantity: 3, Rate: dec("2500.50")},
		{Description: "Hosting", Quantity: 2, Rate: dec("1000")},
	}

	out := f.createInvoice(t, in)

	assert.True(t, out.Subtotal.Equal(dec("9501.50")))
	assert.True(t, out.IGSTAmount.Equal(dec("1710.27")))
	assert.True(t, out.Items[0].Amount.Equal(dec("7501.50")))
}

func TestCreate_Numbering(t *testing.T) {
	f := newFixture(t)

	first := f.createInvoice(t, invoiceRequest("Tamil Nadu", 100))
	second := f.createInvoice(t, invoiceRequest("Tamil Nadu", 100))

	custom := invoiceRequest("Tamil Nadu", 100)
	custom.InvoiceNumber = "MANUAL-7"
	manual := f.createInvoice(t, custom)

	lastYear := invoiceRequest("Tamil Nadu", 100)
	lastYear.InvoiceDate = "2025-12-30"
	lastYear.DueDate = ""
	old := f.createInvoice(t, lastYear)

	assert.Equal(t, "WDGS-2026-001", first.InvoiceNumber)
	assert.Equal(t, "WDGS-2026-002", second.InvoiceNumber)
	assert.Equal(t, "MANUAL-7", manual.InvoiceNumber)
	assert.Equal(t, "WDGS-2025-001", old.InvoiceNumber)
	assert.Equal(t, "2026-01-06", old.DueDate)

	_, err := f.invoices.Create(context.Background(), custom)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreate_NumberingAfterDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.createInvoice(t, invoiceRequest("Tamil Nadu", 100))
	second := f.createInvoice(t, invoiceRequest("Tamil Nadu", 100))
	f.createInvoice(t, invoiceRequest("Tamil Nadu", 100))
	require.NoError(t, f.invoices.Delete(ctx, second.ID))

	next := f.createInvoice(t, invoiceRequest("Tamil Nadu", 100))
	assert.Equal(t, "WDGS-2026-004", next.InvoiceNumber)

	// a manual number inside the series moves the sequence past it
	manual := invoiceRequest("Tamil Nadu", 100)
	manual.InvoiceNumber = "WDGS-2026-010"
	f.createInvoice(t, manual)
	assert.Equal(t, "WDGS-2026-011", f.createInvoice(t, invoiceRequest("Tamil Nadu", 100)).InvoiceNumber)
}

func TestCreate_Defaults(t *testing.T) {
	f := newFixture(t)
	in := invoiceRequest("Tamil Nadu", 100)
	in.InvoiceDate = ""
	in.DueDate = ""
	in.Status = "sent"

	out := f.createInvoice(t, in)

	assert.Equal(t, "2026-03-10", out.InvoiceDate)
	assert.Equal(t, "2026-03-17", out.DueDate)
	assert.Equal(t, "sent", out.Status)
}

func TestCreate_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dto.InvoiceRequest)
		want   error
	}{
		{"missing client name", func(r *dto.InvoiceRequest) { r.ClientName = "  " }, domain.ErrInvalidInput},
		{"missing state", func(r *dto.InvoiceRequest) { r.ClientState = "" }, domain.ErrInvalidInput},
		{"unknown state", func(r *dto.InvoiceRequest) { r.ClientState = "tamil nadu" }, domain.ErrInvalidInput},
		{"no items", func(r *dto.InvoiceRequest) { r.Items = nil }, domain.ErrInvalidInput},
		{"empty description", func(r *dto.InvoiceRequest) { r.Items[0].Description = "" }, domain.ErrInvalidInput},
		{"zero quantity", func(r *dto.InvoiceRequest) { r.Items[0].Quantity = 0 }, domain.ErrInvalidInput},
		{"zero rate", func(r *dto.InvoiceRequest) { r.Items[0].Rate = decimal.Zero }, domain.ErrInvalidInput},
		{"negative rate", func(r *dto.InvoiceRequest) { r.Items[0].Rate = dec("-1") }, domain.ErrInvalidInput},
		{"bad invoice date", func(r *dto.InvoiceRequest) { r.InvoiceDate = "01/03/2026" }, domain.ErrInvalidInput},
		{"due before invoice", func(r *dto.InvoiceRequest) { r.DueDate = "2026-02-01" }, domain.ErrInvalidInput},
		{"derived status", func(r *dto.InvoiceRequest) { r.Status = "paid" }, domain.ErrInvalidStatus},
		{"unknown status", func(r *dto.InvoiceRequest) { r.Status = "void" }, domain.ErrInvalidStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			in := invoiceRequest("Tamil Nadu", 100)
			tc.mutate(&in)

			_, err := f.invoices.Create(context.Background(), in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Read
// ─────────────────────────────────────────────────────────────────────────────

func TestGetAndList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.createInvoice(t, invoiceRequest("Tamil Nadu", 100))
	b := invoiceRequest("Kerala", 100)
	b.InvoiceDate = "2026-03-05"
	b.Status = "sent"
	second := f.createInvoice(t, b)

	got, err := f.invoices.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.InvoiceNumber, got.InvoiceNumber)

	_, err = f.invoices.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := f.invoices.List(ctx, "all")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	sent, err := f.invoices.List(ctx, "sent")
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, second.ID, sent[0].ID)

	_, err = f.invoices.List(ctx, "bogus")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─────────────────────────────────────────────────────────────────────────────
// Update / Delete
// ─────────────────────────────────────────────────────────────────────────────

func TestUpdate_RecomputesTotalsAndKeepsNumber(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created := f.createInvoice(t, invoiceRequest("Tamil Nadu", 10000))

	edit := invoiceRequest("Karnataka", 20000)
	edit.DueDate = "2026-03-31"
	edit.Status = "sent"
	out, err := f.invoices.Update(ctx, created.ID, edit)
	require.NoError(t, err)

	assert.Equal(t, created.InvoiceNumber, out.InvoiceNumber)
	assert.Equal(t, created.CreatedAt, out.CreatedAt)
	assert.Equal(t, "IGST", out.GSTType)
	assert.True(t, out.TotalAmount.Equal(dec("23600")))
	assert.Equal(t, "sent", out.Status)

	stored, err := f.invoices.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalAmount.Equal(dec("23600")))
}

func TestUpdate_StatusIsRederived(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created := f.createInvoice(t, invoiceRequest("Tamil Nadu", 10000))
	f.pay(t, created.ID, "1000")

	edit := invoiceRequest("Tamil Nadu", 10000)
	edit.DueDate = "2026-03-31"
	edit.Status = "sent"
	out, err := f.invoices.Update(ctx, created.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "partially_paid", out.Status)

	// a due date already in the past with nothing paid
	other := f.createInvoice(t, invoiceRequest("Tamil Nadu", 100))
	late := invoiceRequest("Tamil Nadu", 100)
	late.Status = "sent"
	out, err = f.invoices.Update(ctx, other.ID, late)
	require.NoError(t, err)
	assert.Equal(t, "overdue", out.Status)
}

func TestUpdate_PaidStaysPaid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created := f.createInvoice(t, invoiceRequest("Tamil Nadu", 100))
	f.pay(t, created.ID, "118")

	edit := invoiceRequest("Tamil Nadu", 500)
	edit.Status = "draft"
	out, err := f.invoices.Update(ctx, created.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "paid", out.Status)
}

func TestUpdate_Rejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created := f.createInvoice(t, invoiceRequest("Tamil Nadu", 100))

	edit := invoiceRequest("Tamil Nadu", 100)
	edit.Status = "overdue"
	_, err := f.invoices.Update(ctx, created.ID, edit)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = f.invoices.Update(ctx, "missing", invoiceRequest("Tamil Nadu", 100))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_CascadesPayments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	keep := f.createInvoice(t, invoiceRequest("Tamil Nadu", 100))
	drop := f.createInvoice(t, invoiceRequest("Tamil Nadu", 100))
	f.pay(t, keep.ID, "10")
	f.pay(t, drop.ID, "20")

	require.NoError(t, f.invoices.Delete(ctx, drop.ID))

	_, err := f.invoices.Get(ctx, drop.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	payments, err := f.payments.List(ctx)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, keep.ID, payments[0].InvoiceID)

	assert.ErrorIs(t, f.invoices.Delete(ctx, drop.ID), domain.ErrNotFound)
}
