package billing_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gst-invoicing/internal/application/dto"
	"github.com/jhoicas/gst-invoicing/internal/domain"
)

func TestRecord_PartialThenFull(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv := f.createInvoice(t, invoiceRequest("Tamil Nadu", 10000))

	first := f.pay(t, inv.ID, "5000")
	assert.Equal(t, "partially_paid", first.InvoiceStatus)
	assert.True(t, first.TotalPaid.Equal(dec("5000")))
	assert.True(t, first.Balance.Equal(dec("6800")))
	assert.Equal(t, "UPI", first.Payment.Mode)
	assert.Equal(t, "2026-03-10", first.Payment.PaymentDate)

	second := f.pay(t, inv.ID, "6800")
	assert.Equal(t, "paid", second.InvoiceStatus)
	assert.True(t, second.Balance.IsZero())

	stored, err := f.invoices.Get(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", stored.Status)
}

func TestRecord_Overpayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv := f.createInvoice(t, invoiceRequest("Tamil Nadu", 10000))
	f.pay(t, inv.ID, "11000")

	_, err := f.payments.Record(ctx, dto.CreatePaymentRequest{InvoiceID: inv.ID, AmountPaid: dec("800.01")})
	assert.ErrorIs(t, err, domain.ErrOverpayment)

	led, err := f.payments.Ledger(ctx, inv.ID)
	require.NoError(t, err)
	assert.Len(t, led.Payments, 1)
	assert.True(t, led.Balance.Equal(dec("800")))

	// exactly the balance is fine
	out := f.pay(t, inv.ID, "800")
	assert.Equal(t, "paid", out.InvoiceStatus)

	// nothing more can be paid on a settled invoice
	_, err = f.payments.Record(ctx, dto.CreatePaymentRequest{InvoiceID: inv.ID, AmountPaid: dec("1")})
	assert.ErrorIs(t, err, domain.ErrOverpayment)
}

func TestRecord_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv := f.createInvoice(t, invoiceRequest("Tamil Nadu", 100))

	cases := []struct {
		name string
		in   dto.CreatePaymentRequest
		want error
	}{
		{"no invoice", dto.CreatePaymentRequest{AmountPaid: dec("1")}, domain.ErrInvalidInput},
		{"zero amount", dto.CreatePaymentRequest{InvoiceID: inv.ID, AmountPaid: dec("0")}, domain.ErrInvalidInput},
		{"negative amount", dto.CreatePaymentRequest{InvoiceID: inv.ID, AmountPaid: dec("-5")}, domain.ErrInvalidInput},
		{"sub-paisa amount", dto.CreatePaymentRequest{InvoiceID: inv.ID, AmountPaid: dec("0.001")}, domain.ErrInvalidInput},
		{"bad mode", dto.CreatePaymentRequest{InvoiceID: inv.ID, AmountPaid: dec("1"), Mode: "Cheque"}, domain.ErrInvalidInput},
		{"bad date", dto.CreatePaymentRequest{InvoiceID: inv.ID, AmountPaid: dec("1"), PaymentDate: "yesterday"}, domain.ErrInvalidInput},
		{"unknown invoice", dto.CreatePaymentRequest{InvoiceID: "missing", AmountPaid: dec("1")}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.payments.Record(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	led, err := f.payments.Ledger(ctx, inv.ID)
	require.NoError(t, err)
	assert.Empty(t, led.Payments)
}

func TestRecord_ConcurrentPaymentsNeverOverpay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv := f.createInvoice(t, invoiceRequest("Tamil Nadu", 10000)) // 11800

	const workers = 20
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		ok, over   int
		unexpected []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.payments.Record(ctx, dto.CreatePaymentRequest{InvoiceID: inv.ID, AmountPaid: dec("1000")})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrOverpayment):
				over++
			default:
				unexpected = append(unexpected, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, unexpected)
	assert.Equal(t, 11, ok)
	assert.Equal(t, workers-11, over)

	led, err := f.payments.Ledger(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, led.TotalPaid.Equal(dec("11000")))
	assert.True(t, led.Balance.Equal(dec("800")))

	stored, err := f.invoices.Get(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "partially_paid", stored.Status)
}

func TestLedger_OrderAndTotals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv := f.createInvoice(t, invoiceRequest("Tamil Nadu", 10000))
	other := f.createInvoice(t, invoiceRequest("Tamil Nadu", 10000))

	for _, p := range []dto.CreatePaymentRequest{
		{InvoiceID: inv.ID, AmountPaid: dec("100"), PaymentDate: "2026-03-02", Mode: "Cash"},
		{InvoiceID: inv.ID, AmountPaid: dec("300"), PaymentDate: "2026-03-09", Mode: "Bank", ReferenceID: "UTR123"},
		{InvoiceID: inv.ID, AmountPaid: dec("200"), PaymentDate: "2026-03-05"},
		{InvoiceID: other.ID, AmountPaid: dec("999")},
	} {
		_, err := f.payments.Record(ctx, p)
		require.NoError(t, err)
	}

	led, err := f.payments.Ledger(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, led.Payments, 3)
	assert.Equal(t, []string{"2026-03-09", "2026-03-05", "2026-03-02"},
		[]string{led.Payments[0].PaymentDate, led.Payments[1].PaymentDate, led.Payments[2].PaymentDate})
	assert.Equal(t, "UTR123", led.Payments[0].ReferenceID)
	assert.True(t, led.TotalPaid.Equal(dec("600")))
	assert.True(t, led.Balance.Equal(dec("11200")))

	all, err := f.payments.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "2026-03-10", all[0].PaymentDate)

	_, err = f.payments.Ledger(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
