// Package ledger aggregates the payments recorded against an invoice.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-invoicing/internal/domain"
	"github.com/jhoicas/gst-invoicing/internal/domain/entity"
)

// Ledger is the payment history of one invoice.
type Ledger struct {
	InvoiceID string
	Payments  []entity.Payment // newest payment date first
	TotalPaid decimal.Decimal
}

// For builds the ledger of invoiceID from payments. Payments that reference
// another invoice are skipped. The input slice is not reordered.
func For(invoiceID string, payments []entity.Payment) Ledger {
	own := make([]entity.Payment, 0, len(payments))
	for _, p := range payments {
		if p.InvoiceID == invoiceID {
			own = append(own, p)
		}
	}
	SortNewestFirst(own)
	return Ledger{
		InvoiceID: invoiceID,
		Payments:  own,
		TotalPaid: TotalPaid(own),
	}
}

// TotalPaid sums AmountPaid over payments.
func TotalPaid(payments []entity.Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.AmountPaid)
	}
	return sum
}

// SortNewestFirst orders payments by payment date descending; payments on the
// same date keep the most recently recorded first.
func SortNewestFirst(payments []entity.Payment) {
	sort.SliceStable(payments, func(i, j int) bool {
		if !payments[i].PaymentDate.Equal(payments[j].PaymentDate) {
			return payments[i].PaymentDate.After(payments[j].PaymentDate)
		}
		return payments[i].CreatedAt.After(payments[j].CreatedAt)
	})
}

// Balance is totalAmount - totalPaid. It is negative when overpaid.
func Balance(totalAmount, totalPaid decimal.Decimal) decimal.Decimal {
	return totalAmount.Sub(totalPaid)
}

// Balance of the ledger against the invoice total.
func (l Ledger) Balance(totalAmount decimal.Decimal) decimal.Decimal {
	return Balance(totalAmount, l.TotalPaid)
}

// PaiseScale is the number of decimal places a payment may carry.
const PaiseScale = 2

// Payable is the amount that settles balance: the balance rounded up to the
// paisa, or zero when nothing is due. Totals keep full precision, so paying
// Payable may leave a negative balance of less than one paisa.
func Payable(balance decimal.Decimal) decimal.Decimal {
	if !balance.IsPositive() {
		return decimal.Zero
	}
	return balance.RoundCeil(PaiseScale)
}

// IsPaiseAmount reports whether amount has at most two decimal places.
func IsPaiseAmount(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(PaiseScale))
}

// CheckPayment validates a new payment amount against the current balance.
// The ceiling is Payable(balance), the same figure printed and encoded in the
// UPI link.
func CheckPayment(amount, balance decimal.Decimal) error {
	if !amount.IsPositive() || !IsPaiseAmount(amount) {
		return domain.ErrInvalidInput
	}
	if amount.GreaterThan(Payable(balance)) {
		return domain.ErrOverpayment
	}
	return nil
}

// TotalsByInvoice sums payments per invoice ID.
func TotalsByInvoice(payments []entity.Payment) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, p := range payments {
		out[p.InvoiceID] = out[p.InvoiceID].Add(p.AmountPaid)
	}
	return out
}
