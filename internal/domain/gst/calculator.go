// Package gst computes invoice totals under Indian GST: CGST + SGST for
// intra-state supplies, IGST for inter-state supplies.
package gst

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-invoicing/internal/domain/entity"
)

// Tax rates in percent. A rate change is a one-line edit here.
const (
	CGSTPercent = 9
	SGSTPercent = 9
	IGSTPercent = 18
)

// Rates are the fractional tax rates used by a Calculator.
type Rates struct {
	CGST decimal.Decimal
	SGST decimal.Decimal
	IGST decimal.Decimal
}

// DefaultRates derives Rates from the percent constants.
func DefaultRates() Rates {
	hundred := decimal.NewFromInt(100)
	return Rates{
		CGST: decimal.NewFromInt(CGSTPercent).Div(hundred),
		SGST: decimal.NewFromInt(SGSTPercent).Div(hundred),
		IGST: decimal.NewFromInt(IGSTPercent).Div(hundred),
	}
}

// Totals are the derived financial fields of an invoice. Values are not
// rounded; use Rounded for presentation.
type Totals struct {
	Subtotal    decimal.Decimal
	GSTType     entity.GSTType
	CGSTAmount  decimal.Decimal
	SGSTAmount  decimal.Decimal
	IGSTAmount  decimal.Decimal
	GSTAmount   decimal.Decimal
	TotalAmount decimal.Decimal
}

// Rounded returns a copy with every amount rounded to whole rupees.
// TotalAmount is rounded on its own, not recomputed from rounded parts.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal:    t.Subtotal.Round(0),
		GSTType:     t.GSTType,
		CGSTAmount:  t.CGSTAmount.Round(0),
		SGSTAmount:  t.SGSTAmount.Round(0),
		IGSTAmount:  t.IGSTAmount.Round(0),
		GSTAmount:   t.GSTAmount.Round(0),
		TotalAmount: t.TotalAmount.Round(0),
	}
}

// ApplyTo copies the totals onto inv.
func (t Totals) ApplyTo(inv *entity.Invoice) {
	inv.Subtotal = t.Subtotal
	inv.GSTType = t.GSTType
	inv.CGSTAmount = t.CGSTAmount
	inv.SGSTAmount = t.SGSTAmount
	inv.IGSTAmount = t.IGSTAmount
	inv.GSTAmount = t.GSTAmount
	inv.TotalAmount = t.TotalAmount
}

// TotalsOf reads the derived fields back from an invoice.
func TotalsOf(inv *entity.Invoice) Totals {
	return Totals{
		Subtotal:    inv.Subtotal,
		GSTType:     inv.GSTType,
		CGSTAmount:  inv.CGSTAmount,
		SGSTAmount:  inv.SGSTAmount,
		IGSTAmount:  inv.IGSTAmount,
		GSTAmount:   inv.GSTAmount,
		TotalAmount: inv.TotalAmount,
	}
}

// Calculator computes Totals with a fixed set of rates.
type Calculator struct {
	rates Rates
}

// NewCalculator builds a calculator with the given rates.
func NewCalculator(rates Rates) Calculator {
	return Calculator{rates: rates}
}

// Rates returns the rates the calculator was built with.
func (c Calculator) Rates() Rates { return c.rates }

// TypeFor returns CGST_SGST when both parties are in the same state and IGST
// otherwise. Comparison is exact; callers must pass canonical state names.
func TypeFor(sellerState, buyerState string) entity.GSTType {
	if buyerState == sellerState {
		return entity.GSTTypeIntraState
	}
	return entity.GSTTypeInterState
}

// LineAmount returns quantity * rate.
func LineAmount(quantity int64, rate decimal.Decimal) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(quantity))
}

// NormalizeItems returns a copy of items with every Amount recomputed.
func NormalizeItems(items []entity.LineItem) []entity.LineItem {
	out := make([]entity.LineItem, len(items))
	for i, it := range items {
		it.Amount = LineAmount(it.Quantity, it.Rate)
		out[i] = it
	}
	return out
}

// Compute derives the invoice totals. Line amounts are recomputed from
// quantity and rate; stored amounts are ignored.
func (c Calculator) Compute(items []entity.LineItem, sellerState, buyerState string) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(LineAmount(it.Quantity, it.Rate))
	}

	t := Totals{
		Subtotal:   subtotal,
		GSTType:    TypeFor(sellerState, buyerState),
		CGSTAmount: decimal.Zero,
		SGSTAmount: decimal.Zero,
		IGSTAmount: decimal.Zero,
	}
	if t.GSTType == entity.GSTTypeIntraState {
		t.CGSTAmount = subtotal.Mul(c.rates.CGST)
		t.SGSTAmount = subtotal.Mul(c.rates.SGST)
	} else {
		t.IGSTAmount = subtotal.Mul(c.rates.IGST)
	}
	t.GSTAmount = t.CGSTAmount.Add(t.SGSTAmount).Add(t.IGSTAmount)
	t.TotalAmount = subtotal.Add(t.GSTAmount)
	return t
}

// ComputeTotals computes totals with DefaultRates.
func ComputeTotals(items []entity.LineItem, sellerState, buyerState string) Totals {
	return NewCalculator(DefaultRates()).Compute(items, sellerState, buyerState)
}
