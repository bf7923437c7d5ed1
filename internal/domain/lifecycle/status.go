// Package lifecycle derives the collection status of an invoice from its
// payments and due date.
package lifecycle

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-invoicing/internal/domain/entity"
)

// Input is everything the status machine looks at.
type Input struct {
	Current     entity.InvoiceStatus
	TotalAmount decimal.Decimal
	TotalPaid   decimal.Decimal
	DueDate     time.Time
	Now         time.Time
}

// Next evaluates the transition rules in priority order:
//
//  1. paid stays paid
//  2. total paid >= total amount      -> paid
//  3. total paid > 0                  -> partially_paid
//  4. no payments, past due, and not already partially_paid/overdue -> overdue
//  5. otherwise the status is unchanged
//
// Next is pure; applying it again to its own output yields the same status.
func Next(in Input) entity.InvoiceStatus {
	if in.Current == entity.StatusPaid {
		return entity.StatusPaid
	}
	if in.TotalPaid.GreaterThanOrEqual(in.TotalAmount) {
		return entity.StatusPaid
	}
	if in.TotalPaid.IsPositive() {
		return entity.StatusPartiallyPaid
	}
	if IsOverdue(in.DueDate, in.Now) && in.Current != entity.StatusPartiallyPaid && in.Current != entity.StatusOverdue {
		return entity.StatusOverdue
	}
	return in.Current
}

// IsOverdue reports whether now falls after the due date. The due date is a
// calendar day: the invoice is still on time until that day ends in the
// due date's location.
func IsOverdue(due, now time.Time) bool {
	if due.IsZero() {
		return false
	}
	y, m, d := due.Date()
	endOfDay := time.Date(y, m, d+1, 0, 0, 0, 0, due.Location())
	return !now.Before(endOfDay)
}

// Sweepable reports whether the overdue sweep should look at an invoice in
// this status at all.
func Sweepable(s entity.InvoiceStatus) bool {
	return s != entity.StatusPaid
}
