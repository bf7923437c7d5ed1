// Package analytics builds the dashboard summary of invoicing and collections.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-invoicing/internal/application/billing"
	"github.com/jhoicas/gst-invoicing/internal/application/dto"
	"github.com/jhoicas/gst-invoicing/internal/domain/entity"
	"github.com/jhoicas/gst-invoicing/internal/domain/repository"
)

// StatusSweeper brings stored statuses up to date before the dashboard reads them.
type StatusSweeper interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// DashboardUseCase builds the dashboard numbers.
//
// Reading the dashboard runs the overdue sweep first, so the lists it returns
// reflect today's date even when no background sweeper is configured.
type DashboardUseCase struct {
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	sweeper     StatusSweeper
	settings    billing.Settings
}

// NewDashboardUseCase builds the use case.
func NewDashboardUseCase(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	sweeper StatusSweeper,
	settings billing.Settings,
) *DashboardUseCase {
	return &DashboardUseCase{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		sweeper:     sweeper,
		settings:    settings.WithDefaults(),
	}
}

// GetStats returns the totals, this month's invoices and the overdue invoices.
//
// After the sweep, two reads run in parallel:
//  1. all invoices  -> totals invoiced and GST, month list, overdue list
//  2. all payments  -> total paid, pending amount
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	now := uc.settings.Now()

	// ── Sweep ─────────────────────────────────────────────────────────────────
	changed, err := uc.sweeper.Sweep(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	// ── Parallel reads ────────────────────────────────────────────────────────
	type invoicesResult struct {
		invoices []*entity.Invoice
		err      error
	}
	type paymentsResult struct {
		payments []entity.Payment
		err      error
	}

	invoicesCh := make(chan invoicesResult, 1)
	paymentsCh := make(chan paymentsResult, 1)

	go func() {
		inv, err := uc.invoiceRepo.List(ctx, repository.InvoiceFilter{})
		invoicesCh <- invoicesResult{inv, err}
	}()
	go func() {
		p, err := uc.paymentRepo.List(ctx)
		paymentsCh <- paymentsResult{p, err}
	}()

	invoices := <-invoicesCh
	payments := <-paymentsCh

	if invoices.err != nil {
		return nil, fmt.Errorf("dashboard: invoices: %w", invoices.err)
	}
	if payments.err != nil {
		return nil, fmt.Errorf("dashboard: payments: %w", payments.err)
	}

	// ── Aggregate ─────────────────────────────────────────────────────────────
	var totalInvoiced, totalGST, totalPaid decimal.Decimal
	month := make([]*entity.Invoice, 0)
	overdue := make([]*entity.Invoice, 0)
	for _, inv := range invoices.invoices {
		totalInvoiced = totalInvoiced.Add(inv.TotalAmount)
		totalGST = totalGST.Add(inv.GSTAmount)
		if sameMonth(uc.settings.CalendarDate(inv.InvoiceDate), now) {
			month = append(month, inv)
		}
		if uc.settings.IsOverdue(inv, now) {
			overdue = append(overdue, inv)
		}
	}
	for _, p := range payments.payments {
		totalPaid = totalPaid.Add(p.AmountPaid)
	}

	return &dto.DashboardStatsDTO{
		TotalInvoiced:        totalInvoiced,
		TotalGST:             totalGST,
		TotalPaid:            totalPaid,
		PendingAmount:        totalInvoiced.Sub(totalPaid),
		CurrentMonthInvoices: billing.ToInvoiceResponses(month),
		OverdueInvoices:      billing.ToInvoiceResponses(overdue),
		TotalInvoices:        len(invoices.invoices),
		StatusUpdates:        changed,
		MonthLabel:           monthLabel(now),
	}, nil
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// monthLabel returns e.g. "October 2026".
func monthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", t.Month(), t.Year())
}
