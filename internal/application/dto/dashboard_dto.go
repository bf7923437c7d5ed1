package dto

import "github.com/shopspring/decimal"

// DashboardStatsDTO response of GET /api/dashboard/stats.
type DashboardStatsDTO struct {
	TotalInvoiced decimal.Decimal `json:"total_invoiced"` // sum of invoice totals
	TotalGST      decimal.Decimal `json:"total_gst"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	PendingAmount decimal.Decimal `json:"pending_amount"` // total_invoiced - total_paid

	CurrentMonthInvoices []InvoiceResponse `json:"current_month_invoices"`
	OverdueInvoices      []InvoiceResponse `json:"overdue_invoices"` // past due and not paid
	TotalInvoices        int               `json:"total_invoices"`

	StatusUpdates int    `json:"status_updates"` // invoices moved to overdue by this read
	MonthLabel    string `json:"month_label"`    // e.g. "October 2026"
}
