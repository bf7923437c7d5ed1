// Package export writes invoices in formats accountants import: an XLSX
// register and Tally sales vouchers.
package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	appbilling "github.com/jhoicas/gst-invoicing/internal/application/billing"
	"github.com/jhoicas/gst-invoicing/internal/domain/entity"
	"github.com/jhoicas/gst-invoicing/internal/domain/gst"
	"github.com/jhoicas/gst-invoicing/internal/domain/ledger"
)

// Sheet names of the register workbook.
const (
	SheetInvoices = "Invoices"
	SheetPayments = "Payments"
)

const registerDateLayout = "02-01-2006"

var invoiceHeader = []any{
	"Invoice No", "Invoice Date", "Due Date", "Client", "Client GSTIN", "Place of Supply",
	"Status", "GST Type", "Taxable Value", "CGST", "SGST", "IGST", "Invoice Total", "Paid", "Balance",
}

var paymentHeader = []any{
	"Payment Date", "Invoice No", "Client", "Mode", "Reference", "Amount",
}

// ExcelRegister implements billing.RegisterExporter with excelize.
type ExcelRegister struct{}

var _ appbilling.RegisterExporter = (*ExcelRegister)(nil)

// NewExcelRegister builds the exporter.
func NewExcelRegister() *ExcelRegister { return &ExcelRegister{} }

// ExportRegister writes one row per invoice and one per payment, with a
// totals row under each sheet. Amounts are rounded to whole rupees.
func (e *ExcelRegister) ExportRegister(_ context.Context, invoices []*entity.Invoice, payments []entity.Payment) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetInvoices); err != nil {
		return nil, fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetPayments); err != nil {
		return nil, fmt.Errorf("xlsx: new sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: style: %w", err)
	}

	paid := ledger.TotalsByInvoice(payments)
	byID := make(map[string]*entity.Invoice, len(invoices))

	rows := make([][]any, 0, len(invoices))
	for _, inv := range invoices {
		byID[inv.ID] = inv
		t := gst.TotalsOf(inv).Rounded()
		p := paid[inv.ID].Round(0)
		rows = append(rows, []any{
			inv.InvoiceNumber,
			inv.InvoiceDate.Format(registerDateLayout),
			inv.DueDate.Format(registerDateLayout),
			inv.ClientName,
			inv.ClientGSTIN,
			inv.ClientState,
			string(inv.Status),
			string(inv.GSTType),
			t.Subtotal.InexactFloat64(),
			t.CGSTAmount.InexactFloat64(),
			t.SGSTAmount.InexactFloat64(),
			t.IGSTAmount.InexactFloat64(),
			t.TotalAmount.InexactFloat64(),
			p.InexactFloat64(),
			t.TotalAmount.Sub(p).InexactFloat64(),
		})
	}
	if err := writeSheet(f, SheetInvoices, invoiceHeader, rows, "I", "O", bold); err != nil {
		return nil, err
	}

	rows = rows[:0]
	for _, p := range payments {
		number, client := "", ""
		if inv, ok := byID[p.InvoiceID]; ok {
			number, client = inv.InvoiceNumber, inv.ClientName
		}
		rows = append(rows, []any{
			p.PaymentDate.Format(registerDateLayout),
			number,
			client,
			string(p.Mode),
			p.ReferenceID,
			p.AmountPaid.Round(0).InexactFloat64(),
		})
	}
	if err := writeSheet(f, SheetPayments, paymentHeader, rows, "F", "F", bold); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: write: %w", err)
	}
	return buf.Bytes(), nil
}

// writeSheet writes header, rows and a SUM row over the columns firstSum..lastSum.
func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any, firstSum, lastSum string, bold int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: %s header: %w", sheet, err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("xlsx: %s header style: %w", sheet, err)
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("xlsx: %s row %d: %w", sheet, i+2, err)
		}
	}

	totalRow := len(rows) + 2
	label, _ := excelize.CoordinatesToCellName(1, totalRow)
	if err := f.SetCellValue(sheet, label, "Total"); err != nil {
		return fmt.Errorf("xlsx: %s total: %w", sheet, err)
	}
	first, _ := excelize.ColumnNameToNumber(firstSum)
	last, _ := excelize.ColumnNameToNumber(lastSum)
	for c := first; c <= last; c++ {
		name, _ := excelize.ColumnNumberToName(c)
		formula := fmt.Sprintf("SUM(%s2:%s%d)", name, name, totalRow-1)
		if len(rows) == 0 {
			formula = "0"
		}
		if err := f.SetCellFormula(sheet, fmt.Sprintf("%s%d", name, totalRow), formula); err != nil {
			return fmt.Errorf("xlsx: %s total formula: %w", sheet, err)
		}
	}
	if err := f.SetCellStyle(sheet, label, fmt.Sprintf("%s%d", lastCol, totalRow), bold); err != nil {
		return fmt.Errorf("xlsx: %s total style: %w", sheet, err)
	}
	return f.SetColWidth(sheet, "A", lastCol, 16)
}
