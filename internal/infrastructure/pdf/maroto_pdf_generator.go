// Package pdf renders the printable GST tax invoice with Maroto.
//
// A4 page layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: seller name + GSTIN  │  INVOICE no. + date + SAC    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FROM: seller address         │  BILL TO: client + GSTIN     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: Sl | Service | Qty | Rate | Amount                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALS: Sub total / CGST + SGST or IGST / Total + words    │
//	│  PAYMENT STATUS: paid / balance due                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BANK DETAILS + UPI QR        │  SIGNATURE                   │
//	│  NOTES + footer                                              │
//	└─────────────────────────────────────────────────────────────┘
//
// Amounts are printed rounded to whole rupees. The renderer never recomputes
// totals; it prints what the invoice carries.
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/gst-invoicing/internal/application/billing"
	"github.com/jhoicas/gst-invoicing/internal/domain/entity"
	"github.com/jhoicas/gst-invoicing/internal/domain/gst"
	"github.com/jhoicas/gst-invoicing/pkg/money"
)

// ── Palette ───────────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 249, Green: 115, Blue: 22}
	colorAccent  = &props.Color{Red: 13, Green: 148, Blue: 136}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const dateLayout = "2 Jan 2006"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implements billing.InvoicePDFGenerator with Maroto v2.
type MarotoPDFGenerator struct{}

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator builds the generator.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF renders doc and returns the PDF bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, doc appbilling.InvoiceDocument) ([]byte, error) {
	if doc.Invoice == nil {
		return nil, fmt.Errorf("pdf: nil invoice")
	}
	inv, company := doc.Invoice, doc.Company

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Tax Invoice "+inv.InvoiceNumber, true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.6}))
	m.AddRows(partiesRow(inv, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(inv.Items)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(totalRows(inv, doc.Rates)...)
	m.AddRows(paymentStatusRow(inv, doc))
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))

	m.AddRows(bankAndSignatureRow(company, doc.UPILink))
	m.AddRows(notesRows(inv, company)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Sections ──────────────────────────────────────────────────────────────────

func headerRow(inv *entity.Invoice, company entity.CompanyProfile) core.Row {
	return row.New(22).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 15, Color: colorPrimary, Top: 1,
			}),
			text.New("GSTIN: "+company.GSTIN, props.Text{
				Size: 9, Top: 10, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("TAX INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(inv.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 8,
			}),
			text.New("Date: "+strings.ToUpper(inv.InvoiceDate.Format(dateLayout))+
				"   Due: "+strings.ToUpper(inv.DueDate.Format(dateLayout)), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
			text.New("SAC: "+inv.SACCode, props.Text{
				Size: 8, Align: align.Right, Top: 18, Color: colorGray,
			}),
		),
	)
}

func partiesRow(inv *entity.Invoice, company entity.CompanyProfile) core.Row {
	billTo := []string{inv.ClientName}
	billTo = appendIf(billTo, inv.ClientAddress)
	billTo = append(billTo, inv.ClientState)
	if inv.ClientGSTIN != "" {
		billTo = append(billTo, "GSTIN: "+inv.ClientGSTIN)
	}
	if inv.PONumber != "" {
		billTo = append(billTo, "Purchase Order No: "+inv.PONumber)
	}

	from := []string{
		company.Address,
		fmt.Sprintf("%s, %s %s", company.City, company.State, company.Pincode),
	}

	return row.New(28).Add(
		col.New(6).Add(block("FROM", from)...),
		col.New(6).Add(block("BILL TO", billTo)...),
	)
}

func block(title string, lines []string) []core.Component {
	out := []core.Component{
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	}
	for i, l := range lines {
		p := props.Text{Size: 8, Top: float64(6 + 4*i), Color: colorGray}
		if i == 0 && title == "BILL TO" {
			p.Style = fontstyle.Bold
			p.Color = nil
		}
		out = append(out, text.New(l, p))
	}
	return out
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Sl No", 1, align.Center),
		h("Service Provided", 6, align.Left),
		h("Qty", 1, align.Center),
		h("Rate", 2, align.Right),
		h("Amount", 2, align.Right),
	)
}

func itemRows(items []entity.LineItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for i, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(it.Description, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(strconv.FormatInt(it.Quantity, 10), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(money.FormatINRPlain(it.Rate), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(money.FormatINRPlain(it.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalRows(inv *entity.Invoice, rates gst.Rates) []core.Row {
	rows := []core.Row{totalLine("Sub Total:", inv.Subtotal, false)}
	if inv.GSTType == entity.GSTTypeIntraState {
		rows = append(rows,
			totalLine(fmt.Sprintf("CGST (%s%%):", percent(rates.CGST)), inv.CGSTAmount, false),
			totalLine(fmt.Sprintf("SGST (%s%%):", percent(rates.SGST)), inv.SGSTAmount, false),
		)
	} else {
		rows = append(rows, totalLine(fmt.Sprintf("IGST (%s%%):", percent(rates.IGST)), inv.IGSTAmount, false))
	}
	rows = append(rows,
		totalLine("Total:", inv.TotalAmount, true),
		row.New(6).Add(col.New(12).Add(text.New(money.AmountInWords(inv.TotalAmount.Round(0)), props.Text{
			Style: fontstyle.Italic, Size: 8, Align: align.Right, Right: 1, Top: 1, Color: colorGray,
		}))),
	)
	return rows
}

func totalLine(label string, amount decimal.Decimal, grand bool) core.Row {
	p := props.Text{Size: 9, Align: align.Right, Right: 1, Top: 1}
	h := 6.0
	if grand {
		p.Style = fontstyle.Bold
		p.Size = 11
		p.Color = colorPrimary
		h = 8
	}
	lp := p
	lp.Style = fontstyle.Bold
	return row.New(h).Add(
		col.New(6),
		col.New(3).Add(text.New(label, lp)),
		col.New(3).Add(text.New(money.FormatINRPlain(amount), p)),
	)
}

func paymentStatusRow(inv *entity.Invoice, doc appbilling.InvoiceDocument) core.Row {
	status := strings.ToUpper(strings.ReplaceAll(string(inv.Status), "_", " "))
	return row.New(14).Add(
		col.New(12).Add(
			text.New("PAYMENT STATUS: "+status, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorAccent, Top: 3,
			}),
			text.New(fmt.Sprintf("Paid %s of %s   |   Balance Due %s",
				money.FormatINRPlain(doc.TotalPaid),
				money.FormatINRPlain(inv.TotalAmount),
				money.FormatINRPaise(doc.Payable),
			), props.Text{Size: 8, Top: 8, Color: colorGray}),
		),
	)
}

func bankAndSignatureRow(company entity.CompanyProfile, upiLink string) core.Row {
	bank := []string{
		"Account Name: " + company.AccountName,
		"Account No: " + company.AccountNumber,
		"IFSC: " + company.IFSCCode,
		"Bank: " + company.BankName + nonEmpty(", "+company.Branch, ""),
	}
	if company.UPIID != "" {
		bank = append(bank, "UPI: "+company.UPIID)
	}
	sign := []string{
		strings.ToUpper(company.Name),
		"Name: " + company.ProprietorName,
		"Designation: " + company.Designation,
	}

	bankCol := col.New(5).Add(block("BANK DETAILS", bank)...)
	signCol := col.New(4).Add(block("AUTHORISED SIGNATORY", sign)...)
	if upiLink == "" {
		return row.New(32).Add(bankCol, col.New(3), signCol)
	}
	return row.New(32).Add(
		bankCol,
		col.New(3).Add(
			code.NewQr(upiLink, props.Rect{Percent: 80, Center: true}),
		),
		signCol,
	)
}

func notesRows(inv *entity.Invoice, company entity.CompanyProfile) []core.Row {
	var rows []core.Row
	if strings.TrimSpace(inv.Notes) != "" {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New("Notes:", props.Text{Style: fontstyle.Bold, Size: 8, Top: 1}),
		)))
		for _, n := range strings.Split(strings.TrimSpace(inv.Notes), "\n") {
			rows = append(rows, row.New(4).Add(col.New(12).Add(
				text.New(n, props.Text{Size: 8, Color: colorGray, Left: 2}),
			)))
		}
	}
	rows = append(rows,
		row.New(10).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Payment is due by %s. Kindly share payment confirmation at %s / %s.",
				inv.DueDate.Format(dateLayout), company.Email, company.Phone),
				props.Text{Size: 7.5, Color: colorGray, Top: 3}),
		)),
		row.New(6).Add(col.New(12).Add(
			text.New("This is a computer-generated invoice and does not require a physical signature.",
				props.Text{Size: 7, Color: colorGray, Align: align.Center, Top: 1}),
		)),
		row.New(6).Add(col.New(12).Add(
			text.New(strings.Join(nonBlank(company.Phone, company.Website, company.Email), "   |   "),
				props.Text{Size: 7.5, Color: colorAccent, Align: align.Center, Top: 1}),
		)),
	)
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).String()
}

func nonEmpty(s, fallback string) string {
	if strings.Trim(s, ", ") != "" {
		return s
	}
	return fallback
}

func appendIf(lines []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		return append(lines, s)
	}
	return lines
}

func nonBlank(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = appendIf(out, v)
	}
	return out
}
