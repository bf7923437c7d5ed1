package export

import (
	"context"
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/gst-invoicing/internal/application/billing"
	"github.com/jhoicas/gst-invoicing/internal/domain/entity"
)

// TallyLedgers names the ledgers a sales voucher posts to.
type TallyLedgers struct {
	Sales    string
	CGST     string
	SGST     string
	IGST     string
	RoundOff string
}

// DefaultTallyLedgers match the ledger names of a fresh Tally company with GST enabled.
func DefaultTallyLedgers() TallyLedgers {
	return TallyLedgers{
		Sales:    "Sales",
		CGST:     "Output CGST",
		SGST:     "Output SGST",
		IGST:     "Output IGST",
		RoundOff: "Round Off",
	}
}

// TallyVoucher implements billing.VoucherExporter as a Tally XML import
// envelope holding one sales voucher.
type TallyVoucher struct {
	ledgers TallyLedgers
}

var _ appbilling.VoucherExporter = (*TallyVoucher)(nil)

// NewTallyVoucher builds the exporter.
func NewTallyVoucher(ledgers TallyLedgers) *TallyVoucher {
	return &TallyVoucher{ledgers: ledgers}
}

// ExportVoucher writes the invoice as a sales voucher. The party is debited
// the rounded invoice total; sales and tax ledgers are credited to the paisa
// and the difference goes to the round-off ledger, so the voucher balances.
// Tally signs debits negative.
func (t *TallyVoucher) ExportVoucher(_ context.Context, doc appbilling.InvoiceDocument) ([]byte, error) {
	inv := doc.Invoice
	if inv == nil {
		return nil, fmt.Errorf("tally: nil invoice")
	}

	x := etree.NewDocument()
	x.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	env := x.CreateElement("ENVELOPE")
	env.CreateElement("HEADER").CreateElement("TALLYREQUEST").SetText("Import Data")

	imp := env.CreateElement("BODY").CreateElement("IMPORTDATA")
	desc := imp.CreateElement("REQUESTDESC")
	desc.CreateElement("REPORTNAME").SetText("Vouchers")
	desc.CreateElement("STATICVARIABLES").CreateElement("SVCURRENTCOMPANY").SetText(doc.Company.Name)

	msg := imp.CreateElement("REQUESTDATA").CreateElement("TALLYMESSAGE")
	msg.CreateAttr("xmlns:UDF", "TallyUDF")

	v := msg.CreateElement("VOUCHER")
	v.CreateAttr("VCHTYPE", "Sales")
	v.CreateAttr("ACTION", "Create")
	v.CreateElement("DATE").SetText(inv.InvoiceDate.Format("20060102"))
	v.CreateElement("VOUCHERTYPENAME").SetText("Sales")
	v.CreateElement("VOUCHERNUMBER").SetText(inv.InvoiceNumber)
	v.CreateElement("PARTYLEDGERNAME").SetText(inv.ClientName)
	v.CreateElement("PARTYNAME").SetText(inv.ClientName)
	if inv.ClientGSTIN != "" {
		v.CreateElement("PARTYGSTIN").SetText(inv.ClientGSTIN)
	}
	v.CreateElement("STATENAME").SetText(inv.ClientState)
	v.CreateElement("PLACEOFSUPPLY").SetText(inv.ClientState)
	if inv.PONumber != "" {
		v.CreateElement("REFERENCE").SetText(inv.PONumber)
	}
	v.CreateElement("NARRATION").SetText(narration(inv))

	total := inv.TotalAmount.Round(0)
	entry(v, inv.ClientName, total.Neg(), true)

	credited := inv.Subtotal.Round(2)
	entry(v, t.ledgers.Sales, credited, false)
	if inv.GSTType == entity.GSTTypeIntraState {
		cgst, sgst := inv.CGSTAmount.Round(2), inv.SGSTAmount.Round(2)
		entry(v, t.ledgers.CGST, cgst, false)
		entry(v, t.ledgers.SGST, sgst, false)
		credited = credited.Add(cgst).Add(sgst)
	} else {
		igst := inv.IGSTAmount.Round(2)
		entry(v, t.ledgers.IGST, igst, false)
		credited = credited.Add(igst)
	}
	if diff := total.Sub(credited); !diff.IsZero() {
		entry(v, t.ledgers.RoundOff, diff, !diff.IsPositive())
	}

	x.Indent(2)
	out, err := x.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("tally: write: %w", err)
	}
	return out, nil
}

func entry(v *etree.Element, ledgerName string, amount decimal.Decimal, debit bool) {
	e := v.CreateElement("ALLLEDGERENTRIES.LIST")
	e.CreateElement("LEDGERNAME").SetText(ledgerName)
	e.CreateElement("ISDEEMEDPOSITIVE").SetText(yesNo(debit))
	e.CreateElement("AMOUNT").SetText(amount.StringFixed(2))
}

func narration(inv *entity.Invoice) string {
	if inv.Notes != "" {
		return inv.Notes
	}
	return fmt.Sprintf("Being services rendered vide invoice %s (SAC %s)", inv.InvoiceNumber, inv.SACCode)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
