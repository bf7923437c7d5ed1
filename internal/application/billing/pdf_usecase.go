package billing

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-invoicing/internal/domain"
	"github.com/jhoicas/gst-invoicing/internal/domain/entity"
	"github.com/jhoicas/gst-invoicing/internal/domain/ledger"
	"github.com/jhoicas/gst-invoicing/internal/domain/repository"
)

// PDFUseCase renders the printable tax invoice.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	generator   InvoicePDFGenerator
	settings    Settings
}

// NewPDFUseCase builds the use case.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	generator InvoicePDFGenerator,
	settings Settings,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		generator:   generator,
		settings:    settings.WithDefaults(),
	}
}

// Download loads the invoice, its payments and the seller profile and renders
// the PDF.
//
// Returns:
//   - (pdfBytes, filename, nil) on success.
//   - domain.ErrNotFound        if the invoice does not exist.
func (uc *PDFUseCase) Download(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	doc, err := loadDocument(ctx, uc.invoiceRepo, uc.paymentRepo, uc.settings, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: %w", err)
	}
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: render: %w", err)
	}
	return pdfBytes, documentFilename(doc.Invoice, "pdf"), nil
}

func loadDocument(
	ctx context.Context,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	settings Settings,
	invoiceID string,
) (InvoiceDocument, error) {
	inv, err := invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return InvoiceDocument{}, fmt.Errorf("get invoice: %w", err)
	}
	if inv == nil {
		return InvoiceDocument{}, domain.ErrNotFound
	}
	paid, due, err := balanceOf(ctx, paymentRepo, inv)
	if err != nil {
		return InvoiceDocument{}, err
	}
	return InvoiceDocument{
		Invoice:   inv,
		Company:   settings.Company,
		Rates:     settings.Calculator.Rates(),
		TotalPaid: paid,
		Balance:   due,
		Payable:   ledger.Payable(due),
		UPILink:   UPILink(settings.Company, inv.InvoiceNumber, ledger.Payable(due)),
	}, nil
}

// UPILink builds a upi://pay URI asking for amount, which callers pass as
// ledger.Payable of the balance. It is empty when the seller has no VPA or
// nothing is due.
func UPILink(company entity.CompanyProfile, invoiceNumber string, amount decimal.Decimal) string {
	if company.UPIID == "" || !amount.IsPositive() {
		return ""
	}
	q := []string{
		"pa=" + url.QueryEscape(company.UPIID),
		"pn=" + url.PathEscape(company.Name),
		"am=" + amount.StringFixed(ledger.PaiseScale),
		"cu=INR",
		"tn=" + url.PathEscape(invoiceNumber),
	}
	return "upi://pay?" + strings.Join(q, "&")
}

func documentFilename(inv *entity.Invoice, ext string) string {
	name := inv.InvoiceNumber
	if name == "" {
		name = inv.ID
	}
	return fmt.Sprintf("invoice_%s.%s", name, ext)
}
