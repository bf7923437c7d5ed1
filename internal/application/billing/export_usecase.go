package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/gst-invoicing/internal/domain/repository"
)

// ExportUseCase hands invoices to the accountant: a spreadsheet register of
// everything, or one invoice as a Tally sales voucher.
type ExportUseCase struct {
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	register    RegisterExporter
	voucher     VoucherExporter
	settings    Settings
}

// NewExportUseCase builds the use case.
func NewExportUseCase(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	register RegisterExporter,
	voucher VoucherExporter,
	settings Settings,
) *ExportUseCase {
	return &ExportUseCase{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		register:    register,
		voucher:     voucher,
		settings:    settings.WithDefaults(),
	}
}

// RegisterFilename is the download name of the XLSX register.
const RegisterFilename = "gst_register.xlsx"

// Register writes all invoices and payments.
func (uc *ExportUseCase) Register(ctx context.Context) ([]byte, error) {
	invoices, err := uc.invoiceRepo.List(ctx, repository.InvoiceFilter{})
	if err != nil {
		return nil, fmt.Errorf("export: list invoices: %w", err)
	}
	payments, err := uc.paymentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: list payments: %w", err)
	}
	out, err := uc.register.ExportRegister(ctx, invoices, payments)
	if err != nil {
		return nil, fmt.Errorf("export: register: %w", err)
	}
	return out, nil
}

// TallyVoucher writes one invoice as voucher XML and returns it with its
// download name.
func (uc *ExportUseCase) TallyVoucher(ctx context.Context, invoiceID string) ([]byte, string, error) {
	doc, err := loadDocument(ctx, uc.invoiceRepo, uc.paymentRepo, uc.settings, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("export: %w", err)
	}
	out, err := uc.voucher.ExportVoucher(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("export: voucher: %w", err)
	}
	return out, documentFilename(doc.Invoice, "xml"), nil
}
