package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-invoicing/internal/application/dto"
	"github.com/jhoicas/gst-invoicing/internal/domain"
	"github.com/jhoicas/gst-invoicing/internal/domain/entity"
	"github.com/jhoicas/gst-invoicing/internal/domain/ledger"
	"github.com/jhoicas/gst-invoicing/internal/domain/lifecycle"
	"github.com/jhoicas/gst-invoicing/internal/domain/repository"
)

// PaymentUseCase records payments and reads the payment ledger.
type PaymentUseCase struct {
	txRunner    BillingTxRunner
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	settings    Settings
}

// NewPaymentUseCase builds the use case.
func NewPaymentUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	settings Settings,
) *PaymentUseCase {
	return &PaymentUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		settings:    settings.WithDefaults(),
	}
}

// Record stores a payment and moves the invoice to its derived status in one
// transaction. The invoice row is locked first, so two concurrent payments
// for the same invoice are checked against the balance one after the other.
//
// Returns:
//   - domain.ErrInvalidInput  for a malformed request or amount <= 0.
//   - domain.ErrNotFound      if the invoice does not exist.
//   - domain.ErrOverpayment   if the amount exceeds the outstanding balance.
func (uc *PaymentUseCase) Record(ctx context.Context, in dto.CreatePaymentRequest) (*dto.RecordPaymentResponse, error) {
	if strings.TrimSpace(in.InvoiceID) == "" {
		return nil, fmt.Errorf("%w: invoice_id is required", domain.ErrInvalidInput)
	}
	mode := entity.PaymentModeUPI
	if in.Mode != "" {
		mode = entity.PaymentMode(in.Mode)
		if !mode.IsValid() {
			return nil, fmt.Errorf("%w: unknown payment mode %q", domain.ErrInvalidInput, in.Mode)
		}
	}
	paymentDate := uc.settings.today()
	if in.PaymentDate != "" {
		d, err := uc.settings.parseDate(in.PaymentDate)
		if err != nil {
			return nil, fmt.Errorf("%w: payment_date: %v", domain.ErrInvalidInput, err)
		}
		paymentDate = d
	}
	if !in.AmountPaid.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than 0", domain.ErrInvalidInput)
	}
	if !ledger.IsPaiseAmount(in.AmountPaid) {
		return nil, fmt.Errorf("%w: amount has more than %d decimal places", domain.ErrInvalidInput, ledger.PaiseScale)
	}

	var out dto.RecordPaymentResponse
	err := uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, paymentRepo repository.PaymentRepository) error {
		// ── 1. Lock the invoice ───────────────────────────────────────────────
		inv, err := invoiceRepo.GetForUpdate(ctx, in.InvoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}

		// ── 2. Check against the balance under the lock ───────────────────────
		existing, err := paymentRepo.ListByInvoice(ctx, inv.ID)
		if err != nil {
			return err
		}
		led := ledger.For(inv.ID, existing)
		balance := led.Balance(inv.TotalAmount)
		if err := ledger.CheckPayment(in.AmountPaid, balance); err != nil {
			return fmt.Errorf("%w (payable %s)", err, ledger.Payable(balance).StringFixed(2))
		}

		// ── 3. Insert the payment ─────────────────────────────────────────────
		now := uc.settings.Now()
		payment := entity.Payment{
			ID:          uuid.New().String(),
			InvoiceID:   inv.ID,
			PaymentDate: paymentDate,
			AmountPaid:  in.AmountPaid,
			Mode:        mode,
			ReferenceID: strings.TrimSpace(in.ReferenceID),
			CreatedAt:   now,
		}
		if err := paymentRepo.Create(ctx, &payment); err != nil {
			return err
		}

		// ── 4. Re-derive the status ───────────────────────────────────────────
		totalPaid := led.TotalPaid.Add(payment.AmountPaid)
		next := lifecycle.Next(uc.settings.lifecycleInput(inv, inv.Status, totalPaid, now))
		if next != inv.Status {
			if err := invoiceRepo.UpdateStatus(ctx, inv.ID, next, now); err != nil {
				return err
			}
		}

		out = dto.RecordPaymentResponse{
			Payment:       ToPaymentResponse(payment),
			InvoiceStatus: string(next),
			TotalPaid:     totalPaid,
			Balance:       ledger.Balance(inv.TotalAmount, totalPaid),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns every payment, newest payment date first.
func (uc *PaymentUseCase) List(ctx context.Context) ([]dto.PaymentResponse, error) {
	payments, err := uc.paymentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	ledger.SortNewestFirst(payments)
	return toPaymentResponses(payments), nil
}

// Ledger returns the payments of one invoice with their total and the
// remaining balance.
func (uc *PaymentUseCase) Ledger(ctx context.Context, invoiceID string) (*dto.LedgerResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	payments, err := uc.paymentRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	led := ledger.For(invoiceID, payments)
	return &dto.LedgerResponse{
		InvoiceID: invoiceID,
		Payments:  toPaymentResponses(led.Payments),
		TotalPaid: led.TotalPaid,
		Balance:   led.Balance(inv.TotalAmount),
	}, nil
}

// balanceOf loads the payments of inv and returns what was paid and what is due.
func balanceOf(ctx context.Context, paymentRepo repository.PaymentRepository, inv *entity.Invoice) (paid, due decimal.Decimal, err error) {
	payments, err := paymentRepo.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("list payments: %w", err)
	}
	led := ledger.For(inv.ID, payments)
	return led.TotalPaid, led.Balance(inv.TotalAmount), nil
}
