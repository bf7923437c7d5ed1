package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/gst-invoicing/internal/domain/entity"
	"github.com/jhoicas/gst-invoicing/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implements PaymentRepository over the payments table.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository builds the adapter. Pass a pool or a tx.
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, invoice_id, payment_date, amount_paid, mode, reference_id, created_at`

// Create inserts a payment.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.InvoiceID, p.PaymentDate, p.AmountPaid, p.Mode, nullIfEmpty(p.ReferenceID), p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// ListByInvoice returns the invoice's payments, newest first.
func (r *PaymentRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]entity.Payment, error) {
	return r.list(ctx, `
		SELECT `+paymentColumns+` FROM payments
		WHERE invoice_id = $1
		ORDER BY payment_date DESC, created_at DESC`, invoiceID)
}

// List returns all payments, newest first.
func (r *PaymentRepo) List(ctx context.Context) ([]entity.Payment, error) {
	return r.list(ctx, `
		SELECT `+paymentColumns+` FROM payments
		ORDER BY payment_date DESC, created_at DESC`)
}

// DeleteByInvoice removes every payment of the invoice.
func (r *PaymentRepo) DeleteByInvoice(ctx context.Context, invoiceID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM payments WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("delete payments: %w", err)
	}
	return nil
}

func (r *PaymentRepo) list(ctx context.Context, query string, args ...any) ([]entity.Payment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Payment, 0)
	for rows.Next() {
		var p entity.Payment
		var ref *string
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.PaymentDate, &p.AmountPaid, &p.Mode, &ref, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.ReferenceID = derefStr(ref)
		out = append(out, p)
	}
	return out, rows.Err()
}
