package repository

import (
	"context"

	"github.com/jhoicas/gst-invoicing/internal/domain/entity"
)

// PaymentRepository is the persistence port for payments. Payments are
// append-only; they are only removed together with their invoice.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	// ListByInvoice returns the invoice's payments, newest payment date first.
	ListByInvoice(ctx context.Context, invoiceID string) ([]entity.Payment, error)
	// List returns every payment, newest payment date first.
	List(ctx context.Context) ([]entity.Payment, error)
	DeleteByInvoice(ctx context.Context, invoiceID string) error
}
