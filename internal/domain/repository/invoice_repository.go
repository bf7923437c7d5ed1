package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gst-invoicing/internal/domain/entity"
)

// InvoiceFilter narrows List. Empty fields mean no filter.
type InvoiceFilter struct {
	Status entity.InvoiceStatus
}

// InvoiceRepository is the persistence port for invoices and their line items.
// Lookups return (nil, nil) when the invoice does not exist.
type InvoiceRepository interface {
	// Create persists the invoice header and its line items.
	Create(ctx context.Context, invoice *entity.Invoice) error
	// Update replaces header fields and line items.
	Update(ctx context.Context, invoice *entity.Invoice) error
	// UpdateStatus writes only status and updated_at.
	UpdateStatus(ctx context.Context, id string, status entity.InvoiceStatus, updatedAt time.Time) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetForUpdate is GetByID that also serialises concurrent writers of the
	// same invoice until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	// List returns invoices ordered by invoice date, newest first.
	List(ctx context.Context, filter InvoiceFilter) ([]*entity.Invoice, error)
	// Delete removes the invoice; returns domain.ErrNotFound when absent.
	Delete(ctx context.Context, id string) error
	// MaxNumberSequence returns the highest n among invoice numbers of the
	// form prefix + n, or 0 when there are none.
	MaxNumberSequence(ctx context.Context, prefix string) (int, error)
}
