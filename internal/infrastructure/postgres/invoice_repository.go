package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gst-invoicing/internal/domain"
	"github.com/jhoicas/gst-invoicing/internal/domain/entity"
	"github.com/jhoicas/gst-invoicing/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implements InvoiceRepository over the invoices and
// invoice_items tables. Pass a pool or a tx.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository builds the adapter.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, invoice_number, client_name, client_address, client_gstin, client_state,
	invoice_date, due_date, po_number, sac_code,
	subtotal, gst_type, cgst_amount, sgst_amount, igst_amount, gst_amount, total_amount,
	status, notes, created_at, updated_at`

// Create inserts the header and its items.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.InvoiceNumber, invoice.ClientName,
		nullIfEmpty(invoice.ClientAddress), nullIfEmpty(invoice.ClientGSTIN), invoice.ClientState,
		invoice.InvoiceDate, invoice.DueDate, nullIfEmpty(invoice.PONumber), invoice.SACCode,
		invoice.Subtotal, invoice.GSTType, invoice.CGSTAmount, invoice.SGSTAmount, invoice.IGSTAmount,
		invoice.GSTAmount, invoice.TotalAmount,
		invoice.Status, nullIfEmpty(invoice.Notes), invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: invoice number %s", domain.ErrDuplicate, invoice.InvoiceNumber)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return r.insertItems(ctx, invoice)
}

func (r *InvoiceRepo) insertItems(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, position, description, quantity, rate, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i := range invoice.Items {
		it := &invoice.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.InvoiceID = invoice.ID
		if _, err := r.q.Exec(ctx, query,
			it.ID, it.InvoiceID, it.Position, it.Description, it.Quantity, it.Rate, it.Amount,
		); err != nil {
			return fmt.Errorf("insert invoice item: %w", err)
		}
	}
	return nil
}

// Update rewrites the header and replaces the items.
func (r *InvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET invoice_number = $2,
		    client_name    = $3,
		    client_address = $4,
		    client_gstin   = $5,
		    client_state   = $6,
		    invoice_date   = $7,
		    due_date       = $8,
		    po_number      = $9,
		    sac_code       = $10,
		    subtotal       = $11,
		    gst_type       = $12,
		    cgst_amount    = $13,
		    sgst_amount    = $14,
		    igst_amount    = $15,
		    gst_amount     = $16,
		    total_amount   = $17,
		    status         = $18,
		    notes          = $19,
		    updated_at     = $20
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.InvoiceNumber, invoice.ClientName,
		nullIfEmpty(invoice.ClientAddress), nullIfEmpty(invoice.ClientGSTIN), invoice.ClientState,
		invoice.InvoiceDate, invoice.DueDate, nullIfEmpty(invoice.PONumber), invoice.SACCode,
		invoice.Subtotal, invoice.GSTType, invoice.CGSTAmount, invoice.SGSTAmount, invoice.IGSTAmount,
		invoice.GSTAmount, invoice.TotalAmount,
		invoice.Status, nullIfEmpty(invoice.Notes), invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: invoice number %s", domain.ErrDuplicate, invoice.InvoiceNumber)
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoice.ID); err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	return r.insertItems(ctx, invoice)
}

// UpdateStatus writes only the status columns.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id string, status entity.InvoiceStatus, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE invoices SET status = $2, updated_at = $3 WHERE id = $1`, id, status, updatedAt)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID returns the invoice with its items, or (nil, nil).
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetForUpdate is GetByID with a row lock held until the transaction ends.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

func (r *InvoiceRepo) get(ctx context.Context, query, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	items, err := r.itemsFor(ctx, []string{inv.ID})
	if err != nil {
		return nil, err
	}
	inv.Items = items[inv.ID]
	return inv, nil
}

// List returns invoices newest invoice date first, items included.
func (r *InvoiceRepo) List(ctx context.Context, filter repository.InvoiceFilter) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	var args []any
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY invoice_date DESC, created_at DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Invoice, 0)
	ids := make([]string, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
		ids = append(ids, inv.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	if len(ids) == 0 {
		return out, nil
	}
	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, inv := range out {
		inv.Items = items[inv.ID]
	}
	return out, nil
}

// Delete removes the invoice; items go with it (ON DELETE CASCADE).
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MaxNumberSequence returns the highest numeric suffix among invoice numbers
// of the form prefix + digits, or 0 when there are none.
func (r *InvoiceRepo) MaxNumberSequence(ctx context.Context, prefix string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(MAX(substring(invoice_number FROM $2)::int), 0)
		FROM invoices
		WHERE invoice_number LIKE $1
		  AND substring(invoice_number FROM $2) ~ '^[0-9]{1,9}$'`,
		likePrefix(prefix), utf8.RuneCountInString(prefix)+1,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("max invoice number: %w", err)
	}
	return n, nil
}

func (r *InvoiceRepo) itemsFor(ctx context.Context, invoiceIDs []string) (map[string][]entity.LineItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, invoice_id, position, description, quantity, rate, amount
		FROM invoice_items
		WHERE invoice_id = ANY($1)
		ORDER BY invoice_id, position`, invoiceIDs)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]entity.LineItem, len(invoiceIDs))
	for rows.Next() {
		var it entity.LineItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Position, &it.Description, &it.Quantity, &it.Rate, &it.Amount); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		out[it.InvoiceID] = append(out[it.InvoiceID], it)
	}
	return out, rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var address, gstin, po, notes *string
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.ClientName, &address, &gstin, &inv.ClientState,
		&inv.InvoiceDate, &inv.DueDate, &po, &inv.SACCode,
		&inv.Subtotal, &inv.GSTType, &inv.CGSTAmount, &inv.SGSTAmount, &inv.IGSTAmount,
		&inv.GSTAmount, &inv.TotalAmount,
		&inv.Status, &notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.ClientAddress = derefStr(address)
	inv.ClientGSTIN = derefStr(gstin)
	inv.PONumber = derefStr(po)
	inv.Notes = derefStr(notes)
	return &inv, nil
}
