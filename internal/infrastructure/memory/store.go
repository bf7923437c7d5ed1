// Package memory is an in-process store implementing the repository ports.
// It backs DB_DRIVER=memory and the use case tests. Data is lost on exit.
package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/gst-invoicing/internal/domain"
	"github.com/jhoicas/gst-invoicing/internal/domain/entity"
	"github.com/jhoicas/gst-invoicing/internal/domain/ledger"
	"github.com/jhoicas/gst-invoicing/internal/domain/repository"
)

// Store holds invoices and payments. RunBilling serialises transactions with
// a single lock and restores a snapshot when fn fails.
type Store struct {
	tx sync.Mutex

	mu       sync.RWMutex
	invoices map[string]*entity.Invoice
	payments map[string]entity.Payment
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		invoices: make(map[string]*entity.Invoice),
		payments: make(map[string]entity.Payment),
	}
}

// Invoices returns the invoice repository.
func (s *Store) Invoices() repository.InvoiceRepository { return invoiceRepo{s} }

// Payments returns the payment repository.
func (s *Store) Payments() repository.PaymentRepository { return paymentRepo{s} }

// RunBilling runs fn while holding the store's transaction lock. Changes made
// by fn are rolled back when it returns an error.
func (s *Store) RunBilling(ctx context.Context, fn func(repository.InvoiceRepository, repository.PaymentRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.tx.Lock()
	defer s.tx.Unlock()

	invoices, payments := s.snapshot()
	if err := fn(invoiceRepo{s}, paymentRepo{s}); err != nil {
		s.mu.Lock()
		s.invoices, s.payments = invoices, payments
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) snapshot() (map[string]*entity.Invoice, map[string]entity.Payment) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	invoices := make(map[string]*entity.Invoice, len(s.invoices))
	for k, v := range s.invoices {
		invoices[k] = v
	}
	payments := make(map[string]entity.Payment, len(s.payments))
	for k, v := range s.payments {
		payments[k] = v
	}
	return invoices, payments
}

// cloneInvoice copies inv including its item slice. Stored invoices are
// never shared with callers.
func cloneInvoice(inv *entity.Invoice) *entity.Invoice {
	out := *inv
	out.Items = append([]entity.LineItem(nil), inv.Items...)
	return &out
}

type invoiceRepo struct{ s *Store }

func (r invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[inv.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, other := range r.s.invoices {
		if other.InvoiceNumber == inv.InvoiceNumber {
			return domain.ErrDuplicate
		}
	}
	r.s.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r invoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, other := range r.s.invoices {
		if id != inv.ID && other.InvoiceNumber == inv.InvoiceNumber {
			return domain.ErrDuplicate
		}
	}
	r.s.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r invoiceRepo) UpdateStatus(_ context.Context, id string, status entity.InvoiceStatus, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	next := cloneInvoice(cur)
	next.Status = status
	next.UpdatedAt = updatedAt
	r.s.invoices[id] = next
	return nil
}

func (r invoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	return cloneInvoice(inv), nil
}

// GetForUpdate relies on the transaction lock taken by RunBilling.
func (r invoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r invoiceRepo) List(_ context.Context, filter repository.InvoiceFilter) ([]*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Invoice, 0, len(r.s.invoices))
	for _, inv := range r.s.invoices {
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		out = append(out, cloneInvoice(inv))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].InvoiceDate.Equal(out[j].InvoiceDate) {
			return out[i].InvoiceDate.After(out[j].InvoiceDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r invoiceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.invoices, id)
	return nil
}

func (r invoiceRepo) MaxNumberSequence(_ context.Context, prefix string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	highest := 0
	for _, inv := range r.s.invoices {
		seq, ok := strings.CutPrefix(inv.InvoiceNumber, prefix)
		if !ok || len(seq) == 0 || len(seq) > 9 || strings.Trim(seq, "0123456789") != "" {
			continue
		}
		if n, err := strconv.Atoi(seq); err == nil && n > highest {
			highest = n
		}
	}
	return highest, nil
}

type paymentRepo struct{ s *Store }

func (r paymentRepo) Create(_ context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[p.InvoiceID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.s.payments[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.payments[p.ID] = *p
	return nil
}

func (r paymentRepo) ListByInvoice(_ context.Context, invoiceID string) ([]entity.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.Payment, 0)
	for _, p := range r.s.payments {
		if p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	ledger.SortNewestFirst(out)
	return out, nil
}

func (r paymentRepo) List(_ context.Context) ([]entity.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.Payment, 0, len(r.s.payments))
	for _, p := range r.s.payments {
		out = append(out, p)
	}
	ledger.SortNewestFirst(out)
	return out, nil
}

func (r paymentRepo) DeleteByInvoice(_ context.Context, invoiceID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, p := range r.s.payments {
		if p.InvoiceID == invoiceID {
			delete(r.s.payments, id)
		}
	}
	return nil
}
