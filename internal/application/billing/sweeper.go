package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/gst-invoicing/internal/domain/ledger"
	"github.com/jhoicas/gst-invoicing/internal/domain/lifecycle"
	"github.com/jhoicas/gst-invoicing/internal/domain/repository"
)

// OverdueSweeper re-evaluates the status of every unpaid invoice and persists
// the ones that changed, which in practice means moving past-due invoices to
// overdue.
type OverdueSweeper struct {
	txRunner    BillingTxRunner
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	settings    Settings
	log         zerolog.Logger
}

// NewOverdueSweeper builds the sweeper.
func NewOverdueSweeper(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	settings Settings,
	log zerolog.Logger,
) *OverdueSweeper {
	return &OverdueSweeper{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		settings:    settings.WithDefaults(),
		log:         log,
	}
}

// Sweep evaluates all invoices as of now and returns how many changed status.
//
// Candidates are found from an unlocked read. Each change is then confirmed
// under the invoice lock with a fresh payment total, so a payment recorded
// between the two reads wins over the sweep.
func (s *OverdueSweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	invoices, err := s.invoiceRepo.List(ctx, repository.InvoiceFilter{})
	if err != nil {
		return 0, fmt.Errorf("sweep: list invoices: %w", err)
	}
	payments, err := s.paymentRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("sweep: list payments: %w", err)
	}
	paid := ledger.TotalsByInvoice(payments)

	changed := 0
	for _, inv := range invoices {
		if !lifecycle.Sweepable(inv.Status) {
			continue
		}
		if lifecycle.Next(s.settings.lifecycleInput(inv, inv.Status, paid[inv.ID], now)) == inv.Status {
			continue
		}
		ok, err := s.apply(ctx, inv.ID, now)
		if err != nil {
			return changed, err
		}
		if ok {
			changed++
		}
	}
	if changed > 0 {
		s.log.Info().Int("changed", changed).Int("scanned", len(invoices)).Msg("overdue sweep")
	}
	return changed, nil
}

// apply re-derives one invoice's status under its lock.
func (s *OverdueSweeper) apply(ctx context.Context, id string, now time.Time) (bool, error) {
	var changed bool
	err := s.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, paymentRepo repository.PaymentRepository) error {
		inv, err := invoiceRepo.GetForUpdate(ctx, id)
		if err != nil || inv == nil {
			// deleted since the scan
			return err
		}
		totalPaid, _, err := balanceOf(ctx, paymentRepo, inv)
		if err != nil {
			return err
		}
		next := lifecycle.Next(s.settings.lifecycleInput(inv, inv.Status, totalPaid, now))
		if next == inv.Status {
			return nil
		}
		if err := invoiceRepo.UpdateStatus(ctx, inv.ID, next, now); err != nil {
			return err
		}
		s.log.Debug().
			Str("invoice_id", inv.ID).
			Str("from", string(inv.Status)).
			Str("status", string(next)).
			Msg("invoice status updated")
		changed = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("sweep invoice %s: %w", id, err)
	}
	return changed, nil
}

// Run sweeps once immediately and then every interval until ctx is done.
func (s *OverdueSweeper) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	s.log.Info().Dur("interval", interval).Msg("overdue sweeper started")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := s.Sweep(ctx, s.settings.Now()); err != nil && ctx.Err() == nil {
			s.log.Error().Err(err).Msg("overdue sweep failed")
		}
		select {
		case <-ctx.Done():
			s.log.Info().Msg("overdue sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}
