// Package bootstrap wires repositories and use cases from configuration. It is
// shared by the HTTP server and the operator CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jhoicas/gst-invoicing/internal/application/analytics"
	"github.com/jhoicas/gst-invoicing/internal/application/auth"
	"github.com/jhoicas/gst-invoicing/internal/application/billing"
	"github.com/jhoicas/gst-invoicing/internal/domain/repository"
	"github.com/jhoicas/gst-invoicing/internal/infrastructure/export"
	"github.com/jhoicas/gst-invoicing/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/gst-invoicing/internal/infrastructure/pdf"
	"github.com/jhoicas/gst-invoicing/internal/infrastructure/postgres"
	"github.com/jhoicas/gst-invoicing/pkg/config"
	"github.com/jhoicas/gst-invoicing/pkg/logger"
)

// Services is the wired application.
type Services struct {
	Settings  billing.Settings
	Invoices  *billing.InvoiceUseCase
	Payments  *billing.PaymentUseCase
	PDF       *billing.PDFUseCase
	Export    *billing.ExportUseCase
	Sweeper   *billing.OverdueSweeper
	Dashboard *analytics.DashboardUseCase
	Auth      *auth.AuthUseCase

	close func()
}

// Close releases the database pool, if any.
func (s *Services) Close() {
	if s.close != nil {
		s.close()
	}
}

// New opens the configured store and builds every use case.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Services, error) {
	company, err := config.LoadCompanyProfile(cfg.Billing.CompanyProfilePath)
	if err != nil {
		return nil, err
	}
	settings := billing.Settings{
		InvoicePrefix: cfg.Billing.InvoicePrefix,
		Location:      cfg.Billing.Location(),
		Company:       company,
	}.WithDefaults()

	var (
		txRunner    billing.BillingTxRunner
		invoiceRepo repository.InvoiceRepository
		paymentRepo repository.PaymentRepository
		closeFn     func()
	)
	switch cfg.DB.Driver {
	case "memory":
		store := memory.NewStore()
		txRunner, invoiceRepo, paymentRepo = store, store.Invoices(), store.Payments()
		log.Warn().Msg("using in-memory store; data is lost on exit")
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("connect to PostgreSQL: %w", err)
		}
		txRunner = postgres.NewTxRunner(pool)
		invoiceRepo = postgres.NewInvoiceRepository(pool)
		paymentRepo = postgres.NewPaymentRepository(pool)
		closeFn = pool.Close
	default:
		return nil, fmt.Errorf("unknown DB driver %q", cfg.DB.Driver)
	}

	sweeper := billing.NewOverdueSweeper(txRunner, invoiceRepo, paymentRepo, settings, log.Component("sweeper").Zerolog())
	return &Services{
		Settings: settings,
		Invoices: billing.NewInvoiceUseCase(txRunner, invoiceRepo, paymentRepo, settings),
		Payments: billing.NewPaymentUseCase(txRunner, invoiceRepo, paymentRepo, settings),
		PDF:      billing.NewPDFUseCase(invoiceRepo, paymentRepo, infrapdf.NewMarotoPDFGenerator(), settings),
		Export: billing.NewExportUseCase(
			invoiceRepo, paymentRepo,
			export.NewExcelRegister(), export.NewTallyVoucher(export.DefaultTallyLedgers()),
			settings,
		),
		Sweeper:   sweeper,
		Dashboard: analytics.NewDashboardUseCase(invoiceRepo, paymentRepo, sweeper, settings),
		Auth: auth.NewAuthUseCase(
			auth.NewOperator(cfg.Auth.Email, cfg.Auth.Name, cfg.Auth.PasswordHash),
			auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer},
		),
		close: closeFn,
	}, nil
}
