package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-invoicing/internal/application/dto"
	"github.com/jhoicas/gst-invoicing/internal/domain"
	"github.com/jhoicas/gst-invoicing/internal/domain/entity"
	"github.com/jhoicas/gst-invoicing/internal/domain/gst"
	"github.com/jhoicas/gst-invoicing/internal/domain/ledger"
	"github.com/jhoicas/gst-invoicing/internal/domain/lifecycle"
	"github.com/jhoicas/gst-invoicing/internal/domain/repository"
)

// numberAttempts bounds retries when a generated invoice number collides.
const numberAttempts = 3

// InvoiceUseCase creates, edits and reads invoices. Totals and status are
// always derived here; client-supplied values for them are ignored.
type InvoiceUseCase struct {
	txRunner    BillingTxRunner
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	settings    Settings
}

// NewInvoiceUseCase builds the use case.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	settings Settings,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		settings:    settings.WithDefaults(),
	}
}

// Create validates the request, computes GST totals and stores the invoice.
// A missing invoice number is generated as <prefix>-<year>-<seq>.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	draft, err := uc.buildInvoice(in)
	if err != nil {
		return nil, err
	}
	status := entity.StatusDraft
	if in.Status != "" {
		status, err = parseUserStatus(in.Status)
		if err != nil {
			return nil, err
		}
	}

	now := uc.settings.Now()
	draft.ID = uuid.New().String()
	draft.Status = status
	draft.CreatedAt = now
	draft.UpdatedAt = now
	assignItemIDs(draft)

	for attempt := 1; ; attempt++ {
		err = uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, _ repository.PaymentRepository) error {
			if in.InvoiceNumber == "" {
				number, err := uc.nextNumber(ctx, invoiceRepo, draft.InvoiceDate)
				if err != nil {
					return err
				}
				draft.InvoiceNumber = number
			}
			return invoiceRepo.Create(ctx, draft)
		})
		if err == nil {
			break
		}
		// Only generated numbers are retried; a caller-supplied duplicate is final.
		if !errors.Is(err, domain.ErrDuplicate) || in.InvoiceNumber != "" || attempt >= numberAttempts {
			return nil, err
		}
	}

	out := ToInvoiceResponse(draft)
	return &out, nil
}

// Get returns one invoice.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	out := ToInvoiceResponse(inv)
	return &out, nil
}

// List returns invoices, newest invoice date first. status may be empty or
// "all" for no filter.
func (uc *InvoiceUseCase) List(ctx context.Context, status string) ([]dto.InvoiceResponse, error) {
	var filter repository.InvoiceFilter
	if status != "" && status != "all" {
		s := entity.InvoiceStatus(status)
		if !s.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
		}
		filter.Status = s
	}
	invoices, err := uc.invoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return ToInvoiceResponses(invoices), nil
}

// Update replaces the editable fields of an invoice, recomputes its totals
// and re-derives its status from the payments already recorded. The request
// may only carry draft or sent; a paid invoice stays paid.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	edited, err := uc.buildInvoice(in)
	if err != nil {
		return nil, err
	}
	var requested entity.InvoiceStatus
	if in.Status != "" {
		requested, err = parseUserStatus(in.Status)
		if err != nil {
			return nil, err
		}
	}

	var updated *entity.Invoice
	err = uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, paymentRepo repository.PaymentRepository) error {
		current, err := invoiceRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		payments, err := paymentRepo.ListByInvoice(ctx, id)
		if err != nil {
			return err
		}

		base := current.Status
		if requested != "" && current.Status != entity.StatusPaid {
			base = requested
		}

		now := uc.settings.Now()
		edited.ID = current.ID
		edited.CreatedAt = current.CreatedAt
		edited.UpdatedAt = now
		if edited.InvoiceNumber == "" {
			edited.InvoiceNumber = current.InvoiceNumber
		}
		assignItemIDs(edited)
		edited.Status = lifecycle.Next(uc.settings.lifecycleInput(edited, base, ledger.TotalPaid(payments), now))

		if err := invoiceRepo.Update(ctx, edited); err != nil {
			return err
		}
		updated = edited
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := ToInvoiceResponse(updated)
	return &out, nil
}

// Delete removes the invoice together with its payments.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, paymentRepo repository.PaymentRepository) error {
		inv, err := invoiceRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if err := paymentRepo.DeleteByInvoice(ctx, id); err != nil {
			return err
		}
		return invoiceRepo.Delete(ctx, id)
	})
}

// buildInvoice validates the request and returns an invoice with items and
// GST totals filled in. ID, status and timestamps are left to the caller.
func (uc *InvoiceUseCase) buildInvoice(in dto.InvoiceRequest) (*entity.Invoice, error) {
	clientName := strings.TrimSpace(in.ClientName)
	if clientName == "" {
		return nil, fmt.Errorf("%w: client name is required", domain.ErrInvalidInput)
	}
	if in.ClientState == "" {
		return nil, fmt.Errorf("%w: client state is required", domain.ErrInvalidInput)
	}
	if !entity.IsIndianState(in.ClientState) {
		return nil, fmt.Errorf("%w: unknown client state %q", domain.ErrInvalidInput, in.ClientState)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", domain.ErrInvalidInput)
	}

	items := make([]entity.LineItem, 0, len(in.Items))
	for i, it := range in.Items {
		desc := strings.TrimSpace(it.Description)
		if desc == "" {
			return nil, fmt.Errorf("%w: item %d: description is required", domain.ErrInvalidInput, i+1)
		}
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %d: quantity must be at least 1", domain.ErrInvalidInput, i+1)
		}
		if !it.Rate.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: item %d: rate must be greater than 0", domain.ErrInvalidInput, i+1)
		}
		items = append(items, entity.LineItem{
			Position:    i + 1,
			Description: desc,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
		})
	}

	invoiceDate := uc.settings.today()
	if in.InvoiceDate != "" {
		d, err := uc.settings.parseDate(in.InvoiceDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invoice_date: %v", domain.ErrInvalidInput, err)
		}
		invoiceDate = d
	}
	dueDate := invoiceDate.AddDate(0, 0, DefaultPaymentTermDays)
	if in.DueDate != "" {
		d, err := uc.settings.parseDate(in.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: due_date: %v", domain.ErrInvalidInput, err)
		}
		dueDate = d
	}
	if dueDate.Before(invoiceDate) {
		return nil, fmt.Errorf("%w: due date is before invoice date", domain.ErrInvalidInput)
	}

	sac := strings.TrimSpace(in.SACCode)
	if sac == "" {
		sac = entity.DefaultSACCode
	}

	inv := &entity.Invoice{
		InvoiceNumber: strings.TrimSpace(in.InvoiceNumber),
		ClientName:    clientName,
		ClientAddress: strings.TrimSpace(in.ClientAddress),
		ClientGSTIN:   strings.ToUpper(strings.TrimSpace(in.ClientGSTIN)),
		ClientState:   in.ClientState,
		InvoiceDate:   invoiceDate,
		DueDate:       dueDate,
		PONumber:      strings.TrimSpace(in.PONumber),
		SACCode:       sac,
		Notes:         in.Notes,
	}
	totals := uc.settings.Calculator.Compute(items, uc.settings.Company.State, inv.ClientState)
	inv.Items = gst.NormalizeItems(items)
	totals.ApplyTo(inv)
	return inv, nil
}

// nextNumber returns the number after the highest one issued this year.
// Deleted invoices leave gaps; their numbers are not reused.
func (uc *InvoiceUseCase) nextNumber(ctx context.Context, invoiceRepo repository.InvoiceRepository, invoiceDate time.Time) (string, error) {
	prefix := fmt.Sprintf("%s-%d-", uc.settings.InvoicePrefix, invoiceDate.Year())
	n, err := invoiceRepo.MaxNumberSequence(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	return fmt.Sprintf("%s%03d", prefix, n+1), nil
}

func parseUserStatus(raw string) (entity.InvoiceStatus, error) {
	s := entity.InvoiceStatus(raw)
	if !s.IsUserSettable() {
		return "", fmt.Errorf("%w: status %q cannot be set by hand", domain.ErrInvalidStatus, raw)
	}
	return s, nil
}

func assignItemIDs(inv *entity.Invoice) {
	for i := range inv.Items {
		inv.Items[i].ID = uuid.New().String()
		inv.Items[i].InvoiceID = inv.ID
	}
}
