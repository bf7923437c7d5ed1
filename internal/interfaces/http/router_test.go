package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/gst-invoicing/internal/application/analytics"
	"github.com/jhoicas/gst-invoicing/internal/application/auth"
	"github.com/jhoicas/gst-invoicing/internal/application/billing"
	"github.com/jhoicas/gst-invoicing/internal/application/dto"
	"github.com/jhoicas/gst-invoicing/internal/domain/entity"
	"github.com/jhoicas/gst-invoicing/internal/infrastructure/export"
	"github.com/jhoicas/gst-invoicing/internal/infrastructure/memory"
	"github.com/jhoicas/gst-invoicing/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/gst-invoicing/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// API harness over the in-memory store
// ──────────────────────────────────────────────────────────────────────────────

const testPassword = "s3cret-pass"

type api struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	now := time.Date(2026, time.March, 10, 10, 0, 0, 0, ist)

	company := entity.DefaultCompanyProfile()
	company.UPIID = "wedigi@okaxis"
	settings := billing.Settings{
		InvoicePrefix: "WDGS",
		Location:      ist,
		Company:       company,
		Clock:         func() time.Time { return now },
	}

	store := memory.NewStore()
	invRepo, payRepo := store.Invoices(), store.Payments()
	sweeper := billing.NewOverdueSweeper(store, invRepo, payRepo, settings, zerolog.Nop())

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	authUC := auth.NewAuthUseCase(
		auth.NewOperator(testEmail, "Owner", string(hash)),
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer},
	)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		InvoiceUC:   billing.NewInvoiceUseCase(store, invRepo, payRepo, settings),
		PaymentUC:   billing.NewPaymentUseCase(store, invRepo, payRepo, settings),
		PDFUC:       billing.NewPDFUseCase(invRepo, payRepo, pdf.NewMarotoPDFGenerator(), settings),
		ExportUC:    billing.NewExportUseCase(invRepo, payRepo, export.NewExcelRegister(), export.NewTallyVoucher(export.DefaultTallyLedgers()), settings),
		DashboardUC: analytics.NewDashboardUseCase(invRepo, payRepo, sweeper, settings),
		JWTSecret:   testJWTSecret,
	})

	a := &api{t: t, app: app}
	resp := a.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: testEmail, Password: testPassword})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	a.decode(resp, &login)
	a.token = login.Token
	return a
}

func (a *api) do(method, path string, body any) *http.Response {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	return resp
}

func (a *api) decode(resp *http.Response, out any) {
	a.t.Helper()
	defer resp.Body.Close()
	require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
}

func (a *api) createInvoice(state string, rate int64) dto.InvoiceResponse {
	a.t.Helper()
	resp := a.do(http.MethodPost, "/api/invoices", invoiceBody(state, rate))
	require.Equal(a.t, fiber.StatusCreated, resp.StatusCode)
	var out dto.InvoiceResponse
	a.decode(resp, &out)
	return out
}

func invoiceBody(state string, rate int64) dto.InvoiceRequest {
	return dto.InvoiceRequest{
		ClientName:  "Acme Pvt Ltd",
		ClientState: state,
		InvoiceDate: "2026-03-01",
		DueDate:     "2026-03-08",
		Items: []dto.InvoiceItemRequest{
			{Description: "Website design", Quantity: 1, Rate: decimal.NewFromInt(rate)},
		},
	}
}

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Auth routes
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	a := newAPI(t)
	resp := a.do(http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLogin_WrongPassword(t *testing.T) {
	a := newAPI(t)
	resp := a.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: testEmail, Password: "nope"})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp)["code"])
}

func TestLogin_MissingFields(t *testing.T) {
	a := newAPI(t)
	resp := a.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: testEmail})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSession(t *testing.T) {
	a := newAPI(t)

	var live dto.SessionResponse
	a.decode(a.do(http.MethodGet, "/api/auth/session", nil), &live)
	assert.True(t, live.Authenticated)
	require.NotNil(t, live.User)
	assert.Equal(t, testEmail, live.User.Email)

	a.token = ""
	resp := a.do(http.MethodGet, "/api/auth/session", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var anon dto.SessionResponse
	a.decode(resp, &anon)
	assert.False(t, anon.Authenticated)
	assert.Nil(t, anon.User)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newAPI(t)
	a.token = ""
	for _, path := range []string{"/api/invoices", "/api/payments", "/api/dashboard/stats"} {
		resp := a.do(http.MethodGet, path, nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, path)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Invoices
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoices_CreateComputesGST(t *testing.T) {
	a := newAPI(t)

	intra := a.createInvoice("Tamil Nadu", 10000)
	assert.Equal(t, "WDGS-2026-001", intra.InvoiceNumber)
	assert.Equal(t, "CGST_SGST", intra.GSTType)
	assert.True(t, intra.CGSTAmount.Equal(amount("900")))
	assert.True(t, intra.SGSTAmount.Equal(amount("900")))
	assert.True(t, intra.TotalAmount.Equal(amount("11800")))

	inter := a.createInvoice("Karnataka", 5000)
	assert.Equal(t, "WDGS-2026-002", inter.InvoiceNumber)
	assert.Equal(t, "IGST", inter.GSTType)
	assert.True(t, inter.IGSTAmount.Equal(amount("900")))
	assert.True(t, inter.TotalAmount.Equal(amount("5900")))
}

func TestInvoices_CreateErrors(t *testing.T) {
	a := newAPI(t)

	noItems := invoiceBody("Tamil Nadu", 100)
	noItems.Items = nil
	resp := a.do(http.MethodPost, "/api/invoices", noItems)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp)["code"])

	paid := invoiceBody("Tamil Nadu", 100)
	paid.Status = "paid"
	resp = a.do(http.MethodPost, "/api/invoices", paid)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_STATUS", decodeError(t, resp)["code"])

	req := httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.token)
	raw, err := a.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, raw.StatusCode)

	first := a.createInvoice("Tamil Nadu", 100)
	dup := invoiceBody("Tamil Nadu", 100)
	dup.InvoiceNumber = first.InvoiceNumber
	resp = a.do(http.MethodPost, "/api/invoices", dup)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestInvoices_GetUpdateDelete(t *testing.T) {
	a := newAPI(t)
	inv := a.createInvoice("Tamil Nadu", 10000)

	var got dto.InvoiceResponse
	a.decode(a.do(http.MethodGet, "/api/invoices/"+inv.ID, nil), &got)
	assert.Equal(t, inv.InvoiceNumber, got.InvoiceNumber)

	edit := invoiceBody("Kerala", 20000)
	edit.Status = "sent"
	resp := a.do(http.MethodPut, "/api/invoices/"+inv.ID, edit)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var updated dto.InvoiceResponse
	a.decode(resp, &updated)
	assert.Equal(t, "IGST", updated.GSTType)
	assert.True(t, updated.TotalAmount.Equal(amount("23600")))
	assert.Equal(t, inv.InvoiceNumber, updated.InvoiceNumber)

	resp = a.do(http.MethodDelete, "/api/invoices/"+inv.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = a.do(http.MethodGet, "/api/invoices/"+inv.ID, nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp)["code"])
}

func TestInvoices_ListFilter(t *testing.T) {
	a := newAPI(t)
	a.createInvoice("Tamil Nadu", 100)
	sent := invoiceBody("Tamil Nadu", 200)
	sent.Status = "sent"
	resp := a.do(http.MethodPost, "/api/invoices", sent)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var all []dto.InvoiceResponse
	a.decode(a.do(http.MethodGet, "/api/invoices", nil), &all)
	assert.Len(t, all, 2)

	var onlySent []dto.InvoiceResponse
	a.decode(a.do(http.MethodGet, "/api/invoices?status=sent", nil), &onlySent)
	require.Len(t, onlySent, 1)
	assert.Equal(t, "sent", onlySent[0].Status)

	resp = a.do(http.MethodGet, "/api/invoices?status=bogus", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestInvoices_Documents(t *testing.T) {
	a := newAPI(t)
	inv := a.createInvoice("Tamil Nadu", 10000)

	resp := a.do(http.MethodGet, "/api/invoices/"+inv.ID+"/pdf", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "invoice_WDGS-2026-001.pdf")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp = a.do(http.MethodGet, "/api/invoices/"+inv.ID+"/tally.xml", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "invoice_WDGS-2026-001.xml")
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "ENVELOPE")

	resp = a.do(http.MethodGet, "/api/invoices/export.xlsx", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), billing.RegisterFilename)

	resp = a.do(http.MethodGet, "/api/invoices/missing/pdf", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Payments and dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestPayments_RecordAndLedger(t *testing.T) {
	a := newAPI(t)
	inv := a.createInvoice("Tamil Nadu", 10000)

	resp := a.do(http.MethodPost, "/api/payments", dto.CreatePaymentRequest{
		InvoiceID: inv.ID, AmountPaid: amount("5000"), Mode: "Bank", PaymentDate: "2026-03-05",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var rec dto.RecordPaymentResponse
	a.decode(resp, &rec)
	assert.Equal(t, "partially_paid", rec.InvoiceStatus)
	assert.True(t, rec.Balance.Equal(amount("6800")))

	resp = a.do(http.MethodPost, "/api/payments", dto.CreatePaymentRequest{InvoiceID: inv.ID, AmountPaid: amount("6800.01")})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "OVERPAYMENT", decodeError(t, resp)["code"])

	resp = a.do(http.MethodPost, "/api/payments", dto.CreatePaymentRequest{InvoiceID: inv.ID, AmountPaid: amount("6800")})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	a.decode(resp, &rec)
	assert.Equal(t, "paid", rec.InvoiceStatus)

	var ledger dto.LedgerResponse
	a.decode(a.do(http.MethodGet, "/api/payments/invoice/"+inv.ID, nil), &ledger)
	require.Len(t, ledger.Payments, 2)
	assert.Equal(t, "2026-03-10", ledger.Payments[0].PaymentDate)
	assert.True(t, ledger.TotalPaid.Equal(amount("11800")))
	assert.True(t, ledger.Balance.IsZero())

	var all []dto.PaymentResponse
	a.decode(a.do(http.MethodGet, "/api/payments", nil), &all)
	assert.Len(t, all, 2)

	resp = a.do(http.MethodPost, "/api/payments", dto.CreatePaymentRequest{InvoiceID: "missing", AmountPaid: amount("1")})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = a.do(http.MethodGet, "/api/payments/invoice/missing", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDashboard_StatsSweepsOverdue(t *testing.T) {
	a := newAPI(t)
	inv := a.createInvoice("Tamil Nadu", 10000)

	var stats dto.DashboardStatsDTO
	resp := a.do(http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	a.decode(resp, &stats)
	assert.Equal(t, 1, stats.StatusUpdates)
	require.Len(t, stats.OverdueInvoices, 1)
	assert.Equal(t, inv.ID, stats.OverdueInvoices[0].ID)
	assert.True(t, stats.TotalInvoiced.Equal(amount("11800")))

	var got dto.InvoiceResponse
	a.decode(a.do(http.MethodGet, "/api/invoices/"+inv.ID, nil), &got)
	assert.Equal(t, "overdue", got.Status)
}
