package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gst-invoicing/internal/application/billing"
	"github.com/jhoicas/gst-invoicing/internal/application/dto"
)

// PaymentHandler maneja el registro de pagos y el libro por factura.
type PaymentHandler struct {
	uc *billing.PaymentUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *billing.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// List godoc
// @Summary      List payments
// @Description  Newest payment date first.
// @Tags         payments
// @Produce      json
// @Security     Bearer
// @Success      200  {array}  dto.PaymentResponse
// @Router       /api/payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Record godoc
// @Summary      Record a payment
// @Description  Rejects amounts above the balance due and updates the invoice status.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.CreatePaymentRequest  true  "payment"
// @Success      201  {object}  dto.RecordPaymentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/payments [post]
func (h *PaymentHandler) Record(c *fiber.Ctx) error {
	var in dto.CreatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Record(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Ledger godoc
// @Summary      Payment ledger of an invoice
// @Tags         payments
// @Produce      json
// @Security     Bearer
// @Param        invoiceId  path  string  true  "invoice ID"
// @Success      200  {object}  dto.LedgerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payments/invoice/{invoiceId} [get]
func (h *PaymentHandler) Ledger(c *fiber.Ctx) error {
	out, err := h.uc.Ledger(c.Context(), c.Params("invoiceId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
