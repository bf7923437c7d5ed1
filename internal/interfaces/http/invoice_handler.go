package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gst-invoicing/internal/application/billing"
	"github.com/jhoicas/gst-invoicing/internal/application/dto"
)

// InvoiceHandler maneja el CRUD de facturas y sus documentos.
type InvoiceHandler struct {
	invoices *billing.InvoiceUseCase
	pdf      *billing.PDFUseCase
	export   *billing.ExportUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(invoices *billing.InvoiceUseCase, pdf *billing.PDFUseCase, export *billing.ExportUseCase) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, pdf: pdf, export: export}
}

// List godoc
// @Summary      List invoices
// @Description  Newest invoice date first. Optional status filter (draft, sent, partially_paid, paid, overdue, all).
// @Tags         invoices
// @Produce      json
// @Security     Bearer
// @Param        status  query  string  false  "status filter"
// @Success      200  {array}   dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	out, err := h.invoices.List(c.Context(), c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Create invoice
// @Description  Totals and GST split are computed server side; the invoice number is generated when omitted.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.InvoiceRequest  true  "invoice"
// @Success      201  {object}  dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.invoices.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Get invoice
// @Tags         invoices
// @Produce      json
// @Security     Bearer
// @Param        id  path  string  true  "invoice ID"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	out, err := h.invoices.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Update invoice
// @Description  Replaces the invoice fields and items; totals and status are re-derived.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  string              true  "invoice ID"
// @Param        body  body  dto.InvoiceRequest  true  "invoice"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.invoices.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Delete invoice
// @Description  Also deletes the invoice's payments.
// @Tags         invoices
// @Security     Bearer
// @Param        id  path  string  true  "invoice ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.invoices.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PDF godoc
// @Summary      Download invoice PDF
// @Tags         invoices
// @Produce      application/pdf
// @Security     Bearer
// @Param        id  path  string  true  "invoice ID"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	body, filename, err := h.pdf.Download(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendAttachment(c, "application/pdf", filename, body)
}

// TallyXML godoc
// @Summary      Export invoice as a Tally sales voucher
// @Tags         invoices
// @Produce      application/xml
// @Security     Bearer
// @Param        id  path  string  true  "invoice ID"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/tally.xml [get]
func (h *InvoiceHandler) TallyXML(c *fiber.Ctx) error {
	body, filename, err := h.export.TallyVoucher(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendAttachment(c, fiber.MIMEApplicationXMLCharsetUTF8, filename, body)
}

// ExportXLSX godoc
// @Summary      Export the invoice and payment register
// @Tags         invoices
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     Bearer
// @Success      200  {file}  binary
// @Router       /api/invoices/export.xlsx [get]
func (h *InvoiceHandler) ExportXLSX(c *fiber.Ctx) error {
	body, err := h.export.Register(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return sendAttachment(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", billing.RegisterFilename, body)
}

func sendAttachment(c *fiber.Ctx, contentType, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(body)
}
