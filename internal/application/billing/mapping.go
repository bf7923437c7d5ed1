package billing

import (
	"time"

	"github.com/jhoicas/gst-invoicing/internal/application/dto"
	"github.com/jhoicas/gst-invoicing/internal/domain/entity"
)

// ToInvoiceResponse maps an invoice to its JSON shape. Amounts are not rounded.
func ToInvoiceResponse(inv *entity.Invoice) dto.InvoiceResponse {
	items := make([]dto.InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, dto.InvoiceItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			Amount:      it.Amount,
		})
	}
	return dto.InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		ClientName:    inv.ClientName,
		ClientAddress: inv.ClientAddress,
		ClientGSTIN:   inv.ClientGSTIN,
		ClientState:   inv.ClientState,
		InvoiceDate:   formatDate(inv.InvoiceDate),
		DueDate:       formatDate(inv.DueDate),
		PONumber:      inv.PONumber,
		SACCode:       inv.SACCode,
		Items:         items,
		Subtotal:      inv.Subtotal,
		GSTType:       string(inv.GSTType),
		CGSTAmount:    inv.CGSTAmount,
		SGSTAmount:    inv.SGSTAmount,
		IGSTAmount:    inv.IGSTAmount,
		GSTAmount:     inv.GSTAmount,
		TotalAmount:   inv.TotalAmount,
		Status:        string(inv.Status),
		Notes:         inv.Notes,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

// ToInvoiceResponses maps a list, never returning nil.
func ToInvoiceResponses(invoices []*entity.Invoice) []dto.InvoiceResponse {
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, ToInvoiceResponse(inv))
	}
	return out
}

// ToPaymentResponse maps a payment to its JSON shape.
func ToPaymentResponse(p entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:          p.ID,
		InvoiceID:   p.InvoiceID,
		PaymentDate: formatDate(p.PaymentDate),
		AmountPaid:  p.AmountPaid,
		Mode:        string(p.Mode),
		ReferenceID: p.ReferenceID,
		CreatedAt:   p.CreatedAt,
	}
}

func toPaymentResponses(payments []entity.Payment) []dto.PaymentResponse {
	out := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, ToPaymentResponse(p))
	}
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dto.DateLayout)
}
