package pdf

import (
	"context"
	"fmt"

	billingdomain "github.com/smallvet/clinica/internal/billing/domain"
	"github.com/smallvet/clinica/internal/config"
)

// Provider renders printable documents for invoices and receipts.
type Provider interface {
	RenderInvoice(ctx context.Context, doc Document) ([]byte, error)
	RenderReceipt(ctx context.Context, doc Document) ([]byte, error)
}

// Document carries everything the renderer prints. Amounts arrive
// preformatted so the layout code never touches money math.
type Document struct {
	ClinicName    string
	ClinicAddress string
	ClinicPhone   string
	ClinicEmail   string

	ReceiptNumber string
	BillingDate   string
	Status        string

	ClientName    string
	ClientAddress string
	PatientName   string

	Items    []Line
	Payments []PaymentLine

	Subtotal   string
	Discount   string
	VATAmount  string
	Total      string
	AmountPaid string
	Balance    string
}

type Line struct {
	Description string
	Quantity    string
	UnitPrice   string
	Total       string
}

type PaymentLine struct {
	Date   string
	Method string
	Amount string
}

const dateLayout = "02/01/2006"

// FormatAgorot renders a minor-unit amount in shekels.
func FormatAgorot(v int64) string {
	return fmt.Sprintf("₪%.2f", float64(v)/100)
}

// BuildDocument flattens an invoice and its context into a Document.
func BuildDocument(cfg config.ClinicConfig, inv billingdomain.Invoice, clientName, clientAddress, patientName string) Document {
	doc := Document{
		ClinicName:    cfg.ClinicName,
		ClinicAddress: cfg.Address,
		ClinicPhone:   cfg.Phone,
		ClinicEmail:   cfg.Email,
		ReceiptNumber: inv.ReceiptNumber,
		BillingDate:   inv.BillingDate.Format(dateLayout),
		Status:        string(inv.Status),
		ClientName:    clientName,
		ClientAddress: clientAddress,
		PatientName:   patientName,
		Subtotal:      FormatAgorot(inv.Subtotal),
		VATAmount:     FormatAgorot(inv.VATAmount),
		Total:         FormatAgorot(inv.Total),
		AmountPaid:    FormatAgorot(inv.AmountPaid),
		Balance:       FormatAgorot(inv.Balance),
	}

	if inv.Discount > 0 {
		if inv.DiscountType == billingdomain.DiscountPercentage {
			doc.Discount = fmt.Sprintf("%.1f%%", inv.Discount)
		} else {
			doc.Discount = FormatAgorot(int64(inv.Discount))
		}
	}

	for _, item := range inv.Items {
		doc.Items = append(doc.Items, Line{
			Description: item.Description,
			Quantity:    formatQuantity(item.Quantity),
			UnitPrice:   FormatAgorot(item.UnitPrice),
			Total:       FormatAgorot(item.Total),
		})
	}

	for _, payment := range inv.Payments {
		doc.Payments = append(doc.Payments, PaymentLine{
			Date:   payment.Date.Format(dateLayout),
			Method: string(payment.Method),
			Amount: FormatAgorot(payment.Amount),
		})
	}

	return doc
}

func formatQuantity(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return fmt.Sprintf("%.2f", q)
}
