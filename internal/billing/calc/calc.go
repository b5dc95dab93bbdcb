// Package calc holds the pure money arithmetic behind invoicing. Everything
// here works on minor currency units (agorot) so callers never accumulate
// floating point drift across line items.
package calc

import (
	"math"

	"github.com/smallvet/clinica/internal/billing/domain"
)

// DefaultVATRate is stamped on invoices when the clinic configuration does
// not supply one. Israeli VAT, percent.
const DefaultVATRate = 18

// LineTotal computes a single item total. The gross amount is rounded once,
// the discount is rounded once, then subtracted. An "amount" discount is in
// minor units; a "percentage" discount applies to the rounded gross.
// Unknown discount types are treated as no discount.
func LineTotal(quantity float64, unitPrice int64, discount float64, discountType domain.DiscountType) int64 {
	gross := int64(math.Round(quantity * float64(unitPrice)))
	return gross - discountOf(gross, discount, discountType)
}

func discountOf(base int64, discount float64, discountType domain.DiscountType) int64 {
	switch discountType {
	case domain.DiscountPercentage:
		return int64(math.Round(float64(base) * discount / 100))
	case domain.DiscountAmount:
		return int64(math.Round(discount))
	default:
		return 0
	}
}

// VATIncluded extracts the tax portion from a VAT-inclusive total.
// For total T at rate r percent, the tax is T * r / (100 + r), rounded.
func VATIncluded(total int64, rate float64) int64 {
	if rate <= 0 {
		return 0
	}
	return int64(math.Round(float64(total) * rate / (100 + rate)))
}

// Totals is the derived money state of an invoice.
type Totals struct {
	Subtotal   int64
	VATAmount  int64
	Total      int64
	AmountPaid int64
	Balance    int64
	Status     domain.InvoiceStatus
}

// StatusFor resolves reconciliation state. A non-positive balance means paid,
// regardless of how it was reached; zero-total invoices are therefore paid
// immediately. Otherwise any recorded payment makes the invoice partial.
func StatusFor(total, amountPaid int64) domain.InvoiceStatus {
	switch {
	case total-amountPaid <= 0:
		return domain.InvoiceStatusPaid
	case amountPaid > 0:
		return domain.InvoiceStatusPartial
	default:
		return domain.InvoiceStatusPending
	}
}

// Compute folds items, the invoice-level discount and payments into the
// derived totals. The invoice-level discount applies to the item subtotal;
// negative results are carried through unchanged so data entry mistakes stay
// visible instead of being silently clamped.
func Compute(items []domain.LineItem, discount float64, discountType domain.DiscountType, vatRate float64, amountPaid int64) Totals {
	var subtotal int64
	for _, item := range items {
		subtotal += LineTotal(item.Quantity, item.UnitPrice, item.Discount, item.DiscountType)
	}

	total := subtotal - discountOf(subtotal, discount, discountType)

	return Totals{
		Subtotal:   subtotal,
		VATAmount:  VATIncluded(total, vatRate),
		Total:      total,
		AmountPaid: amountPaid,
		Balance:    total - amountPaid,
		Status:     StatusFor(total, amountPaid),
	}
}

// Recompute rewrites every derived field on the invoice in place: item
// totals, subtotal, VAT, total, balance and status. Payments are summed from
// inv.Payments when loaded, otherwise the stored AmountPaid is trusted.
// The stored VATRate is used as-is so historical invoices keep the rate they
// were issued under; a zero rate falls back to DefaultVATRate.
func Recompute(inv *domain.Invoice) {
	if inv.VATRate <= 0 {
		inv.VATRate = DefaultVATRate
	}

	for i := range inv.Items {
		item := &inv.Items[i]
		item.Total = LineTotal(item.Quantity, item.UnitPrice, item.Discount, item.DiscountType)
	}

	amountPaid := inv.AmountPaid
	if inv.Payments != nil {
		amountPaid = 0
		for _, p := range inv.Payments {
			amountPaid += p.Amount
		}
	}

	totals := Compute(inv.Items, inv.Discount, inv.DiscountType, inv.VATRate, amountPaid)
	inv.Subtotal = totals.Subtotal
	inv.VATAmount = totals.VATAmount
	inv.Total = totals.Total
	inv.AmountPaid = totals.AmountPaid
	inv.Balance = totals.Balance
	inv.Status = totals.Status
}
