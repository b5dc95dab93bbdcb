package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallvet/clinica/internal/billing/domain"
)

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name         string
		quantity     float64
		unitPrice    int64
		discount     float64
		discountType domain.DiscountType
		want         int64
	}{
		{"no discount", 2, 5000, 0, domain.DiscountAmount, 10000},
		{"percentage discount", 3, 10000, 10, domain.DiscountPercentage, 27000},
		{"amount discount", 1, 20000, 2500, domain.DiscountAmount, 17500},
		{"fractional quantity rounds once", 1.5, 333, 0, domain.DiscountAmount, 500},
		{"fractional percentage rounds once", 1, 9999, 33.33, domain.DiscountPercentage, 6666},
		{"discount exceeding line goes negative", 1, 1000, 1500, domain.DiscountAmount, -500},
		{"unknown type ignored", 2, 5000, 50, domain.DiscountType("bogus"), 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LineTotal(tt.quantity, tt.unitPrice, tt.discount, tt.discountType))
		})
	}
}

func TestVATIncluded(t *testing.T) {
	// 350.00 at 18% inclusive carries 53.39 of tax.
	assert.Equal(t, int64(5339), VATIncluded(35000, 18))
	assert.Equal(t, int64(0), VATIncluded(35000, 0))
	assert.Equal(t, int64(0), VATIncluded(0, 18))
	assert.Equal(t, int64(1525), VATIncluded(10000, 18))
}

func TestCompute(t *testing.T) {
	items := []domain.LineItem{
		{Quantity: 2, UnitPrice: 15000, DiscountType: domain.DiscountAmount},
		{Quantity: 1, UnitPrice: 10000, DiscountType: domain.DiscountAmount},
	}

	totals := Compute(items, 5000, domain.DiscountAmount, 18, 0)
	require.Equal(t, int64(40000), totals.Subtotal)
	require.Equal(t, int64(35000), totals.Total)
	require.Equal(t, int64(5339), totals.VATAmount)
	assert.Equal(t, int64(35000), totals.Balance)
	assert.Equal(t, domain.InvoiceStatusPending, totals.Status)
}

func TestComputePercentageInvoiceDiscount(t *testing.T) {
	items := []domain.LineItem{
		{Quantity: 1, UnitPrice: 33333, DiscountType: domain.DiscountAmount},
	}

	totals := Compute(items, 10, domain.DiscountPercentage, 18, 0)
	assert.Equal(t, int64(33333), totals.Subtotal)
	assert.Equal(t, int64(30000), totals.Total)
	assert.Equal(t, int64(4576), totals.VATAmount)
}

func TestComputeNegativeTotalNotClamped(t *testing.T) {
	items := []domain.LineItem{
		{Quantity: 1, UnitPrice: 10000, DiscountType: domain.DiscountAmount},
	}

	totals := Compute(items, 15000, domain.DiscountAmount, 18, 0)
	assert.Equal(t, int64(-5000), totals.Total)
	assert.Equal(t, domain.InvoiceStatusPaid, totals.Status)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, domain.InvoiceStatusPending, StatusFor(10000, 0))
	assert.Equal(t, domain.InvoiceStatusPartial, StatusFor(10000, 4000))
	assert.Equal(t, domain.InvoiceStatusPaid, StatusFor(10000, 10000))
	assert.Equal(t, domain.InvoiceStatusPaid, StatusFor(10000, 12000))
	assert.Equal(t, domain.InvoiceStatusPaid, StatusFor(0, 0))
}

func TestRecompute(t *testing.T) {
	inv := domain.Invoice{
		Discount:     5000,
		DiscountType: domain.DiscountAmount,
		VATRate:      18,
		Items: []domain.LineItem{
			{Quantity: 3, UnitPrice: 10000, Discount: 10, DiscountType: domain.DiscountPercentage},
			{Quantity: 1, UnitPrice: 13000, DiscountType: domain.DiscountAmount},
		},
		Payments: []domain.Payment{
			{Amount: 20000, Method: domain.PaymentMethodCash},
			{Amount: 5000, Method: domain.PaymentMethodCredit},
		},
	}

	Recompute(&inv)

	require.Equal(t, int64(27000), inv.Items[0].Total)
	require.Equal(t, int64(13000), inv.Items[1].Total)
	assert.Equal(t, int64(40000), inv.Subtotal)
	assert.Equal(t, int64(35000), inv.Total)
	assert.Equal(t, int64(5339), inv.VATAmount)
	assert.Equal(t, int64(25000), inv.AmountPaid)
	assert.Equal(t, int64(10000), inv.Balance)
	assert.Equal(t, domain.InvoiceStatusPartial, inv.Status)
}

func TestRecomputeOverpaymentLeavesNegativeBalance(t *testing.T) {
	inv := domain.Invoice{
		DiscountType: domain.DiscountAmount,
		VATRate:      18,
		Items: []domain.LineItem{
			{Quantity: 1, UnitPrice: 10000, DiscountType: domain.DiscountAmount},
		},
		Payments: []domain.Payment{
			{Amount: 12000, Method: domain.PaymentMethodBankTransfer},
		},
	}

	Recompute(&inv)

	assert.Equal(t, int64(-2000), inv.Balance)
	assert.Equal(t, domain.InvoiceStatusPaid, inv.Status)
}

func TestRecomputeKeepsStoredRate(t *testing.T) {
	inv := domain.Invoice{
		DiscountType: domain.DiscountAmount,
		VATRate:      17,
		Items: []domain.LineItem{
			{Quantity: 1, UnitPrice: 11700, DiscountType: domain.DiscountAmount},
		},
	}

	Recompute(&inv)
	assert.Equal(t, float64(17), inv.VATRate)
	assert.Equal(t, int64(1700), inv.VATAmount)

	inv.VATRate = 0
	Recompute(&inv)
	assert.Equal(t, float64(DefaultVATRate), inv.VATRate)
}

func TestRecomputeWithoutLoadedPaymentsTrustsAmountPaid(t *testing.T) {
	inv := domain.Invoice{
		DiscountType: domain.DiscountAmount,
		VATRate:      18,
		AmountPaid:   5000,
		Items: []domain.LineItem{
			{Quantity: 1, UnitPrice: 20000, DiscountType: domain.DiscountAmount},
		},
	}

	Recompute(&inv)
	assert.Equal(t, int64(5000), inv.AmountPaid)
	assert.Equal(t, int64(15000), inv.Balance)
	assert.Equal(t, domain.InvoiceStatusPartial, inv.Status)
}
