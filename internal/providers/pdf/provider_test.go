package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billingdomain "github.com/smallvet/clinica/internal/billing/domain"
	"github.com/smallvet/clinica/internal/config"
)

func TestFormatAgorot(t *testing.T) {
	assert.Equal(t, "₪350.00", FormatAgorot(35000))
	assert.Equal(t, "₪0.05", FormatAgorot(5))
	assert.Equal(t, "₪-20.00", FormatAgorot(-2000))
}

func TestBuildDocument(t *testing.T) {
	cfg := config.DefaultClinicConfig()
	cfg.ClinicName = "Rehov HaYarkon Vet"

	inv := billingdomain.Invoice{
		ReceiptNumber: "01J8ZQ6T5V",
		BillingDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Status:        billingdomain.InvoiceStatusPartial,
		Discount:      10,
		DiscountType:  billingdomain.DiscountPercentage,
		Subtotal:      40000,
		VATAmount:     5492,
		Total:         36000,
		AmountPaid:    20000,
		Balance:       16000,
		Items: []billingdomain.LineItem{
			{Description: "Consultation", Quantity: 1, UnitPrice: 25000, Total: 25000},
			{Description: "Deworming", Quantity: 2.5, UnitPrice: 6000, Total: 15000},
		},
		Payments: []billingdomain.Payment{
			{Date: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC), Method: billingdomain.PaymentMethodCash, Amount: 20000},
		},
	}

	doc := BuildDocument(cfg, inv, "Dana Levi", "Tel Aviv", "Rex")

	assert.Equal(t, "Rehov HaYarkon Vet", doc.ClinicName)
	assert.Equal(t, "01/04/2026", doc.BillingDate)
	assert.Equal(t, "partial", doc.Status)
	assert.Equal(t, "10.0%", doc.Discount)
	assert.Equal(t, "₪360.00", doc.Total)
	assert.Equal(t, "₪160.00", doc.Balance)
	require.Len(t, doc.Items, 2)
	assert.Equal(t, "1", doc.Items[0].Quantity)
	assert.Equal(t, "2.50", doc.Items[1].Quantity)
	require.Len(t, doc.Payments, 1)
	assert.Equal(t, "cash", doc.Payments[0].Method)
}

func TestRenderInvoiceProducesPDF(t *testing.T) {
	inv := billingdomain.Invoice{
		ReceiptNumber: "01J8ZQ6T5V",
		BillingDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Status:        billingdomain.InvoiceStatusPending,
		Subtotal:      25000,
		VATAmount:     3814,
		Total:         25000,
		Balance:       25000,
		Items: []billingdomain.LineItem{
			{Description: "Consultation", Quantity: 1, UnitPrice: 25000, Total: 25000},
		},
	}
	doc := BuildDocument(config.DefaultClinicConfig(), inv, "Dana Levi", "", "Rex")

	provider := New()
	rendered, err := provider.RenderInvoice(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, len(rendered) > 0)

	receipt, err := provider.RenderReceipt(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, len(receipt) > 0)
}
