// Package domain contains persistence models for invoicing and payments.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// InvoiceStatus tracks payment reconciliation state.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// DiscountType selects how a discount value is interpreted: a flat amount in
// minor currency units, or a percentage of the discounted base.
type DiscountType string

const (
	DiscountAmount     DiscountType = "amount"
	DiscountPercentage DiscountType = "percentage"
)

// PaymentMethod values are stored verbatim on payment rows.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCredit       PaymentMethod = "credit"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodPayPal       PaymentMethod = "paypal"
	PaymentMethodBit          PaymentMethod = "bit"
)

// Invoice is a client-owned bill, optionally linked to the visit it was
// generated from. All money fields are minor currency units (agorot).
// Subtotal, VATAmount, Total, AmountPaid, Balance and Status are derived and
// rewritten by calc.Recompute on every mutation; they are stored only so
// list queries can filter without loading items and payments.
type Invoice struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	ClinicID snowflake.ID `gorm:"not null;index" json:"clinic_id"`

	ClientID  snowflake.ID  `gorm:"not null;index" json:"client_id"`
	PatientID *snowflake.ID `gorm:"index" json:"patient_id,omitempty"`
	VisitID   *snowflake.ID `gorm:"index" json:"visit_id,omitempty"`

	ReceiptNumber string    `gorm:"type:text;not null" json:"receipt_number"`
	ShareToken    string    `gorm:"type:text;not null" json:"share_token"`
	BillingDate   time.Time `gorm:"not null" json:"billing_date"`

	Discount     float64      `gorm:"not null;default:0" json:"discount"`
	DiscountType DiscountType `gorm:"type:text;not null;default:'amount'" json:"discount_type"`

	Subtotal   int64         `gorm:"not null;default:0" json:"subtotal"`
	VATRate    float64       `gorm:"not null;default:18" json:"vat_rate"`
	VATAmount  int64         `gorm:"not null;default:0" json:"vat_amount"`
	Total      int64         `gorm:"not null;default:0" json:"total"`
	AmountPaid int64         `gorm:"not null;default:0" json:"amount_paid"`
	Balance    int64         `gorm:"not null;default:0" json:"balance"`
	Status     InvoiceStatus `gorm:"type:text;not null;default:'pending'" json:"status"`

	Items    []LineItem `gorm:"foreignKey:InvoiceID" json:"items"`
	Payments []Payment  `gorm:"foreignKey:InvoiceID" json:"payments"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// LineItem is one billable entry on an invoice. Position preserves insertion
// order for display. Total is derived, never authoritative.
type LineItem struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ClinicID  snowflake.ID `gorm:"not null;index" json:"clinic_id"`
	InvoiceID snowflake.ID `gorm:"not null;index" json:"invoice_id"`
	Position  int          `gorm:"not null;default:0" json:"position"`

	Description  string       `gorm:"type:text;not null" json:"description"`
	Quantity     float64      `gorm:"not null;default:1" json:"quantity"`
	UnitPrice    int64        `gorm:"not null;default:0" json:"unit_price"`
	Discount     float64      `gorm:"not null;default:0" json:"discount"`
	DiscountType DiscountType `gorm:"type:text;not null;default:'amount'" json:"discount_type"`
	Total        int64        `gorm:"not null;default:0" json:"total"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (LineItem) TableName() string { return "invoice_items" }

// Payment is an append-only payment event against an invoice. Rows are never
// updated or deleted.
type Payment struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ClinicID  snowflake.ID `gorm:"not null;index" json:"clinic_id"`
	InvoiceID snowflake.ID `gorm:"not null;index" json:"invoice_id"`

	Date      time.Time     `gorm:"not null" json:"date"`
	Amount    int64         `gorm:"not null" json:"amount"`
	Method    PaymentMethod `gorm:"type:text;not null" json:"method"`
	Reference string        `gorm:"type:text" json:"reference"`
	Notes     string        `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "invoice_payments" }
