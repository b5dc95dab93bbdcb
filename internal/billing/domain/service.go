package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallvet/clinica/pkg/db/pagination"
)

type LineItemInput struct {
	Description  string       `json:"description"`
	Quantity     float64      `json:"quantity"`
	UnitPrice    int64        `json:"unit_price"`
	Discount     float64      `json:"discount"`
	DiscountType DiscountType `json:"discount_type"`
}

type CreateInvoiceRequest struct {
	ClientID     string          `json:"client_id"`
	PatientID    string          `json:"patient_id"`
	VisitID      string          `json:"visit_id"`
	BillingDate  *time.Time      `json:"billing_date"`
	Items        []LineItemInput `json:"items"`
	Discount     float64         `json:"discount"`
	DiscountType DiscountType    `json:"discount_type"`
}

type UpdateInvoiceRequest struct {
	ID           string          `json:"-"`
	BillingDate  *time.Time      `json:"billing_date"`
	Items        []LineItemInput `json:"items"`
	Discount     float64         `json:"discount"`
	DiscountType DiscountType    `json:"discount_type"`
}

type GetInvoiceRequest struct {
	ID string
}

type GetInvoiceByShareTokenRequest struct {
	ShareToken string
}

type ListInvoiceRequest struct {
	PageToken string
	PageSize  int32
	ClientID  string
	PatientID string
	VisitID   string
	Status    string
	DateFrom  *time.Time
	DateTo    *time.Time
}

type ListInvoiceFilter struct {
	ClientID  int64
	PatientID int64
	VisitID   int64
	Status    InvoiceStatus
	DateFrom  *time.Time
	DateTo    *time.Time
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

type AppendPaymentRequest struct {
	InvoiceID string        `json:"-"`
	Date      *time.Time    `json:"date"`
	Amount    int64         `json:"amount"`
	Method    PaymentMethod `json:"method"`
	Reference string        `json:"reference"`
	Notes     string        `json:"notes"`
}

// UnbilledCandidate is one line the aggregator proposes for a visit invoice.
type UnbilledCandidate struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   int64   `json:"unit_price"`
	Source      string  `json:"source"`
}

// UnbilledVisit is a completed visit with billable work and no invoice yet.
type UnbilledVisit struct {
	VisitID     int64               `json:"visit_id"`
	ClientID    int64               `json:"client_id"`
	PatientID   int64               `json:"patient_id"`
	ClientName  string              `json:"client_name"`
	PatientName string              `json:"patient_name"`
	CompletedAt time.Time           `json:"completed_at"`
	Candidates  []UnbilledCandidate `json:"candidates"`
	Estimated   int64               `json:"estimated"`
}

type ListUnbilledRequest struct {
	ClientID string
}

type Service interface {
	Create(context.Context, CreateInvoiceRequest) (Invoice, error)
	Update(context.Context, UpdateInvoiceRequest) (Invoice, error)
	GetByID(context.Context, GetInvoiceRequest) (Invoice, error)
	GetByShareToken(context.Context, GetInvoiceByShareTokenRequest) (Invoice, error)
	List(context.Context, ListInvoiceRequest) (ListInvoiceResponse, error)
	AppendPayment(context.Context, AppendPaymentRequest) (Invoice, error)
	ListUnbilled(context.Context, ListUnbilledRequest) ([]UnbilledVisit, error)
}

var (
	ErrInvalidClinic       = errors.New("invalid_clinic")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidClient       = errors.New("invalid_client")
	ErrNoItems             = errors.New("no_items")
	ErrInvalidItem         = errors.New("invalid_item")
	ErrInvalidDiscountType = errors.New("invalid_discount_type")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInvalidMethod       = errors.New("invalid_method")
	ErrInvalidShareToken   = errors.New("invalid_share_token")
	ErrNotFound            = errors.New("not_found")
)
