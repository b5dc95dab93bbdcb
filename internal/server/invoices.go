package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/smallvet/clinica/internal/billing/domain"
	clientdomain "github.com/smallvet/clinica/internal/client/domain"
	patientdomain "github.com/smallvet/clinica/internal/patient/domain"
	"github.com/smallvet/clinica/internal/providers/pdf"
	"github.com/smallvet/clinica/pkg/db/pagination"
)

type invoiceRequest struct {
	ClientID     string                        `json:"client_id"`
	PatientID    string                        `json:"patient_id"`
	VisitID      string                        `json:"visit_id"`
	BillingDate  *time.Time                    `json:"billing_date"`
	Items        []billingdomain.LineItemInput `json:"items"`
	Discount     float64                       `json:"discount"`
	DiscountType string                        `json:"discount_type"`
}

type paymentRequest struct {
	Date      *time.Time `json:"date"`
	Amount    int64      `json:"amount"`
	Method    string     `json:"method"`
	Reference string     `json:"reference"`
	Notes     string     `json:"notes"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.Create(c.Request.Context(), billingdomain.CreateInvoiceRequest{
		ClientID:     strings.TrimSpace(req.ClientID),
		PatientID:    strings.TrimSpace(req.PatientID),
		VisitID:      strings.TrimSpace(req.VisitID),
		BillingDate:  req.BillingDate,
		Items:        req.Items,
		Discount:     req.Discount,
		DiscountType: billingdomain.DiscountType(strings.TrimSpace(req.DiscountType)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.Update(c.Request.Context(), billingdomain.UpdateInvoiceRequest{
		ID:           strings.TrimSpace(c.Param("id")),
		BillingDate:  req.BillingDate,
		Items:        req.Items,
		Discount:     req.Discount,
		DiscountType: billingdomain.DiscountType(strings.TrimSpace(req.DiscountType)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		pagination.Pagination
		ClientID  string `form:"client_id"`
		PatientID string `form:"patient_id"`
		VisitID   string `form:"visit_id"`
		Status    string `form:"status"`
		DateFrom  string `form:"date_from"`
		DateTo    string `form:"date_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	dateFrom, err := parseOptionalTime(query.DateFrom, false)
	if err != nil {
		AbortWithError(c, newValidationError("date_from", "invalid_date_from", "invalid date_from"))
		return
	}
	dateTo, err := parseOptionalTime(query.DateTo, true)
	if err != nil {
		AbortWithError(c, newValidationError("date_to", "invalid_date_to", "invalid date_to"))
		return
	}

	resp, err := s.billingSvc.List(c.Request.Context(), billingdomain.ListInvoiceRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		ClientID:  strings.TrimSpace(query.ClientID),
		PatientID: strings.TrimSpace(query.PatientID),
		VisitID:   strings.TrimSpace(query.VisitID),
		Status:    strings.TrimSpace(query.Status),
		DateFrom:  dateFrom,
		DateTo:    dateTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	resp, err := s.billingSvc.GetByID(c.Request.Context(), billingdomain.GetInvoiceRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AppendInvoicePayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.AppendPayment(c.Request.Context(), billingdomain.AppendPaymentRequest{
		InvoiceID: strings.TrimSpace(c.Param("id")),
		Date:      req.Date,
		Amount:    req.Amount,
		Method:    billingdomain.PaymentMethod(strings.TrimSpace(req.Method)),
		Reference: strings.TrimSpace(req.Reference),
		Notes:     req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ListUnbilledVisits surfaces completed visits that still need an
// invoice, with suggested line items and an estimated total.
func (s *Server) ListUnbilledVisits(c *gin.Context) {
	var query struct {
		ClientID string `form:"client_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.ListUnbilled(c.Request.Context(), billingdomain.ListUnbilledRequest{
		ClientID: strings.TrimSpace(query.ClientID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RenderInvoicePDF(c *gin.Context) {
	inv, err := s.billingSvc.GetByID(c.Request.Context(), billingdomain.GetInvoiceRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc := s.buildInvoiceDocument(c.Request.Context(), inv)
	rendered, err := s.pdfProvider.RenderInvoice(c.Request.Context(), doc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="invoice-`+inv.ReceiptNumber+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", rendered)
}

// buildInvoiceDocument resolves the names printed on the document. A
// failed lookup leaves the field blank rather than failing the render.
func (s *Server) buildInvoiceDocument(ctx context.Context, inv billingdomain.Invoice) pdf.Document {
	var clientName, clientAddress, patientName string

	if client, err := s.clientSvc.GetByID(ctx, clientdomain.GetClientRequest{ID: inv.ClientID.String()}); err == nil {
		clientName = client.Name
		clientAddress = client.Address
	}
	if inv.PatientID != nil {
		if patient, err := s.patientSvc.GetByID(ctx, patientdomain.GetPatientRequest{ID: inv.PatientID.String()}); err == nil {
			patientName = patient.Name
		}
	}

	return pdf.BuildDocument(s.clinicCfg.Get(), inv, clientName, clientAddress, patientName)
}

func isBillingValidationError(err error) bool {
	switch err {
	case billingdomain.ErrInvalidClinic,
		billingdomain.ErrInvalidID,
		billingdomain.ErrInvalidClient,
		billingdomain.ErrNoItems,
		billingdomain.ErrInvalidItem,
		billingdomain.ErrInvalidDiscountType,
		billingdomain.ErrInvalidStatus,
		billingdomain.ErrInvalidAmount,
		billingdomain.ErrInvalidMethod,
		billingdomain.ErrInvalidShareToken:
		return true
	default:
		return false
	}
}
