package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/smallvet/clinica/internal/billing/domain"
	"github.com/smallvet/clinica/internal/clinicctx"
)

// GetSharedReceipt serves an invoice to a pet owner holding a share
// link. The token is the only credential; no clinic header is involved.
func (s *Server) GetSharedReceipt(c *gin.Context) {
	inv, err := s.billingSvc.GetByShareToken(c.Request.Context(), billingdomain.GetInvoiceByShareTokenRequest{
		ShareToken: strings.TrimSpace(c.Param("token")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) RenderSharedReceiptPDF(c *gin.Context) {
	inv, err := s.billingSvc.GetByShareToken(c.Request.Context(), billingdomain.GetInvoiceByShareTokenRequest{
		ShareToken: strings.TrimSpace(c.Param("token")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// Name lookups are clinic-scoped; adopt the invoice's clinic since
	// public requests carry none.
	ctx := clinicctx.WithClinicID(c.Request.Context(), int64(inv.ClinicID))
	doc := s.buildInvoiceDocument(ctx, inv)

	rendered, err := s.pdfProvider.RenderReceipt(c.Request.Context(), doc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="receipt-`+inv.ReceiptNumber+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", rendered)
}
