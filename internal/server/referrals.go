package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	referraldomain "github.com/smallvet/clinica/internal/referral/domain"
)

type referralRequest struct {
	PatientID string `json:"patient_id"`
	Sender    string `json:"sender"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

func (s *Server) CreateReferral(c *gin.Context) {
	var req referralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.referralSvc.Create(c.Request.Context(), referraldomain.CreateReferralRequest{
		PatientID: strings.TrimSpace(req.PatientID),
		Sender:    strings.TrimSpace(req.Sender),
		Subject:   strings.TrimSpace(req.Subject),
		Body:      req.Body,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListReferrals(c *gin.Context) {
	var query struct {
		UnreadOnly bool `form:"unread_only"`
		Limit      int  `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.referralSvc.Inbox(c.Request.Context(), referraldomain.InboxRequest{
		UnreadOnly: query.UnreadOnly,
		Limit:      query.Limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) MarkReferralRead(c *gin.Context) {
	resp, err := s.referralSvc.MarkRead(c.Request.Context(), referraldomain.MarkReadRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// CountUnreadReferrals backs the inbox badge; the UI polls it.
func (s *Server) CountUnreadReferrals(c *gin.Context) {
	count, err := s.referralSvc.UnreadCount(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"unread": count}})
}

func isReferralValidationError(err error) bool {
	switch err {
	case referraldomain.ErrInvalidClinic,
		referraldomain.ErrInvalidSender,
		referraldomain.ErrInvalidSubject,
		referraldomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
