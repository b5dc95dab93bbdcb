package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	visitdomain "github.com/smallvet/clinica/internal/visit/domain"
	"github.com/smallvet/clinica/pkg/db/pagination"
)

type visitRequest struct {
	ClientID      string                           `json:"client_id"`
	PatientID     string                           `json:"patient_id"`
	Veterinarian  string                           `json:"veterinarian"`
	Complaint     string                           `json:"complaint"`
	Diagnosis     string                           `json:"diagnosis"`
	Treatment     string                           `json:"treatment"`
	Notes         string                           `json:"notes"`
	Items         []visitdomain.VisitItemInput    `json:"items"`
	Prescriptions []visitdomain.PrescriptionInput `json:"prescriptions"`
}

func (s *Server) CreateVisit(c *gin.Context) {
	var req visitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.visitSvc.Create(c.Request.Context(), visitdomain.CreateVisitRequest{
		ClientID:      strings.TrimSpace(req.ClientID),
		PatientID:     strings.TrimSpace(req.PatientID),
		Veterinarian:  strings.TrimSpace(req.Veterinarian),
		Complaint:     req.Complaint,
		Diagnosis:     req.Diagnosis,
		Treatment:     req.Treatment,
		Notes:         req.Notes,
		Items:         req.Items,
		Prescriptions: req.Prescriptions,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateVisit(c *gin.Context) {
	var req visitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.visitSvc.Update(c.Request.Context(), visitdomain.UpdateVisitRequest{
		ID:            strings.TrimSpace(c.Param("id")),
		Veterinarian:  strings.TrimSpace(req.Veterinarian),
		Complaint:     req.Complaint,
		Diagnosis:     req.Diagnosis,
		Treatment:     req.Treatment,
		Notes:         req.Notes,
		Items:         req.Items,
		Prescriptions: req.Prescriptions,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListVisits(c *gin.Context) {
	var query struct {
		pagination.Pagination
		ClientID  string `form:"client_id"`
		PatientID string `form:"patient_id"`
		Status    string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.visitSvc.List(c.Request.Context(), visitdomain.ListVisitRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		ClientID:  strings.TrimSpace(query.ClientID),
		PatientID: strings.TrimSpace(query.PatientID),
		Status:    strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetVisitByID(c *gin.Context) {
	resp, err := s.visitSvc.GetByID(c.Request.Context(), visitdomain.GetVisitRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CompleteVisit(c *gin.Context) {
	resp, err := s.visitSvc.Complete(c.Request.Context(), visitdomain.CompleteVisitRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isVisitValidationError(err error) bool {
	switch err {
	case visitdomain.ErrInvalidClinic,
		visitdomain.ErrInvalidClient,
		visitdomain.ErrInvalidPatient,
		visitdomain.ErrInvalidID,
		visitdomain.ErrInvalidStatus,
		visitdomain.ErrInvalidItem:
		return true
	default:
		return false
	}
}
