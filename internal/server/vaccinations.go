package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	vaccinationdomain "github.com/smallvet/clinica/internal/vaccination/domain"
)

type vaccinationRequest struct {
	PatientID string     `json:"patient_id"`
	Vaccine   string     `json:"vaccine"`
	Batch     string     `json:"batch"`
	GivenAt   *time.Time `json:"given_at"`
	ValidDays int        `json:"valid_days"`
	Notes     string     `json:"notes"`
}

func (s *Server) CreateVaccination(c *gin.Context) {
	var req vaccinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.vaccinationSvc.Create(c.Request.Context(), vaccinationdomain.CreateVaccinationRequest{
		PatientID: strings.TrimSpace(req.PatientID),
		Vaccine:   strings.TrimSpace(req.Vaccine),
		Batch:     strings.TrimSpace(req.Batch),
		GivenAt:   req.GivenAt,
		ValidDays: req.ValidDays,
		Notes:     req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPatientVaccinations(c *gin.Context) {
	resp, err := s.vaccinationSvc.ListByPatient(c.Request.Context(), vaccinationdomain.ListByPatientRequest{
		PatientID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListDueVaccinations(c *gin.Context) {
	var query struct {
		Until string `form:"until"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	until, err := parseOptionalTime(query.Until, true)
	if err != nil {
		AbortWithError(c, newValidationError("until", "invalid_until", "invalid until"))
		return
	}

	resp, err := s.vaccinationSvc.ListDue(c.Request.Context(), vaccinationdomain.ListDueRequest{
		Until: until,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isVaccinationValidationError(err error) bool {
	switch err {
	case vaccinationdomain.ErrInvalidClinic,
		vaccinationdomain.ErrInvalidPatient,
		vaccinationdomain.ErrInvalidVaccine,
		vaccinationdomain.ErrInvalidValidDays:
		return true
	default:
		return false
	}
}
