package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	patientdomain "github.com/smallvet/clinica/internal/patient/domain"
	"github.com/smallvet/clinica/pkg/db/pagination"
)

type patientRequest struct {
	ClientID    string     `json:"client_id"`
	Name        string     `json:"name"`
	Species     string     `json:"species"`
	Breed       string     `json:"breed"`
	Sex         string     `json:"sex"`
	Color       string     `json:"color"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	WeightKG    float64    `json:"weight_kg"`
	Microchip   string     `json:"microchip"`
	Notes       string     `json:"notes"`
	Active      *bool      `json:"active"`
}

func (s *Server) CreatePatient(c *gin.Context) {
	var req patientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.patientSvc.Create(c.Request.Context(), patientdomain.CreatePatientRequest{
		ClientID:    strings.TrimSpace(req.ClientID),
		Name:        strings.TrimSpace(req.Name),
		Species:     strings.TrimSpace(req.Species),
		Breed:       strings.TrimSpace(req.Breed),
		Sex:         strings.TrimSpace(req.Sex),
		Color:       strings.TrimSpace(req.Color),
		DateOfBirth: req.DateOfBirth,
		WeightKG:    req.WeightKG,
		Microchip:   strings.TrimSpace(req.Microchip),
		Notes:       req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdatePatient(c *gin.Context) {
	var req patientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.patientSvc.Update(c.Request.Context(), patientdomain.UpdatePatientRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		Name:        strings.TrimSpace(req.Name),
		Species:     strings.TrimSpace(req.Species),
		Breed:       strings.TrimSpace(req.Breed),
		Sex:         strings.TrimSpace(req.Sex),
		Color:       strings.TrimSpace(req.Color),
		DateOfBirth: req.DateOfBirth,
		WeightKG:    req.WeightKG,
		Microchip:   strings.TrimSpace(req.Microchip),
		Notes:       req.Notes,
		Active:      req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPatients(c *gin.Context) {
	var query struct {
		pagination.Pagination
		ClientID string `form:"client_id"`
		Search   string `form:"search"`
		Species  string `form:"species"`
		Active   string `form:"active"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	active, err := parseOptionalBool(query.Active)
	if err != nil {
		AbortWithError(c, newValidationError("active", "invalid_active", "invalid active"))
		return
	}

	resp, err := s.patientSvc.List(c.Request.Context(), patientdomain.ListPatientRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		ClientID:  strings.TrimSpace(query.ClientID),
		Search:    strings.TrimSpace(query.Search),
		Species:   strings.TrimSpace(query.Species),
		Active:    active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPatientByID(c *gin.Context) {
	resp, err := s.patientSvc.GetByID(c.Request.Context(), patientdomain.GetPatientRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isPatientValidationError(err error) bool {
	switch err {
	case patientdomain.ErrInvalidClinic,
		patientdomain.ErrInvalidClient,
		patientdomain.ErrInvalidName,
		patientdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
