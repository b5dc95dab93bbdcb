package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	labtestdomain "github.com/smallvet/clinica/internal/labtest/domain"
)

type labTestRequest struct {
	PatientID string     `json:"patient_id"`
	VisitID   string     `json:"visit_id"`
	Name      string     `json:"name"`
	Result    string     `json:"result"`
	Units     string     `json:"units"`
	Price     int64      `json:"price"`
	Source    string     `json:"source"`
	TakenAt   *time.Time `json:"taken_at"`
}

func (s *Server) CreateLabTest(c *gin.Context) {
	var req labTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.labTestSvc.Create(c.Request.Context(), labtestdomain.CreateLabTestRequest{
		PatientID: strings.TrimSpace(req.PatientID),
		VisitID:   strings.TrimSpace(req.VisitID),
		Name:      strings.TrimSpace(req.Name),
		Result:    strings.TrimSpace(req.Result),
		Units:     strings.TrimSpace(req.Units),
		Price:     req.Price,
		Source:    labtestdomain.Source(strings.TrimSpace(req.Source)),
		TakenAt:   req.TakenAt,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateLabTest(c *gin.Context) {
	var req labTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.labTestSvc.Update(c.Request.Context(), labtestdomain.UpdateLabTestRequest{
		ID:     strings.TrimSpace(c.Param("id")),
		Result: strings.TrimSpace(req.Result),
		Units:  strings.TrimSpace(req.Units),
		Price:  req.Price,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ListPatientLabTests returns the deduplicated timeline for a patient.
func (s *Server) ListPatientLabTests(c *gin.Context) {
	var query struct {
		From string `form:"from"`
		To   string `form:"to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	from, err := parseOptionalTime(query.From, false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from"))
		return
	}
	to, err := parseOptionalTime(query.To, true)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to"))
		return
	}

	resp, err := s.labTestSvc.ListByPatient(c.Request.Context(), labtestdomain.ListByPatientRequest{
		PatientID: strings.TrimSpace(c.Param("id")),
		From:      from,
		To:        to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListVisitLabTests(c *gin.Context) {
	resp, err := s.labTestSvc.ListByVisit(c.Request.Context(), labtestdomain.ListByVisitRequest{
		VisitID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isLabTestValidationError(err error) bool {
	switch err {
	case labtestdomain.ErrInvalidClinic,
		labtestdomain.ErrInvalidPatient,
		labtestdomain.ErrInvalidVisit,
		labtestdomain.ErrInvalidName,
		labtestdomain.ErrInvalidSource,
		labtestdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
