package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type CreateLabTestRequest struct {
	PatientID string     `json:"patient_id"`
	VisitID   string     `json:"visit_id"`
	Name      string     `json:"name"`
	Result    string     `json:"result"`
	Units     string     `json:"units"`
	Price     int64      `json:"price"`
	Source    Source     `json:"source"`
	TakenAt   *time.Time `json:"taken_at"`
}

type UpdateLabTestRequest struct {
	ID     string `json:"-"`
	Result string `json:"result"`
	Units  string `json:"units"`
	Price  int64  `json:"price"`
}

type ListByPatientRequest struct {
	PatientID string
	From      *time.Time
	To        *time.Time
}

type ListByVisitRequest struct {
	VisitID string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, test *LabTest) error
	Update(ctx context.Context, db *gorm.DB, test *LabTest) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*LabTest, error)
	ListByPatient(ctx context.Context, db *gorm.DB, clinicID, patientID snowflake.ID, from, to *time.Time) ([]LabTest, error)
	ListByVisit(ctx context.Context, db *gorm.DB, clinicID, visitID snowflake.ID) ([]LabTest, error)
}

type Service interface {
	Create(context.Context, CreateLabTestRequest) (LabTest, error)
	Update(context.Context, UpdateLabTestRequest) (LabTest, error)
	ListByPatient(context.Context, ListByPatientRequest) ([]LabTest, error)
	ListByVisit(context.Context, ListByVisitRequest) ([]LabTest, error)
}

var (
	ErrInvalidClinic  = errors.New("invalid_clinic")
	ErrInvalidPatient = errors.New("invalid_patient")
	ErrInvalidVisit   = errors.New("invalid_visit")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidSource  = errors.New("invalid_source")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
)
