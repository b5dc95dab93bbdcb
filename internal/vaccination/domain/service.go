package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type CreateVaccinationRequest struct {
	PatientID string     `json:"patient_id"`
	Vaccine   string     `json:"vaccine"`
	Batch     string     `json:"batch"`
	GivenAt   *time.Time `json:"given_at"`
	ValidDays int        `json:"valid_days"`
	Notes     string     `json:"notes"`
}

type ListByPatientRequest struct {
	PatientID string
}

type ListDueRequest struct {
	// Until bounds the reminder window; zero means now plus the configured
	// reminder days.
	Until *time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, vaccination *Vaccination) error
	ListByPatient(ctx context.Context, db *gorm.DB, clinicID, patientID snowflake.ID) ([]Vaccination, error)
	ListDue(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, until time.Time) ([]DueVaccination, error)
}

type Service interface {
	Create(context.Context, CreateVaccinationRequest) (Vaccination, error)
	ListByPatient(context.Context, ListByPatientRequest) ([]Vaccination, error)
	ListDue(context.Context, ListDueRequest) ([]DueVaccination, error)
}

var (
	ErrInvalidClinic    = errors.New("invalid_clinic")
	ErrInvalidPatient   = errors.New("invalid_patient")
	ErrInvalidVaccine   = errors.New("invalid_vaccine")
	ErrInvalidValidDays = errors.New("invalid_valid_days")
)
