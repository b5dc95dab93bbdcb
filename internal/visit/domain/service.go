package domain

import (
	"context"
	"errors"

	"github.com/smallvet/clinica/pkg/db/pagination"
)

type VisitItemInput struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice int64   `json:"unit_price"`
}

type PrescriptionInput struct {
	Medication string  `json:"medication"`
	Dosage     string  `json:"dosage"`
	Days       int     `json:"days"`
	Quantity   float64 `json:"quantity"`
	Notes      string  `json:"notes"`
}

type CreateVisitRequest struct {
	ClientID      string              `json:"client_id"`
	PatientID     string              `json:"patient_id"`
	Veterinarian  string              `json:"veterinarian"`
	Complaint     string              `json:"complaint"`
	Diagnosis     string              `json:"diagnosis"`
	Treatment     string              `json:"treatment"`
	Notes         string              `json:"notes"`
	Items         []VisitItemInput    `json:"items"`
	Prescriptions []PrescriptionInput `json:"prescriptions"`
}

type UpdateVisitRequest struct {
	ID            string              `json:"-"`
	Veterinarian  string              `json:"veterinarian"`
	Complaint     string              `json:"complaint"`
	Diagnosis     string              `json:"diagnosis"`
	Treatment     string              `json:"treatment"`
	Notes         string              `json:"notes"`
	Items         []VisitItemInput    `json:"items"`
	Prescriptions []PrescriptionInput `json:"prescriptions"`
}

type GetVisitRequest struct {
	ID string
}

type CompleteVisitRequest struct {
	ID string
}

type ListVisitRequest struct {
	PageToken string
	PageSize  int32
	ClientID  string
	PatientID string
	Status    string
}

type ListVisitFilter struct {
	ClientID  int64
	PatientID int64
	Status    VisitStatus
}

type ListVisitResponse struct {
	pagination.PageInfo
	Visits []Visit `json:"visits"`
}

type Service interface {
	Create(context.Context, CreateVisitRequest) (Visit, error)
	Update(context.Context, UpdateVisitRequest) (Visit, error)
	GetByID(context.Context, GetVisitRequest) (Visit, error)
	List(context.Context, ListVisitRequest) (ListVisitResponse, error)
	Complete(context.Context, CompleteVisitRequest) (Visit, error)
}

var (
	ErrInvalidClinic   = errors.New("invalid_clinic")
	ErrInvalidClient   = errors.New("invalid_client")
	ErrInvalidPatient  = errors.New("invalid_patient")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidItem     = errors.New("invalid_item")
	ErrAlreadyComplete = errors.New("already_complete")
	ErrNotFound        = errors.New("not_found")
)
