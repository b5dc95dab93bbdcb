package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallvet/clinica/pkg/db/pagination"
)

type ListPatientRequest struct {
	PageToken string
	PageSize  int32
	ClientID  string
	Search    string
	Species   string
	Active    *bool
}

type ListPatientFilter struct {
	ClientID int64
	Search   string
	Species  string
	Active   *bool
}

type ListPatientResponse struct {
	pagination.PageInfo
	Patients []Patient `json:"patients"`
}

type CreatePatientRequest struct {
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
}

type UpdatePatientRequest struct {
	ID          string     `json:"-"`
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

type GetPatientRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreatePatientRequest) (Patient, error)
	Update(context.Context, UpdatePatientRequest) (Patient, error)
	List(context.Context, ListPatientRequest) (ListPatientResponse, error)
	GetByID(context.Context, GetPatientRequest) (Patient, error)
}

var (
	ErrInvalidClinic = errors.New("invalid_clinic")
	ErrInvalidClient = errors.New("invalid_client")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
)
