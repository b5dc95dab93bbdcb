// Package domain contains vaccination records and their due dates.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Vaccination is one administered dose. NextDue is derived from GivenAt and
// ValidDays at write time so due queries stay a plain index scan.
type Vaccination struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ClinicID  snowflake.ID `gorm:"not null;index" json:"clinic_id"`
	PatientID snowflake.ID `gorm:"not null;index" json:"patient_id"`

	Vaccine   string     `gorm:"type:text;not null" json:"vaccine"`
	Batch     string     `gorm:"type:text" json:"batch"`
	GivenAt   time.Time  `gorm:"not null" json:"given_at"`
	ValidDays int        `gorm:"not null;default:365" json:"valid_days"`
	NextDue   *time.Time `gorm:"index" json:"next_due,omitempty"`
	Notes     string     `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Vaccination) TableName() string { return "vaccinations" }

// DueVaccination is one row of the reminder view: the latest dose of a
// vaccine whose due date falls inside the reminder window.
type DueVaccination struct {
	ID          snowflake.ID `json:"id"`
	PatientID   snowflake.ID `json:"patient_id"`
	PatientName string       `json:"patient_name"`
	ClientID    snowflake.ID `json:"client_id"`
	ClientName  string       `json:"client_name"`
	Phone       string       `json:"phone"`
	Vaccine     string       `json:"vaccine"`
	GivenAt     time.Time    `json:"given_at"`
	NextDue     time.Time    `json:"next_due"`
}
