// Package domain contains visit records: the clinical encounter, its
// billable treatment lines and any prescriptions written during it.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type VisitStatus string

const (
	VisitStatusOpen      VisitStatus = "open"
	VisitStatusCompleted VisitStatus = "completed"
)

type Visit struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ClinicID  snowflake.ID `gorm:"not null;index" json:"clinic_id"`
	ClientID  snowflake.ID `gorm:"not null;index" json:"client_id"`
	PatientID snowflake.ID `gorm:"not null;index" json:"patient_id"`

	Veterinarian string      `gorm:"type:text" json:"veterinarian"`
	Status       VisitStatus `gorm:"type:text;not null;default:'open'" json:"status"`
	Complaint    string      `gorm:"type:text" json:"complaint"`
	Diagnosis    string      `gorm:"type:text" json:"diagnosis"`
	Treatment    string      `gorm:"type:text" json:"treatment"`
	Notes        string      `gorm:"type:text" json:"notes"`
	CompletedAt  *time.Time  `json:"completed_at,omitempty"`

	Items         []VisitItem    `gorm:"foreignKey:VisitID" json:"items"`
	Prescriptions []Prescription `gorm:"foreignKey:VisitID" json:"prescriptions"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Visit) TableName() string { return "visits" }

// VisitItem is a billable treatment line recorded during the visit.
// UnitPrice is in minor currency units; zero means the price is resolved
// from the client's price list at billing time.
type VisitItem struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	ClinicID snowflake.ID `gorm:"not null;index" json:"clinic_id"`
	VisitID  snowflake.ID `gorm:"not null;index" json:"visit_id"`

	Name      string  `gorm:"type:text;not null" json:"name"`
	Quantity  float64 `gorm:"not null;default:1" json:"quantity"`
	UnitPrice int64   `gorm:"not null;default:0" json:"unit_price"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (VisitItem) TableName() string { return "visit_items" }

type Prescription struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	ClinicID snowflake.ID `gorm:"not null;index" json:"clinic_id"`
	VisitID  snowflake.ID `gorm:"not null;index" json:"visit_id"`

	Medication string  `gorm:"type:text;not null" json:"medication"`
	Dosage     string  `gorm:"type:text" json:"dosage"`
	Days       int     `gorm:"not null;default:0" json:"days"`
	Quantity   float64 `gorm:"not null;default:1" json:"quantity"`
	Notes      string  `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Prescription) TableName() string { return "prescriptions" }
