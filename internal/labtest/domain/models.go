// Package domain contains laboratory test results. Results arrive from three
// places: entered standalone, recorded inside a visit, or imported from the
// in-house analyzer. The merged patient view dedups across sources.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Source string

const (
	SourceStandalone Source = "standalone"
	SourceVisit      Source = "visit"
	SourceAnalyzer   Source = "analyzer"
)

// LabTest is a single test result. Price is in minor currency units; zero
// means the test is not billable on its own.
type LabTest struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	ClinicID  snowflake.ID  `gorm:"not null;index" json:"clinic_id"`
	PatientID snowflake.ID  `gorm:"not null;index" json:"patient_id"`
	VisitID   *snowflake.ID `gorm:"index" json:"visit_id,omitempty"`

	Name    string    `gorm:"type:text;not null" json:"name"`
	Result  string    `gorm:"type:text" json:"result"`
	Units   string    `gorm:"type:text" json:"units"`
	Price   int64     `gorm:"not null;default:0" json:"price"`
	Source  Source    `gorm:"type:text;not null;default:'standalone'" json:"source"`
	TakenAt time.Time `gorm:"not null;index" json:"taken_at"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (LabTest) TableName() string { return "lab_tests" }
