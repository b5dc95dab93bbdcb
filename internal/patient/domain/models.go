// Package domain contains the animal patient records.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Patient struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	ClinicID snowflake.ID `gorm:"not null;index" json:"clinic_id"`
	ClientID snowflake.ID `gorm:"not null;index" json:"client_id"`

	Name        string     `gorm:"type:text;not null" json:"name"`
	Species     string     `gorm:"type:text" json:"species"`
	Breed       string     `gorm:"type:text" json:"breed"`
	Sex         string     `gorm:"type:text" json:"sex"`
	Color       string     `gorm:"type:text" json:"color"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	WeightKG    float64    `gorm:"not null;default:0" json:"weight_kg"`
	Microchip   string     `gorm:"type:text" json:"microchip"`
	Notes       string     `gorm:"type:text" json:"notes"`
	Active      bool       `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Patient) TableName() string { return "patients" }
