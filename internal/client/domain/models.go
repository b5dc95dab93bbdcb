// Package domain contains the clinic's client (pet owner) records.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Client struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	ClinicID snowflake.ID `gorm:"not null;index" json:"clinic_id"`

	Name     string `gorm:"type:text;not null" json:"name"`
	IDNumber string `gorm:"type:text" json:"id_number"`
	Phone    string `gorm:"type:text" json:"phone"`
	Email    string `gorm:"type:text" json:"email"`
	Address  string `gorm:"type:text" json:"address"`
	Notes    string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Client) TableName() string { return "clients" }
