// Package domain holds the clinic record used for tenant scoping.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Clinic struct {
	ID snowflake.ID `gorm:"primaryKey" json:"id"`

	Name      string `gorm:"type:text;not null" json:"name"`
	Slug      string `gorm:"type:text;not null;uniqueIndex" json:"slug"`
	IsDefault bool   `gorm:"not null;default:false" json:"is_default"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Clinic) TableName() string { return "clinics" }
