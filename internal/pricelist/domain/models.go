// Package domain contains per-client price agreements. Each client can carry
// a negotiated price per service name; visit billing proposals read these.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// PriceListItem is one negotiated service price for a client.
// ClientPrice is in minor currency units.
type PriceListItem struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	ClinicID snowflake.ID `gorm:"not null;index" json:"clinic_id"`
	ClientID snowflake.ID `gorm:"not null;index" json:"client_id"`

	Name            string  `gorm:"type:text;not null" json:"name"`
	ClientPrice     int64   `gorm:"not null;default:0" json:"client_price"`
	DefaultQuantity float64 `gorm:"not null;default:1" json:"default_quantity"`
	Active          bool    `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (PriceListItem) TableName() string { return "price_list_items" }
