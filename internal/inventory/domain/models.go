// Package domain contains clinic inventory: products on the shelf and the
// stock movements that change their quantities.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type MovementKind string

const (
	MovementIn     MovementKind = "in"
	MovementOut    MovementKind = "out"
	MovementAdjust MovementKind = "adjust"
)

// Product is a stocked item. StockQty is derived from movements and cached
// here; ReorderLevel drives the low-stock report.
type Product struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	ClinicID snowflake.ID `gorm:"not null;index" json:"clinic_id"`

	Name         string  `gorm:"type:text;not null" json:"name"`
	SKU          string  `gorm:"type:text;not null;index" json:"sku"`
	Unit         string  `gorm:"type:text" json:"unit"`
	Supplier     string  `gorm:"type:text" json:"supplier"`
	StockQty     float64 `gorm:"not null;default:0" json:"stock_qty"`
	ReorderLevel float64 `gorm:"not null;default:0" json:"reorder_level"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }

// StockMovement is one change to a product's stock. Quantity is always
// positive; Kind determines the direction, and "adjust" sets the absolute
// level.
type StockMovement struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ClinicID  snowflake.ID `gorm:"not null;index" json:"clinic_id"`
	ProductID snowflake.ID `gorm:"not null;index" json:"product_id"`

	Kind     MovementKind `gorm:"type:text;not null" json:"kind"`
	Quantity float64      `gorm:"not null" json:"quantity"`
	Reason   string       `gorm:"type:text" json:"reason"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (StockMovement) TableName() string { return "stock_movements" }
