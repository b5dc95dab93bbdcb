package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type CreateProductRequest struct {
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	Supplier     string  `json:"supplier"`
	StockQty     float64 `json:"stock_qty"`
	ReorderLevel float64 `json:"reorder_level"`
}

type UpdateProductRequest struct {
	ID           string  `json:"-"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	Supplier     string  `json:"supplier"`
	ReorderLevel float64 `json:"reorder_level"`
}

type RecordMovementRequest struct {
	ProductID string       `json:"-"`
	Kind      MovementKind `json:"kind"`
	Quantity  float64      `json:"quantity"`
	Reason    string       `json:"reason"`
}

type ListProductRequest struct {
	Search string
}

type GetProductRequest struct {
	ID string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, product *Product) error
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*Product, error)
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*Product, error)
	List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, search string) ([]Product, error)
	ListBelowReorder(ctx context.Context, db *gorm.DB, clinicID snowflake.ID) ([]Product, error)
	InsertMovement(ctx context.Context, db *gorm.DB, movement *StockMovement) error
	ListMovements(ctx context.Context, db *gorm.DB, clinicID, productID snowflake.ID) ([]StockMovement, error)
}

type Service interface {
	Create(context.Context, CreateProductRequest) (Product, error)
	Update(context.Context, UpdateProductRequest) (Product, error)
	GetByID(context.Context, GetProductRequest) (Product, error)
	List(context.Context, ListProductRequest) ([]Product, error)
	ListBelowReorder(context.Context) ([]Product, error)
	RecordMovement(context.Context, RecordMovementRequest) (Product, error)
	ListMovements(context.Context, GetProductRequest) ([]StockMovement, error)
}

var (
	ErrInvalidClinic   = errors.New("invalid_clinic")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidKind     = errors.New("invalid_kind")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrInsufficient    = errors.New("insufficient_stock")
	ErrNotFound        = errors.New("not_found")
)
