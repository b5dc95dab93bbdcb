package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type CreatePriceListItemRequest struct {
	ClientID        string  `json:"client_id"`
	Name            string  `json:"name"`
	ClientPrice     int64   `json:"client_price"`
	DefaultQuantity float64 `json:"default_quantity"`
}

type UpdatePriceListItemRequest struct {
	ID              string  `json:"-"`
	Name            string  `json:"name"`
	ClientPrice     int64   `json:"client_price"`
	DefaultQuantity float64 `json:"default_quantity"`
	Active          *bool   `json:"active"`
}

type ListPriceListRequest struct {
	ClientID   string
	ActiveOnly bool
}

type DeletePriceListItemRequest struct {
	ID string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, item *PriceListItem) error
	Update(ctx context.Context, db *gorm.DB, item *PriceListItem) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*PriceListItem, error)
	ListByClient(ctx context.Context, db *gorm.DB, clinicID, clientID snowflake.ID, activeOnly bool) ([]PriceListItem, error)
	Delete(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) error
}

type Service interface {
	Create(context.Context, CreatePriceListItemRequest) (PriceListItem, error)
	Update(context.Context, UpdatePriceListItemRequest) (PriceListItem, error)
	ListByClient(context.Context, ListPriceListRequest) ([]PriceListItem, error)
	Delete(context.Context, DeletePriceListItemRequest) error
}

var (
	ErrInvalidClinic = errors.New("invalid_clinic")
	ErrInvalidClient = errors.New("invalid_client")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidPrice  = errors.New("invalid_price")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
)
