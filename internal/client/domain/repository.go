package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallvet/clinica/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, client *Client) error
	Update(ctx context.Context, db *gorm.DB, client *Client) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*Client, error)
	List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, filter ListClientFilter, page pagination.Pagination) ([]*Client, error)
}
