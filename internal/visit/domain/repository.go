package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallvet/clinica/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, visit *Visit) error
	Update(ctx context.Context, db *gorm.DB, visit *Visit) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*Visit, error)
	List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, filter ListVisitFilter, page pagination.Pagination) ([]*Visit, error)
	ReplaceLines(ctx context.Context, db *gorm.DB, visit *Visit) error
}
