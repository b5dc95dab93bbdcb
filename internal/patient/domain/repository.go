package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallvet/clinica/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, patient *Patient) error
	Update(ctx context.Context, db *gorm.DB, patient *Patient) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*Patient, error)
	List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, filter ListPatientFilter, page pagination.Pagination) ([]*Patient, error)
}
