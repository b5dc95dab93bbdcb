package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallvet/clinica/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*Invoice, error)
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*Invoice, error)
	FindByShareToken(ctx context.Context, db *gorm.DB, token string) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, filter ListInvoiceFilter, page pagination.Pagination) ([]*Invoice, error)
	ReplaceItems(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	InsertPayment(ctx context.Context, db *gorm.DB, payment *Payment) error
	UpdateDerived(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	LoadLines(ctx context.Context, db *gorm.DB, invoice *Invoice) error
}
