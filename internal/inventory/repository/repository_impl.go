package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallvet/clinica/internal/inventory/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Create(product).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("clinic_id = ? AND id = ?", product.ClinicID, product.ID).
		Updates(map[string]any{
			"name":          product.Name,
			"sku":           product.SKU,
			"unit":          product.Unit,
			"supplier":      product.Supplier,
			"stock_qty":     product.StockQty,
			"reorder_level": product.ReorderLevel,
			"updated_at":    product.UpdatedAt,
		}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.Product, error) {
	var product domain.Product
	err := db.WithContext(ctx).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repo) FindByIDForUpdate(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.Product, error) {
	stmt := db.WithContext(ctx)
	// sqlite has no row locks; its transaction already serializes writers.
	if db.Dialector.Name() != "sqlite" {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var product domain.Product
	err := stmt.Where("clinic_id = ? AND id = ?", clinicID, id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, search string) ([]domain.Product, error) {
	var products []domain.Product
	stmt := db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("clinic_id = ?", clinicID)
	if search != "" {
		like := "%" + search + "%"
		stmt = stmt.Where("name LIKE ? OR sku LIKE ?", like, like)
	}
	err := stmt.Order("name asc").Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) ListBelowReorder(ctx context.Context, db *gorm.DB, clinicID snowflake.ID) ([]domain.Product, error) {
	var products []domain.Product
	err := db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("clinic_id = ? AND reorder_level > 0 AND stock_qty <= reorder_level", clinicID).
		Order("name asc").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) InsertMovement(ctx context.Context, db *gorm.DB, movement *domain.StockMovement) error {
	return db.WithContext(ctx).Create(movement).Error
}

func (r *repo) ListMovements(ctx context.Context, db *gorm.DB, clinicID, productID snowflake.ID) ([]domain.StockMovement, error) {
	var movements []domain.StockMovement
	err := db.WithContext(ctx).
		Model(&domain.StockMovement{}).
		Where("clinic_id = ? AND product_id = ?", clinicID, productID).
		Order("created_at desc, id desc").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}
