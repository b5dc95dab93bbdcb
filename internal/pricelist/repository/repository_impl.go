package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallvet/clinica/internal/pricelist/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, item *domain.PriceListItem) error {
	return db.WithContext(ctx).Create(item).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, item *domain.PriceListItem) error {
	return db.WithContext(ctx).
		Model(&domain.PriceListItem{}).
		Where("clinic_id = ? AND id = ?", item.ClinicID, item.ID).
		Updates(map[string]any{
			"name":             item.Name,
			"client_price":     item.ClientPrice,
			"default_quantity": item.DefaultQuantity,
			"active":           item.Active,
			"updated_at":       item.UpdatedAt,
		}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.PriceListItem, error) {
	var item domain.PriceListItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, clinic_id, client_id, name, client_price, default_quantity, active, created_at, updated_at
		 FROM price_list_items WHERE clinic_id = ? AND id = ?`,
		clinicID,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) ListByClient(ctx context.Context, db *gorm.DB, clinicID, clientID snowflake.ID, activeOnly bool) ([]domain.PriceListItem, error) {
	var items []domain.PriceListItem
	stmt := db.WithContext(ctx).
		Model(&domain.PriceListItem{}).
		Where("clinic_id = ? AND client_id = ?", clinicID, clientID)
	if activeOnly {
		stmt = stmt.Where("active = ?", true)
	}
	err := stmt.Order("name asc").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		Delete(&domain.PriceListItem{}).Error
}
