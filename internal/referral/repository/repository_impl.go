package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallvet/clinica/internal/referral/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, referral *domain.Referral) error {
	return db.WithContext(ctx).Create(referral).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.Referral, error) {
	var referral domain.Referral
	err := db.WithContext(ctx).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		First(&referral).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &referral, nil
}

func (r *repo) Inbox(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, unreadOnly bool, limit int) ([]domain.Referral, error) {
	var referrals []domain.Referral
	stmt := db.WithContext(ctx).
		Model(&domain.Referral{}).
		Where("clinic_id = ?", clinicID)
	if unreadOnly {
		stmt = stmt.Where("read_at IS NULL")
	}
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	err := stmt.Order("created_at desc, id desc").Find(&referrals).Error
	if err != nil {
		return nil, err
	}
	return referrals, nil
}

func (r *repo) MarkRead(ctx context.Context, db *gorm.DB, referral *domain.Referral) error {
	return db.WithContext(ctx).
		Model(&domain.Referral{}).
		Where("clinic_id = ? AND id = ?", referral.ClinicID, referral.ID).
		Update("read_at", referral.ReadAt).Error
}

func (r *repo) UnreadCount(ctx context.Context, db *gorm.DB, clinicID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Referral{}).
		Where("clinic_id = ? AND read_at IS NULL", clinicID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
