package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallvet/clinica/internal/visit/domain"
	"github.com/smallvet/clinica/pkg/db/option"
	"github.com/smallvet/clinica/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, visit *domain.Visit) error {
	return db.WithContext(ctx).Create(visit).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, visit *domain.Visit) error {
	return db.WithContext(ctx).
		Model(&domain.Visit{}).
		Where("clinic_id = ? AND id = ?", visit.ClinicID, visit.ID).
		Updates(map[string]any{
			"veterinarian": visit.Veterinarian,
			"status":       visit.Status,
			"complaint":    visit.Complaint,
			"diagnosis":    visit.Diagnosis,
			"treatment":    visit.Treatment,
			"notes":        visit.Notes,
			"completed_at": visit.CompletedAt,
			"updated_at":   visit.UpdatedAt,
		}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.Visit, error) {
	var visit domain.Visit
	err := db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Prescriptions", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		First(&visit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &visit, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, filter domain.ListVisitFilter, page pagination.Pagination) ([]*domain.Visit, error) {
	var visits []*domain.Visit
	stmt := db.WithContext(ctx).
		Model(&domain.Visit{}).
		Where("clinic_id = ?", clinicID)
	if filter.ClientID != 0 {
		stmt = stmt.Where("client_id = ?", filter.ClientID)
	}
	if filter.PatientID != 0 {
		stmt = stmt.Where("patient_id = ?", filter.PatientID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&visits).Error
	if err != nil {
		return nil, err
	}
	return visits, nil
}

func (r *repo) ReplaceLines(ctx context.Context, db *gorm.DB, visit *domain.Visit) error {
	err := db.WithContext(ctx).
		Where("visit_id = ?", visit.ID).
		Delete(&domain.VisitItem{}).Error
	if err != nil {
		return err
	}
	err = db.WithContext(ctx).
		Where("visit_id = ?", visit.ID).
		Delete(&domain.Prescription{}).Error
	if err != nil {
		return err
	}
	if len(visit.Items) > 0 {
		if err := db.WithContext(ctx).Create(&visit.Items).Error; err != nil {
			return err
		}
	}
	if len(visit.Prescriptions) > 0 {
		if err := db.WithContext(ctx).Create(&visit.Prescriptions).Error; err != nil {
			return err
		}
	}
	return nil
}
