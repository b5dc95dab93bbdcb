package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallvet/clinica/internal/labtest/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, test *domain.LabTest) error {
	return db.WithContext(ctx).Create(test).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, test *domain.LabTest) error {
	return db.WithContext(ctx).
		Model(&domain.LabTest{}).
		Where("clinic_id = ? AND id = ?", test.ClinicID, test.ID).
		Updates(map[string]any{
			"result": test.Result,
			"units":  test.Units,
			"price":  test.Price,
		}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.LabTest, error) {
	var test domain.LabTest
	err := db.WithContext(ctx).Raw(
		`SELECT id, clinic_id, patient_id, visit_id, name, result, units, price, source, taken_at, created_at
		 FROM lab_tests WHERE clinic_id = ? AND id = ?`,
		clinicID,
		id,
	).Scan(&test).Error
	if err != nil {
		return nil, err
	}
	if test.ID == 0 {
		return nil, nil
	}
	return &test, nil
}

func (r *repo) ListByPatient(ctx context.Context, db *gorm.DB, clinicID, patientID snowflake.ID, from, to *time.Time) ([]domain.LabTest, error) {
	var tests []domain.LabTest
	stmt := db.WithContext(ctx).
		Model(&domain.LabTest{}).
		Where("clinic_id = ? AND patient_id = ?", clinicID, patientID)
	if from != nil {
		stmt = stmt.Where("taken_at >= ?", from.UTC())
	}
	if to != nil {
		stmt = stmt.Where("taken_at <= ?", to.UTC())
	}
	err := stmt.Order("taken_at desc, id desc").Find(&tests).Error
	if err != nil {
		return nil, err
	}
	return tests, nil
}

func (r *repo) ListByVisit(ctx context.Context, db *gorm.DB, clinicID, visitID snowflake.ID) ([]domain.LabTest, error) {
	var tests []domain.LabTest
	err := db.WithContext(ctx).
		Model(&domain.LabTest{}).
		Where("clinic_id = ? AND visit_id = ?", clinicID, visitID).
		Order("taken_at desc, id desc").
		Find(&tests).Error
	if err != nil {
		return nil, err
	}
	return tests, nil
}
