package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallvet/clinica/internal/patient/domain"
	"github.com/smallvet/clinica/pkg/db/option"
	"github.com/smallvet/clinica/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, patient *domain.Patient) error {
	return db.WithContext(ctx).Create(patient).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, patient *domain.Patient) error {
	return db.WithContext(ctx).
		Model(&domain.Patient{}).
		Where("clinic_id = ? AND id = ?", patient.ClinicID, patient.ID).
		Updates(map[string]any{
			"name":          patient.Name,
			"species":       patient.Species,
			"breed":         patient.Breed,
			"sex":           patient.Sex,
			"color":         patient.Color,
			"date_of_birth": patient.DateOfBirth,
			"weight_kg":     patient.WeightKG,
			"microchip":     patient.Microchip,
			"notes":         patient.Notes,
			"active":        patient.Active,
			"updated_at":    patient.UpdatedAt,
		}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.Patient, error) {
	var patient domain.Patient
	err := db.WithContext(ctx).Raw(
		`SELECT id, clinic_id, client_id, name, species, breed, sex, color,
		        date_of_birth, weight_kg, microchip, notes, active, created_at, updated_at
		 FROM patients WHERE clinic_id = ? AND id = ?`,
		clinicID,
		id,
	).Scan(&patient).Error
	if err != nil {
		return nil, err
	}
	if patient.ID == 0 {
		return nil, nil
	}
	return &patient, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, filter domain.ListPatientFilter, page pagination.Pagination) ([]*domain.Patient, error) {
	var patients []*domain.Patient
	stmt := db.WithContext(ctx).
		Model(&domain.Patient{}).
		Where("clinic_id = ?", clinicID)
	if filter.ClientID != 0 {
		stmt = stmt.Where("client_id = ?", filter.ClientID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("name LIKE ? OR microchip LIKE ?", like, like)
	}
	if filter.Species != "" {
		stmt = stmt.Where("species = ?", filter.Species)
	}
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}
