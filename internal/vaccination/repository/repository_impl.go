package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallvet/clinica/internal/vaccination/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, vaccination *domain.Vaccination) error {
	return db.WithContext(ctx).Create(vaccination).Error
}

func (r *repo) ListByPatient(ctx context.Context, db *gorm.DB, clinicID, patientID snowflake.ID) ([]domain.Vaccination, error) {
	var vaccinations []domain.Vaccination
	err := db.WithContext(ctx).
		Model(&domain.Vaccination{}).
		Where("clinic_id = ? AND patient_id = ?", clinicID, patientID).
		Order("given_at desc, id desc").
		Find(&vaccinations).Error
	if err != nil {
		return nil, err
	}
	return vaccinations, nil
}

// ListDue returns the latest dose per patient and vaccine with a due date
// inside the window. Older doses of the same vaccine are superseded and
// never produce reminders.
func (r *repo) ListDue(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, until time.Time) ([]domain.DueVaccination, error) {
	var due []domain.DueVaccination
	err := db.WithContext(ctx).Raw(
		`SELECT v.id, v.patient_id, p.name AS patient_name,
		        p.client_id, c.name AS client_name, c.phone,
		        v.vaccine, v.given_at, v.next_due
		 FROM vaccinations v
		 JOIN patients p ON p.id = v.patient_id
		 JOIN clients c ON c.id = p.client_id
		 WHERE v.clinic_id = ?
		   AND p.active = ?
		   AND v.next_due IS NOT NULL
		   AND v.next_due <= ?
		   AND NOT EXISTS (
		     SELECT 1 FROM vaccinations newer
		     WHERE newer.patient_id = v.patient_id
		       AND newer.vaccine = v.vaccine
		       AND (newer.given_at > v.given_at
		            OR (newer.given_at = v.given_at AND newer.id > v.id)))
		 ORDER BY v.next_due ASC, v.id ASC`,
		clinicID,
		true,
		until.UTC(),
	).Scan(&due).Error
	if err != nil {
		return nil, err
	}
	return due, nil
}
