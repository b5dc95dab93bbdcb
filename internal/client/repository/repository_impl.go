package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallvet/clinica/internal/client/domain"
	"github.com/smallvet/clinica/pkg/db/option"
	"github.com/smallvet/clinica/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO clients (id, clinic_id, name, id_number, phone, email, address, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		client.ID,
		client.ClinicID,
		client.Name,
		client.IDNumber,
		client.Phone,
		client.Email,
		client.Address,
		client.Notes,
		client.CreatedAt,
		client.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).Exec(
		`UPDATE clients
		 SET name = ?, id_number = ?, phone = ?, email = ?, address = ?, notes = ?, updated_at = ?
		 WHERE clinic_id = ? AND id = ?`,
		client.Name,
		client.IDNumber,
		client.Phone,
		client.Email,
		client.Address,
		client.Notes,
		client.UpdatedAt,
		client.ClinicID,
		client.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.Client, error) {
	var client domain.Client
	err := db.WithContext(ctx).Raw(
		`SELECT id, clinic_id, name, id_number, phone, email, address, notes, created_at, updated_at
		 FROM clients WHERE clinic_id = ? AND id = ?`,
		clinicID,
		id,
	).Scan(&client).Error
	if err != nil {
		return nil, err
	}
	if client.ID == 0 {
		return nil, nil
	}
	return &client, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, filter domain.ListClientFilter, page pagination.Pagination) ([]*domain.Client, error) {
	var clients []*domain.Client
	stmt := db.WithContext(ctx).
		Model(&domain.Client{}).
		Where("clinic_id = ?", clinicID)
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("name LIKE ? OR phone LIKE ? OR email LIKE ?", like, like, like)
	}
	if filter.Phone != "" {
		stmt = stmt.Where("phone = ?", filter.Phone)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}
