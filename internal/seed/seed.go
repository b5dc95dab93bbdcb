package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	clinicdomain "github.com/smallvet/clinica/internal/clinic/domain"
	"gorm.io/gorm"
)

const (
	defaultClinicName = "Main"
	defaultClinicSlug = "main"
)

// EnsureMainClinic seeds the default clinic for startup bootstrap.
func EnsureMainClinic(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ensureMainClinicTx(ctx, tx, node.Generate())
		return err
	})
}

// EnsureMainClinicWithID seeds the default clinic using a pinned identifier
// so DEFAULT_CLINIC keeps resolving across fresh databases.
func EnsureMainClinicWithID(db *gorm.DB, id int64) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if id == 0 {
		return EnsureMainClinic(db)
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ensureMainClinicTx(ctx, tx, snowflake.ID(id))
		return err
	})
}

func ensureMainClinicTx(ctx context.Context, tx *gorm.DB, id snowflake.ID) (clinicdomain.Clinic, error) {
	var clinic clinicdomain.Clinic
	err := tx.WithContext(ctx).Where("slug = ?", defaultClinicSlug).First(&clinic).Error
	if err == nil {
		return clinic, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return clinic, err
	}
	now := time.Now().UTC()
	clinic = clinicdomain.Clinic{
		ID:        id,
		Name:      defaultClinicName,
		Slug:      defaultClinicSlug,
		IsDefault: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&clinic).Error; err != nil {
		return clinic, err
	}
	return clinic, nil
}
