package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallvet/clinica/internal/billing/domain"
	"github.com/smallvet/clinica/pkg/db/option"
	"github.com/smallvet/clinica/pkg/db/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Create(invoice).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("date asc, id asc") }).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repo) FindByIDForUpdate(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.Invoice, error) {
	stmt := db.WithContext(ctx)
	// sqlite has no row locks; its transaction already serializes writers.
	if db.Dialector.Name() != "sqlite" {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var invoice domain.Invoice
	err := stmt.Where("clinic_id = ? AND id = ?", clinicID, id).First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repo) FindByShareToken(ctx context.Context, db *gorm.DB, token string) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("date asc, id asc") }).
		Where("share_token = ?", token).
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, filter domain.ListInvoiceFilter, page pagination.Pagination) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	stmt := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("clinic_id = ?", clinicID)
	if filter.ClientID != 0 {
		stmt = stmt.Where("client_id = ?", filter.ClientID)
	}
	if filter.PatientID != 0 {
		stmt = stmt.Where("patient_id = ?", filter.PatientID)
	}
	if filter.VisitID != 0 {
		stmt = stmt.Where("visit_id = ?", filter.VisitID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		stmt = stmt.Where("billing_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		stmt = stmt.Where("billing_date <= ?", *filter.DateTo)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) ReplaceItems(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	err := db.WithContext(ctx).
		Where("invoice_id = ?", invoice.ID).
		Delete(&domain.LineItem{}).Error
	if err != nil {
		return err
	}
	if len(invoice.Items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&invoice.Items).Error
}

func (r *repo) InsertPayment(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Create(payment).Error
}

func (r *repo) UpdateDerived(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("clinic_id = ? AND id = ?", invoice.ClinicID, invoice.ID).
		Updates(map[string]any{
			"billing_date":  invoice.BillingDate,
			"discount":      invoice.Discount,
			"discount_type": invoice.DiscountType,
			"subtotal":      invoice.Subtotal,
			"vat_rate":      invoice.VATRate,
			"vat_amount":    invoice.VATAmount,
			"total":         invoice.Total,
			"amount_paid":   invoice.AmountPaid,
			"balance":       invoice.Balance,
			"status":        invoice.Status,
			"updated_at":    time.Now().UTC(),
		}).Error
}

func (r *repo) LoadLines(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	err := db.WithContext(ctx).
		Where("invoice_id = ?", invoice.ID).
		Order("position asc").
		Find(&invoice.Items).Error
	if err != nil {
		return err
	}
	return db.WithContext(ctx).
		Where("invoice_id = ?", invoice.ID).
		Order("date asc, id asc").
		Find(&invoice.Payments).Error
}
