package migration

import (
	auditdomain "github.com/smallvet/clinica/internal/audit/domain"
	billingdomain "github.com/smallvet/clinica/internal/billing/domain"
	clientdomain "github.com/smallvet/clinica/internal/client/domain"
	clinicdomain "github.com/smallvet/clinica/internal/clinic/domain"
	"github.com/smallvet/clinica/internal/config"
	inventorydomain "github.com/smallvet/clinica/internal/inventory/domain"
	labtestdomain "github.com/smallvet/clinica/internal/labtest/domain"
	patientdomain "github.com/smallvet/clinica/internal/patient/domain"
	pricelistdomain "github.com/smallvet/clinica/internal/pricelist/domain"
	referraldomain "github.com/smallvet/clinica/internal/referral/domain"
	"github.com/smallvet/clinica/internal/seed"
	vaccinationdomain "github.com/smallvet/clinica/internal/vaccination/domain"
	visitdomain "github.com/smallvet/clinica/internal/visit/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// The versioned migrations target Postgres; other dialects are
			// for local development and get the GORM schema directly.
			if err := autoMigrate(conn); err != nil {
				return err
			}
		}

		if cfg.DefaultClinicID != 0 {
			return seed.EnsureMainClinicWithID(conn, cfg.DefaultClinicID)
		}
		return seed.EnsureMainClinic(conn)
	}),
)

func autoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&clinicdomain.Clinic{},
		&clientdomain.Client{},
		&patientdomain.Patient{},
		&visitdomain.Visit{},
		&visitdomain.VisitItem{},
		&visitdomain.Prescription{},
		&pricelistdomain.PriceListItem{},
		&labtestdomain.LabTest{},
		&vaccinationdomain.Vaccination{},
		&inventorydomain.Product{},
		&inventorydomain.StockMovement{},
		&referraldomain.Referral{},
		&billingdomain.Invoice{},
		&billingdomain.LineItem{},
		&billingdomain.Payment{},
		&auditdomain.AuditLog{},
	)
}
