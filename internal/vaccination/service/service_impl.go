package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallvet/clinica/internal/clinicctx"
	"github.com/smallvet/clinica/internal/clock"
	"github.com/smallvet/clinica/internal/config"
	"github.com/smallvet/clinica/internal/vaccination/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	ClinicCfg *config.ClinicConfigHolder
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	clinicCfg *config.ClinicConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("vaccination.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		clinicCfg: p.ClinicCfg,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateVaccinationRequest) (domain.Vaccination, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Vaccination{}, domain.ErrInvalidClinic
	}

	patientID, err := snowflake.ParseString(strings.TrimSpace(req.PatientID))
	if err != nil || patientID == 0 {
		return domain.Vaccination{}, domain.ErrInvalidPatient
	}

	vaccine := strings.TrimSpace(req.Vaccine)
	if vaccine == "" {
		return domain.Vaccination{}, domain.ErrInvalidVaccine
	}
	if req.ValidDays < 0 {
		return domain.Vaccination{}, domain.ErrInvalidValidDays
	}

	now := s.clock.Now()
	givenAt := now
	if req.GivenAt != nil {
		givenAt = req.GivenAt.UTC()
	}

	validDays := req.ValidDays
	if validDays == 0 {
		validDays = 365
	}

	vaccination := domain.Vaccination{
		ID:        s.genID.Generate(),
		ClinicID:  clinicID,
		PatientID: patientID,
		Vaccine:   vaccine,
		Batch:     strings.TrimSpace(req.Batch),
		GivenAt:   givenAt,
		ValidDays: validDays,
		Notes:     strings.TrimSpace(req.Notes),
		CreatedAt: now,
	}
	nextDue := givenAt.AddDate(0, 0, validDays)
	vaccination.NextDue = &nextDue

	if err := s.repo.Insert(ctx, s.db, &vaccination); err != nil {
		return domain.Vaccination{}, err
	}

	return vaccination, nil
}

func (s *Service) ListByPatient(ctx context.Context, req domain.ListByPatientRequest) ([]domain.Vaccination, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return nil, domain.ErrInvalidClinic
	}

	patientID, err := snowflake.ParseString(strings.TrimSpace(req.PatientID))
	if err != nil || patientID == 0 {
		return nil, domain.ErrInvalidPatient
	}

	return s.repo.ListByPatient(ctx, s.db, clinicID, patientID)
}

func (s *Service) ListDue(ctx context.Context, req domain.ListDueRequest) ([]domain.DueVaccination, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return nil, domain.ErrInvalidClinic
	}

	until := s.clock.Now().AddDate(0, 0, s.clinicCfg.Get().VaccinationReminderDays)
	if req.Until != nil {
		until = req.Until.UTC()
	}

	return s.repo.ListDue(ctx, s.db, clinicID, until)
}
