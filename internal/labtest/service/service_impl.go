package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallvet/clinica/internal/clinicctx"
	"github.com/smallvet/clinica/internal/clock"
	"github.com/smallvet/clinica/internal/labtest/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("labtest.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateLabTestRequest) (domain.LabTest, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.LabTest{}, domain.ErrInvalidClinic
	}

	patientID, err := snowflake.ParseString(strings.TrimSpace(req.PatientID))
	if err != nil || patientID == 0 {
		return domain.LabTest{}, domain.ErrInvalidPatient
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.LabTest{}, domain.ErrInvalidName
	}

	source := req.Source
	if source == "" {
		source = domain.SourceStandalone
	}
	switch source {
	case domain.SourceStandalone, domain.SourceVisit, domain.SourceAnalyzer:
	default:
		return domain.LabTest{}, domain.ErrInvalidSource
	}

	test := domain.LabTest{
		ID:        s.genID.Generate(),
		ClinicID:  clinicID,
		PatientID: patientID,
		Name:      name,
		Result:    strings.TrimSpace(req.Result),
		Units:     strings.TrimSpace(req.Units),
		Price:     req.Price,
		Source:    source,
		TakenAt:   s.clock.Now(),
		CreatedAt: s.clock.Now(),
	}
	if req.TakenAt != nil {
		test.TakenAt = req.TakenAt.UTC()
	}

	if raw := strings.TrimSpace(req.VisitID); raw != "" {
		visitID, err := snowflake.ParseString(raw)
		if err != nil || visitID == 0 {
			return domain.LabTest{}, domain.ErrInvalidVisit
		}
		test.VisitID = &visitID
		if req.Source == "" {
			test.Source = domain.SourceVisit
		}
	}

	if err := s.repo.Insert(ctx, s.db, &test); err != nil {
		return domain.LabTest{}, err
	}

	return test, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateLabTestRequest) (domain.LabTest, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.LabTest{}, domain.ErrInvalidClinic
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.LabTest{}, domain.ErrInvalidID
	}

	existing, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return domain.LabTest{}, err
	}
	if existing == nil {
		return domain.LabTest{}, domain.ErrNotFound
	}

	existing.Result = strings.TrimSpace(req.Result)
	existing.Units = strings.TrimSpace(req.Units)
	existing.Price = req.Price

	if err := s.repo.Update(ctx, s.db, existing); err != nil {
		return domain.LabTest{}, err
	}

	return *existing, nil
}

func (s *Service) ListByPatient(ctx context.Context, req domain.ListByPatientRequest) ([]domain.LabTest, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return nil, domain.ErrInvalidClinic
	}

	patientID, err := snowflake.ParseString(strings.TrimSpace(req.PatientID))
	if err != nil || patientID == 0 {
		return nil, domain.ErrInvalidPatient
	}

	tests, err := s.repo.ListByPatient(ctx, s.db, clinicID, patientID, req.From, req.To)
	if err != nil {
		return nil, err
	}

	return domain.Merge(tests), nil
}

func (s *Service) ListByVisit(ctx context.Context, req domain.ListByVisitRequest) ([]domain.LabTest, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return nil, domain.ErrInvalidClinic
	}

	visitID, err := snowflake.ParseString(strings.TrimSpace(req.VisitID))
	if err != nil || visitID == 0 {
		return nil, domain.ErrInvalidVisit
	}

	return s.repo.ListByVisit(ctx, s.db, clinicID, visitID)
}
