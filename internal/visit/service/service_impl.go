package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallvet/clinica/internal/clinicctx"
	"github.com/smallvet/clinica/internal/clock"
	"github.com/smallvet/clinica/internal/visit/domain"
	"github.com/smallvet/clinica/pkg/db/pagination"
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
		log:   p.Log.Named("visit.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateVisitRequest) (domain.Visit, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Visit{}, domain.ErrInvalidClinic
	}

	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil || clientID == 0 {
		return domain.Visit{}, domain.ErrInvalidClient
	}
	patientID, err := snowflake.ParseString(strings.TrimSpace(req.PatientID))
	if err != nil || patientID == 0 {
		return domain.Visit{}, domain.ErrInvalidPatient
	}

	now := s.clock.Now()
	visit := domain.Visit{
		ID:           s.genID.Generate(),
		ClinicID:     clinicID,
		ClientID:     clientID,
		PatientID:    patientID,
		Veterinarian: strings.TrimSpace(req.Veterinarian),
		Status:       domain.VisitStatusOpen,
		Complaint:    strings.TrimSpace(req.Complaint),
		Diagnosis:    strings.TrimSpace(req.Diagnosis),
		Treatment:    strings.TrimSpace(req.Treatment),
		Notes:        strings.TrimSpace(req.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	items, err := s.buildItems(visit, req.Items, now)
	if err != nil {
		return domain.Visit{}, err
	}
	visit.Items = items
	visit.Prescriptions = s.buildPrescriptions(visit, req.Prescriptions, now)

	if err := s.repo.Insert(ctx, s.db, &visit); err != nil {
		return domain.Visit{}, err
	}

	return visit, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateVisitRequest) (domain.Visit, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Visit{}, domain.ErrInvalidClinic
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Visit{}, err
	}

	existing, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return domain.Visit{}, err
	}
	if existing == nil {
		return domain.Visit{}, domain.ErrNotFound
	}

	now := s.clock.Now()
	existing.Veterinarian = strings.TrimSpace(req.Veterinarian)
	existing.Complaint = strings.TrimSpace(req.Complaint)
	existing.Diagnosis = strings.TrimSpace(req.Diagnosis)
	existing.Treatment = strings.TrimSpace(req.Treatment)
	existing.Notes = strings.TrimSpace(req.Notes)
	existing.UpdatedAt = now

	items, err := s.buildItems(*existing, req.Items, now)
	if err != nil {
		return domain.Visit{}, err
	}
	existing.Items = items
	existing.Prescriptions = s.buildPrescriptions(*existing, req.Prescriptions, now)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, existing); err != nil {
			return err
		}
		return s.repo.ReplaceLines(ctx, tx, existing)
	})
	if err != nil {
		return domain.Visit{}, err
	}

	return *existing, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetVisitRequest) (domain.Visit, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Visit{}, domain.ErrInvalidClinic
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Visit{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return domain.Visit{}, err
	}
	if item == nil {
		return domain.Visit{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListVisitRequest) (domain.ListVisitResponse, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.ListVisitResponse{}, domain.ErrInvalidClinic
	}

	filter := domain.ListVisitFilter{}
	if raw := strings.TrimSpace(req.ClientID); raw != "" {
		clientID, err := snowflake.ParseString(raw)
		if err != nil || clientID == 0 {
			return domain.ListVisitResponse{}, domain.ErrInvalidClient
		}
		filter.ClientID = int64(clientID)
	}
	if raw := strings.TrimSpace(req.PatientID); raw != "" {
		patientID, err := snowflake.ParseString(raw)
		if err != nil || patientID == 0 {
			return domain.ListVisitResponse{}, domain.ErrInvalidPatient
		}
		filter.PatientID = int64(patientID)
	}
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status := domain.VisitStatus(raw)
		if status != domain.VisitStatusOpen && status != domain.VisitStatusCompleted {
			return domain.ListVisitResponse{}, domain.ErrInvalidStatus
		}
		filter.Status = status
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, clinicID, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListVisitResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(visit *domain.Visit) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        visit.ID.String(),
			CreatedAt: visit.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	visits := make([]domain.Visit, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		visits = append(visits, *item)
	}

	resp := domain.ListVisitResponse{Visits: visits}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) Complete(ctx context.Context, req domain.CompleteVisitRequest) (domain.Visit, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Visit{}, domain.ErrInvalidClinic
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Visit{}, err
	}

	existing, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return domain.Visit{}, err
	}
	if existing == nil {
		return domain.Visit{}, domain.ErrNotFound
	}
	if existing.Status == domain.VisitStatusCompleted {
		return domain.Visit{}, domain.ErrAlreadyComplete
	}

	now := s.clock.Now()
	existing.Status = domain.VisitStatusCompleted
	existing.CompletedAt = &now
	existing.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, existing); err != nil {
		return domain.Visit{}, err
	}

	return *existing, nil
}

func (s *Service) buildItems(visit domain.Visit, inputs []domain.VisitItemInput, now time.Time) ([]domain.VisitItem, error) {
	items := make([]domain.VisitItem, 0, len(inputs))
	for _, input := range inputs {
		name := strings.TrimSpace(input.Name)
		if name == "" {
			return nil, domain.ErrInvalidItem
		}
		quantity := input.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		items = append(items, domain.VisitItem{
			ID:        s.genID.Generate(),
			ClinicID:  visit.ClinicID,
			VisitID:   visit.ID,
			Name:      name,
			Quantity:  quantity,
			UnitPrice: input.UnitPrice,
			CreatedAt: now,
		})
	}
	return items, nil
}

func (s *Service) buildPrescriptions(visit domain.Visit, inputs []domain.PrescriptionInput, now time.Time) []domain.Prescription {
	prescriptions := make([]domain.Prescription, 0, len(inputs))
	for _, input := range inputs {
		medication := strings.TrimSpace(input.Medication)
		if medication == "" {
			continue
		}
		quantity := input.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		prescriptions = append(prescriptions, domain.Prescription{
			ID:         s.genID.Generate(),
			ClinicID:   visit.ClinicID,
			VisitID:    visit.ID,
			Medication: medication,
			Dosage:     strings.TrimSpace(input.Dosage),
			Days:       input.Days,
			Quantity:   quantity,
			Notes:      strings.TrimSpace(input.Notes),
			CreatedAt:  now,
		})
	}
	return prescriptions
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
