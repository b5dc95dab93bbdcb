package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallvet/clinica/internal/clinicctx"
	"github.com/smallvet/clinica/internal/patient/domain"
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
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("patient.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePatientRequest) (domain.Patient, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Patient{}, domain.ErrInvalidClinic
	}

	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil || clientID == 0 {
		return domain.Patient{}, domain.ErrInvalidClient
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Patient{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	patient := domain.Patient{
		ID:          s.genID.Generate(),
		ClinicID:    clinicID,
		ClientID:    clientID,
		Name:        name,
		Species:     strings.TrimSpace(req.Species),
		Breed:       strings.TrimSpace(req.Breed),
		Sex:         strings.TrimSpace(req.Sex),
		Color:       strings.TrimSpace(req.Color),
		DateOfBirth: req.DateOfBirth,
		WeightKG:    req.WeightKG,
		Microchip:   strings.TrimSpace(req.Microchip),
		Notes:       strings.TrimSpace(req.Notes),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &patient); err != nil {
		return domain.Patient{}, err
	}

	return patient, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdatePatientRequest) (domain.Patient, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Patient{}, domain.ErrInvalidClinic
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Patient{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Patient{}, domain.ErrInvalidName
	}

	existing, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return domain.Patient{}, err
	}
	if existing == nil {
		return domain.Patient{}, domain.ErrNotFound
	}

	existing.Name = name
	existing.Species = strings.TrimSpace(req.Species)
	existing.Breed = strings.TrimSpace(req.Breed)
	existing.Sex = strings.TrimSpace(req.Sex)
	existing.Color = strings.TrimSpace(req.Color)
	existing.DateOfBirth = req.DateOfBirth
	existing.WeightKG = req.WeightKG
	existing.Microchip = strings.TrimSpace(req.Microchip)
	existing.Notes = strings.TrimSpace(req.Notes)
	if req.Active != nil {
		existing.Active = *req.Active
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, existing); err != nil {
		return domain.Patient{}, err
	}

	return *existing, nil
}

func (s *Service) List(ctx context.Context, req domain.ListPatientRequest) (domain.ListPatientResponse, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.ListPatientResponse{}, domain.ErrInvalidClinic
	}

	filter := domain.ListPatientFilter{
		Search:  strings.TrimSpace(req.Search),
		Species: strings.TrimSpace(req.Species),
		Active:  req.Active,
	}
	if raw := strings.TrimSpace(req.ClientID); raw != "" {
		clientID, err := snowflake.ParseString(raw)
		if err != nil || clientID == 0 {
			return domain.ListPatientResponse{}, domain.ErrInvalidClient
		}
		filter.ClientID = int64(clientID)
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
		return domain.ListPatientResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(patient *domain.Patient) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        patient.ID.String(),
			CreatedAt: patient.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	patients := make([]domain.Patient, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		patients = append(patients, *item)
	}

	resp := domain.ListPatientResponse{Patients: patients}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetPatientRequest) (domain.Patient, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Patient{}, domain.ErrInvalidClinic
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Patient{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return domain.Patient{}, err
	}
	if item == nil {
		return domain.Patient{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
