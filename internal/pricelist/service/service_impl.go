package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallvet/clinica/internal/clinicctx"
	"github.com/smallvet/clinica/internal/pricelist/domain"
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
		log:   p.Log.Named("pricelist.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePriceListItemRequest) (domain.PriceListItem, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.PriceListItem{}, domain.ErrInvalidClinic
	}

	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil || clientID == 0 {
		return domain.PriceListItem{}, domain.ErrInvalidClient
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.PriceListItem{}, domain.ErrInvalidName
	}
	if req.ClientPrice < 0 {
		return domain.PriceListItem{}, domain.ErrInvalidPrice
	}

	quantity := req.DefaultQuantity
	if quantity <= 0 {
		quantity = 1
	}

	now := time.Now().UTC()
	item := domain.PriceListItem{
		ID:              s.genID.Generate(),
		ClinicID:        clinicID,
		ClientID:        clientID,
		Name:            name,
		ClientPrice:     req.ClientPrice,
		DefaultQuantity: quantity,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, s.db, &item); err != nil {
		return domain.PriceListItem{}, err
	}

	return item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdatePriceListItemRequest) (domain.PriceListItem, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.PriceListItem{}, domain.ErrInvalidClinic
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.PriceListItem{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.PriceListItem{}, domain.ErrInvalidName
	}
	if req.ClientPrice < 0 {
		return domain.PriceListItem{}, domain.ErrInvalidPrice
	}

	existing, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return domain.PriceListItem{}, err
	}
	if existing == nil {
		return domain.PriceListItem{}, domain.ErrNotFound
	}

	existing.Name = name
	existing.ClientPrice = req.ClientPrice
	if req.DefaultQuantity > 0 {
		existing.DefaultQuantity = req.DefaultQuantity
	}
	if req.Active != nil {
		existing.Active = *req.Active
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, existing); err != nil {
		return domain.PriceListItem{}, err
	}

	return *existing, nil
}

func (s *Service) ListByClient(ctx context.Context, req domain.ListPriceListRequest) ([]domain.PriceListItem, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return nil, domain.ErrInvalidClinic
	}

	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil || clientID == 0 {
		return nil, domain.ErrInvalidClient
	}

	return s.repo.ListByClient(ctx, s.db, clinicID, clientID, req.ActiveOnly)
}

func (s *Service) Delete(ctx context.Context, req domain.DeletePriceListItemRequest) error {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.ErrInvalidClinic
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return err
	}

	existing, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, clinicID, id)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
