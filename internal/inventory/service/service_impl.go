package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallvet/clinica/internal/clinicctx"
	"github.com/smallvet/clinica/internal/clock"
	"github.com/smallvet/clinica/internal/inventory/domain"
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
		log:   p.Log.Named("inventory.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateProductRequest) (domain.Product, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Product{}, domain.ErrInvalidClinic
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Product{}, domain.ErrInvalidName
	}

	now := s.clock.Now()
	product := domain.Product{
		ID:           s.genID.Generate(),
		ClinicID:     clinicID,
		Name:         name,
		SKU:          slug.Make(name),
		Unit:         strings.TrimSpace(req.Unit),
		Supplier:     strings.TrimSpace(req.Supplier),
		StockQty:     req.StockQty,
		ReorderLevel: req.ReorderLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &product); err != nil {
			return err
		}
		if product.StockQty > 0 {
			return s.repo.InsertMovement(ctx, tx, &domain.StockMovement{
				ID:        s.genID.Generate(),
				ClinicID:  clinicID,
				ProductID: product.ID,
				Kind:      domain.MovementIn,
				Quantity:  product.StockQty,
				Reason:    "initial stock",
				CreatedAt: now,
			})
		}
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}

	return product, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateProductRequest) (domain.Product, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Product{}, domain.ErrInvalidClinic
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Product{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Product{}, domain.ErrInvalidName
	}

	existing, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return domain.Product{}, err
	}
	if existing == nil {
		return domain.Product{}, domain.ErrNotFound
	}

	if existing.Name != name {
		existing.SKU = slug.Make(name)
	}
	existing.Name = name
	existing.Unit = strings.TrimSpace(req.Unit)
	existing.Supplier = strings.TrimSpace(req.Supplier)
	existing.ReorderLevel = req.ReorderLevel
	existing.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, existing); err != nil {
		return domain.Product{}, err
	}

	return *existing, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetProductRequest) (domain.Product, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Product{}, domain.ErrInvalidClinic
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Product{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return domain.Product{}, err
	}
	if item == nil {
		return domain.Product{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListProductRequest) ([]domain.Product, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return nil, domain.ErrInvalidClinic
	}

	return s.repo.List(ctx, s.db, clinicID, strings.TrimSpace(req.Search))
}

func (s *Service) ListBelowReorder(ctx context.Context) ([]domain.Product, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return nil, domain.ErrInvalidClinic
	}

	return s.repo.ListBelowReorder(ctx, s.db, clinicID)
}

// RecordMovement applies a stock change inside a transaction holding the
// product row. "out" movements may not take stock below zero.
func (s *Service) RecordMovement(ctx context.Context, req domain.RecordMovementRequest) (domain.Product, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Product{}, domain.ErrInvalidClinic
	}

	id, err := s.parseID(req.ProductID)
	if err != nil {
		return domain.Product{}, err
	}

	switch req.Kind {
	case domain.MovementIn, domain.MovementOut, domain.MovementAdjust:
	default:
		return domain.Product{}, domain.ErrInvalidKind
	}
	if req.Quantity < 0 || (req.Kind != domain.MovementAdjust && req.Quantity == 0) {
		return domain.Product{}, domain.ErrInvalidQuantity
	}

	var updated domain.Product
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.repo.FindByIDForUpdate(ctx, tx, clinicID, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		switch req.Kind {
		case domain.MovementIn:
			product.StockQty += req.Quantity
		case domain.MovementOut:
			if product.StockQty < req.Quantity {
				return domain.ErrInsufficient
			}
			product.StockQty -= req.Quantity
		case domain.MovementAdjust:
			product.StockQty = req.Quantity
		}

		now := s.clock.Now()
		product.UpdatedAt = now
		if err := s.repo.Update(ctx, tx, product); err != nil {
			return err
		}

		movement := domain.StockMovement{
			ID:        s.genID.Generate(),
			ClinicID:  clinicID,
			ProductID: product.ID,
			Kind:      req.Kind,
			Quantity:  req.Quantity,
			Reason:    strings.TrimSpace(req.Reason),
			CreatedAt: now,
		}
		if err := s.repo.InsertMovement(ctx, tx, &movement); err != nil {
			return err
		}

		updated = *product
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}

	return updated, nil
}

func (s *Service) ListMovements(ctx context.Context, req domain.GetProductRequest) ([]domain.StockMovement, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return nil, domain.ErrInvalidClinic
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return nil, err
	}

	return s.repo.ListMovements(ctx, s.db, clinicID, id)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
