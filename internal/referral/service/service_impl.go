package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallvet/clinica/internal/clinicctx"
	"github.com/smallvet/clinica/internal/clock"
	"github.com/smallvet/clinica/internal/referral/domain"
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
		log:   p.Log.Named("referral.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateReferralRequest) (domain.Referral, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Referral{}, domain.ErrInvalidClinic
	}

	sender := strings.TrimSpace(req.Sender)
	if sender == "" {
		return domain.Referral{}, domain.ErrInvalidSender
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return domain.Referral{}, domain.ErrInvalidSubject
	}

	referral := domain.Referral{
		ID:        s.genID.Generate(),
		ClinicID:  clinicID,
		Sender:    sender,
		Subject:   subject,
		Body:      strings.TrimSpace(req.Body),
		CreatedAt: s.clock.Now(),
	}

	if raw := strings.TrimSpace(req.PatientID); raw != "" {
		patientID, err := snowflake.ParseString(raw)
		if err != nil || patientID == 0 {
			return domain.Referral{}, domain.ErrInvalidID
		}
		referral.PatientID = &patientID
	}

	if err := s.repo.Insert(ctx, s.db, &referral); err != nil {
		return domain.Referral{}, err
	}

	return referral, nil
}

func (s *Service) Inbox(ctx context.Context, req domain.InboxRequest) ([]domain.Referral, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return nil, domain.ErrInvalidClinic
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}

	return s.repo.Inbox(ctx, s.db, clinicID, req.UnreadOnly, limit)
}

func (s *Service) MarkRead(ctx context.Context, req domain.MarkReadRequest) (domain.Referral, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Referral{}, domain.ErrInvalidClinic
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Referral{}, domain.ErrInvalidID
	}

	existing, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return domain.Referral{}, err
	}
	if existing == nil {
		return domain.Referral{}, domain.ErrNotFound
	}

	// Marking twice is harmless; the first read timestamp wins.
	if existing.ReadAt == nil {
		now := s.clock.Now()
		existing.ReadAt = &now
		if err := s.repo.MarkRead(ctx, s.db, existing); err != nil {
			return domain.Referral{}, err
		}
	}

	return *existing, nil
}

func (s *Service) UnreadCount(ctx context.Context) (int64, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return 0, domain.ErrInvalidClinic
	}

	return s.repo.UnreadCount(ctx, s.db, clinicID)
}
