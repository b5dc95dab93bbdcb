package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	auditdomain "github.com/smallvet/clinica/internal/audit/domain"
	"github.com/smallvet/clinica/internal/audit/masking"
	"github.com/smallvet/clinica/internal/billing/calc"
	"github.com/smallvet/clinica/internal/billing/domain"
	"github.com/smallvet/clinica/internal/clinicctx"
	"github.com/smallvet/clinica/internal/clock"
	"github.com/smallvet/clinica/internal/config"
	"github.com/smallvet/clinica/internal/observability/metrics"
	"github.com/smallvet/clinica/pkg/db/pagination"
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
	Audit     auditdomain.Service
	ClinicCfg *config.ClinicConfigHolder
	Metrics   *metrics.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	audit     auditdomain.Service
	clinicCfg *config.ClinicConfigHolder
	metrics   *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("billing.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		audit:     p.Audit,
		clinicCfg: p.ClinicCfg,
		metrics:   p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Invoice{}, domain.ErrInvalidClinic
	}

	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil || clientID == 0 {
		return domain.Invoice{}, domain.ErrInvalidClient
	}

	if len(req.Items) == 0 {
		return domain.Invoice{}, domain.ErrNoItems
	}

	discountType, err := parseDiscountType(req.DiscountType)
	if err != nil {
		return domain.Invoice{}, err
	}

	now := s.clock.Now()
	billingDate := now
	if req.BillingDate != nil {
		billingDate = req.BillingDate.UTC()
	}

	invoice := domain.Invoice{
		ID:            s.genID.Generate(),
		ClinicID:      clinicID,
		ClientID:      clientID,
		ReceiptNumber: ulid.Make().String(),
		ShareToken:    uuid.NewString(),
		BillingDate:   billingDate,
		Discount:      req.Discount,
		DiscountType:  discountType,
		VATRate:       s.clinicCfg.Get().VATRate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if raw := strings.TrimSpace(req.PatientID); raw != "" {
		patientID, err := snowflake.ParseString(raw)
		if err != nil || patientID == 0 {
			return domain.Invoice{}, domain.ErrInvalidID
		}
		invoice.PatientID = &patientID
	}
	if raw := strings.TrimSpace(req.VisitID); raw != "" {
		visitID, err := snowflake.ParseString(raw)
		if err != nil || visitID == 0 {
			return domain.Invoice{}, domain.ErrInvalidID
		}
		invoice.VisitID = &visitID
	}

	items, err := s.buildItems(invoice, req.Items, now)
	if err != nil {
		return domain.Invoice{}, err
	}
	invoice.Items = items
	invoice.Payments = []domain.Payment{}

	calc.Recompute(&invoice)

	if err := s.repo.Insert(ctx, s.db, &invoice); err != nil {
		return domain.Invoice{}, err
	}

	source := "manual"
	if invoice.VisitID != nil {
		source = "visit"
	}
	s.metrics.RecordInvoiceCreated(ctx, source)

	targetID := invoice.ID.String()
	_ = s.audit.AuditLog(ctx, &clinicID, "", nil, "invoice.created", "invoice", &targetID, map[string]any{
		"client_id": invoice.ClientID.String(),
		"total":     invoice.Total,
		"items":     len(invoice.Items),
		"source":    source,
	})

	s.log.Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("client_id", invoice.ClientID.String()),
		zap.Int64("total", invoice.Total),
	)

	return invoice, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateInvoiceRequest) (domain.Invoice, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Invoice{}, domain.ErrInvalidClinic
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Invoice{}, err
	}

	if len(req.Items) == 0 {
		return domain.Invoice{}, domain.ErrNoItems
	}

	discountType, err := parseDiscountType(req.DiscountType)
	if err != nil {
		return domain.Invoice{}, err
	}

	var updated domain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByIDForUpdate(ctx, tx, clinicID, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}

		now := s.clock.Now()
		if req.BillingDate != nil {
			invoice.BillingDate = req.BillingDate.UTC()
		}
		invoice.Discount = req.Discount
		invoice.DiscountType = discountType
		invoice.UpdatedAt = now

		items, err := s.buildItems(*invoice, req.Items, now)
		if err != nil {
			return err
		}
		invoice.Items = items
		if err := s.repo.ReplaceItems(ctx, tx, invoice); err != nil {
			return err
		}

		// Reload payments so the recompute sees the true paid amount.
		var payments []domain.Payment
		err = tx.WithContext(ctx).
			Where("invoice_id = ?", invoice.ID).
			Order("date asc, id asc").
			Find(&payments).Error
		if err != nil {
			return err
		}
		invoice.Payments = payments

		calc.Recompute(invoice)

		if err := s.repo.UpdateDerived(ctx, tx, invoice); err != nil {
			return err
		}

		updated = *invoice
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	targetID := updated.ID.String()
	_ = s.audit.AuditLog(ctx, &clinicID, "", nil, "invoice.updated", "invoice", &targetID, map[string]any{
		"total":  updated.Total,
		"items":  len(updated.Items),
		"status": string(updated.Status),
	})

	return updated, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetInvoiceRequest) (domain.Invoice, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Invoice{}, domain.ErrInvalidClinic
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Invoice{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if item == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) GetByShareToken(ctx context.Context, req domain.GetInvoiceByShareTokenRequest) (domain.Invoice, error) {
	token := strings.TrimSpace(req.ShareToken)
	if token == "" {
		return domain.Invoice{}, domain.ErrInvalidShareToken
	}

	item, err := s.repo.FindByShareToken(ctx, s.db, token)
	if err != nil {
		return domain.Invoice{}, err
	}
	if item == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.ListInvoiceResponse{}, domain.ErrInvalidClinic
	}

	filter := domain.ListInvoiceFilter{
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
	}
	if raw := strings.TrimSpace(req.ClientID); raw != "" {
		clientID, err := snowflake.ParseString(raw)
		if err != nil || clientID == 0 {
			return domain.ListInvoiceResponse{}, domain.ErrInvalidClient
		}
		filter.ClientID = int64(clientID)
	}
	if raw := strings.TrimSpace(req.PatientID); raw != "" {
		patientID, err := snowflake.ParseString(raw)
		if err != nil || patientID == 0 {
			return domain.ListInvoiceResponse{}, domain.ErrInvalidID
		}
		filter.PatientID = int64(patientID)
	}
	if raw := strings.TrimSpace(req.VisitID); raw != "" {
		visitID, err := snowflake.ParseString(raw)
		if err != nil || visitID == 0 {
			return domain.ListInvoiceResponse{}, domain.ErrInvalidID
		}
		filter.VisitID = int64(visitID)
	}
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status := domain.InvoiceStatus(raw)
		switch status {
		case domain.InvoiceStatusPending, domain.InvoiceStatusPartial, domain.InvoiceStatusPaid:
			filter.Status = status
		default:
			return domain.ListInvoiceResponse{}, domain.ErrInvalidStatus
		}
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
		return domain.ListInvoiceResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(invoice *domain.Invoice) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        invoice.ID.String(),
			CreatedAt: invoice.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	invoices := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}

	resp := domain.ListInvoiceResponse{Invoices: invoices}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) AppendPayment(ctx context.Context, req domain.AppendPaymentRequest) (domain.Invoice, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Invoice{}, domain.ErrInvalidClinic
	}

	id, err := s.parseID(req.InvoiceID)
	if err != nil {
		return domain.Invoice{}, err
	}

	if req.Amount <= 0 {
		return domain.Invoice{}, domain.ErrInvalidAmount
	}
	if !s.methodAllowed(req.Method) {
		return domain.Invoice{}, domain.ErrInvalidMethod
	}

	now := s.clock.Now()
	date := now
	if req.Date != nil {
		date = req.Date.UTC()
	}

	var updated domain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByIDForUpdate(ctx, tx, clinicID, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}

		payment := domain.Payment{
			ID:        s.genID.Generate(),
			ClinicID:  clinicID,
			InvoiceID: invoice.ID,
			Date:      date,
			Amount:    req.Amount,
			Method:    req.Method,
			Reference: strings.TrimSpace(req.Reference),
			Notes:     strings.TrimSpace(req.Notes),
			CreatedAt: now,
		}
		if err := s.repo.InsertPayment(ctx, tx, &payment); err != nil {
			return err
		}

		if err := s.repo.LoadLines(ctx, tx, invoice); err != nil {
			return err
		}
		invoice.UpdatedAt = now
		calc.Recompute(invoice)

		if err := s.repo.UpdateDerived(ctx, tx, invoice); err != nil {
			return err
		}

		updated = *invoice
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	s.metrics.RecordPaymentRecorded(ctx, string(req.Method))

	targetID := updated.ID.String()
	_ = s.audit.AuditLog(ctx, &clinicID, "", nil, "invoice.payment_recorded", "invoice", &targetID, masking.MaskMetadata(map[string]any{
		"amount":    req.Amount,
		"method":    string(req.Method),
		"reference": req.Reference,
		"balance":   updated.Balance,
		"status":    string(updated.Status),
	}))

	s.log.Info("payment recorded",
		zap.String("invoice_id", updated.ID.String()),
		zap.Int64("amount", req.Amount),
		zap.String("method", string(req.Method)),
		zap.String("status", string(updated.Status)),
	)

	return updated, nil
}

func (s *Service) buildItems(invoice domain.Invoice, inputs []domain.LineItemInput, now time.Time) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0, len(inputs))
	for i, input := range inputs {
		description := strings.TrimSpace(input.Description)
		if description == "" {
			return nil, domain.ErrInvalidItem
		}
		quantity := input.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		discountType, err := parseDiscountType(input.DiscountType)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.LineItem{
			ID:           s.genID.Generate(),
			ClinicID:     invoice.ClinicID,
			InvoiceID:    invoice.ID,
			Position:     i,
			Description:  description,
			Quantity:     quantity,
			UnitPrice:    input.UnitPrice,
			Discount:     input.Discount,
			DiscountType: discountType,
			CreatedAt:    now,
		})
	}
	return items, nil
}

func (s *Service) methodAllowed(method domain.PaymentMethod) bool {
	if method == "" {
		return false
	}
	for _, allowed := range s.clinicCfg.Get().PaymentMethods {
		if string(method) == allowed {
			return true
		}
	}
	return false
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func parseDiscountType(value domain.DiscountType) (domain.DiscountType, error) {
	switch value {
	case "":
		return domain.DiscountAmount, nil
	case domain.DiscountAmount, domain.DiscountPercentage:
		return value, nil
	default:
		return "", domain.ErrInvalidDiscountType
	}
}
