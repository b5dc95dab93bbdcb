package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditdomain "github.com/smallvet/clinica/internal/audit/domain"
	auditrepository "github.com/smallvet/clinica/internal/audit/repository"
	auditservice "github.com/smallvet/clinica/internal/audit/service"
	"github.com/smallvet/clinica/internal/billing/domain"
	"github.com/smallvet/clinica/internal/billing/repository"
	"github.com/smallvet/clinica/internal/clinicctx"
	"github.com/smallvet/clinica/internal/clock"
	"github.com/smallvet/clinica/internal/config"
	clientdomain "github.com/smallvet/clinica/internal/client/domain"
	labtestdomain "github.com/smallvet/clinica/internal/labtest/domain"
	patientdomain "github.com/smallvet/clinica/internal/patient/domain"
	pricelistdomain "github.com/smallvet/clinica/internal/pricelist/domain"
	visitdomain "github.com/smallvet/clinica/internal/visit/domain"
)

type fixture struct {
	svc      *Service
	db       *gorm.DB
	node     *snowflake.Node
	clock    *clock.FakeClock
	clinicID snowflake.ID
	ctx      context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.Invoice{},
		&domain.LineItem{},
		&domain.Payment{},
		&auditdomain.AuditLog{},
		&clientdomain.Client{},
		&patientdomain.Patient{},
		&visitdomain.Visit{},
		&visitdomain.VisitItem{},
		&visitdomain.Prescription{},
		&labtestdomain.LabTest{},
		&pricelistdomain.PriceListItem{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fakeClock := clock.NewFakeClock(time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC))
	logger := zap.NewNop()

	auditSvc := auditservice.NewService(auditservice.Params{
		DB:    db,
		Log:   logger,
		GenID: node,
		Repo:  auditrepository.Provide(),
	})

	svc := New(Params{
		DB:        db,
		Log:       logger,
		GenID:     node,
		Clock:     fakeClock,
		Repo:      repository.Provide(),
		Audit:     auditSvc,
		ClinicCfg: config.StaticClinicConfigHolder(config.DefaultClinicConfig()),
	}).(*Service)

	clinicID := node.Generate()
	return &fixture{
		svc:      svc,
		db:       db,
		node:     node,
		clock:    fakeClock,
		clinicID: clinicID,
		ctx:      clinicctx.WithClinicID(context.Background(), int64(clinicID)),
	}
}

func (f *fixture) createInvoice(t *testing.T, items []domain.LineItemInput, discount float64, discountType domain.DiscountType) domain.Invoice {
	t.Helper()
	invoice, err := f.svc.Create(f.ctx, domain.CreateInvoiceRequest{
		ClientID:     f.node.Generate().String(),
		Items:        items,
		Discount:     discount,
		DiscountType: discountType,
	})
	require.NoError(t, err)
	return invoice
}

func TestCreateInvoiceComputesTotals(t *testing.T) {
	f := newFixture(t)

	invoice := f.createInvoice(t, []domain.LineItemInput{
		{Description: "Consultation", Quantity: 3, UnitPrice: 10000, Discount: 10, DiscountType: domain.DiscountPercentage},
		{Description: "Rabies vaccine", Quantity: 1, UnitPrice: 13000},
	}, 5000, domain.DiscountAmount)

	assert.Equal(t, int64(40000), invoice.Subtotal)
	assert.Equal(t, int64(35000), invoice.Total)
	assert.Equal(t, int64(5339), invoice.VATAmount)
	assert.Equal(t, float64(18), invoice.VATRate)
	assert.Equal(t, int64(35000), invoice.Balance)
	assert.Equal(t, domain.InvoiceStatusPending, invoice.Status)
	assert.NotEmpty(t, invoice.ReceiptNumber)
	assert.NotEmpty(t, invoice.ShareToken)

	// Persisted derived columns must match the response.
	stored, err := f.svc.GetByID(f.ctx, domain.GetInvoiceRequest{ID: invoice.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, invoice.Total, stored.Total)
	assert.Len(t, stored.Items, 2)
	assert.Equal(t, "Consultation", stored.Items[0].Description)

	var auditCount int64
	require.NoError(t, f.db.Model(&auditdomain.AuditLog{}).Where("action = ?", "invoice.created").Count(&auditCount).Error)
	assert.Equal(t, int64(1), auditCount)
}

func TestCreateInvoiceRejectsEmptyItems(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx, domain.CreateInvoiceRequest{
		ClientID: f.node.Generate().String(),
	})
	assert.ErrorIs(t, err, domain.ErrNoItems)
}

func TestCreateInvoiceRejectsBlankDescription(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx, domain.CreateInvoiceRequest{
		ClientID: f.node.Generate().String(),
		Items:    []domain.LineItemInput{{Description: "   ", Quantity: 1, UnitPrice: 100}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
}

func TestCreateInvoiceRequiresClinicContext(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), domain.CreateInvoiceRequest{
		ClientID: f.node.Generate().String(),
		Items:    []domain.LineItemInput{{Description: "Consultation", Quantity: 1, UnitPrice: 100}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidClinic)
}

func TestAppendPaymentLifecycle(t *testing.T) {
	f := newFixture(t)

	invoice := f.createInvoice(t, []domain.LineItemInput{
		{Description: "Surgery", Quantity: 1, UnitPrice: 35000},
	}, 0, "")

	partial, err := f.svc.AppendPayment(f.ctx, domain.AppendPaymentRequest{
		InvoiceID: invoice.ID.String(),
		Amount:    20000,
		Method:    domain.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20000), partial.AmountPaid)
	assert.Equal(t, int64(15000), partial.Balance)
	assert.Equal(t, domain.InvoiceStatusPartial, partial.Status)

	paid, err := f.svc.AppendPayment(f.ctx, domain.AppendPaymentRequest{
		InvoiceID: invoice.ID.String(),
		Amount:    15000,
		Method:    domain.PaymentMethodCredit,
		Reference: "4111111111111111",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), paid.Balance)
	assert.Equal(t, domain.InvoiceStatusPaid, paid.Status)
	require.Len(t, paid.Payments, 2)
	assert.Equal(t, domain.PaymentMethodCash, paid.Payments[0].Method)
}

func TestAppendPaymentOverpayment(t *testing.T) {
	f := newFixture(t)

	invoice := f.createInvoice(t, []domain.LineItemInput{
		{Description: "Checkup", Quantity: 1, UnitPrice: 10000},
	}, 0, "")

	updated, err := f.svc.AppendPayment(f.ctx, domain.AppendPaymentRequest{
		InvoiceID: invoice.ID.String(),
		Amount:    12000,
		Method:    domain.PaymentMethodBit,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-2000), updated.Balance)
	assert.Equal(t, domain.InvoiceStatusPaid, updated.Status)
}

func TestAppendPaymentRejectsBadInput(t *testing.T) {
	f := newFixture(t)

	invoice := f.createInvoice(t, []domain.LineItemInput{
		{Description: "Checkup", Quantity: 1, UnitPrice: 10000},
	}, 0, "")

	_, err := f.svc.AppendPayment(f.ctx, domain.AppendPaymentRequest{
		InvoiceID: invoice.ID.String(),
		Amount:    0,
		Method:    domain.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.svc.AppendPayment(f.ctx, domain.AppendPaymentRequest{
		InvoiceID: invoice.ID.String(),
		Amount:    100,
		Method:    domain.PaymentMethod("barter"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMethod)

	_, err = f.svc.AppendPayment(f.ctx, domain.AppendPaymentRequest{
		InvoiceID: f.node.Generate().String(),
		Amount:    100,
		Method:    domain.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateInvoiceKeepsPayments(t *testing.T) {
	f := newFixture(t)

	invoice := f.createInvoice(t, []domain.LineItemInput{
		{Description: "Consultation", Quantity: 1, UnitPrice: 20000},
	}, 0, "")

	_, err := f.svc.AppendPayment(f.ctx, domain.AppendPaymentRequest{
		InvoiceID: invoice.ID.String(),
		Amount:    5000,
		Method:    domain.PaymentMethodCash,
	})
	require.NoError(t, err)

	updated, err := f.svc.Update(f.ctx, domain.UpdateInvoiceRequest{
		ID: invoice.ID.String(),
		Items: []domain.LineItemInput{
			{Description: "Consultation", Quantity: 1, UnitPrice: 20000},
			{Description: "Deworming", Quantity: 2, UnitPrice: 4000},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(28000), updated.Total)
	assert.Equal(t, int64(5000), updated.AmountPaid)
	assert.Equal(t, int64(23000), updated.Balance)
	assert.Equal(t, domain.InvoiceStatusPartial, updated.Status)
	assert.Len(t, updated.Items, 2)
}

func TestListFilters(t *testing.T) {
	f := newFixture(t)

	first := f.createInvoice(t, []domain.LineItemInput{
		{Description: "Checkup", Quantity: 1, UnitPrice: 10000},
	}, 0, "")
	f.clock.Advance(time.Minute)
	second := f.createInvoice(t, []domain.LineItemInput{
		{Description: "Surgery", Quantity: 1, UnitPrice: 90000},
	}, 0, "")

	_, err := f.svc.AppendPayment(f.ctx, domain.AppendPaymentRequest{
		InvoiceID: second.ID.String(),
		Amount:    90000,
		Method:    domain.PaymentMethodBankTransfer,
	})
	require.NoError(t, err)

	resp, err := f.svc.List(f.ctx, domain.ListInvoiceRequest{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, resp.Invoices, 1)
	assert.Equal(t, first.ID, resp.Invoices[0].ID)

	resp, err = f.svc.List(f.ctx, domain.ListInvoiceRequest{Status: "paid"})
	require.NoError(t, err)
	require.Len(t, resp.Invoices, 1)
	assert.Equal(t, second.ID, resp.Invoices[0].ID)

	_, err = f.svc.List(f.ctx, domain.ListInvoiceRequest{Status: "void"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestGetByShareToken(t *testing.T) {
	f := newFixture(t)

	invoice := f.createInvoice(t, []domain.LineItemInput{
		{Description: "Checkup", Quantity: 1, UnitPrice: 10000},
	}, 0, "")

	found, err := f.svc.GetByShareToken(context.Background(), domain.GetInvoiceByShareTokenRequest{
		ShareToken: invoice.ShareToken,
	})
	require.NoError(t, err)
	assert.Equal(t, invoice.ID, found.ID)
	assert.Len(t, found.Items, 1)

	_, err = f.svc.GetByShareToken(context.Background(), domain.GetInvoiceByShareTokenRequest{
		ShareToken: "unknown-token",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
