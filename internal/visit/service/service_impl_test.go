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

	"github.com/smallvet/clinica/internal/clinicctx"
	"github.com/smallvet/clinica/internal/clock"
	"github.com/smallvet/clinica/internal/visit/domain"
	"github.com/smallvet/clinica/internal/visit/repository"
)

func setup(t *testing.T) (*Service, *snowflake.Node, *clock.FakeClock, context.Context) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Visit{},
		&domain.VisitItem{},
		&domain.Prescription{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fakeClock := clock.NewFakeClock(time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fakeClock,
		Repo:  repository.Provide(),
	}).(*Service)

	clinicID := node.Generate()
	ctx := clinicctx.WithClinicID(context.Background(), int64(clinicID))
	return svc, node, fakeClock, ctx
}

func TestCreateVisit(t *testing.T) {
	svc, node, _, ctx := setup(t)

	visit, err := svc.Create(ctx, domain.CreateVisitRequest{
		ClientID:     node.Generate().String(),
		PatientID:    node.Generate().String(),
		Veterinarian: "Dr. Mizrahi",
		Complaint:    "limping on front left leg",
		Items: []domain.VisitItemInput{
			{Name: "Examination", Quantity: 1, UnitPrice: 25000},
			{Name: "X-Ray", UnitPrice: 40000},
		},
		Prescriptions: []domain.PrescriptionInput{
			{Medication: "Carprofen", Dosage: "25mg twice daily", Days: 7},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.VisitStatusOpen, visit.Status)
	require.Len(t, visit.Items, 2)
	// Quantity defaults to one when the caller leaves it out.
	assert.Equal(t, float64(1), visit.Items[1].Quantity)
	require.Len(t, visit.Prescriptions, 1)
	assert.Equal(t, 7, visit.Prescriptions[0].Days)

	_, err = svc.Create(ctx, domain.CreateVisitRequest{
		ClientID:  node.Generate().String(),
		PatientID: node.Generate().String(),
		Items:     []domain.VisitItemInput{{Name: "   "}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
}

func TestUpdateVisitReplacesLines(t *testing.T) {
	svc, node, _, ctx := setup(t)

	visit, err := svc.Create(ctx, domain.CreateVisitRequest{
		ClientID:  node.Generate().String(),
		PatientID: node.Generate().String(),
		Items:     []domain.VisitItemInput{{Name: "Examination", UnitPrice: 25000}},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, domain.UpdateVisitRequest{
		ID:        visit.ID.String(),
		Diagnosis: "mild sprain",
		Items: []domain.VisitItemInput{
			{Name: "Examination", UnitPrice: 25000},
			{Name: "Bandage", Quantity: 2, UnitPrice: 3000},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "mild sprain", updated.Diagnosis)
	require.Len(t, updated.Items, 2)

	fetched, err := svc.GetByID(ctx, domain.GetVisitRequest{ID: visit.ID.String()})
	require.NoError(t, err)
	assert.Len(t, fetched.Items, 2)
}

func TestCompleteVisit(t *testing.T) {
	svc, node, fakeClock, ctx := setup(t)

	visit, err := svc.Create(ctx, domain.CreateVisitRequest{
		ClientID:  node.Generate().String(),
		PatientID: node.Generate().String(),
	})
	require.NoError(t, err)

	fakeClock.Advance(time.Hour)
	completed, err := svc.Complete(ctx, domain.CompleteVisitRequest{ID: visit.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, domain.VisitStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, fakeClock.Now(), *completed.CompletedAt)

	// Completing twice is rejected so the visit cannot be reopened by accident.
	_, err = svc.Complete(ctx, domain.CompleteVisitRequest{ID: visit.ID.String()})
	assert.ErrorIs(t, err, domain.ErrAlreadyComplete)
}

func TestListVisitsFiltersByStatus(t *testing.T) {
	svc, node, _, ctx := setup(t)

	clientID := node.Generate().String()
	patientID := node.Generate().String()

	open, err := svc.Create(ctx, domain.CreateVisitRequest{ClientID: clientID, PatientID: patientID})
	require.NoError(t, err)
	done, err := svc.Create(ctx, domain.CreateVisitRequest{ClientID: clientID, PatientID: patientID})
	require.NoError(t, err)
	_, err = svc.Complete(ctx, domain.CompleteVisitRequest{ID: done.ID.String()})
	require.NoError(t, err)

	resp, err := svc.List(ctx, domain.ListVisitRequest{Status: string(domain.VisitStatusOpen)})
	require.NoError(t, err)
	require.Len(t, resp.Visits, 1)
	assert.Equal(t, open.ID, resp.Visits[0].ID)

	_, err = svc.List(ctx, domain.ListVisitRequest{Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}
