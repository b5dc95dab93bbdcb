package service

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallvet/clinica/internal/billing/domain"
	clientdomain "github.com/smallvet/clinica/internal/client/domain"
	labtestdomain "github.com/smallvet/clinica/internal/labtest/domain"
	patientdomain "github.com/smallvet/clinica/internal/patient/domain"
	pricelistdomain "github.com/smallvet/clinica/internal/pricelist/domain"
	visitdomain "github.com/smallvet/clinica/internal/visit/domain"
)

func TestBuildCandidates(t *testing.T) {
	prices := map[string]priceEntry{
		"deworming":  {Name: "Deworming", ClientPrice: 4500, DefaultQuantity: 1},
		"antibiotic": {Name: "Antibiotic", ClientPrice: 3000, DefaultQuantity: 2},
	}

	candidates := buildCandidates(
		[]visitItemRow{
			{Name: "Consultation", Quantity: 1, UnitPrice: 20000},
			{Name: "Deworming", Quantity: 2, UnitPrice: 0},
			{Name: "Bandage", Quantity: 1, UnitPrice: 0},
		},
		[]visitLabRow{
			{Name: "CBC", Price: 8000},
			{Name: "Smear", Price: 0},
		},
		[]prescriptionRow{
			{Medication: "ANTIBIOTIC", Quantity: 0},
			{Medication: "Painkiller", Quantity: 1},
		},
		prices,
	)

	require.Len(t, candidates, 5)

	assert.Equal(t, "visit", candidates[0].Source)
	assert.Equal(t, int64(20000), candidates[0].UnitPrice)

	assert.Equal(t, "pricelist", candidates[1].Source)
	assert.Equal(t, int64(4500), candidates[1].UnitPrice)
	assert.Equal(t, float64(2), candidates[1].Quantity)

	// Unpriced with no price list match stays at zero so staff see it.
	assert.Equal(t, "visit", candidates[2].Source)
	assert.Equal(t, int64(0), candidates[2].UnitPrice)

	assert.Equal(t, "labtest", candidates[3].Source)
	assert.Equal(t, int64(8000), candidates[3].UnitPrice)

	// Prescription matches case-insensitively and falls back to the price
	// list default quantity.
	assert.Equal(t, "prescription", candidates[4].Source)
	assert.Equal(t, "Antibiotic", candidates[4].Description)
	assert.Equal(t, float64(2), candidates[4].Quantity)

	assert.Equal(t, int64(20000+9000+0+8000+6000), estimateTotal(candidates))
}

func TestListUnbilled(t *testing.T) {
	f := newFixture(t)

	now := f.clock.Now()
	client := clientdomain.Client{ID: f.node.Generate(), ClinicID: f.clinicID, Name: "Dana Levi", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.db.Create(&client).Error)
	patient := patientdomain.Patient{ID: f.node.Generate(), ClinicID: f.clinicID, ClientID: client.ID, Name: "Rex", Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.db.Create(&patient).Error)

	require.NoError(t, f.db.Create(&pricelistdomain.PriceListItem{
		ID: f.node.Generate(), ClinicID: f.clinicID, ClientID: client.ID,
		Name: "Deworming", ClientPrice: 4500, DefaultQuantity: 1, Active: true,
		CreatedAt: now, UpdatedAt: now,
	}).Error)

	makeVisit := func(completed bool, offset time.Duration) visitdomain.Visit {
		visit := visitdomain.Visit{
			ID:        f.node.Generate(),
			ClinicID:  f.clinicID,
			ClientID:  client.ID,
			PatientID: patient.ID,
			Status:    visitdomain.VisitStatusOpen,
			CreatedAt: now.Add(offset),
			UpdatedAt: now.Add(offset),
		}
		if completed {
			completedAt := now.Add(offset)
			visit.Status = visitdomain.VisitStatusCompleted
			visit.CompletedAt = &completedAt
		}
		require.NoError(t, f.db.Create(&visit).Error)
		return visit
	}

	billable := makeVisit(true, 0)
	require.NoError(t, f.db.Create(&visitdomain.VisitItem{
		ID: f.node.Generate(), ClinicID: f.clinicID, VisitID: billable.ID,
		Name: "Consultation", Quantity: 1, UnitPrice: 20000, CreatedAt: now,
	}).Error)
	require.NoError(t, f.db.Create(&labtestdomain.LabTest{
		ID: f.node.Generate(), ClinicID: f.clinicID, PatientID: patient.ID, VisitID: &billable.ID,
		Name: "CBC", Price: 8000, Source: labtestdomain.SourceVisit, TakenAt: now, CreatedAt: now,
	}).Error)
	require.NoError(t, f.db.Create(&visitdomain.Prescription{
		ID: f.node.Generate(), ClinicID: f.clinicID, VisitID: billable.ID,
		Medication: "deworming", Quantity: 2, CreatedAt: now,
	}).Error)

	// Completed but nothing billable.
	makeVisit(true, time.Minute)

	// Still open, never proposed.
	openVisit := makeVisit(false, 2*time.Minute)
	require.NoError(t, f.db.Create(&visitdomain.VisitItem{
		ID: f.node.Generate(), ClinicID: f.clinicID, VisitID: openVisit.ID,
		Name: "Consultation", Quantity: 1, UnitPrice: 20000, CreatedAt: now,
	}).Error)

	// Completed and billable but already invoiced.
	invoiced := makeVisit(true, 3*time.Minute)
	require.NoError(t, f.db.Create(&visitdomain.VisitItem{
		ID: f.node.Generate(), ClinicID: f.clinicID, VisitID: invoiced.ID,
		Name: "Surgery", Quantity: 1, UnitPrice: 90000, CreatedAt: now,
	}).Error)
	_, err := f.svc.Create(f.ctx, domain.CreateInvoiceRequest{
		ClientID: client.ID.String(),
		VisitID:  invoiced.ID.String(),
		Items:    []domain.LineItemInput{{Description: "Surgery", Quantity: 1, UnitPrice: 90000}},
	})
	require.NoError(t, err)

	unbilled, err := f.svc.ListUnbilled(f.ctx, domain.ListUnbilledRequest{})
	require.NoError(t, err)
	require.Len(t, unbilled, 1)

	proposal := unbilled[0]
	assert.Equal(t, int64(billable.ID), proposal.VisitID)
	assert.Equal(t, "Dana Levi", proposal.ClientName)
	assert.Equal(t, "Rex", proposal.PatientName)
	require.Len(t, proposal.Candidates, 3)
	assert.Equal(t, int64(20000+8000+9000), proposal.Estimated)

	filtered, err := f.svc.ListUnbilled(f.ctx, domain.ListUnbilledRequest{ClientID: f.node.Generate().String()})
	require.NoError(t, err)
	assert.Empty(t, filtered)
}
