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

	clientdomain "github.com/smallvet/clinica/internal/client/domain"
	"github.com/smallvet/clinica/internal/clinicctx"
	"github.com/smallvet/clinica/internal/clock"
	"github.com/smallvet/clinica/internal/config"
	patientdomain "github.com/smallvet/clinica/internal/patient/domain"
	"github.com/smallvet/clinica/internal/vaccination/domain"
	"github.com/smallvet/clinica/internal/vaccination/repository"
)

func setup(t *testing.T) (*Service, *gorm.DB, *snowflake.Node, *clock.FakeClock, snowflake.ID, context.Context) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Vaccination{},
		&clientdomain.Client{},
		&patientdomain.Patient{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fakeClock := clock.NewFakeClock(time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     fakeClock,
		Repo:      repository.Provide(),
		ClinicCfg: config.StaticClinicConfigHolder(config.DefaultClinicConfig()),
	}).(*Service)

	clinicID := node.Generate()
	ctx := clinicctx.WithClinicID(context.Background(), int64(clinicID))
	return svc, db, node, fakeClock, clinicID, ctx
}

func TestCreateVaccinationDerivesNextDue(t *testing.T) {
	svc, _, node, fakeClock, _, ctx := setup(t)

	given := fakeClock.Now()
	vaccination, err := svc.Create(ctx, domain.CreateVaccinationRequest{
		PatientID: node.Generate().String(),
		Vaccine:   "Rabies",
		ValidDays: 365,
	})
	require.NoError(t, err)
	require.NotNil(t, vaccination.NextDue)
	assert.Equal(t, given.AddDate(0, 0, 365), *vaccination.NextDue)

	_, err = svc.Create(ctx, domain.CreateVaccinationRequest{
		PatientID: node.Generate().String(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidVaccine)
}

func TestListDue(t *testing.T) {
	svc, db, node, fakeClock, clinicID, ctx := setup(t)

	now := fakeClock.Now()
	client := clientdomain.Client{ID: node.Generate(), ClinicID: clinicID, Name: "Dana", Phone: "0541234567", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, db.Create(&client).Error)
	patient := patientdomain.Patient{ID: node.Generate(), ClinicID: clinicID, ClientID: client.ID, Name: "Rex", Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, db.Create(&patient).Error)
	inactive := patientdomain.Patient{ID: node.Generate(), ClinicID: clinicID, ClientID: client.ID, Name: "Shadow", Active: false, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, db.Create(&inactive).Error)

	// Rabies given a year ago minus a week: due inside the default window.
	oldGiven := now.AddDate(-1, 0, 7)
	_, err := svc.Create(ctx, domain.CreateVaccinationRequest{
		PatientID: patient.ID.String(),
		Vaccine:   "Rabies",
		GivenAt:   &oldGiven,
		ValidDays: 365,
	})
	require.NoError(t, err)

	// A fresh parvo dose: not due for a year.
	_, err = svc.Create(ctx, domain.CreateVaccinationRequest{
		PatientID: patient.ID.String(),
		Vaccine:   "Parvo",
		ValidDays: 365,
	})
	require.NoError(t, err)

	// Inactive patient never produces reminders.
	_, err = svc.Create(ctx, domain.CreateVaccinationRequest{
		PatientID: inactive.ID.String(),
		Vaccine:   "Rabies",
		GivenAt:   &oldGiven,
		ValidDays: 365,
	})
	require.NoError(t, err)

	due, err := svc.ListDue(ctx, domain.ListDueRequest{})
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "Rabies", due[0].Vaccine)
	assert.Equal(t, "Rex", due[0].PatientName)
	assert.Equal(t, "Dana", due[0].ClientName)

	// A booster supersedes the old dose and clears the reminder.
	_, err = svc.Create(ctx, domain.CreateVaccinationRequest{
		PatientID: patient.ID.String(),
		Vaccine:   "Rabies",
		ValidDays: 365,
	})
	require.NoError(t, err)

	due, err = svc.ListDue(ctx, domain.ListDueRequest{})
	require.NoError(t, err)
	assert.Empty(t, due)
}
