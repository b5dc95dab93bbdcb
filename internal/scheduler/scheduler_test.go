package scheduler

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
	appconfig "github.com/smallvet/clinica/internal/config"
	patientdomain "github.com/smallvet/clinica/internal/patient/domain"
	referraldomain "github.com/smallvet/clinica/internal/referral/domain"
	referralrepo "github.com/smallvet/clinica/internal/referral/repository"
	referralservice "github.com/smallvet/clinica/internal/referral/service"
	vaccinationdomain "github.com/smallvet/clinica/internal/vaccination/domain"
	vaccinationrepo "github.com/smallvet/clinica/internal/vaccination/repository"
	vaccinationservice "github.com/smallvet/clinica/internal/vaccination/service"
)

type fixture struct {
	sched       *Scheduler
	db          *gorm.DB
	node        *snowflake.Node
	fakeClock   *clock.FakeClock
	clinicID    snowflake.ID
	referralSvc referraldomain.Service
	ctx         context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&clientdomain.Client{},
		&patientdomain.Patient{},
		&vaccinationdomain.Vaccination{},
		&referraldomain.Referral{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fakeClock := clock.NewFakeClock(time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC))
	clinicID := node.Generate()

	vaccinationSvc := vaccinationservice.New(vaccinationservice.Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     fakeClock,
		Repo:      vaccinationrepo.Provide(),
		ClinicCfg: appconfig.StaticClinicConfigHolder(appconfig.DefaultClinicConfig()),
	})
	referralSvc := referralservice.New(referralservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fakeClock,
		Repo:  referralrepo.Provide(),
	})

	sched, err := New(Params{
		Cfg:            appconfig.Config{DefaultClinicID: int64(clinicID)},
		Log:            zap.NewNop(),
		Clock:          fakeClock,
		VaccinationSvc: vaccinationSvc,
		ReferralSvc:    referralSvc,
	})
	require.NoError(t, err)

	return &fixture{
		sched:       sched,
		db:          db,
		node:        node,
		fakeClock:   fakeClock,
		clinicID:    clinicID,
		referralSvc: referralSvc,
		ctx:         clinicctx.WithClinicID(context.Background(), int64(clinicID)),
	}
}

func (f *fixture) seedDueVaccination(t *testing.T, patientName, vaccine string, daysUntilDue int) {
	t.Helper()

	now := f.fakeClock.Now()
	client := clientdomain.Client{
		ID: f.node.Generate(), ClinicID: f.clinicID,
		Name: "Dana Levi", Phone: "0541234567",
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(&client).Error)

	patient := patientdomain.Patient{
		ID: f.node.Generate(), ClinicID: f.clinicID, ClientID: client.ID,
		Name: patientName, Active: true,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(&patient).Error)

	givenAt := now.AddDate(0, 0, daysUntilDue-365)
	nextDue := givenAt.AddDate(0, 0, 365)
	vaccination := vaccinationdomain.Vaccination{
		ID: f.node.Generate(), ClinicID: f.clinicID, PatientID: patient.ID,
		Vaccine: vaccine, GivenAt: givenAt, ValidDays: 365, NextDue: &nextDue,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(&vaccination).Error)
}

func TestRunOnceFilesReminders(t *testing.T) {
	f := newFixture(t)
	f.seedDueVaccination(t, "Rex", "Rabies", 5)

	require.NoError(t, f.sched.RunOnce(context.Background()))

	inbox, err := f.referralSvc.Inbox(f.ctx, referraldomain.InboxRequest{})
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "vaccination-reminders", inbox[0].Sender)
	assert.Equal(t, "Vaccination due: Rex (Rabies)", inbox[0].Subject)
	assert.Contains(t, inbox[0].Body, "0541234567")
	require.NotNil(t, inbox[0].PatientID)
}

func TestRunOnceDoesNotRefileUnreadReminders(t *testing.T) {
	f := newFixture(t)
	f.seedDueVaccination(t, "Rex", "Rabies", 5)

	require.NoError(t, f.sched.RunOnce(context.Background()))
	require.NoError(t, f.sched.RunOnce(context.Background()))

	inbox, err := f.referralSvc.Inbox(f.ctx, referraldomain.InboxRequest{})
	require.NoError(t, err)
	assert.Len(t, inbox, 1)
}

func TestRunOnceRefilesAfterRead(t *testing.T) {
	f := newFixture(t)
	f.seedDueVaccination(t, "Rex", "Rabies", 5)

	require.NoError(t, f.sched.RunOnce(context.Background()))

	inbox, err := f.referralSvc.Inbox(f.ctx, referraldomain.InboxRequest{})
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	_, err = f.referralSvc.MarkRead(f.ctx, referraldomain.MarkReadRequest{ID: inbox[0].ID.String()})
	require.NoError(t, err)

	// Still due next day, so a fresh reminder lands.
	f.fakeClock.Advance(24 * time.Hour)
	require.NoError(t, f.sched.RunOnce(context.Background()))

	inbox, err = f.referralSvc.Inbox(f.ctx, referraldomain.InboxRequest{})
	require.NoError(t, err)
	assert.Len(t, inbox, 2)
}

func TestRunOnceSkipsWithoutDefaultClinic(t *testing.T) {
	f := newFixture(t)
	f.seedDueVaccination(t, "Rex", "Rabies", 5)
	f.sched.appCfg.DefaultClinicID = 0

	require.NoError(t, f.sched.RunOnce(context.Background()))

	inbox, err := f.referralSvc.Inbox(f.ctx, referraldomain.InboxRequest{})
	require.NoError(t, err)
	assert.Empty(t, inbox)
}

func TestNewRejectsMissingDependencies(t *testing.T) {
	_, err := New(Params{Log: zap.NewNop()})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
