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
	"github.com/smallvet/clinica/internal/referral/domain"
	"github.com/smallvet/clinica/internal/referral/repository"
)

func setup(t *testing.T) (*Service, *clock.FakeClock, context.Context) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Referral{}))

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

	ctx := clinicctx.WithClinicID(context.Background(), int64(node.Generate()))
	return svc, fakeClock, ctx
}

func TestReferralInboxFlow(t *testing.T) {
	svc, fakeClock, ctx := setup(t)

	first, err := svc.Create(ctx, domain.CreateReferralRequest{
		Sender:  "Dr. Mizrahi",
		Subject: "Post-op follow up for Rex",
		Body:    "Please recheck the incision next week.",
	})
	require.NoError(t, err)

	fakeClock.Advance(time.Minute)
	second, err := svc.Create(ctx, domain.CreateReferralRequest{
		Sender:  "Dr. Cohen",
		Subject: "X-ray results",
	})
	require.NoError(t, err)

	count, err := svc.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	inbox, err := svc.Inbox(ctx, domain.InboxRequest{})
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, second.ID, inbox[0].ID)

	read, err := svc.MarkRead(ctx, domain.MarkReadRequest{ID: first.ID.String()})
	require.NoError(t, err)
	require.NotNil(t, read.ReadAt)

	count, err = svc.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	unread, err := svc.Inbox(ctx, domain.InboxRequest{UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, second.ID, unread[0].ID)

	// Second mark keeps the original timestamp.
	fakeClock.Advance(time.Hour)
	again, err := svc.MarkRead(ctx, domain.MarkReadRequest{ID: first.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, *read.ReadAt, *again.ReadAt)
}

func TestReferralValidation(t *testing.T) {
	svc, _, ctx := setup(t)

	_, err := svc.Create(ctx, domain.CreateReferralRequest{Subject: "No sender"})
	assert.ErrorIs(t, err, domain.ErrInvalidSender)

	_, err = svc.Create(ctx, domain.CreateReferralRequest{Sender: "Dr. Cohen"})
	assert.ErrorIs(t, err, domain.ErrInvalidSubject)

	_, err = svc.MarkRead(ctx, domain.MarkReadRequest{ID: "not-a-number"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
