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
	"github.com/smallvet/clinica/internal/inventory/domain"
	"github.com/smallvet/clinica/internal/inventory/repository"
)

func setup(t *testing.T) (*Service, context.Context) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Product{}, &domain.StockMovement{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	}).(*Service)

	ctx := clinicctx.WithClinicID(context.Background(), int64(node.Generate()))
	return svc, ctx
}

func TestCreateProductGeneratesSKU(t *testing.T) {
	svc, ctx := setup(t)

	product, err := svc.Create(ctx, domain.CreateProductRequest{
		Name:     "Amoxicillin 250mg",
		Unit:     "box",
		StockQty: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "amoxicillin-250mg", product.SKU)

	movements, err := svc.ListMovements(ctx, domain.GetProductRequest{ID: product.ID.String()})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, domain.MovementIn, movements[0].Kind)
	assert.Equal(t, float64(10), movements[0].Quantity)
}

func TestRecordMovement(t *testing.T) {
	svc, ctx := setup(t)

	product, err := svc.Create(ctx, domain.CreateProductRequest{Name: "Syringes", StockQty: 5, ReorderLevel: 3})
	require.NoError(t, err)

	updated, err := svc.RecordMovement(ctx, domain.RecordMovementRequest{
		ProductID: product.ID.String(),
		Kind:      domain.MovementOut,
		Quantity:  3,
		Reason:    "ward use",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(2), updated.StockQty)

	_, err = svc.RecordMovement(ctx, domain.RecordMovementRequest{
		ProductID: product.ID.String(),
		Kind:      domain.MovementOut,
		Quantity:  10,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficient)

	updated, err = svc.RecordMovement(ctx, domain.RecordMovementRequest{
		ProductID: product.ID.String(),
		Kind:      domain.MovementAdjust,
		Quantity:  0,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(0), updated.StockQty)

	low, err := svc.ListBelowReorder(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Syringes", low[0].Name)
}
