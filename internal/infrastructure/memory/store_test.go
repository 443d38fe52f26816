package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/fabrica-api/internal/domain"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
	"github.com/jhoicas/fabrica-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RunRevierteSiHayError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()
	require.NoError(t, repos.Items.Create(ctx, &entity.StockItem{Code: "A", Name: "Harina", Kind: entity.KindRawMaterial}))

	boom := errors.New("boom")
	err := store.Run(ctx, func(r repository.Repositories) error {
		require.NoError(t, r.Items.AddQuantity(ctx, "A", decimal.NewFromInt(10)))
		require.NoError(t, r.Movements.Create(ctx, &entity.StockMovement{ID: "m1", ItemCode: "A", QtyDelta: decimal.NewFromInt(10)}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	item, err := repos.Items.GetByCode(ctx, "A")
	require.NoError(t, err)
	assert.True(t, item.CurrentQty.IsZero())
	sum, err := repos.Movements.SumByItem(ctx, "A")
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

func TestStore_RunConfirma(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()
	require.NoError(t, repos.Items.Create(ctx, &entity.StockItem{Code: "A", Kind: entity.KindRawMaterial}))

	err := store.Run(ctx, func(r repository.Repositories) error {
		return r.Items.AddQuantity(ctx, "A", decimal.NewFromInt(-3))
	})
	require.NoError(t, err)

	item, err := repos.Items.GetByCode(ctx, "A")
	require.NoError(t, err)
	assert.True(t, item.CurrentQty.Equal(decimal.NewFromInt(-3)))
}

func TestScanLogRepo_UnaResueltaPorDisplayKey(t *testing.T) {
	ctx := context.Background()
	logs := memory.NewStore().Repositories().ScanLogs

	require.NoError(t, logs.Create(ctx, &entity.ScanLog{ID: "1", DisplayKey: "P1", Status: entity.ScanStatusOK}))
	err := logs.Create(ctx, &entity.ScanLog{ID: "2", DisplayKey: "P1", Status: entity.ScanStatusOK})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Varios NOT_FOUND/ERROR para la misma clave no violan la unicidad
	require.NoError(t, logs.Create(ctx, &entity.ScanLog{ID: "3", DisplayKey: "X", Status: entity.ScanStatusNotFound}))
	require.NoError(t, logs.Create(ctx, &entity.ScanLog{ID: "4", DisplayKey: "X", Status: entity.ScanStatusNotFound}))

	require.NoError(t, logs.MarkAdjusted(ctx, "3", "P2", "P2", "ana"))
	err = logs.MarkAdjusted(ctx, "4", "P2", "P2", "ana")
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	first, err := logs.FirstResolved(ctx, "P2")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "3", first.ID)
	assert.Equal(t, entity.ScanStatusAdjusted, first.Status)

	list, err := logs.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "4", list[0].ID)
}

func TestOrderRepo_FindByCodePorPedidoOTracking(t *testing.T) {
	ctx := context.Background()
	orders := memory.NewStore().Repositories().Orders
	require.NoError(t, orders.Create(ctx, &entity.Order{OrderID: "P1", SKU: "S1", Tracking: "br123", Status: entity.OrderStatusNormal}))
	require.NoError(t, orders.Create(ctx, &entity.Order{OrderID: "P1", SKU: "S2", Tracking: "br123", Status: entity.OrderStatusNormal}))
	require.NoError(t, orders.Create(ctx, &entity.Order{OrderID: "P2", SKU: "S1", Status: entity.OrderStatusDevolvido}))

	byID, err := orders.FindByCode(ctx, "P1")
	require.NoError(t, err)
	assert.Len(t, byID, 2)

	byTracking, err := orders.FindByCode(ctx, "BR123")
	require.NoError(t, err)
	assert.Len(t, byTracking, 2)

	open, err := orders.HasOpenForSKUs(ctx, []string{"S2"})
	require.NoError(t, err)
	assert.True(t, open)
	require.NoError(t, orders.UpdateStatus(ctx, "P1", "S2", entity.OrderStatusSolucionado))
	open, err = orders.HasOpenForSKUs(ctx, []string{"S2"})
	require.NoError(t, err)
	assert.False(t, open)
}

func TestKeyedLocker_SerializaMismaClave(t *testing.T) {
	locker := memory.NewKeyedLocker()
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "K")
	require.NoError(t, err)

	// Otra clave no se bloquea
	unlockOther, err := locker.Lock(ctx, "OTRA")
	require.NoError(t, err)
	unlockOther()

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(waitCtx, "K")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock() // idempotente
	again, err := locker.Lock(ctx, "K")
	require.NoError(t, err)
	again()
}
