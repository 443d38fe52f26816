package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fabrica-api/internal/domain"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
	"github.com/jhoicas/fabrica-api/internal/infrastructure/postgres"
	"github.com/jhoicas/fabrica-api/pkg/config"
)

// withTx migra la base de DATABASE_URL y ejecuta fn dentro de una transacción que siempre
// se revierte, para no dejar datos.
func withTx(t *testing.T, fn func(ctx context.Context, r repository.Repositories)) {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL no definido: se omiten las pruebas contra PostgreSQL")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 2})
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, postgres.Migrate(ctx, pool))

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(context.Background()) }()

	fn(ctx, postgres.NewRepositories(tx))
}

func testCode(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}

func TestOrderRepo_SinTrackingNiCanal(t *testing.T) {
	withTx(t, func(ctx context.Context, r repository.Repositories) {
		orderID := testCode("PED")
		require.NoError(t, r.Orders.Create(ctx, &entity.Order{OrderID: orderID, SKU: "CAM-M", Status: entity.OrderStatusNormal}))

		got, err := r.Orders.Get(ctx, orderID, "CAM-M")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "", got.Tracking)
		assert.Equal(t, "", got.Channel)

		found, err := r.Orders.FindByCode(ctx, orderID)
		require.NoError(t, err)
		require.Len(t, found, 1)

		require.NoError(t, r.Orders.UpdateChannel(ctx, orderID, "CAM-M", "ML"))
		got, err = r.Orders.Get(ctx, orderID, "CAM-M")
		require.NoError(t, err)
		assert.Equal(t, "ML", got.Channel)

		assert.ErrorIs(t, r.Orders.Create(ctx, &entity.Order{OrderID: orderID, SKU: "CAM-M", Status: entity.OrderStatusNormal}), domain.ErrDuplicate)
	})
}

func TestScanLogRepo_IndiceParcialPorDisplayKey(t *testing.T) {
	withTx(t, func(ctx context.Context, r repository.Repositories) {
		key := testCode("TRK")
		entry := func(status string) *entity.ScanLog {
			return &entity.ScanLog{ID: uuid.New().String(), DisplayKey: key, InputCode: key, Status: status, CreatedAt: time.Now()}
		}
		require.NoError(t, r.ScanLogs.Create(ctx, entry(entity.ScanStatusNotFound)))
		require.NoError(t, r.ScanLogs.Create(ctx, entry(entity.ScanStatusOK)))
		assert.ErrorIs(t, r.ScanLogs.Create(ctx, entry(entity.ScanStatusOK)), domain.ErrDuplicate)
		require.NoError(t, r.ScanLogs.Create(ctx, entry(entity.ScanStatusDuplicate)))

		first, err := r.ScanLogs.FirstResolved(ctx, key)
		require.NoError(t, err)
		require.NotNil(t, first)
		assert.Equal(t, entity.ScanStatusOK, first.Status)
	})
}

func TestStockItemRepo_MovimientosImpidenBorrado(t *testing.T) {
	withTx(t, func(ctx context.Context, r repository.Repositories) {
		code := testCode("TELA")
		now := time.Now()
		require.NoError(t, r.Items.Create(ctx, &entity.StockItem{
			Code: code, Name: "Tela", Kind: entity.KindRawMaterial, Unit: "M", CreatedAt: now, UpdatedAt: now,
		}))

		moved, err := r.Movements.HasMovements(ctx, code)
		require.NoError(t, err)
		assert.False(t, moved)

		require.NoError(t, r.Movements.Create(ctx, &entity.StockMovement{
			ID: uuid.New().String(), ItemCode: code, ItemNameSnapshot: "Tela",
			Origin: entity.OriginInventoryCount, QtyDelta: decimal.NewFromInt(7), CreatedAt: now,
		}))
		require.NoError(t, r.Items.AddQuantity(ctx, code, decimal.NewFromInt(7)))

		moved, err = r.Movements.HasMovements(ctx, code)
		require.NoError(t, err)
		assert.True(t, moved)
		sum, err := r.Movements.SumByItem(ctx, code)
		require.NoError(t, err)
		assert.True(t, sum.Equal(decimal.NewFromInt(7)))

		// Último paso: la violación de llave foránea aborta la transacción.
		assert.ErrorIs(t, r.Items.Delete(ctx, code), domain.ErrConflict)
	})
}
