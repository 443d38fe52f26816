package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
)

// Querier es lo común entre *pgxpool.Pool y pgx.Tx: los repositorios funcionan con ambos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewRepositories construye todos los repositorios sobre el mismo Querier (pool o tx).
func NewRepositories(q Querier) repository.Repositories {
	return repository.Repositories{
		Items:     NewStockItemRepository(q),
		Movements: NewStockMovementRepository(q),
		Recipes:   NewRecipeRepository(q),
		Orders:    NewOrderRepository(q),
		ScanLogs:  NewScanLogRepository(q),
		SkuLinks:  NewSkuLinkRepository(q),
		Operators: NewOperatorRepository(q),
		Settings:  NewSettingsRepository(q),
	}
}
