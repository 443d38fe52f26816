package repository

import (
	"context"

	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockMovementRepository define el puerto del libro de movimientos (solo inserción).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByItem(ctx context.Context, itemCode string, limit, offset int) ([]*entity.StockMovement, error)
	ListByRef(ctx context.Context, ref string) ([]*entity.StockMovement, error)
	// HasMovements indica si el ítem tiene al menos un movimiento registrado.
	HasMovements(ctx context.Context, itemCode string) (bool, error)
	// SumByItem suma todos los deltas del ítem (reconstrucción del saldo).
	SumByItem(ctx context.Context, itemCode string) (decimal.Decimal, error)
}
