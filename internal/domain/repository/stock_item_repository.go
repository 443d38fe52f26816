package repository

import (
	"context"

	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockItemRepository define el puerto de persistencia para StockItem (DIP).
// El saldo (CurrentQty) solo se modifica con AddQuantity, llamado exclusivamente por el Ledger.
type StockItemRepository interface {
	Create(ctx context.Context, item *entity.StockItem) error
	GetByCode(ctx context.Context, code string) (*entity.StockItem, error)
	// GetForUpdate bloquea la fila del ítem hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, code string) (*entity.StockItem, error)
	AddQuantity(ctx context.Context, code string, delta decimal.Decimal) error
	// UpdateMeta actualiza nombre, mínimo, unidad y sustituto. Nunca el saldo.
	UpdateMeta(ctx context.Context, item *entity.StockItem) error
	List(ctx context.Context, kind string, limit, offset int) ([]*entity.StockItem, error)
	Delete(ctx context.Context, code string) error
}
