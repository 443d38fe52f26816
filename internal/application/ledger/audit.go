package ledger

import (
	"context"
	"fmt"

	"github.com/jhoicas/fabrica-api/internal/domain"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Audit compara el saldo en caché con la suma del libro de movimientos.
type Audit struct {
	ItemCode   string
	CachedQty  decimal.Decimal
	LedgerQty  decimal.Decimal
	Consistent bool
}

// Audit verifica la reconstrucción del saldo de un ítem a partir de sus movimientos.
func (l *Ledger) Audit(ctx context.Context, itemCode string) (*Audit, error) {
	code := entity.NormalizeCode(itemCode)
	item, err := l.repos.Items.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, code)
	}
	sum, err := l.repos.Movements.SumByItem(ctx, code)
	if err != nil {
		return nil, err
	}
	return &Audit{
		ItemCode:   code,
		CachedQty:  item.CurrentQty,
		LedgerQty:  sum,
		Consistent: item.CurrentQty.Equal(sum),
	}, nil
}

// Movements lista el historial de un ítem, más recientes primero.
func (l *Ledger) Movements(ctx context.Context, itemCode string, limit, offset int) ([]*entity.StockMovement, error) {
	code := entity.NormalizeCode(itemCode)
	item, err := l.repos.Items.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, code)
	}
	return l.repos.Movements.ListByItem(ctx, code, limit, offset)
}
