package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos sobre PostgreSQL (solo inserción).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const stockMovementColumns = `id, item_code, item_name_snapshot, origin, qty_delta, ref, actor, created_at`

// Create persiste un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + stockMovementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, m.ID, m.ItemCode, m.ItemNameSnapshot, m.Origin, m.QtyDelta, m.Ref, m.Actor, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

func (r *StockMovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ItemCode, &m.ItemNameSnapshot, &m.Origin, &m.QtyDelta, &m.Ref, &m.Actor, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// ListByItem historial de un ítem, más recientes primero.
func (r *StockMovementRepo) ListByItem(ctx context.Context, itemCode string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + stockMovementColumns + `
		FROM stock_movements
		WHERE item_code = $1
		ORDER BY seq DESC
		LIMIT $2 OFFSET $3`
	return r.list(ctx, query, itemCode, limitArg(limit), offset)
}

// ListByRef movimientos registrados con la referencia dada, en orden de inserción.
func (r *StockMovementRepo) ListByRef(ctx context.Context, ref string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + stockMovementColumns + ` FROM stock_movements WHERE ref = $1 ORDER BY seq`
	return r.list(ctx, query, ref)
}

// HasMovements indica si el ítem aparece en el libro.
func (r *StockMovementRepo) HasMovements(ctx context.Context, itemCode string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM stock_movements WHERE item_code = $1)`, itemCode,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has stock movements: %w", err)
	}
	return exists, nil
}

// SumByItem suma los deltas del ítem.
func (r *StockMovementRepo) SumByItem(ctx context.Context, itemCode string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(qty_delta), 0) FROM stock_movements WHERE item_code = $1`, itemCode,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum stock movements: %w", err)
	}
	return sum, nil
}
