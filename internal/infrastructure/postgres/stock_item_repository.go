package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/fabrica-api/internal/domain"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

// StockItemRepo implementación sobre PostgreSQL (usable con pool o tx).
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

const stockItemColumns = `code, name, kind, current_qty, min_qty, unit, COALESCE(substitute_code, ''), created_at, updated_at`

func scanStockItem(row pgx.Row) (*entity.StockItem, error) {
	var it entity.StockItem
	err := row.Scan(&it.Code, &it.Name, &it.Kind, &it.CurrentQty, &it.MinQty, &it.Unit, &it.SubstituteCode, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create persiste un ítem nuevo.
func (r *StockItemRepo) Create(ctx context.Context, item *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (code, name, kind, current_qty, min_qty, unit, substitute_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9)`
	_, err := r.q.Exec(ctx, query,
		item.Code, item.Name, item.Kind, item.CurrentQty, item.MinQty, item.Unit, item.SubstituteCode,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: sustituto %s", domain.ErrNotFound, item.SubstituteCode)
		}
		return fmt.Errorf("create stock item: %w", err)
	}
	return nil
}

// GetByCode obtiene un ítem por código. Devuelve nil si no existe.
func (r *StockItemRepo) GetByCode(ctx context.Context, code string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE code = $1`
	it, err := scanStockItem(r.q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return it, nil
}

// GetForUpdate obtiene el ítem y bloquea la fila (SELECT FOR UPDATE). Solo tiene efecto dentro de una tx.
func (r *StockItemRepo) GetForUpdate(ctx context.Context, code string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE code = $1 FOR UPDATE`
	it, err := scanStockItem(r.q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item for update: %w", err)
	}
	return it, nil
}

// AddQuantity suma delta al saldo en caché.
func (r *StockItemRepo) AddQuantity(ctx context.Context, code string, delta decimal.Decimal) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE stock_items SET current_qty = current_qty + $2, updated_at = now() WHERE code = $1`,
		code, delta,
	)
	if err != nil {
		return fmt.Errorf("add stock quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateMeta actualiza los metadatos del ítem (no el saldo).
func (r *StockItemRepo) UpdateMeta(ctx context.Context, item *entity.StockItem) error {
	query := `
		UPDATE stock_items
		SET name = $2, min_qty = $3, unit = $4, substitute_code = NULLIF($5, ''), updated_at = $6
		WHERE code = $1`
	tag, err := r.q.Exec(ctx, query, item.Code, item.Name, item.MinQty, item.Unit, item.SubstituteCode, item.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: sustituto %s", domain.ErrNotFound, item.SubstituteCode)
		}
		return fmt.Errorf("update stock item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista ítems ordenados por código; kind vacío no filtra.
func (r *StockItemRepo) List(ctx context.Context, kind string, limit, offset int) ([]*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + `
		FROM stock_items
		WHERE ($1 = '' OR kind = $1)
		ORDER BY code
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, kind, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockItem
	for rows.Next() {
		it, err := scanStockItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// Delete elimina un ítem.
func (r *StockItemRepo) Delete(ctx context.Context, code string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_items WHERE code = $1`, code)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s sigue referenciado", domain.ErrConflict, code)
		}
		return fmt.Errorf("delete stock item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
