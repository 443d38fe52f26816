package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/fabrica-api/internal/domain"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo líneas de pedido sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `order_id, sku, tracking, channel, status, created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	if err := row.Scan(&o.OrderID, &o.SKU, &o.Tracking, &o.Channel, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persiste una línea de pedido. Tracking y canal vacíos se guardan como ''.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (order_id, sku, tracking, channel, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())`
	_, err := r.q.Exec(ctx, query, o.OrderID, o.SKU, o.Tracking, o.Channel, o.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// Get obtiene una línea por (pedido, SKU). Devuelve nil si no existe.
func (r *OrderRepo) Get(ctx context.Context, orderID, sku string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_id = $1 AND sku = $2`, orderID, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// FindByCode busca líneas por número de pedido o tracking (sin distinguir mayúsculas).
func (r *OrderRepo) FindByCode(ctx context.Context, code string) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE upper(order_id) = $1 OR upper(tracking) = $1
		ORDER BY order_id, sku`
	rows, err := r.q.Query(ctx, query, entity.NormalizeCode(code))
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado de una línea.
func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID, sku, status string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE orders SET status = $3, updated_at = now() WHERE order_id = $1 AND sku = $2`,
		orderID, sku, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateChannel corrige el canal de una línea.
func (r *OrderRepo) UpdateChannel(ctx context.Context, orderID, sku, channel string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE orders SET channel = $3, updated_at = now() WHERE order_id = $1 AND sku = $2`,
		orderID, sku, channel)
	if err != nil {
		return fmt.Errorf("update order channel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// HasOpenForSKUs indica si alguna línea NORMAL/BIPADO/ERRO usa alguno de los SKUs.
func (r *OrderRepo) HasOpenForSKUs(ctx context.Context, skus []string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM orders
			WHERE upper(sku) = ANY($1) AND status IN ('NORMAL', 'BIPADO', 'ERRO')
		)`, skus,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("open orders check: %w", err)
	}
	return ok, nil
}
