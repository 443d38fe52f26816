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

var _ repository.ScanLogRepository = (*ScanLogRepo)(nil)

// ScanLogRepo registro de escaneos sobre PostgreSQL. El índice único parcial
// scan_logs_resolved_uq garantiza una sola entrada OK/ADJUSTED por display_key.
type ScanLogRepo struct {
	q Querier
}

// NewScanLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewScanLogRepository(q Querier) *ScanLogRepo {
	return &ScanLogRepo{q: q}
}

const scanLogColumns = `id, display_key, input_code, status, operator, device, channel, order_id, tracking, message, created_at`

func scanScanLog(row pgx.Row) (*entity.ScanLog, error) {
	var l entity.ScanLog
	err := row.Scan(&l.ID, &l.DisplayKey, &l.InputCode, &l.Status, &l.Operator, &l.Device,
		&l.Channel, &l.OrderID, &l.Tracking, &l.Message, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create inserta la entrada. Si ya hay una resuelta para el display_key no inserta y
// devuelve domain.ErrDuplicate (sin abortar la transacción).
func (r *ScanLogRepo) Create(ctx context.Context, l *entity.ScanLog) error {
	query := `
		INSERT INTO scan_logs (` + scanLogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (display_key) WHERE status IN ('OK', 'ADJUSTED') DO NOTHING`
	tag, err := r.q.Exec(ctx, query,
		l.ID, l.DisplayKey, l.InputCode, l.Status, l.Operator, l.Device,
		l.Channel, l.OrderID, l.Tracking, l.Message, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create scan log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDuplicate
	}
	return nil
}

func (r *ScanLogRepo) one(ctx context.Context, op, query string, args ...any) (*entity.ScanLog, error) {
	l, err := scanScanLog(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return l, nil
}

// GetByID obtiene una entrada. Devuelve nil si no existe.
func (r *ScanLogRepo) GetByID(ctx context.Context, id string) (*entity.ScanLog, error) {
	return r.one(ctx, "get scan log", `SELECT `+scanLogColumns+` FROM scan_logs WHERE id = $1`, id)
}

// FirstResolved primera entrada OK/ADJUSTED del display_key.
func (r *ScanLogRepo) FirstResolved(ctx context.Context, displayKey string) (*entity.ScanLog, error) {
	return r.one(ctx, "first resolved scan", `
		SELECT `+scanLogColumns+` FROM scan_logs
		WHERE display_key = $1 AND status IN ('OK', 'ADJUSTED')
		ORDER BY created_at LIMIT 1`, displayKey)
}

// FirstWithStatus primera entrada del display_key con el estado dado.
func (r *ScanLogRepo) FirstWithStatus(ctx context.Context, displayKey, status string) (*entity.ScanLog, error) {
	return r.one(ctx, "first scan by status", `
		SELECT `+scanLogColumns+` FROM scan_logs
		WHERE display_key = $1 AND status = $2
		ORDER BY created_at LIMIT 1`, displayKey, status)
}

// MarkAdjusted convierte la entrada en ADJUSTED ligada al pedido.
func (r *ScanLogRepo) MarkAdjusted(ctx context.Context, id, displayKey, orderID, operator string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE scan_logs
		SET status = 'ADJUSTED', display_key = $2, order_id = $3, operator = $4
		WHERE id = $1`, id, displayKey, orderID, operator)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("mark scan adjusted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List registro paginado, más recientes primero.
func (r *ScanLogRepo) List(ctx context.Context, limit, offset int) ([]*entity.ScanLog, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+scanLogColumns+` FROM scan_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list scan logs: %w", err)
	}
	defer rows.Close()

	var list []*entity.ScanLog
	for rows.Next() {
		l, err := scanScanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scan log: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Delete elimina una entrada.
func (r *ScanLogRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM scan_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete scan log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
