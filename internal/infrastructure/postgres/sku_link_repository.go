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

var _ repository.SkuLinkRepository = (*SkuLinkRepo)(nil)

// SkuLinkRepo vínculos SKU de canal → maestro sobre PostgreSQL.
type SkuLinkRepo struct {
	q Querier
}

// NewSkuLinkRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSkuLinkRepository(q Querier) *SkuLinkRepo {
	return &SkuLinkRepo{q: q}
}

// Upsert crea o reapunta el vínculo.
func (r *SkuLinkRepo) Upsert(ctx context.Context, link *entity.SkuLink) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sku_links (imported_sku, master_sku, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (imported_sku) DO UPDATE SET master_sku = EXCLUDED.master_sku`,
		link.ImportedSKU, link.MasterSKU, link.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: ítem maestro %s", domain.ErrNotFound, link.MasterSKU)
		}
		return fmt.Errorf("upsert sku link: %w", err)
	}
	return nil
}

// GetMaster devuelve el maestro vinculado o "".
func (r *SkuLinkRepo) GetMaster(ctx context.Context, importedSKU string) (string, error) {
	var master string
	err := r.q.QueryRow(ctx, `SELECT master_sku FROM sku_links WHERE imported_sku = $1`, importedSKU).Scan(&master)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get sku link: %w", err)
	}
	return master, nil
}

// ListByMaster SKUs importados que apuntan al maestro.
func (r *SkuLinkRepo) ListByMaster(ctx context.Context, masterSKU string) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT imported_sku FROM sku_links WHERE master_sku = $1 ORDER BY imported_sku`, masterSKU)
	if err != nil {
		return nil, fmt.Errorf("list sku links by master: %w", err)
	}
	defer rows.Close()

	var list []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan sku link: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// List vínculos paginados.
func (r *SkuLinkRepo) List(ctx context.Context, limit, offset int) ([]*entity.SkuLink, error) {
	rows, err := r.q.Query(ctx, `
		SELECT imported_sku, master_sku, created_at FROM sku_links
		ORDER BY imported_sku
		LIMIT $1 OFFSET $2`, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list sku links: %w", err)
	}
	defer rows.Close()

	var list []*entity.SkuLink
	for rows.Next() {
		var l entity.SkuLink
		if err := rows.Scan(&l.ImportedSKU, &l.MasterSKU, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sku link: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// Delete elimina un vínculo.
func (r *SkuLinkRepo) Delete(ctx context.Context, importedSKU string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sku_links WHERE imported_sku = $1`, importedSKU)
	if err != nil {
		return fmt.Errorf("delete sku link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
