package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/fabrica-api/internal/domain"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
)

var _ repository.OperatorRepository = (*OperatorRepo)(nil)

// OperatorRepo operadores de escaneo sobre PostgreSQL.
type OperatorRepo struct {
	q Querier
}

// NewOperatorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOperatorRepository(q Querier) *OperatorRepo {
	return &OperatorRepo{q: q}
}

// Create persiste un operador. El prefijo es único sin distinguir mayúsculas.
func (r *OperatorRepo) Create(ctx context.Context, op *entity.Operator) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO operators (id, name, prefix, active, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		op.ID, op.Name, op.Prefix, op.Active, op.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create operator: %w", err)
	}
	return nil
}

// List lista los operadores por nombre.
func (r *OperatorRepo) List(ctx context.Context) ([]entity.Operator, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, prefix, active, created_at FROM operators ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list operators: %w", err)
	}
	defer rows.Close()

	list := []entity.Operator{}
	for rows.Next() {
		var op entity.Operator
		if err := rows.Scan(&op.ID, &op.Name, &op.Prefix, &op.Active, &op.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan operator: %w", err)
		}
		list = append(list, op)
	}
	return list, rows.Err()
}

// Delete elimina un operador.
func (r *OperatorRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM operators WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete operator: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
