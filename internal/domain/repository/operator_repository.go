package repository

import (
	"context"

	"github.com/jhoicas/fabrica-api/internal/domain/entity"
)

// OperatorRepository define el puerto de persistencia de operadores de escaneo.
type OperatorRepository interface {
	Create(ctx context.Context, op *entity.Operator) error
	List(ctx context.Context) ([]entity.Operator, error)
	Delete(ctx context.Context, id string) error
}
