package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/fabrica-api/internal/application/dto"
	"github.com/jhoicas/fabrica-api/internal/domain"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
)

// OperatorUseCase operadores de escaneo y sus prefijos de credencial.
type OperatorUseCase struct {
	repos repository.Repositories
}

// NewOperatorUseCase construye el caso de uso.
func NewOperatorUseCase(repos repository.Repositories) *OperatorUseCase {
	return &OperatorUseCase{repos: repos}
}

// Create registra un operador activo. El prefijo es único (sin distinguir mayúsculas).
func (uc *OperatorUseCase) Create(ctx context.Context, in dto.CreateOperatorRequest) (*dto.OperatorResponse, error) {
	name := strings.TrimSpace(in.Name)
	prefix := entity.NormalizeCode(in.Prefix)
	if name == "" || prefix == "" || strings.ContainsAny(prefix, "()") {
		return nil, domain.ErrInvalidInput
	}
	op := &entity.Operator{
		ID:        uuid.New().String(),
		Name:      name,
		Prefix:    prefix,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := uc.repos.Operators.Create(ctx, op); err != nil {
		return nil, err
	}
	return toOperatorResponse(*op), nil
}

// List lista los operadores.
func (uc *OperatorUseCase) List(ctx context.Context) ([]dto.OperatorResponse, error) {
	ops, err := uc.repos.Operators.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OperatorResponse, 0, len(ops))
	for _, op := range ops {
		out = append(out, *toOperatorResponse(op))
	}
	return out, nil
}

// Delete elimina un operador.
func (uc *OperatorUseCase) Delete(ctx context.Context, id string) error {
	return uc.repos.Operators.Delete(ctx, id)
}

func toOperatorResponse(op entity.Operator) *dto.OperatorResponse {
	return &dto.OperatorResponse{ID: op.ID, Name: op.Name, Prefix: op.Prefix, Active: op.Active, CreatedAt: op.CreatedAt}
}
