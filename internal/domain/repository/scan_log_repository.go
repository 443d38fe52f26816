package repository

import (
	"context"

	"github.com/jhoicas/fabrica-api/internal/domain/entity"
)

// ScanLogRepository define el puerto del registro de escaneos.
type ScanLogRepository interface {
	// Create inserta la entrada. Devuelve domain.ErrDuplicate si ya existe una entrada
	// resuelta (OK/ADJUSTED) para el mismo DisplayKey.
	Create(ctx context.Context, log *entity.ScanLog) error
	GetByID(ctx context.Context, id string) (*entity.ScanLog, error)
	// FirstResolved devuelve la primera entrada OK/ADJUSTED del DisplayKey (nil si no hay).
	FirstResolved(ctx context.Context, displayKey string) (*entity.ScanLog, error)
	// FirstWithStatus devuelve la primera entrada del DisplayKey con el estado indicado.
	FirstWithStatus(ctx context.Context, displayKey, status string) (*entity.ScanLog, error)
	// MarkAdjusted convierte una entrada en ADJUSTED ligada a un pedido (mismas reglas de unicidad que Create).
	MarkAdjusted(ctx context.Context, id, displayKey, orderID, operator string) error
	List(ctx context.Context, limit, offset int) ([]*entity.ScanLog, error)
	Delete(ctx context.Context, id string) error
}
