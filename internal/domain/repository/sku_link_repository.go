package repository

import (
	"context"

	"github.com/jhoicas/fabrica-api/internal/domain/entity"
)

// SkuLinkRepository define el puerto de vínculos SKU de canal → SKU maestro.
type SkuLinkRepository interface {
	Upsert(ctx context.Context, link *entity.SkuLink) error
	// GetMaster devuelve el SKU maestro vinculado o "" si no hay vínculo.
	GetMaster(ctx context.Context, importedSKU string) (string, error)
	// ListByMaster devuelve los SKUs importados que apuntan al maestro.
	ListByMaster(ctx context.Context, masterSKU string) ([]string, error)
	List(ctx context.Context, limit, offset int) ([]*entity.SkuLink, error)
	Delete(ctx context.Context, importedSKU string) error
}
