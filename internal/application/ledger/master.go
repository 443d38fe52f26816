package ledger

import (
	"context"

	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
)

// MasterCode traduce el SKU de un canal al código maestro del inventario (identidad si no hay vínculo).
func MasterCode(ctx context.Context, r repository.Repositories, sku string) (string, error) {
	code := entity.NormalizeCode(sku)
	master, err := r.SkuLinks.GetMaster(ctx, code)
	if err != nil {
		return "", err
	}
	if master == "" {
		return code, nil
	}
	return master, nil
}
