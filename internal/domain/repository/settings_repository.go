package repository

import (
	"context"

	"github.com/jhoicas/fabrica-api/internal/domain/entity"
)

// SettingsRepository guarda la configuración de escaneo editable en tiempo de ejecución.
type SettingsRepository interface {
	// GetScanSettings devuelve nil si nunca se guardó.
	GetScanSettings(ctx context.Context) (*entity.ScanSettings, error)
	SaveScanSettings(ctx context.Context, s *entity.ScanSettings) error
}
