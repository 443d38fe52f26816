package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

const scanSettingsKey = "scan"

// SettingsRepo configuración de la aplicación en app_settings (clave → JSONB).
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// GetScanSettings devuelve nil si nunca se guardó.
func (r *SettingsRepo) GetScanSettings(ctx context.Context) (*entity.ScanSettings, error) {
	var raw []byte
	err := r.q.QueryRow(ctx, `SELECT value FROM app_settings WHERE key = $1`, scanSettingsKey).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get scan settings: %w", err)
	}
	var s entity.ScanSettings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode scan settings: %w", err)
	}
	return &s, nil
}

// SaveScanSettings guarda la configuración de escaneo.
func (r *SettingsRepo) SaveScanSettings(ctx context.Context, s *entity.ScanSettings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode scan settings: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO app_settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		scanSettingsKey, raw)
	if err != nil {
		return fmt.Errorf("save scan settings: %w", err)
	}
	return nil
}
