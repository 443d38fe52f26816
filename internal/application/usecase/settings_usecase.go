package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/fabrica-api/internal/application/dto"
	"github.com/jhoicas/fabrica-api/internal/domain"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
)

// SettingsUseCase configuración de escaneo editable. Sin valor guardado se usan los de configuración.
type SettingsUseCase struct {
	repos    repository.Repositories
	defaults entity.ScanSettings
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(repos repository.Repositories, defaults entity.ScanSettings) *SettingsUseCase {
	return &SettingsUseCase{repos: repos, defaults: defaults}
}

// Get devuelve la configuración vigente.
func (uc *SettingsUseCase) Get(ctx context.Context) (*entity.ScanSettings, error) {
	saved, err := uc.repos.Settings.GetScanSettings(ctx)
	if err != nil {
		return nil, err
	}
	if saved != nil {
		return saved, nil
	}
	def := uc.defaults
	return &def, nil
}

// Save valida y guarda la configuración.
func (uc *SettingsUseCase) Save(ctx context.Context, in dto.ScanSettingsRequest) (*entity.ScanSettings, error) {
	s := &entity.ScanSettings{
		DefaultOperator: strings.TrimSpace(in.DefaultOperator),
		ScannerSuffix:   strings.TrimSpace(in.ScannerSuffix),
		ChannelMarkers:  make([]entity.ChannelMarker, 0, len(in.ChannelMarkers)),
	}
	for _, m := range in.ChannelMarkers {
		suffix := entity.NormalizeCode(m.Suffix)
		channel := strings.TrimSpace(m.Channel)
		if suffix == "" || channel == "" {
			return nil, domain.ErrInvalidInput
		}
		s.ChannelMarkers = append(s.ChannelMarkers, entity.ChannelMarker{Suffix: suffix, Channel: channel})
	}
	if err := uc.repos.Settings.SaveScanSettings(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
