package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/fabrica-api/internal/application/dto"
	"github.com/jhoicas/fabrica-api/internal/domain"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
)

// SkuLinkUseCase vínculos entre SKUs de canales de venta y códigos maestros.
type SkuLinkUseCase struct {
	repos repository.Repositories
}

// NewSkuLinkUseCase construye el caso de uso.
func NewSkuLinkUseCase(repos repository.Repositories) *SkuLinkUseCase {
	return &SkuLinkUseCase{repos: repos}
}

// Upsert crea o reapunta un vínculo. El maestro debe existir.
func (uc *SkuLinkUseCase) Upsert(ctx context.Context, in dto.SkuLinkRequest) (*dto.SkuLinkResponse, error) {
	imported := entity.NormalizeCode(in.ImportedSKU)
	master := entity.NormalizeCode(in.MasterSKU)
	if imported == "" || master == "" || imported == master {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.repos.Items.GetByCode(ctx, master)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: ítem maestro %s", domain.ErrNotFound, master)
	}
	link := &entity.SkuLink{ImportedSKU: imported, MasterSKU: master, CreatedAt: time.Now()}
	if err := uc.repos.SkuLinks.Upsert(ctx, link); err != nil {
		return nil, err
	}
	return &dto.SkuLinkResponse{ImportedSKU: link.ImportedSKU, MasterSKU: link.MasterSKU, CreatedAt: link.CreatedAt}, nil
}

// List lista los vínculos.
func (uc *SkuLinkUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.SkuLinkResponse, error) {
	page.Normalize()
	links, err := uc.repos.SkuLinks.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SkuLinkResponse, 0, len(links))
	for _, l := range links {
		out = append(out, dto.SkuLinkResponse{ImportedSKU: l.ImportedSKU, MasterSKU: l.MasterSKU, CreatedAt: l.CreatedAt})
	}
	return out, nil
}

// Delete elimina un vínculo.
func (uc *SkuLinkUseCase) Delete(ctx context.Context, importedSKU string) error {
	return uc.repos.SkuLinks.Delete(ctx, entity.NormalizeCode(importedSKU))
}
