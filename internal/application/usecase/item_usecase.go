package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/fabrica-api/internal/application/dto"
	"github.com/jhoicas/fabrica-api/internal/application/ledger"
	"github.com/jhoicas/fabrica-api/internal/domain"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ItemUseCase casos de uso CRUD para ítems de inventario. El saldo se maneja vía el libro.
type ItemUseCase struct {
	txRunner ledger.TxRunner
	repos    repository.Repositories
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(txRunner ledger.TxRunner, repos repository.Repositories) *ItemUseCase {
	return &ItemUseCase{txRunner: txRunner, repos: repos}
}

// Create crea un ítem con saldo 0.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	code := entity.NormalizeCode(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" || !entity.ValidKind(in.Kind) || in.MinQty.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	item := &entity.StockItem{
		Code:           code,
		Name:           name,
		Kind:           in.Kind,
		CurrentQty:     decimal.Zero,
		MinQty:         in.MinQty,
		Unit:           strings.TrimSpace(in.Unit),
		SubstituteCode: entity.NormalizeCode(in.SubstituteCode),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if item.Unit == "" {
		item.Unit = "UN"
	}
	if err := uc.checkSubstitute(ctx, item); err != nil {
		return nil, err
	}
	if err := uc.repos.Items.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Get obtiene un ítem por código.
func (uc *ItemUseCase) Get(ctx context.Context, code string) (*dto.ItemResponse, error) {
	item, err := uc.repos.Items.GetByCode(ctx, entity.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// List lista ítems, opcionalmente filtrados por tipo.
func (uc *ItemUseCase) List(ctx context.Context, kind string, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.Normalize()
	if kind != "" && !entity.ValidKind(kind) {
		return nil, domain.ErrInvalidInput
	}
	items, err := uc.repos.Items.List(ctx, kind, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, *toItemResponse(item))
	}
	return &dto.ItemListResponse{
		Items: out,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// UpdateMeta actualiza nombre, mínimo, unidad y sustituto. No permite tocar el saldo.
func (uc *ItemUseCase) UpdateMeta(ctx context.Context, code string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repos.Items.GetByCode(ctx, entity.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = name
	}
	if in.MinQty != nil {
		if in.MinQty.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.MinQty = *in.MinQty
	}
	if in.Unit != nil {
		item.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.SubstituteCode != nil {
		item.SubstituteCode = entity.NormalizeCode(*in.SubstituteCode)
		if err := uc.checkSubstitute(ctx, item); err != nil {
			return nil, err
		}
	}
	item.UpdatedAt = time.Now()
	if err := uc.repos.Items.UpdateMeta(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Delete elimina un ítem sin movimientos en el libro y sin referencias desde recetas, vínculos
// SKU o pedidos abiertos. El historial de un ítem nunca se purga.
func (uc *ItemUseCase) Delete(ctx context.Context, code string) error {
	code = entity.NormalizeCode(code)
	return uc.txRunner.Run(ctx, func(r repository.Repositories) error {
		item, err := r.Items.GetForUpdate(ctx, code)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		moved, err := r.Movements.HasMovements(ctx, code)
		if err != nil {
			return err
		}
		if moved {
			return fmt.Errorf("%w: %s tiene movimientos registrados", domain.ErrConflict, code)
		}
		inRecipe, err := r.Recipes.IsReferenced(ctx, code)
		if err != nil {
			return err
		}
		if inRecipe {
			return fmt.Errorf("%w: %s es parte de una receta", domain.ErrConflict, code)
		}
		linked, err := r.SkuLinks.ListByMaster(ctx, code)
		if err != nil {
			return err
		}
		if len(linked) > 0 {
			return fmt.Errorf("%w: %s tiene %d SKUs vinculados", domain.ErrConflict, code, len(linked))
		}
		open, err := r.Orders.HasOpenForSKUs(ctx, []string{code})
		if err != nil {
			return err
		}
		if open {
			return fmt.Errorf("%w: %s tiene pedidos abiertos", domain.ErrConflict, code)
		}
		return r.Items.Delete(ctx, code)
	})
}

func (uc *ItemUseCase) checkSubstitute(ctx context.Context, item *entity.StockItem) error {
	if item.SubstituteCode == "" {
		return nil
	}
	if item.SubstituteCode == item.Code {
		return fmt.Errorf("%w: un ítem no puede ser su propio sustituto", domain.ErrInvalidInput)
	}
	sub, err := uc.repos.Items.GetByCode(ctx, item.SubstituteCode)
	if err != nil {
		return err
	}
	if sub == nil {
		return fmt.Errorf("%w: sustituto %s", domain.ErrNotFound, item.SubstituteCode)
	}
	if sub.Kind != item.Kind {
		return fmt.Errorf("%w: el sustituto debe ser del mismo tipo", domain.ErrInvalidInput)
	}
	return nil
}

func toItemResponse(item *entity.StockItem) *dto.ItemResponse {
	return &dto.ItemResponse{
		Code:           item.Code,
		Name:           item.Name,
		Kind:           item.Kind,
		CurrentQty:     item.CurrentQty,
		MinQty:         item.MinQty,
		BelowMin:       item.CurrentQty.LessThan(item.MinQty),
		Unit:           item.Unit,
		SubstituteCode: item.SubstituteCode,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}
