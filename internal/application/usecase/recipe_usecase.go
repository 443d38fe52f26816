package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/fabrica-api/internal/application/dto"
	"github.com/jhoicas/fabrica-api/internal/application/ledger"
	"github.com/jhoicas/fabrica-api/internal/domain"
	"github.com/jhoicas/fabrica-api/internal/domain/bom"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
)

// RecipeUseCase mantenimiento de recetas (BOM).
type RecipeUseCase struct {
	txRunner ledger.TxRunner
	repos    repository.Repositories
}

// NewRecipeUseCase construye el caso de uso.
func NewRecipeUseCase(txRunner ledger.TxRunner, repos repository.Repositories) *RecipeUseCase {
	return &RecipeUseCase{txRunner: txRunner, repos: repos}
}

// Upsert reemplaza la receta del producto. Valida tipo del producto, existencia de los
// componentes, cantidades positivas y que el grafo resultante no tenga ciclos.
func (uc *RecipeUseCase) Upsert(ctx context.Context, productCode string, in dto.RecipeRequest) (*dto.RecipeResponse, error) {
	code := entity.NormalizeCode(productCode)
	if code == "" || len(in.Components) == 0 {
		return nil, domain.ErrInvalidInput
	}
	recipe := &entity.Recipe{ProductCode: code}
	seen := make(map[string]bool, len(in.Components))
	for _, c := range in.Components {
		comp := entity.NormalizeCode(c.ComponentCode)
		if comp == "" || !c.QtyPerUnit.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		if comp == code {
			return nil, fmt.Errorf("%w: %s -> %s", domain.ErrCyclicRecipe, code, code)
		}
		if seen[comp] {
			return nil, fmt.Errorf("%w: componente %s repetido", domain.ErrInvalidInput, comp)
		}
		seen[comp] = true
		recipe.Components = append(recipe.Components, entity.RecipeComponent{ComponentCode: comp, QtyPerUnit: c.QtyPerUnit})
	}

	err := uc.txRunner.Run(ctx, func(r repository.Repositories) error {
		product, err := r.Items.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, code)
		}
		if !entity.Producible(product.Kind) {
			return fmt.Errorf("%w: %s no es producible (%s)", domain.ErrInvalidInput, code, product.Kind)
		}
		for _, c := range recipe.Components {
			item, err := r.Items.GetByCode(ctx, c.ComponentCode)
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("%w: componente %s", domain.ErrNotFound, c.ComponentCode)
			}
		}

		all, err := r.Recipes.ListAll(ctx)
		if err != nil {
			return err
		}
		book := bom.NewMapBook(all)
		book[code] = recipe.Components
		if err := bom.Validate(book, code); err != nil {
			return err
		}
		return r.Recipes.Replace(ctx, recipe)
	})
	if err != nil {
		return nil, err
	}
	return toRecipeResponse(recipe), nil
}

// Get obtiene la receta de un producto.
func (uc *RecipeUseCase) Get(ctx context.Context, productCode string) (*dto.RecipeResponse, error) {
	recipe, err := uc.repos.Recipes.Get(ctx, entity.NormalizeCode(productCode))
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, domain.ErrNotFound
	}
	return toRecipeResponse(recipe), nil
}

// Delete elimina la receta de un producto.
func (uc *RecipeUseCase) Delete(ctx context.Context, productCode string) error {
	return uc.repos.Recipes.Delete(ctx, entity.NormalizeCode(productCode))
}

func toRecipeResponse(recipe *entity.Recipe) *dto.RecipeResponse {
	out := &dto.RecipeResponse{ProductCode: recipe.ProductCode}
	for _, c := range recipe.Components {
		out.Components = append(out.Components, dto.RecipeComponentRequest{ComponentCode: c.ComponentCode, QtyPerUnit: c.QtyPerUnit})
	}
	return out
}
