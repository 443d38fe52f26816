package repository

import (
	"context"

	"github.com/jhoicas/fabrica-api/internal/domain/entity"
)

// RecipeRepository define el puerto de persistencia de recetas (BOM).
type RecipeRepository interface {
	Get(ctx context.Context, productCode string) (*entity.Recipe, error)
	ListAll(ctx context.Context) ([]*entity.Recipe, error)
	// Replace reemplaza por completo la receta del producto.
	Replace(ctx context.Context, recipe *entity.Recipe) error
	Delete(ctx context.Context, productCode string) error
	// IsReferenced indica si el código aparece como producto o componente de alguna receta.
	IsReferenced(ctx context.Context, code string) (bool, error)
}
