package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/fabrica-api/internal/domain"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
)

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo recetas sobre PostgreSQL: una fila por (producto, componente).
type RecipeRepo struct {
	q Querier
}

// NewRecipeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

func (r *RecipeRepo) load(ctx context.Context, query string, args ...any) ([]*entity.Recipe, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var (
		list    []*entity.Recipe
		current *entity.Recipe
	)
	for rows.Next() {
		var product string
		var comp entity.RecipeComponent
		if err := rows.Scan(&product, &comp.ComponentCode, &comp.QtyPerUnit); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		if current == nil || current.ProductCode != product {
			current = &entity.Recipe{ProductCode: product}
			list = append(list, current)
		}
		current.Components = append(current.Components, comp)
	}
	return list, rows.Err()
}

// Get obtiene la receta de un producto. Devuelve nil si no tiene.
func (r *RecipeRepo) Get(ctx context.Context, productCode string) (*entity.Recipe, error) {
	list, err := r.load(ctx, `
		SELECT product_code, component_code, qty_per_unit
		FROM recipes WHERE product_code = $1
		ORDER BY position`, productCode)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListAll devuelve todas las recetas (para la explosión de BOM).
func (r *RecipeRepo) ListAll(ctx context.Context) ([]*entity.Recipe, error) {
	return r.load(ctx, `
		SELECT product_code, component_code, qty_per_unit
		FROM recipes
		ORDER BY product_code, position`)
}

// Replace reemplaza la receta completa del producto.
func (r *RecipeRepo) Replace(ctx context.Context, recipe *entity.Recipe) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM recipes WHERE product_code = $1`, recipe.ProductCode); err != nil {
		return fmt.Errorf("clear recipe: %w", err)
	}
	for i, c := range recipe.Components {
		_, err := r.q.Exec(ctx, `
			INSERT INTO recipes (product_code, component_code, qty_per_unit, position)
			VALUES ($1, $2, $3, $4)`,
			recipe.ProductCode, c.ComponentCode, c.QtyPerUnit, i,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: componente %s", domain.ErrNotFound, c.ComponentCode)
			}
			return fmt.Errorf("insert recipe component: %w", err)
		}
	}
	return nil
}

// Delete elimina la receta de un producto.
func (r *RecipeRepo) Delete(ctx context.Context, productCode string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM recipes WHERE product_code = $1`, productCode)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IsReferenced indica si code aparece como producto o componente en alguna receta.
func (r *RecipeRepo) IsReferenced(ctx context.Context, code string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM recipes WHERE product_code = $1 OR component_code = $1)`, code,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("recipe reference check: %w", err)
	}
	return ok, nil
}
