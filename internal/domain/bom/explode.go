package bom

import (
	"fmt"
	"strings"

	"github.com/jhoicas/fabrica-api/internal/domain"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Book fuente de recetas para la explosión. Devuelve nil si el código no tiene receta.
type Book interface {
	Components(code string) []entity.RecipeComponent
}

// MapBook Book en memoria indexado por código normalizado.
type MapBook map[string][]entity.RecipeComponent

// NewMapBook construye el índice a partir de una lista de recetas.
func NewMapBook(recipes []*entity.Recipe) MapBook {
	b := make(MapBook, len(recipes))
	for _, r := range recipes {
		b[entity.NormalizeCode(r.ProductCode)] = r.Components
	}
	return b
}

// Components implementa Book.
func (b MapBook) Components(code string) []entity.RecipeComponent {
	return b[entity.NormalizeCode(code)]
}

// Explode expande recursivamente la receta de itemCode para quantity unidades y devuelve
// la cantidad total requerida por componente (agregada por código normalizado).
//
// Un componente intermedio se acumula con su propio consumo y además se expande con su receta.
// Un código sin receta no aporta nada. Es una función pura: no toca el inventario.
// Si la receta vuelve sobre un código que ya está en el camino actual devuelve ErrCyclicRecipe.
func Explode(book Book, itemCode string, quantity decimal.Decimal) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	if quantity.IsZero() {
		return out, nil
	}
	root := entity.NormalizeCode(itemCode)
	path := []string{root}
	onPath := map[string]bool{root: true}
	if err := expand(book, root, quantity, out, path, onPath); err != nil {
		return nil, err
	}
	return out, nil
}

func expand(
	book Book,
	code string,
	qty decimal.Decimal,
	out map[string]decimal.Decimal,
	path []string,
	onPath map[string]bool,
) error {
	for _, c := range book.Components(code) {
		compCode := entity.NormalizeCode(c.ComponentCode)
		required := qty.Mul(c.QtyPerUnit)
		if required.IsZero() {
			continue
		}
		if onPath[compCode] {
			return fmt.Errorf("%w: %s", domain.ErrCyclicRecipe, strings.Join(append(path, compCode), " -> "))
		}
		out[compCode] = out[compCode].Add(required)

		if len(book.Components(compCode)) == 0 {
			continue
		}
		onPath[compCode] = true
		err := expand(book, compCode, required, out, append(path, compCode), onPath)
		delete(onPath, compCode)
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate verifica que la receta de productCode (tal como la describe book) no forme ciclos.
func Validate(book Book, productCode string) error {
	_, err := Explode(book, productCode, decimal.NewFromInt(1))
	return err
}
