package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/fabrica-api/internal/domain"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

type stockItemRepo struct{ h handle }

func (r *stockItemRepo) Create(ctx context.Context, item *entity.StockItem) error {
	return r.h.with(func(st *state) error {
		if _, ok := st.items[item.Code]; ok {
			return domain.ErrDuplicate
		}
		c := *item
		st.items[item.Code] = &c
		return nil
	})
}

func (r *stockItemRepo) GetByCode(ctx context.Context, code string) (*entity.StockItem, error) {
	var out *entity.StockItem
	err := r.h.with(func(st *state) error {
		if item, ok := st.items[code]; ok {
			c := *item
			out = &c
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByCode: la transacción ya tiene el mutex del almacén.
func (r *stockItemRepo) GetForUpdate(ctx context.Context, code string) (*entity.StockItem, error) {
	return r.GetByCode(ctx, code)
}

func (r *stockItemRepo) AddQuantity(ctx context.Context, code string, delta decimal.Decimal) error {
	return r.h.with(func(st *state) error {
		item, ok := st.items[code]
		if !ok {
			return domain.ErrNotFound
		}
		item.CurrentQty = item.CurrentQty.Add(delta)
		item.UpdatedAt = time.Now()
		return nil
	})
}

func (r *stockItemRepo) UpdateMeta(ctx context.Context, item *entity.StockItem) error {
	return r.h.with(func(st *state) error {
		cur, ok := st.items[item.Code]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Name = item.Name
		cur.MinQty = item.MinQty
		cur.Unit = item.Unit
		cur.SubstituteCode = item.SubstituteCode
		cur.UpdatedAt = item.UpdatedAt
		return nil
	})
}

func (r *stockItemRepo) List(ctx context.Context, kind string, limit, offset int) ([]*entity.StockItem, error) {
	var out []*entity.StockItem
	err := r.h.with(func(st *state) error {
		all := make([]*entity.StockItem, 0, len(st.items))
		for _, item := range st.items {
			if kind != "" && item.Kind != kind {
				continue
			}
			c := *item
			all = append(all, &c)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
		from, to := page(len(all), limit, offset)
		out = all[from:to]
		return nil
	})
	return out, err
}

func (r *stockItemRepo) Delete(ctx context.Context, code string) error {
	return r.h.with(func(st *state) error {
		if _, ok := st.items[code]; !ok {
			return domain.ErrNotFound
		}
		delete(st.items, code)
		return nil
	})
}

type stockMovementRepo struct{ h handle }

func (r *stockMovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	return r.h.with(func(st *state) error {
		c := *movement
		st.movements = append(st.movements, &c)
		return nil
	})
}

func (r *stockMovementRepo) ListByItem(ctx context.Context, itemCode string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.h.with(func(st *state) error {
		var all []*entity.StockMovement
		for i := len(st.movements) - 1; i >= 0; i-- {
			if st.movements[i].ItemCode == itemCode {
				c := *st.movements[i]
				all = append(all, &c)
			}
		}
		from, to := page(len(all), limit, offset)
		out = all[from:to]
		return nil
	})
	return out, err
}

func (r *stockMovementRepo) ListByRef(ctx context.Context, ref string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.h.with(func(st *state) error {
		for _, m := range st.movements {
			if m.Ref == ref {
				c := *m
				out = append(out, &c)
			}
		}
		return nil
	})
	return out, err
}

func (r *stockMovementRepo) HasMovements(ctx context.Context, itemCode string) (bool, error) {
	found := false
	err := r.h.with(func(st *state) error {
		for _, m := range st.movements {
			if m.ItemCode == itemCode {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *stockMovementRepo) SumByItem(ctx context.Context, itemCode string) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.h.with(func(st *state) error {
		for _, m := range st.movements {
			if m.ItemCode == itemCode {
				sum = sum.Add(m.QtyDelta)
			}
		}
		return nil
	})
	return sum, err
}

type recipeRepo struct{ h handle }

func copyRecipe(rec *entity.Recipe) *entity.Recipe {
	out := &entity.Recipe{
		ProductCode: strings.Clone(rec.ProductCode),
		Components:  make([]entity.RecipeComponent, len(rec.Components)),
	}
	for i, c := range rec.Components {
		out.Components[i] = entity.RecipeComponent{ComponentCode: strings.Clone(c.ComponentCode), QtyPerUnit: c.QtyPerUnit}
	}
	return out
}

func (r *recipeRepo) Get(ctx context.Context, productCode string) (*entity.Recipe, error) {
	var out *entity.Recipe
	err := r.h.with(func(st *state) error {
		if rec, ok := st.recipes[productCode]; ok {
			out = copyRecipe(rec)
		}
		return nil
	})
	return out, err
}

func (r *recipeRepo) ListAll(ctx context.Context) ([]*entity.Recipe, error) {
	var out []*entity.Recipe
	err := r.h.with(func(st *state) error {
		for _, rec := range st.recipes {
			out = append(out, copyRecipe(rec))
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ProductCode < out[j].ProductCode })
		return nil
	})
	return out, err
}

func (r *recipeRepo) Replace(ctx context.Context, recipe *entity.Recipe) error {
	return r.h.with(func(st *state) error {
		rec := copyRecipe(recipe)
		st.recipes[rec.ProductCode] = rec
		return nil
	})
}

func (r *recipeRepo) Delete(ctx context.Context, productCode string) error {
	return r.h.with(func(st *state) error {
		if _, ok := st.recipes[productCode]; !ok {
			return domain.ErrNotFound
		}
		delete(st.recipes, productCode)
		return nil
	})
}

func (r *recipeRepo) IsReferenced(ctx context.Context, code string) (bool, error) {
	found := false
	err := r.h.with(func(st *state) error {
		for _, rec := range st.recipes {
			if rec.ProductCode == code {
				found = true
				return nil
			}
			for _, c := range rec.Components {
				if c.ComponentCode == code {
					found = true
					return nil
				}
			}
		}
		return nil
	})
	return found, err
}
