package memory

import (
	"context"
	"time"

	"github.com/jhoicas/fabrica-api/internal/domain"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
)

type orderRepo struct{ h handle }

func (st *state) findOrder(orderID, sku string) *entity.Order {
	for _, o := range st.orders {
		if o.OrderID == orderID && o.SKU == sku {
			return o
		}
	}
	return nil
}

func (r *orderRepo) Create(ctx context.Context, order *entity.Order) error {
	return r.h.with(func(st *state) error {
		if st.findOrder(order.OrderID, order.SKU) != nil {
			return domain.ErrDuplicate
		}
		c := *order
		st.orders = append(st.orders, &c)
		return nil
	})
}

func (r *orderRepo) Get(ctx context.Context, orderID, sku string) (*entity.Order, error) {
	var out *entity.Order
	err := r.h.with(func(st *state) error {
		if o := st.findOrder(orderID, sku); o != nil {
			c := *o
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) FindByCode(ctx context.Context, code string) ([]*entity.Order, error) {
	var out []*entity.Order
	code = entity.NormalizeCode(code)
	err := r.h.with(func(st *state) error {
		for _, o := range st.orders {
			if entity.NormalizeCode(o.OrderID) == code || (o.Tracking != "" && entity.NormalizeCode(o.Tracking) == code) {
				c := *o
				out = append(out, &c)
			}
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) UpdateStatus(ctx context.Context, orderID, sku, status string) error {
	return r.h.with(func(st *state) error {
		o := st.findOrder(orderID, sku)
		if o == nil {
			return domain.ErrNotFound
		}
		o.Status = status
		o.UpdatedAt = time.Now()
		return nil
	})
}

func (r *orderRepo) UpdateChannel(ctx context.Context, orderID, sku, channel string) error {
	return r.h.with(func(st *state) error {
		o := st.findOrder(orderID, sku)
		if o == nil {
			return domain.ErrNotFound
		}
		o.Channel = channel
		o.UpdatedAt = time.Now()
		return nil
	})
}

func (r *orderRepo) HasOpenForSKUs(ctx context.Context, skus []string) (bool, error) {
	found := false
	err := r.h.with(func(st *state) error {
		set := make(map[string]struct{}, len(skus))
		for _, s := range skus {
			set[entity.NormalizeCode(s)] = struct{}{}
		}
		for _, o := range st.orders {
			if _, ok := set[entity.NormalizeCode(o.SKU)]; ok && o.Open() {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}
