package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/fabrica-api/internal/domain"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
)

type scanLogRepo struct{ h handle }

func (st *state) firstResolved(displayKey string) *entity.ScanLog {
	for _, l := range st.scanLogs {
		if l.DisplayKey == displayKey && entity.Resolved(l.Status) {
			return l
		}
	}
	return nil
}

func (r *scanLogRepo) Create(ctx context.Context, log *entity.ScanLog) error {
	return r.h.with(func(st *state) error {
		if entity.Resolved(log.Status) && st.firstResolved(log.DisplayKey) != nil {
			return domain.ErrDuplicate
		}
		c := *log
		st.scanLogs = append(st.scanLogs, &c)
		return nil
	})
}

func (r *scanLogRepo) GetByID(ctx context.Context, id string) (*entity.ScanLog, error) {
	var out *entity.ScanLog
	err := r.h.with(func(st *state) error {
		for _, l := range st.scanLogs {
			if l.ID == id {
				c := *l
				out = &c
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *scanLogRepo) FirstResolved(ctx context.Context, displayKey string) (*entity.ScanLog, error) {
	var out *entity.ScanLog
	err := r.h.with(func(st *state) error {
		if l := st.firstResolved(displayKey); l != nil {
			c := *l
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *scanLogRepo) FirstWithStatus(ctx context.Context, displayKey, status string) (*entity.ScanLog, error) {
	var out *entity.ScanLog
	err := r.h.with(func(st *state) error {
		for _, l := range st.scanLogs {
			if l.DisplayKey == displayKey && l.Status == status {
				c := *l
				out = &c
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *scanLogRepo) MarkAdjusted(ctx context.Context, id, displayKey, orderID, operator string) error {
	return r.h.with(func(st *state) error {
		var target *entity.ScanLog
		for _, l := range st.scanLogs {
			if l.ID == id {
				target = l
				break
			}
		}
		if target == nil {
			return domain.ErrNotFound
		}
		if other := st.firstResolved(displayKey); other != nil && other.ID != id {
			return domain.ErrDuplicate
		}
		target.Status = entity.ScanStatusAdjusted
		target.DisplayKey = displayKey
		target.OrderID = orderID
		target.Operator = operator
		return nil
	})
}

func (r *scanLogRepo) List(ctx context.Context, limit, offset int) ([]*entity.ScanLog, error) {
	var out []*entity.ScanLog
	err := r.h.with(func(st *state) error {
		all := make([]*entity.ScanLog, 0, len(st.scanLogs))
		for i := len(st.scanLogs) - 1; i >= 0; i-- {
			c := *st.scanLogs[i]
			all = append(all, &c)
		}
		from, to := page(len(all), limit, offset)
		out = all[from:to]
		return nil
	})
	return out, err
}

func (r *scanLogRepo) Delete(ctx context.Context, id string) error {
	return r.h.with(func(st *state) error {
		for i, l := range st.scanLogs {
			if l.ID == id {
				st.scanLogs = append(st.scanLogs[:i:i], st.scanLogs[i+1:]...)
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

type skuLinkRepo struct{ h handle }

func (r *skuLinkRepo) Upsert(ctx context.Context, link *entity.SkuLink) error {
	return r.h.with(func(st *state) error {
		c := *link
		st.skuLinks[link.ImportedSKU] = &c
		return nil
	})
}

func (r *skuLinkRepo) GetMaster(ctx context.Context, importedSKU string) (string, error) {
	master := ""
	err := r.h.with(func(st *state) error {
		if l, ok := st.skuLinks[importedSKU]; ok {
			master = l.MasterSKU
		}
		return nil
	})
	return master, err
}

func (r *skuLinkRepo) ListByMaster(ctx context.Context, masterSKU string) ([]string, error) {
	var out []string
	err := r.h.with(func(st *state) error {
		for imported, l := range st.skuLinks {
			if l.MasterSKU == masterSKU {
				out = append(out, imported)
			}
		}
		sort.Strings(out)
		return nil
	})
	return out, err
}

func (r *skuLinkRepo) List(ctx context.Context, limit, offset int) ([]*entity.SkuLink, error) {
	var out []*entity.SkuLink
	err := r.h.with(func(st *state) error {
		all := make([]*entity.SkuLink, 0, len(st.skuLinks))
		for _, l := range st.skuLinks {
			c := *l
			all = append(all, &c)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].ImportedSKU < all[j].ImportedSKU })
		from, to := page(len(all), limit, offset)
		out = all[from:to]
		return nil
	})
	return out, err
}

func (r *skuLinkRepo) Delete(ctx context.Context, importedSKU string) error {
	return r.h.with(func(st *state) error {
		if _, ok := st.skuLinks[importedSKU]; !ok {
			return domain.ErrNotFound
		}
		delete(st.skuLinks, importedSKU)
		return nil
	})
}

type operatorRepo struct{ h handle }

func (r *operatorRepo) Create(ctx context.Context, op *entity.Operator) error {
	return r.h.with(func(st *state) error {
		for _, o := range st.operators {
			if strings.EqualFold(o.Prefix, op.Prefix) {
				return domain.ErrDuplicate
			}
		}
		st.operators = append(st.operators, *op)
		return nil
	})
}

func (r *operatorRepo) List(ctx context.Context) ([]entity.Operator, error) {
	var out []entity.Operator
	err := r.h.with(func(st *state) error {
		out = append([]entity.Operator(nil), st.operators...)
		return nil
	})
	return out, err
}

func (r *operatorRepo) Delete(ctx context.Context, id string) error {
	return r.h.with(func(st *state) error {
		for i, o := range st.operators {
			if o.ID == id {
				st.operators = append(st.operators[:i:i], st.operators[i+1:]...)
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

type settingsRepo struct{ h handle }

func (r *settingsRepo) GetScanSettings(ctx context.Context) (*entity.ScanSettings, error) {
	var out *entity.ScanSettings
	err := r.h.with(func(st *state) error {
		if st.settings != nil {
			c := *st.settings
			c.ChannelMarkers = append([]entity.ChannelMarker(nil), st.settings.ChannelMarkers...)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *settingsRepo) SaveScanSettings(ctx context.Context, s *entity.ScanSettings) error {
	return r.h.with(func(st *state) error {
		c := *s
		c.ChannelMarkers = append([]entity.ChannelMarker(nil), s.ChannelMarkers...)
		st.settings = &c
		return nil
	})
}
