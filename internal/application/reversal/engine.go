package reversal

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/fabrica-api/internal/application/dto"
	"github.com/jhoicas/fabrica-api/internal/application/ledger"
	"github.com/jhoicas/fabrica-api/internal/domain"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
	"github.com/jhoicas/fabrica-api/internal/infrastructure/metrics"
	"github.com/jhoicas/fabrica-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// Engine aplica transacciones compensatorias: cancelación de escaneos, devoluciones y
// conciliación de conteos de inventario.
type Engine struct {
	txRunner ledger.TxRunner
	ledger   *ledger.Ledger
	metrics  *metrics.Metrics
	log      *logger.Logger
	now      func() time.Time
}

// NewEngine construye el motor de reversión.
func NewEngine(txRunner ledger.TxRunner, l *ledger.Ledger, m *metrics.Metrics, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		txRunner: txRunner,
		ledger:   l,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// CancelScan devuelve a NORMAL las líneas BIPADO del escaneo, repone una unidad del SKU
// maestro por línea (CANCEL_REVERT) y borra la entrada del registro. Un escaneo inexistente
// (ya cancelado) es un no-op.
func (e *Engine) CancelScan(ctx context.Context, scanID, actor string) (*dto.CancelScanResponse, error) {
	out := &dto.CancelScanResponse{ScanID: scanID}
	var (
		movements []*entity.StockMovement
		entry     *entity.ScanLog
	)
	err := e.txRunner.Run(ctx, func(r repository.Repositories) error {
		movements = nil
		out.RevertedLines = 0

		var err error
		entry, err = r.ScanLogs.GetByID(ctx, scanID)
		if err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		out.Found = true

		// Solo un escaneo OK aplicó efectos sobre pedidos e inventario.
		if entry.Status == entity.ScanStatusOK {
			orders, err := r.Orders.FindByCode(ctx, entry.DisplayKey)
			if err != nil {
				return err
			}
			ref := "CANCEL:" + scanID
			for _, o := range orders {
				if o.Status != entity.OrderStatusBipado {
					continue
				}
				if err := r.Orders.UpdateStatus(ctx, o.OrderID, o.SKU, entity.OrderStatusNormal); err != nil {
					return err
				}
				master, err := ledger.MasterCode(ctx, r, o.SKU)
				if err != nil {
					return err
				}
				mov, err := e.ledger.AdjustInTx(ctx, r, ledger.AdjustInput{
					ItemCode: master,
					QtyDelta: decimal.NewFromInt(1),
					Origin:   entity.OriginCancelRevert,
					Ref:      ref,
					Actor:    actor,
				}, e.now())
				if err != nil {
					return err
				}
				movements = append(movements, mov)
				out.RevertedLines++
			}
		}
		return r.ScanLogs.Delete(ctx, scanID)
	})
	if err != nil {
		return nil, err
	}

	e.ledger.Committed(movements...)
	switch {
	case !out.Found:
		e.log.Debug().Str("scan_id", scanID).Msg("cancelación de escaneo inexistente ignorada")
	case entry.Status == entity.ScanStatusOK && out.RevertedLines == 0:
		e.metrics.NoopReversal()
		e.log.Warn().
			Str("scan_id", scanID).
			Str("display_key", entry.DisplayKey).
			Str("actor", actor).
			Msg("escaneo cancelado sin líneas BIPADO: no se revirtió stock")
	default:
		e.log.Info().Str("scan_id", scanID).Int("lines", out.RevertedLines).Str("actor", actor).Msg("escaneo cancelado")
	}
	return out, nil
}

// BulkSetInitialStock lleva cada ítem al saldo objetivo con un movimiento INVENTORY_COUNT por
// la diferencia. Cada ítem va en su propia transacción; los errores de negocio se reportan
// y no detienen el lote. Reenviar los mismos objetivos no genera movimientos.
func (e *Engine) BulkSetInitialStock(ctx context.Context, targets []dto.StockTarget, actor string) (*dto.BulkStockReport, error) {
	report := &dto.BulkStockReport{Failed: []dto.BulkStockFailure{}}
	ref := "COUNT:" + uuid.New().String()

	for _, t := range targets {
		code := entity.NormalizeCode(t.ItemCode)
		var (
			mov     *entity.StockMovement
			changed bool
		)
		err := e.txRunner.Run(ctx, func(r repository.Repositories) error {
			mov, changed = nil, false
			if code == "" {
				return domain.ErrInvalidInput
			}
			item, err := r.Items.GetForUpdate(ctx, code)
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, code)
			}
			delta := t.NewQty.Sub(item.CurrentQty)
			if delta.IsZero() {
				return nil
			}
			mov, err = e.ledger.AdjustInTx(ctx, r, ledger.AdjustInput{
				ItemCode: code,
				QtyDelta: delta,
				Origin:   entity.OriginInventoryCount,
				Ref:      ref,
				Actor:    actor,
			}, e.now())
			changed = err == nil
			return err
		})
		if err != nil {
			if !domain.IsBusiness(err) {
				return nil, err
			}
			report.Failed = append(report.Failed, dto.BulkStockFailure{ItemCode: t.ItemCode, Reason: err.Error()})
			continue
		}
		if changed {
			e.ledger.Committed(mov)
			report.Updated++
		} else {
			report.Unchanged++
		}
	}

	e.log.Info().
		Str("ref", ref).
		Int("updated", report.Updated).
		Int("unchanged", report.Unchanged).
		Int("failed", len(report.Failed)).
		Str("actor", actor).
		Msg("conciliación de inventario aplicada")
	return report, nil
}

func returnRef(orderID, sku string) string {
	return "RETURN:" + orderID + ":" + sku
}

// RegisterReturn marca la línea como DEVOLVIDO y, si restock, reingresa una unidad del SKU maestro.
func (e *Engine) RegisterReturn(ctx context.Context, orderID, sku string, restock bool, actor string) error {
	var mov *entity.StockMovement
	err := e.txRunner.Run(ctx, func(r repository.Repositories) error {
		mov = nil
		order, err := r.Orders.Get(ctx, orderID, sku)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("%w: pedido %s/%s", domain.ErrNotFound, orderID, sku)
		}
		if !entity.CanTransition(order.Status, entity.OrderStatusDevolvido) {
			return fmt.Errorf("%w: pedido %s/%s en estado %s", domain.ErrConflict, orderID, sku, order.Status)
		}
		if err := r.Orders.UpdateStatus(ctx, orderID, sku, entity.OrderStatusDevolvido); err != nil {
			return err
		}
		if !restock {
			return nil
		}
		master, err := ledger.MasterCode(ctx, r, sku)
		if err != nil {
			return err
		}
		mov, err = e.ledger.AdjustInTx(ctx, r, ledger.AdjustInput{
			ItemCode: master,
			QtyDelta: decimal.NewFromInt(1),
			Origin:   entity.OriginReturnEntry,
			Ref:      returnRef(orderID, sku),
			Actor:    actor,
		}, e.now())
		return err
	})
	if err != nil {
		return err
	}
	e.ledger.Committed(mov)
	return nil
}

// RemoveReturn deshace una devolución: la línea vuelve a NORMAL y se compensa el neto de los
// movimientos registrados bajo la referencia de la devolución. Si la línea ya no está
// DEVOLVIDO no hace nada.
func (e *Engine) RemoveReturn(ctx context.Context, orderID, sku, actor string) error {
	var movements []*entity.StockMovement
	err := e.txRunner.Run(ctx, func(r repository.Repositories) error {
		movements = nil
		order, err := r.Orders.Get(ctx, orderID, sku)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("%w: pedido %s/%s", domain.ErrNotFound, orderID, sku)
		}
		if order.Status != entity.OrderStatusDevolvido {
			return nil
		}
		if err := r.Orders.UpdateStatus(ctx, orderID, sku, entity.OrderStatusNormal); err != nil {
			return err
		}

		ref := returnRef(orderID, sku)
		recorded, err := r.Movements.ListByRef(ctx, ref)
		if err != nil {
			return err
		}
		net := make(map[string]decimal.Decimal)
		for _, m := range recorded {
			net[m.ItemCode] = net[m.ItemCode].Add(m.QtyDelta)
		}
		codes := make([]string, 0, len(net))
		for c, q := range net {
			if !q.IsZero() {
				codes = append(codes, c)
			}
		}
		sort.Strings(codes)
		for _, c := range codes {
			mov, err := e.ledger.AdjustInTx(ctx, r, ledger.AdjustInput{
				ItemCode: c,
				QtyDelta: net[c].Neg(),
				Origin:   entity.OriginReturnRevert,
				Ref:      ref,
				Actor:    actor,
			}, e.now())
			if err != nil {
				return err
			}
			movements = append(movements, mov)
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.ledger.Committed(movements...)
	return nil
}
