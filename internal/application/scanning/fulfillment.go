package scanning

import (
	"context"
	"fmt"
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

// Modos de despacho.
const (
	ModeStock      = "STOCK"      // descuenta el producto terminado
	ModeProduction = "PRODUCTION" // produce 1 unidad (consume receta) y la descuenta
)

// HandleScanInput entrada de HandleScan.
type HandleScanInput struct {
	ResolveInput
	Mode string
}

// Fulfillment orquesta escaneo, marcado del pedido y efectos en inventario.
type Fulfillment struct {
	resolver *Resolver
	ledger   *ledger.Ledger
	txRunner ledger.TxRunner
	metrics  *metrics.Metrics
	log      *logger.Logger
}

// NewFulfillment construye el orquestador.
func NewFulfillment(resolver *Resolver, l *ledger.Ledger, txRunner ledger.TxRunner, m *metrics.Metrics, log *logger.Logger) *Fulfillment {
	if log == nil {
		log = logger.Nop()
	}
	return &Fulfillment{
		resolver: resolver,
		ledger:   l,
		txRunner: txRunner,
		metrics:  m,
		log:      log,
	}
}

// HandleScan resuelve el código y, si es OK, marca las líneas como BIPADO y aplica el
// descuento (y la producción en modo PRODUCTION) en la misma transacción. Ante un error de
// negocio nada de eso queda escrito: se registra una entrada ERROR aparte y el resultado
// lleva status ERROR. Los fallos de infraestructura se devuelven como error.
func (f *Fulfillment) HandleScan(ctx context.Context, in HandleScanInput) (*dto.ScanResult, error) {
	start := time.Now()
	if in.Mode != ModeStock && in.Mode != ModeProduction {
		res := &dto.ScanResult{
			Status:    entity.ScanStatusError,
			Message:   fmt.Sprintf("%s: modo %q desconocido", domain.ErrInvalidInput, in.Mode),
			InputCode: in.Code,
		}
		f.metrics.ObserveScan("fulfill", res.Status, time.Since(start))
		return res, nil
	}

	p, res, err := f.resolver.prepare(ctx, in.ResolveInput)
	if err != nil {
		return nil, err
	}
	if res != nil {
		f.metrics.ObserveScan("fulfill", res.Status, time.Since(start))
		return res, nil
	}

	unlock := f.resolver.lock(ctx, p.code)
	defer unlock()

	var movements []*entity.StockMovement
	err = f.txRunner.Run(ctx, func(r repository.Repositories) error {
		movements = nil
		out, orders, err := f.resolver.resolveInTx(ctx, r, p)
		if err != nil {
			return err
		}
		res = out
		if out.Status != entity.ScanStatusOK {
			return nil
		}
		movs, err := f.fulfill(ctx, r, in.Mode, out.ScanID, p.operator, orders)
		movements = movs
		return err
	})
	if err != nil {
		if !domain.IsBusiness(err) {
			return nil, err
		}
		return f.fail(ctx, p, err, start)
	}

	f.ledger.Committed(movements...)
	f.metrics.ObserveScan("fulfill", res.Status, time.Since(start))
	f.log.Debug().
		Str("display_key", res.DisplayKey).
		Str("status", res.Status).
		Str("operator", res.ResolvedOperator).
		Int("movements", len(movements)).
		Msg("escaneo procesado")
	return res, nil
}

// fulfill marca cada línea como BIPADO y aplica los efectos de inventario de su SKU maestro.
func (f *Fulfillment) fulfill(ctx context.Context, r repository.Repositories, mode, scanID, operator string, orders []*entity.Order) ([]*entity.StockMovement, error) {
	var movements []*entity.StockMovement
	ref := "SCAN:" + scanID
	now := f.resolver.now()
	one := decimal.NewFromInt(1)

	for _, o := range orders {
		if !entity.CanTransition(o.Status, entity.OrderStatusBipado) {
			return nil, fmt.Errorf("%w: pedido %s/%s en estado %s", domain.ErrConflict, o.OrderID, o.SKU, o.Status)
		}
		if err := r.Orders.UpdateStatus(ctx, o.OrderID, o.SKU, entity.OrderStatusBipado); err != nil {
			return nil, err
		}

		master, err := ledger.MasterCode(ctx, r, o.SKU)
		if err != nil {
			return nil, err
		}

		if mode == ModeProduction {
			report, err := f.ledger.ProduceInTx(ctx, r, ledger.ProduceInput{
				ItemCode: master,
				Quantity: one,
				Ref:      ref,
				Actor:    operator,
			}, now)
			if err != nil {
				return nil, err
			}
			movements = append(movements, report.Movements...)
		}

		mov, err := f.ledger.AdjustInTx(ctx, r, ledger.AdjustInput{
			ItemCode: master,
			QtyDelta: one.Neg(),
			Origin:   entity.OriginScanDeduction,
			Ref:      ref,
			Actor:    operator,
		}, now)
		if err != nil {
			return nil, err
		}
		movements = append(movements, mov)
	}
	return movements, nil
}

// fail registra la entrada ERROR en una transacción propia y devuelve el resultado ERROR.
func (f *Fulfillment) fail(ctx context.Context, p *prepared, cause error, start time.Time) (*dto.ScanResult, error) {
	entry := &entity.ScanLog{
		ID:         uuid.New().String(),
		DisplayKey: p.code,
		InputCode:  p.input,
		Status:     entity.ScanStatusError,
		Operator:   p.operator,
		Device:     p.device,
		Channel:    p.channel,
		Message:    cause.Error(),
		CreatedAt:  f.resolver.now(),
	}
	err := f.txRunner.Run(ctx, func(r repository.Repositories) error {
		return r.ScanLogs.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	f.metrics.FulfillmentFailed()
	f.metrics.ObserveScan("fulfill", entity.ScanStatusError, time.Since(start))
	f.log.Warn().Err(cause).Str("code", p.code).Str("operator", p.operator).Msg("despacho revertido")
	return &dto.ScanResult{
		Status:           entity.ScanStatusError,
		Message:          cause.Error(),
		InputCode:        p.input,
		DisplayKey:       p.code,
		ResolvedOperator: p.operator,
		Channel:          p.channel,
		ScanID:           entry.ID,
	}, nil
}
