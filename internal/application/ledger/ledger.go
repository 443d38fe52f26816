package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/fabrica-api/internal/domain"
	"github.com/jhoicas/fabrica-api/internal/domain/bom"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
	"github.com/jhoicas/fabrica-api/internal/infrastructure/metrics"
	"github.com/shopspring/decimal"
)

// Ledger es el único punto de escritura de saldos: cada ajuste inserta un movimiento y
// actualiza el saldo en caché dentro de la misma transacción (bloqueando la fila del ítem).
type Ledger struct {
	txRunner TxRunner
	repos    repository.Repositories
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewLedger construye el caso de uso. repos se usa solo para lecturas fuera de transacción.
func NewLedger(txRunner TxRunner, repos repository.Repositories, m *metrics.Metrics) *Ledger {
	return &Ledger{
		txRunner: txRunner,
		repos:    repos,
		metrics:  m,
		now:      time.Now,
	}
}

// AdjustInput entrada de un ajuste de saldo.
type AdjustInput struct {
	ItemCode string
	QtyDelta decimal.Decimal
	Origin   string
	Ref      string
	Actor    string
}

// ProduceInput entrada de una orden de producción.
type ProduceInput struct {
	ItemCode string
	Quantity decimal.Decimal
	Ref      string
	Actor    string
}

// ComponentUsage consumo de un componente en una producción.
type ComponentUsage struct {
	ItemCode       string
	Consumed       decimal.Decimal
	BalanceAfter   decimal.Decimal
	Short          bool // el saldo previo no alcanzaba para el consumo
	SubstituteCode string
	SubstituteQty  *decimal.Decimal
}

// ProductionReport resultado de Produce. El consumo siempre se descuenta del componente
// primario; el sustituto solo se informa.
type ProductionReport struct {
	ItemCode   string
	Quantity   decimal.Decimal
	Components []ComponentUsage
	Movements  []*entity.StockMovement
}

// Adjust registra un movimiento y actualiza el saldo del ítem de forma atómica.
// El saldo puede quedar negativo.
func (l *Ledger) Adjust(ctx context.Context, in AdjustInput) (*entity.StockMovement, error) {
	var mov *entity.StockMovement
	err := l.txRunner.Run(ctx, func(r repository.Repositories) error {
		m, err := l.AdjustInTx(ctx, r, in, l.now())
		mov = m
		return err
	})
	if err != nil {
		return nil, err
	}
	l.Committed(mov)
	return mov, nil
}

// Produce suma quantity al ítem producido y descuenta sus componentes (explosión recursiva
// de la receta) en una sola transacción.
func (l *Ledger) Produce(ctx context.Context, in ProduceInput) (*ProductionReport, error) {
	var report *ProductionReport
	err := l.txRunner.Run(ctx, func(r repository.Repositories) error {
		rep, err := l.ProduceInTx(ctx, r, in, l.now())
		report = rep
		return err
	})
	if err != nil {
		return nil, err
	}
	l.Committed(report.Movements...)
	return report, nil
}

// Committed informa movimientos ya confirmados (métricas). Los llamadores que componen
// AdjustInTx/ProduceInTx en su propia transacción deben invocarlo después del Commit.
func (l *Ledger) Committed(movs ...*entity.StockMovement) {
	for _, m := range movs {
		if m != nil {
			l.metrics.MovementRecorded(m.Origin)
		}
	}
}

// AdjustInTx ejecuta el ajuste usando los repositorios proporcionados (misma transacción del caller).
func (l *Ledger) AdjustInTx(ctx context.Context, r repository.Repositories, in AdjustInput, now time.Time) (*entity.StockMovement, error) {
	_, mov, err := l.adjust(ctx, r, in, now)
	return mov, err
}

func (l *Ledger) adjust(ctx context.Context, r repository.Repositories, in AdjustInput, now time.Time) (*entity.StockItem, *entity.StockMovement, error) {
	code := entity.NormalizeCode(in.ItemCode)
	if code == "" || in.QtyDelta.IsZero() || !entity.ValidOrigin(in.Origin) {
		return nil, nil, domain.ErrInvalidInput
	}
	// Bloquea la fila del ítem (SELECT FOR UPDATE) para serializar ajustes concurrentes
	item, err := r.Items.GetForUpdate(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, code)
	}
	mov := &entity.StockMovement{
		ID:               uuid.New().String(),
		ItemCode:         item.Code,
		ItemNameSnapshot: item.Name,
		Origin:           in.Origin,
		QtyDelta:         in.QtyDelta,
		Ref:              in.Ref,
		Actor:            in.Actor,
		CreatedAt:        now,
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, nil, err
	}
	if err := r.Items.AddQuantity(ctx, item.Code, in.QtyDelta); err != nil {
		return nil, nil, err
	}
	item.CurrentQty = item.CurrentQty.Add(in.QtyDelta)
	return item, mov, nil
}

// ProduceInTx ejecuta la producción usando los repositorios proporcionados (misma transacción del caller).
func (l *Ledger) ProduceInTx(ctx context.Context, r repository.Repositories, in ProduceInput, now time.Time) (*ProductionReport, error) {
	code := entity.NormalizeCode(in.ItemCode)
	if code == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	item, err := r.Items.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, code)
	}
	if !entity.Producible(item.Kind) {
		return nil, fmt.Errorf("%w: %s no es producible (%s)", domain.ErrInvalidInput, code, item.Kind)
	}

	recipes, err := r.Recipes.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	needs, err := bom.Explode(bom.NewMapBook(recipes), code, in.Quantity)
	if err != nil {
		return nil, err
	}

	report := &ProductionReport{ItemCode: code, Quantity: in.Quantity}

	// 1) Entrada del producto terminado/intermedio
	mov, err := l.AdjustInTx(ctx, r, AdjustInput{
		ItemCode: code,
		QtyDelta: in.Quantity,
		Origin:   entity.OriginProduction,
		Ref:      in.Ref,
		Actor:    in.Actor,
	}, now)
	if err != nil {
		return nil, err
	}
	report.Movements = append(report.Movements, mov)

	// 2) Consumo de componentes, en orden de código para un orden de bloqueo estable
	codes := make([]string, 0, len(needs))
	for c := range needs {
		codes = append(codes, c)
	}
	sort.Strings(codes)

	for _, compCode := range codes {
		need := needs[compCode]
		comp, mov, err := l.adjust(ctx, r, AdjustInput{
			ItemCode: compCode,
			QtyDelta: need.Neg(),
			Origin:   entity.OriginProductionConsumption,
			Ref:      in.Ref,
			Actor:    in.Actor,
		}, now)
		if err != nil {
			return nil, err
		}
		report.Movements = append(report.Movements, mov)

		usage := ComponentUsage{
			ItemCode:     compCode,
			Consumed:     need,
			BalanceAfter: comp.CurrentQty,
			Short:        comp.CurrentQty.LessThan(decimal.Zero),
		}
		// El sustituto se consulta para informar, pero el consumo no se redirige.
		if usage.Short && comp.SubstituteCode != "" {
			sub, err := r.Items.GetByCode(ctx, comp.SubstituteCode)
			if err != nil {
				return nil, err
			}
			if sub != nil {
				qty := sub.CurrentQty
				usage.SubstituteCode = sub.Code
				usage.SubstituteQty = &qty
			}
		}
		report.Components = append(report.Components, usage)
	}
	return report, nil
}

// Explode devuelve la explosión de la receta sin tocar el inventario (vista previa).
func (l *Ledger) Explode(ctx context.Context, itemCode string, quantity decimal.Decimal) (map[string]decimal.Decimal, error) {
	if quantity.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	recipes, err := l.repos.Recipes.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return bom.Explode(bom.NewMapBook(recipes), itemCode, quantity)
}
