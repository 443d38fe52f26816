package ledger_test

import (
	"context"
	"testing"

	"github.com/jhoicas/fabrica-api/internal/application/ledger"
	"github.com/jhoicas/fabrica-api/internal/domain"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
	"github.com/jhoicas/fabrica-api/internal/infrastructure/memory"
	"github.com/jhoicas/fabrica-api/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

type fixture struct {
	store   *memory.Store
	repos   repository.Repositories
	ledger  *ledger.Ledger
	metrics *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	m := metrics.New(prometheus.NewRegistry())
	return &fixture{
		store:   store,
		repos:   store.Repositories(),
		ledger:  ledger.NewLedger(store, store.Repositories(), m),
		metrics: m,
	}
}

func (f *fixture) item(t *testing.T, code, kind string, qty int64) {
	t.Helper()
	require.NoError(t, f.repos.Items.Create(context.Background(), &entity.StockItem{Code: code, Name: "Ítem " + code, Kind: kind}))
	if qty != 0 {
		_, err := f.ledger.Adjust(context.Background(), ledger.AdjustInput{
			ItemCode: code, QtyDelta: d(qty), Origin: entity.OriginInventoryCount, Actor: "setup",
		})
		require.NoError(t, err)
	}
}

func (f *fixture) recipe(t *testing.T, product string, comps map[string]int64) {
	t.Helper()
	rec := &entity.Recipe{ProductCode: product}
	for c, q := range comps {
		rec.Components = append(rec.Components, entity.RecipeComponent{ComponentCode: c, QtyPerUnit: d(q)})
	}
	require.NoError(t, f.repos.Recipes.Replace(context.Background(), rec))
}

func (f *fixture) qty(t *testing.T, code string) decimal.Decimal {
	t.Helper()
	item, err := f.repos.Items.GetByCode(context.Background(), code)
	require.NoError(t, err)
	require.NotNil(t, item)
	return item.CurrentQty
}

func (f *fixture) assertConsistent(t *testing.T, codes ...string) {
	t.Helper()
	for _, c := range codes {
		audit, err := f.ledger.Audit(context.Background(), c)
		require.NoError(t, err)
		assert.True(t, audit.Consistent, "saldo de %s: caché %s, libro %s", c, audit.CachedQty, audit.LedgerQty)
	}
}

func TestAdjust_RegistraMovimientoYSaldo(t *testing.T) {
	f := newFixture(t)
	f.item(t, "A", entity.KindRawMaterial, 10)

	mov, err := f.ledger.Adjust(context.Background(), ledger.AdjustInput{
		ItemCode: "a", QtyDelta: d(-15), Origin: entity.OriginWeighing, Ref: "PESAJE-1", Actor: "ana",
	})
	require.NoError(t, err)
	assert.Equal(t, "A", mov.ItemCode)
	assert.Equal(t, "Ítem A", mov.ItemNameSnapshot)
	assert.True(t, f.qty(t, "A").Equal(d(-5)), "el saldo puede quedar negativo")
	f.assertConsistent(t, "A")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Movements().WithLabelValues(entity.OriginWeighing)))
}

func TestAdjust_Validaciones(t *testing.T) {
	f := newFixture(t)
	f.item(t, "A", entity.KindRawMaterial, 0)
	ctx := context.Background()

	_, err := f.ledger.Adjust(ctx, ledger.AdjustInput{ItemCode: "A", QtyDelta: decimal.Zero, Origin: entity.OriginManualAdjustment})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.ledger.Adjust(ctx, ledger.AdjustInput{ItemCode: "A", QtyDelta: d(1), Origin: "REGALO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.ledger.Adjust(ctx, ledger.AdjustInput{ItemCode: "NOPE", QtyDelta: d(1), Origin: entity.OriginManualAdjustment})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	movs, err := f.ledger.Movements(ctx, "A", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestProduce_EscenarioBasico(t *testing.T) {
	f := newFixture(t)
	f.item(t, "A", entity.KindRawMaterial, 100)
	f.item(t, "P", entity.KindFinishedProduct, 0)
	f.recipe(t, "P", map[string]int64{"A": 2})

	report, err := f.ledger.Produce(context.Background(), ledger.ProduceInput{ItemCode: "P", Quantity: d(5), Ref: "LOTE-1", Actor: "ana"})
	require.NoError(t, err)

	assert.True(t, f.qty(t, "A").Equal(d(90)))
	assert.True(t, f.qty(t, "P").Equal(d(5)))
	require.Len(t, report.Components, 1)
	assert.Equal(t, "A", report.Components[0].ItemCode)
	assert.True(t, report.Components[0].Consumed.Equal(d(10)))
	assert.False(t, report.Components[0].Short)
	assert.Len(t, report.Movements, 2)
	f.assertConsistent(t, "A", "P")
}

func TestProduce_IntermedioConRecetaPropia(t *testing.T) {
	f := newFixture(t)
	f.item(t, "HARINA", entity.KindRawMaterial, 100)
	f.item(t, "MASA", entity.KindIntermediate, 0)
	f.item(t, "PIZZA", entity.KindFinishedProduct, 0)
	f.recipe(t, "MASA", map[string]int64{"HARINA": 3})
	f.recipe(t, "PIZZA", map[string]int64{"MASA": 1})

	_, err := f.ledger.Produce(context.Background(), ledger.ProduceInput{ItemCode: "PIZZA", Quantity: d(2)})
	require.NoError(t, err)

	assert.True(t, f.qty(t, "PIZZA").Equal(d(2)))
	assert.True(t, f.qty(t, "MASA").Equal(d(-2)), "el intermedio se consume")
	assert.True(t, f.qty(t, "HARINA").Equal(d(94)), "y también se expande")
	f.assertConsistent(t, "PIZZA", "MASA", "HARINA")
}

func TestProduce_FaltanteInformaSustituto(t *testing.T) {
	f := newFixture(t)
	f.item(t, "B", entity.KindRawMaterial, 50)
	require.NoError(t, f.repos.Items.Create(context.Background(), &entity.StockItem{Code: "A", Kind: entity.KindRawMaterial, SubstituteCode: "B"}))
	f.item(t, "P", entity.KindFinishedProduct, 0)
	f.recipe(t, "P", map[string]int64{"A": 2})

	report, err := f.ledger.Produce(context.Background(), ledger.ProduceInput{ItemCode: "P", Quantity: d(5)})
	require.NoError(t, err)

	require.Len(t, report.Components, 1)
	usage := report.Components[0]
	assert.True(t, usage.Short)
	assert.True(t, usage.BalanceAfter.Equal(d(-10)))
	assert.Equal(t, "B", usage.SubstituteCode)
	require.NotNil(t, usage.SubstituteQty)
	assert.True(t, usage.SubstituteQty.Equal(d(50)))
	assert.True(t, f.qty(t, "B").Equal(d(50)), "el consumo no se redirige al sustituto")
}

func TestProduce_MateriaPrimaNoSeProduce(t *testing.T) {
	f := newFixture(t)
	f.item(t, "A", entity.KindRawMaterial, 0)

	_, err := f.ledger.Produce(context.Background(), ledger.ProduceInput{ItemCode: "A", Quantity: d(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.ledger.Produce(context.Background(), ledger.ProduceInput{ItemCode: "A", Quantity: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProduce_ComponenteInexistenteRevierteTodo(t *testing.T) {
	f := newFixture(t)
	f.item(t, "A", entity.KindRawMaterial, 100)
	f.item(t, "P", entity.KindFinishedProduct, 0)
	f.recipe(t, "P", map[string]int64{"A": 1, "ZZ": 1})

	_, err := f.ledger.Produce(context.Background(), ledger.ProduceInput{ItemCode: "P", Quantity: d(3)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.True(t, f.qty(t, "P").IsZero())
	assert.True(t, f.qty(t, "A").Equal(d(100)))
	f.assertConsistent(t, "A", "P")
}

func TestProduce_RecetaCiclica(t *testing.T) {
	f := newFixture(t)
	f.item(t, "P", entity.KindFinishedProduct, 0)
	f.item(t, "Q", entity.KindIntermediate, 0)
	f.recipe(t, "P", map[string]int64{"Q": 1})
	f.recipe(t, "Q", map[string]int64{"P": 1})

	_, err := f.ledger.Produce(context.Background(), ledger.ProduceInput{ItemCode: "P", Quantity: d(1)})
	assert.ErrorIs(t, err, domain.ErrCyclicRecipe)
	assert.True(t, f.qty(t, "P").IsZero())
}

func TestExplode_VistaPreviaNoTocaInventario(t *testing.T) {
	f := newFixture(t)
	f.item(t, "A", entity.KindRawMaterial, 7)
	f.item(t, "P", entity.KindFinishedProduct, 0)
	f.recipe(t, "P", map[string]int64{"A": 2})

	needs, err := f.ledger.Explode(context.Background(), "P", d(4))
	require.NoError(t, err)
	assert.True(t, needs["A"].Equal(d(8)))
	assert.True(t, f.qty(t, "A").Equal(d(7)))
}

func TestAudit_ItemInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.Audit(context.Background(), "X")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
