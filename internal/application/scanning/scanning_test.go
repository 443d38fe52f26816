package scanning_test

import (
	"context"
	"sync"
	"testing"

	"github.com/jhoicas/fabrica-api/internal/application/ledger"
	"github.com/jhoicas/fabrica-api/internal/application/scanning"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
	"github.com/jhoicas/fabrica-api/internal/infrastructure/memory"
	"github.com/jhoicas/fabrica-api/internal/infrastructure/metrics"
	"github.com/jhoicas/fabrica-api/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

type fixture struct {
	repos       repository.Repositories
	ledger      *ledger.Ledger
	resolver    *scanning.Resolver
	fulfillment *scanning.Fulfillment
	metrics     *metrics.Metrics
}

func newFixture(t *testing.T, defaults entity.ScanSettings) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	m := metrics.New(prometheus.NewRegistry())
	l := ledger.NewLedger(store, repos, m)
	resolver := scanning.NewResolver(store, repos, memory.NewKeyedLocker(), defaults, m, logger.Nop())
	return &fixture{
		repos:       repos,
		ledger:      l,
		resolver:    resolver,
		fulfillment: scanning.NewFulfillment(resolver, l, store, m, logger.Nop()),
		metrics:     m,
	}
}

func (f *fixture) item(t *testing.T, code, kind string, qty int64) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.repos.Items.Create(ctx, &entity.StockItem{Code: code, Name: code, Kind: kind}))
	if qty != 0 {
		_, err := f.ledger.Adjust(ctx, ledger.AdjustInput{ItemCode: code, QtyDelta: d(qty), Origin: entity.OriginInventoryCount})
		require.NoError(t, err)
	}
}

func (f *fixture) order(t *testing.T, orderID, sku, tracking, channel string) {
	t.Helper()
	require.NoError(t, f.repos.Orders.Create(context.Background(), &entity.Order{
		OrderID: orderID, SKU: sku, Tracking: tracking, Channel: channel, Status: entity.OrderStatusNormal,
	}))
}

func (f *fixture) qty(t *testing.T, code string) decimal.Decimal {
	t.Helper()
	item, err := f.repos.Items.GetByCode(context.Background(), code)
	require.NoError(t, err)
	require.NotNil(t, item)
	return item.CurrentQty
}

func (f *fixture) status(t *testing.T, orderID, sku string) string {
	t.Helper()
	o, err := f.repos.Orders.Get(context.Background(), orderID, sku)
	require.NoError(t, err)
	require.NotNil(t, o)
	return o.Status
}

func (f *fixture) logs(t *testing.T) []*entity.ScanLog {
	t.Helper()
	logs, err := f.resolver.List(context.Background(), 100, 0)
	require.NoError(t, err)
	return logs
}

func stockScan(code string) scanning.HandleScanInput {
	return scanning.HandleScanInput{
		ResolveInput: scanning.ResolveInput{Code: code, SessionActor: "sesion", Device: "pistola-1"},
		Mode:         scanning.ModeStock,
	}
}

func TestResolve_OKYLuegoDuplicado(t *testing.T) {
	f := newFixture(t, entity.ScanSettings{})
	f.order(t, "P1", "S1", "TRK1", "SHOP")
	f.order(t, "P1", "S2", "TRK1", "SHOP")
	ctx := context.Background()

	res, err := f.resolver.Resolve(ctx, scanning.ResolveInput{Code: "  p1 ", SessionActor: "ana", Device: "d1"})
	require.NoError(t, err)
	assert.Equal(t, entity.ScanStatusOK, res.Status)
	assert.Equal(t, "P1", res.DisplayKey)
	assert.Len(t, res.MatchedOrderKeys, 2)
	assert.Equal(t, "ana", res.ResolvedOperator)
	assert.NotEmpty(t, res.ScanID)

	// Por tracking se llega al mismo pedido: duplicado con atribución del primero
	dup, err := f.resolver.Resolve(ctx, scanning.ResolveInput{Code: "trk1", SessionActor: "bruno", Device: "d2"})
	require.NoError(t, err)
	assert.Equal(t, entity.ScanStatusDuplicate, dup.Status)
	require.NotNil(t, dup.FirstScan)
	assert.Equal(t, res.ScanID, dup.FirstScan.ScanID)
	assert.Equal(t, "ana", dup.FirstScan.Operator)
	assert.Equal(t, "d1", dup.FirstScan.Device)

	assert.Len(t, f.logs(t), 1, "el DUPLICATE no se persiste")
}

func TestResolve_NoEncontradoNoInundaElRegistro(t *testing.T) {
	f := newFixture(t, entity.ScanSettings{})
	ctx := context.Background()

	first, err := f.resolver.Resolve(ctx, scanning.ResolveInput{Code: "XYZ", SessionActor: "ana"})
	require.NoError(t, err)
	assert.Equal(t, entity.ScanStatusNotFound, first.Status)

	again, err := f.resolver.Resolve(ctx, scanning.ResolveInput{Code: "xyz", SessionActor: "bruno"})
	require.NoError(t, err)
	assert.Equal(t, entity.ScanStatusDuplicate, again.Status)
	require.NotNil(t, again.FirstScan)
	assert.Equal(t, "ana", again.FirstScan.Operator)

	assert.Len(t, f.logs(t), 1)
}

func TestResolve_CodigoVacioNoSePersiste(t *testing.T) {
	f := newFixture(t, entity.ScanSettings{ScannerSuffix: "#"})
	require.NoError(t, f.repos.Operators.Create(context.Background(), &entity.Operator{ID: "1", Name: "Ana", Prefix: "AN", Active: true}))

	for _, code := range []string{"", "   ", "#", "(AN)"} {
		res, err := f.resolver.Resolve(context.Background(), scanning.ResolveInput{Code: code})
		require.NoError(t, err)
		assert.Equal(t, entity.ScanStatusError, res.Status, "código %q", code)
	}
	assert.Empty(t, f.logs(t))
}

func TestResolve_PrefijoDeOperadorYCanal(t *testing.T) {
	f := newFixture(t, entity.ScanSettings{
		ScannerSuffix:  "#",
		ChannelMarkers: []entity.ChannelMarker{{Suffix: "BR", Channel: "MERCADO"}},
	})
	ctx := context.Background()
	require.NoError(t, f.repos.Operators.Create(ctx, &entity.Operator{ID: "1", Name: "Ana", Prefix: "AN", Active: true}))
	f.order(t, "P9", "S1", "TRK9BR", "SHOP")
	f.order(t, "P9", "S2", "TRK9BR", "MERCADO")

	res, err := f.resolver.Resolve(ctx, scanning.ResolveInput{Code: "(an)trk9br#", SessionActor: "sesion"})
	require.NoError(t, err)
	assert.Equal(t, entity.ScanStatusOK, res.Status)
	assert.Equal(t, "Ana", res.ResolvedOperator)
	assert.Equal(t, "MERCADO", res.Channel)
	assert.Equal(t, "P9", res.DisplayKey)

	o, err := f.repos.Orders.Get(ctx, "P9", "S1")
	require.NoError(t, err)
	assert.Equal(t, "MERCADO", o.Channel, "el canal se corrige")
}

func TestResolve_OperadorPorDefectoTienePrioridad(t *testing.T) {
	f := newFixture(t, entity.ScanSettings{})
	ctx := context.Background()
	require.NoError(t, f.repos.Operators.Create(ctx, &entity.Operator{ID: "1", Name: "Ana", Prefix: "AN", Active: true}))
	f.order(t, "P1", "S1", "", "")

	res, err := f.resolver.Resolve(ctx, scanning.ResolveInput{
		Code:         "(AN)P1",
		SessionActor: "sesion",
		Settings:     &entity.ScanSettings{DefaultOperator: "Turno Noche"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Turno Noche", res.ResolvedOperator)
}

func TestHandleScan_ModoStockDescuentaMaestro(t *testing.T) {
	f := newFixture(t, entity.ScanSettings{})
	ctx := context.Background()
	f.item(t, "CAMISA", entity.KindFinishedProduct, 3)
	require.NoError(t, f.repos.SkuLinks.Upsert(ctx, &entity.SkuLink{ImportedSKU: "ML-CAMISA-AZ", MasterSKU: "CAMISA"}))
	f.order(t, "P1", "ML-CAMISA-AZ", "", "")

	res, err := f.fulfillment.HandleScan(ctx, stockScan("P1"))
	require.NoError(t, err)
	assert.Equal(t, entity.ScanStatusOK, res.Status)
	assert.Equal(t, entity.OrderStatusBipado, f.status(t, "P1", "ML-CAMISA-AZ"))
	assert.True(t, f.qty(t, "CAMISA").Equal(d(2)))

	movs, err := f.repos.Movements.ListByRef(ctx, "SCAN:"+res.ScanID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.OriginScanDeduction, movs[0].Origin)
	assert.Equal(t, "sesion", movs[0].Actor)

	dup, err := f.fulfillment.HandleScan(ctx, stockScan("P1"))
	require.NoError(t, err)
	assert.Equal(t, entity.ScanStatusDuplicate, dup.Status)
	assert.True(t, f.qty(t, "CAMISA").Equal(d(2)), "el duplicado no descuenta")
}

func TestHandleScan_EscenarioProduccion(t *testing.T) {
	f := newFixture(t, entity.ScanSettings{})
	ctx := context.Background()
	f.item(t, "A", entity.KindRawMaterial, 100)
	f.item(t, "P", entity.KindFinishedProduct, 0)
	require.NoError(t, f.repos.Recipes.Replace(ctx, &entity.Recipe{
		ProductCode: "P",
		Components:  []entity.RecipeComponent{{ComponentCode: "A", QtyPerUnit: d(2)}},
	}))

	_, err := f.ledger.Produce(ctx, ledger.ProduceInput{ItemCode: "P", Quantity: d(5)})
	require.NoError(t, err)
	assert.True(t, f.qty(t, "A").Equal(d(90)))
	assert.True(t, f.qty(t, "P").Equal(d(5)))

	f.order(t, "PED-1", "P", "", "")
	in := stockScan("PED-1")
	in.Mode = scanning.ModeProduction
	res, err := f.fulfillment.HandleScan(ctx, in)
	require.NoError(t, err)
	require.Equal(t, entity.ScanStatusOK, res.Status)

	assert.True(t, f.qty(t, "P").Equal(d(5)), "producir y despachar deja el terminado en cero neto")
	// La unidad producida en el despacho consume 2 A más: 100 - 10 - 2.
	assert.True(t, f.qty(t, "A").Equal(d(88)))

	dup, err := f.fulfillment.HandleScan(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, entity.ScanStatusDuplicate, dup.Status)
	assert.True(t, f.qty(t, "A").Equal(d(88)))

	for _, code := range []string{"A", "P"} {
		audit, err := f.ledger.Audit(ctx, code)
		require.NoError(t, err)
		assert.True(t, audit.Consistent)
	}
}

func TestHandleScan_ErrorDeNegocioRevierteTodo(t *testing.T) {
	f := newFixture(t, entity.ScanSettings{})
	ctx := context.Background()
	f.order(t, "P1", "SIN-ITEM", "", "")

	res, err := f.fulfillment.HandleScan(ctx, stockScan("P1"))
	require.NoError(t, err)
	assert.Equal(t, entity.ScanStatusError, res.Status)
	assert.Contains(t, res.Message, "SIN-ITEM")
	assert.Equal(t, entity.OrderStatusNormal, f.status(t, "P1", "SIN-ITEM"), "no queda BIPADO")

	logs := f.logs(t)
	require.Len(t, logs, 1, "solo la entrada ERROR")
	assert.Equal(t, entity.ScanStatusError, logs[0].Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ScanResults().WithLabelValues(entity.ScanStatusError)))

	// Corregido el catálogo, el mismo pedido se despacha normalmente
	f.item(t, "SIN-ITEM", entity.KindFinishedProduct, 1)
	res, err = f.fulfillment.HandleScan(ctx, stockScan("P1"))
	require.NoError(t, err)
	assert.Equal(t, entity.ScanStatusOK, res.Status)
	assert.True(t, f.qty(t, "SIN-ITEM").IsZero())
}

func TestHandleScan_PedidoCerradoEsError(t *testing.T) {
	f := newFixture(t, entity.ScanSettings{})
	ctx := context.Background()
	f.item(t, "S1", entity.KindFinishedProduct, 5)
	f.order(t, "P1", "S1", "", "")
	require.NoError(t, f.repos.Orders.UpdateStatus(ctx, "P1", "S1", entity.OrderStatusDevolvido))

	res, err := f.fulfillment.HandleScan(ctx, stockScan("P1"))
	require.NoError(t, err)
	assert.Equal(t, entity.ScanStatusError, res.Status)
	assert.True(t, f.qty(t, "S1").Equal(d(5)))
}

func TestHandleScan_ModoInvalido(t *testing.T) {
	f := newFixture(t, entity.ScanSettings{})
	in := stockScan("P1")
	in.Mode = "MAGIA"

	res, err := f.fulfillment.HandleScan(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, entity.ScanStatusError, res.Status)
	assert.Empty(t, f.logs(t))
}

func TestHandleScan_ConcurrenteUnSoloOK(t *testing.T) {
	f := newFixture(t, entity.ScanSettings{})
	f.item(t, "S1", entity.KindFinishedProduct, 10)
	f.order(t, "P1", "S1", "", "")

	const workers = 20
	results := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.fulfillment.HandleScan(context.Background(), stockScan("P1"))
			if assert.NoError(t, err) {
				results[i] = res.Status
			}
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, s := range results {
		if s == entity.ScanStatusOK {
			ok++
		} else {
			assert.Equal(t, entity.ScanStatusDuplicate, s)
		}
	}
	assert.Equal(t, 1, ok)
	assert.True(t, f.qty(t, "S1").Equal(d(9)))
}

func TestMarkAdjusted_LigaNoEncontradoAPedido(t *testing.T) {
	f := newFixture(t, entity.ScanSettings{})
	ctx := context.Background()
	f.order(t, "P1", "S1", "", "")

	nf, err := f.resolver.Resolve(ctx, scanning.ResolveInput{Code: "ETIQUETA-ROTA"})
	require.NoError(t, err)
	require.Equal(t, entity.ScanStatusNotFound, nf.Status)

	entry, err := f.resolver.MarkAdjusted(ctx, nf.ScanID, "P1", "supervisor")
	require.NoError(t, err)
	assert.Equal(t, entity.ScanStatusAdjusted, entry.Status)
	assert.Equal(t, "P1", entry.DisplayKey)

	res, err := f.resolver.Resolve(ctx, scanning.ResolveInput{Code: "P1"})
	require.NoError(t, err)
	assert.Equal(t, entity.ScanStatusDuplicate, res.Status)
	require.NotNil(t, res.FirstScan)
	assert.Equal(t, "supervisor", res.FirstScan.Operator)
}
