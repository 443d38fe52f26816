package usecase_test

import (
	"context"
	"testing"

	"github.com/jhoicas/fabrica-api/internal/application/dto"
	"github.com/jhoicas/fabrica-api/internal/application/ledger"
	"github.com/jhoicas/fabrica-api/internal/application/usecase"
	"github.com/jhoicas/fabrica-api/internal/domain"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func createItem(t *testing.T, uc *usecase.ItemUseCase, code, kind string) {
	t.Helper()
	_, err := uc.Create(context.Background(), dto.CreateItemRequest{Code: code, Name: "Ítem " + code, Kind: kind})
	require.NoError(t, err)
}

func TestItemUseCase_CreateNormalizaYValida(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewItemUseCase(store, store.Repositories())
	ctx := context.Background()

	item, err := uc.Create(ctx, dto.CreateItemRequest{Code: " harina ", Name: "Harina", Kind: entity.KindRawMaterial, MinQty: d(5)})
	require.NoError(t, err)
	assert.Equal(t, "HARINA", item.Code)
	assert.True(t, item.CurrentQty.IsZero())
	assert.True(t, item.BelowMin)

	_, err = uc.Create(ctx, dto.CreateItemRequest{Code: "HARINA", Name: "Otra", Kind: entity.KindRawMaterial})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateItemRequest{Code: "X", Name: "X", Kind: "SERVICIO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateItemRequest{Code: "Y", Name: "Y", Kind: entity.KindRawMaterial, SubstituteCode: "NOPE"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemUseCase_DeleteProtegido(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	items := usecase.NewItemUseCase(store, repos)
	recipes := usecase.NewRecipeUseCase(store, repos)
	links := usecase.NewSkuLinkUseCase(repos)
	ctx := context.Background()

	createItem(t, items, "A", entity.KindRawMaterial)
	createItem(t, items, "P", entity.KindFinishedProduct)
	createItem(t, items, "S", entity.KindFinishedProduct)
	createItem(t, items, "LIBRE", entity.KindRawMaterial)

	_, err := recipes.Upsert(ctx, "P", dto.RecipeRequest{Components: []dto.RecipeComponentRequest{{ComponentCode: "A", QtyPerUnit: d(2)}}})
	require.NoError(t, err)
	assert.ErrorIs(t, items.Delete(ctx, "A"), domain.ErrConflict)
	assert.ErrorIs(t, items.Delete(ctx, "P"), domain.ErrConflict)

	_, err = links.Upsert(ctx, dto.SkuLinkRequest{ImportedSKU: "ML-S", MasterSKU: "S"})
	require.NoError(t, err)
	assert.ErrorIs(t, items.Delete(ctx, "S"), domain.ErrConflict)
	require.NoError(t, links.Delete(ctx, "ml-s"))

	require.NoError(t, repos.Orders.Create(ctx, &entity.Order{OrderID: "O1", SKU: "S", Status: entity.OrderStatusNormal}))
	assert.ErrorIs(t, items.Delete(ctx, "S"), domain.ErrConflict)
	require.NoError(t, repos.Orders.UpdateStatus(ctx, "O1", "S", entity.OrderStatusDevolvido))
	assert.NoError(t, items.Delete(ctx, "S"))

	assert.NoError(t, items.Delete(ctx, "libre"))
	assert.ErrorIs(t, items.Delete(ctx, "LIBRE"), domain.ErrNotFound)
}

func TestItemUseCase_DeleteConMovimientosSeRechaza(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	items := usecase.NewItemUseCase(store, repos)
	l := ledger.NewLedger(store, repos, nil)
	ctx := context.Background()

	createItem(t, items, "X", entity.KindRawMaterial)
	_, err := l.Adjust(ctx, ledger.AdjustInput{ItemCode: "X", QtyDelta: d(5), Origin: entity.OriginManualAdjustment, Actor: "ana"})
	require.NoError(t, err)

	assert.ErrorIs(t, items.Delete(ctx, "X"), domain.ErrConflict)

	// El saldo sigue reconstruible desde el libro.
	audit, err := l.Audit(ctx, "X")
	require.NoError(t, err)
	assert.True(t, audit.Consistent)
	assert.True(t, audit.CachedQty.Equal(d(5)))

	// Un saldo llevado a cero tampoco habilita el borrado.
	_, err = l.Adjust(ctx, ledger.AdjustInput{ItemCode: "X", QtyDelta: d(-5), Origin: entity.OriginManualAdjustment, Actor: "ana"})
	require.NoError(t, err)
	assert.ErrorIs(t, items.Delete(ctx, "X"), domain.ErrConflict)
}

func TestRecipeUseCase_Validaciones(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	items := usecase.NewItemUseCase(store, repos)
	recipes := usecase.NewRecipeUseCase(store, repos)
	ctx := context.Background()

	createItem(t, items, "A", entity.KindRawMaterial)
	createItem(t, items, "M", entity.KindIntermediate)
	createItem(t, items, "P", entity.KindFinishedProduct)

	comp := func(code string, qty int64) dto.RecipeRequest {
		return dto.RecipeRequest{Components: []dto.RecipeComponentRequest{{ComponentCode: code, QtyPerUnit: d(qty)}}}
	}

	_, err := recipes.Upsert(ctx, "A", comp("M", 1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la materia prima no lleva receta")

	_, err = recipes.Upsert(ctx, "P", comp("NOPE", 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = recipes.Upsert(ctx, "P", comp("A", 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = recipes.Upsert(ctx, "P", comp("P", 1))
	assert.ErrorIs(t, err, domain.ErrCyclicRecipe)

	_, err = recipes.Upsert(ctx, "P", comp("M", 2))
	require.NoError(t, err)
	_, err = recipes.Upsert(ctx, "M", comp("P", 1))
	assert.ErrorIs(t, err, domain.ErrCyclicRecipe)
	_, err = recipes.Get(ctx, "M")
	assert.ErrorIs(t, err, domain.ErrNotFound, "la receta cíclica no se guarda")

	rec, err := recipes.Upsert(ctx, "m", comp("a", 3))
	require.NoError(t, err)
	assert.Equal(t, "M", rec.ProductCode)
	assert.Equal(t, "A", rec.Components[0].ComponentCode)
}

func TestOperatorUseCase_PrefijoUnico(t *testing.T) {
	uc := usecase.NewOperatorUseCase(memory.NewStore().Repositories())
	ctx := context.Background()

	op, err := uc.Create(ctx, dto.CreateOperatorRequest{Name: "Ana", Prefix: "an"})
	require.NoError(t, err)
	assert.Equal(t, "AN", op.Prefix)
	assert.True(t, op.Active)

	_, err = uc.Create(ctx, dto.CreateOperatorRequest{Name: "Andrés", Prefix: "AN"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateOperatorRequest{Name: "X", Prefix: "(X)"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestOrderUseCase_Transition(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	uc := usecase.NewOrderUseCase(store, repos)
	ctx := context.Background()
	require.NoError(t, repos.Orders.Create(ctx, &entity.Order{OrderID: "O1", SKU: "S", Tracking: "TRK", Status: entity.OrderStatusNormal}))

	_, err := uc.Transition(ctx, "O1", "S", entity.OrderStatusBipado)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Transition(ctx, "O1", "S", entity.OrderStatusSolucionado)
	assert.ErrorIs(t, err, domain.ErrConflict)

	out, err := uc.Transition(ctx, "O1", "S", entity.OrderStatusErro)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusErro, out.Status)

	out, err = uc.Transition(ctx, "O1", "S", entity.OrderStatusSolucionado)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusSolucionado, out.Status)

	lines, err := uc.GetByCode(ctx, "trk")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, entity.OrderStatusSolucionado, lines[0].Status)
}

func TestSettingsUseCase_DefaultYGuardado(t *testing.T) {
	defaults := entity.ScanSettings{ScannerSuffix: "#"}
	uc := usecase.NewSettingsUseCase(memory.NewStore().Repositories(), defaults)
	ctx := context.Background()

	s, err := uc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "#", s.ScannerSuffix)

	_, err = uc.Save(ctx, dto.ScanSettingsRequest{ChannelMarkers: []dto.ChannelMarkerRequest{{Suffix: "br", Channel: ""}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Save(ctx, dto.ScanSettingsRequest{
		DefaultOperator: "Turno Noche",
		ChannelMarkers:  []dto.ChannelMarkerRequest{{Suffix: "br", Channel: "MERCADO"}},
	})
	require.NoError(t, err)
	s, err = uc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Turno Noche", s.DefaultOperator)
	assert.Equal(t, "", s.ScannerSuffix)
	assert.Equal(t, []entity.ChannelMarker{{Suffix: "BR", Channel: "MERCADO"}}, s.ChannelMarkers)
}

func TestReplenishment_PriorizaNegativosYDeficit(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	items := usecase.NewItemUseCase(store, repos)
	ctx := context.Background()

	for _, in := range []dto.CreateItemRequest{
		{Code: "TELA", Name: "Tela", Kind: entity.KindRawMaterial, MinQty: d(10)},
		{Code: "HILO", Name: "Hilo", Kind: entity.KindRawMaterial, MinQty: d(10)},
		{Code: "CAMISA", Name: "Camisa", Kind: entity.KindFinishedProduct},
		{Code: "BOTON", Name: "Botón", Kind: entity.KindRawMaterial, MinQty: d(5)},
	} {
		_, err := items.Create(ctx, in)
		require.NoError(t, err)
	}
	require.NoError(t, repos.Items.AddQuantity(ctx, "TELA", d(8)))
	require.NoError(t, repos.Items.AddQuantity(ctx, "HILO", d(2)))
	require.NoError(t, repos.Items.AddQuantity(ctx, "CAMISA", d(-3)))
	require.NoError(t, repos.Items.AddQuantity(ctx, "BOTON", d(50)))

	list, err := usecase.NewReplenishmentUseCase(repos).GenerateList(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, "CAMISA", list[0].ItemCode)
	assert.Equal(t, usecase.ActionProduce, list[0].Action)
	assert.True(t, list[0].SuggestedQty.Equal(d(3)))

	assert.Equal(t, "HILO", list[1].ItemCode)
	assert.True(t, list[1].SuggestedQty.Equal(d(13)))
	assert.Equal(t, "TELA", list[2].ItemCode)
	assert.Equal(t, usecase.ActionPurchase, list[2].Action)
	assert.Equal(t, 3, list[2].Priority)
}
