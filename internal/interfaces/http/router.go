package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/fabrica-api/internal/application/ledger"
	"github.com/jhoicas/fabrica-api/internal/application/reversal"
	"github.com/jhoicas/fabrica-api/internal/application/scanning"
	"github.com/jhoicas/fabrica-api/internal/application/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Resolver    *scanning.Resolver
	Fulfillment *scanning.Fulfillment
	Ledger      *ledger.Ledger
	Reversal    *reversal.Engine
	ItemUC      *usecase.ItemUseCase
	Replenish   *usecase.ReplenishmentUseCase
	RecipeUC    *usecase.RecipeUseCase
	SkuLinkUC   *usecase.SkuLinkUseCase
	OperatorUC  *usecase.OperatorUseCase
	OrderUC     *usecase.OrderUseCase
	SettingsUC  *usecase.SettingsUseCase
	JWTSecret   string
	// Gatherer expone /metrics si no es nil.
	Gatherer prometheus.Gatherer
}

// AppConfig configuración de fiber para la API. Immutable copia parámetros y cuerpo fuera del
// buffer de fasthttp: los códigos de ruta terminan guardados en los repositorios.
func AppConfig(appName string) fiber.Config {
	return fiber.Config{
		AppName:      appName,
		Immutable:    true,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	}
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	anyRole := RequireRole(RoleAdmin, RoleEstoque, RoleExpedicao)
	stock := RequireRole(RoleAdmin, RoleEstoque)
	admin := RequireRole(RoleAdmin)

	// Escaneos
	scanHandler := NewScanHandler(deps.Resolver, deps.Fulfillment, deps.Reversal)
	scans := api.Group("/scans")
	scans.Post("/resolve", anyRole, scanHandler.Resolve)
	scans.Post("/", anyRole, scanHandler.Handle)
	scans.Get("/", anyRole, scanHandler.List)
	scans.Delete("/:id", stock, scanHandler.Cancel)
	scans.Post("/:id/adjust", stock, scanHandler.Adjust)

	catalogHandler := NewCatalogHandler(deps.RecipeUC, deps.SkuLinkUC, deps.OperatorUC, deps.SettingsUC)
	api.Get("/scan-settings", anyRole, catalogHandler.GetSettings)
	api.Put("/scan-settings", admin, catalogHandler.PutSettings)

	// Libro de movimientos
	ledgerHandler := NewLedgerHandler(deps.Ledger, deps.Reversal)
	ledgerGroup := api.Group("/ledger")
	ledgerGroup.Post("/adjustments", stock, ledgerHandler.Adjust)
	ledgerGroup.Post("/production", stock, ledgerHandler.Produce)
	ledgerGroup.Get("/items/:code/movements", anyRole, ledgerHandler.Movements)
	ledgerGroup.Get("/items/:code/audit", anyRole, ledgerHandler.Audit)
	api.Get("/bom/:code", anyRole, ledgerHandler.Explode)
	api.Post("/inventory/initial-stock", stock, ledgerHandler.InitialStock)

	// Ítems
	itemHandler := NewItemHandler(deps.ItemUC, deps.Replenish)
	api.Get("/inventory/replenishment", anyRole, itemHandler.GetReplenishmentList)
	items := api.Group("/items")
	items.Get("/", anyRole, itemHandler.List)
	items.Post("/", stock, itemHandler.Create)
	items.Get("/:code", anyRole, itemHandler.Get)
	items.Put("/:code", stock, itemHandler.Update)
	items.Delete("/:code", admin, itemHandler.Delete)

	// Recetas
	recipes := api.Group("/recipes")
	recipes.Get("/:code", anyRole, catalogHandler.GetRecipe)
	recipes.Put("/:code", stock, catalogHandler.PutRecipe)
	recipes.Delete("/:code", stock, catalogHandler.DeleteRecipe)

	// Vínculos SKU y operadores
	links := api.Group("/sku-links")
	links.Get("/", anyRole, catalogHandler.ListSkuLinks)
	links.Post("/", stock, catalogHandler.UpsertSkuLink)
	links.Delete("/:sku", stock, catalogHandler.DeleteSkuLink)

	operators := api.Group("/operators")
	operators.Get("/", anyRole, catalogHandler.ListOperators)
	operators.Post("/", admin, catalogHandler.CreateOperator)
	operators.Delete("/:id", admin, catalogHandler.DeleteOperator)

	// Pedidos
	orderHandler := NewOrderHandler(deps.OrderUC, deps.Reversal)
	orders := api.Group("/orders")
	orders.Get("/:code", anyRole, orderHandler.GetByCode)
	orders.Patch("/:orderId/:sku/status", stock, orderHandler.UpdateStatus)
	orders.Post("/:orderId/:sku/return", stock, orderHandler.RegisterReturn)
	orders.Delete("/:orderId/:sku/return", stock, orderHandler.RemoveReturn)
}
