package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/fabrica-api/internal/application/ledger"
	"github.com/jhoicas/fabrica-api/internal/application/reversal"
	"github.com/jhoicas/fabrica-api/internal/application/scanning"
	"github.com/jhoicas/fabrica-api/internal/application/usecase"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
	"github.com/jhoicas/fabrica-api/internal/infrastructure/memory"
	"github.com/jhoicas/fabrica-api/internal/infrastructure/metrics"
	"github.com/jhoicas/fabrica-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/fabrica-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/fabrica-api/internal/interfaces/http"
	"github.com/jhoicas/fabrica-api/pkg/config"
	"github.com/jhoicas/fabrica-api/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Almacenamiento: PostgreSQL (producción) o memoria (demo / desarrollo).
	var (
		txRunner ledger.TxRunner
		repos    repository.Repositories
	)
	switch cfg.DB.Driver {
	case "memory":
		store := memory.NewStore()
		txRunner, repos = store, store.Repositories()
		seedDemo(ctx, store, log)
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Msg("migraciones aplicadas")
		}
		txRunner, repos = postgres.NewTxRunner(pool), postgres.NewRepositories(pool)
	}

	// Bloqueo de escaneos: Redis si está configurado (varias instancias), si no en proceso.
	var guard scanning.ScanGuard = memory.NewKeyedLocker()
	if cfg.Redis.Addr != "" {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		guard = infraredis.NewScanGuard(rdb, cfg.Redis.LockTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("bloqueo de escaneos distribuido")
	}

	var (
		m        *metrics.Metrics
		gatherer prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
		gatherer = reg
	}

	scanDefaults := scanSettingsFromConfig(cfg.Scan)

	ledgerUC := ledger.NewLedger(txRunner, repos, m)
	resolver := scanning.NewResolver(txRunner, repos, guard, scanDefaults, m, log)
	fulfillment := scanning.NewFulfillment(resolver, ledgerUC, txRunner, m, log)
	reversalEngine := reversal.NewEngine(txRunner, ledgerUC, m, log)

	app := fiber.New(httpRouter.AppConfig(cfg.App.Name))
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Resolver:    resolver,
		Fulfillment: fulfillment,
		Ledger:      ledgerUC,
		Reversal:    reversalEngine,
		ItemUC:      usecase.NewItemUseCase(txRunner, repos),
		Replenish:   usecase.NewReplenishmentUseCase(repos),
		RecipeUC:    usecase.NewRecipeUseCase(txRunner, repos),
		SkuLinkUC:   usecase.NewSkuLinkUseCase(repos),
		OperatorUC:  usecase.NewOperatorUseCase(repos),
		OrderUC:     usecase.NewOrderUseCase(txRunner, repos),
		SettingsUC:  usecase.NewSettingsUseCase(repos, scanDefaults),
		JWTSecret:   cfg.JWT.Secret,
		Gatherer:    gatherer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func scanSettingsFromConfig(c config.ScanConfig) entity.ScanSettings {
	s := entity.ScanSettings{
		DefaultOperator: c.DefaultOperator,
		ScannerSuffix:   c.ScannerSuffix,
	}
	for _, mk := range c.ChannelMarkers {
		s.ChannelMarkers = append(s.ChannelMarkers, entity.ChannelMarker{Suffix: mk.Suffix, Channel: mk.Channel})
	}
	return s
}
