// migrate aplica o revierte las migraciones SQL embebidas (goose) sobre la base configurada.
//
// Uso: go run ./cmd/migrate [up|down|status]
// Por defecto ejecuta "up". Lee la conexión de DATABASE_URL o DB_HOST, DB_PORT, etc.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/fabrica-api/internal/infrastructure/postgres"
	"github.com/jhoicas/fabrica-api/pkg/config"
)

func main() {
	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	switch cmd {
	case "up":
		err = postgres.Migrate(ctx, pool)
	case "down":
		err = postgres.Rollback(ctx, pool)
	case "status":
		err = postgres.MigrationStatus(ctx, pool)
	default:
		fmt.Fprintf(os.Stderr, "Comando desconocido %q (up | down | status)\n", cmd)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate %s: %v\n", cmd, err)
		os.Exit(1)
	}
	fmt.Printf("migrate %s: ok\n", cmd)
}
