// seed crea las cuentas iniciales (admin y user) sobre una base vacía y opcionalmente
// importa el catálogo de productos desde un CSV con la misma cabecera que exporta
// /api/reports/stock.csv.
//
// Uso: go run ./cmd/seed [--products productos.csv] [--latin1]
package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/pflag"

	"github.com/jhoicas/wms-api/internal/application/auth"
	"github.com/jhoicas/wms-api/internal/application/usecase"
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/infrastructure/postgres"
	"github.com/jhoicas/wms-api/pkg/config"
	"github.com/jhoicas/wms-api/pkg/logger"
)

func main() {
	productsPath := pflag.String("products", "", "CSV de productos a importar")
	latin1 := pflag.Bool("latin1", false, "el CSV viene en ISO-8859-1 (exportado desde Excel)")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	if cfg.DB.Driver == "memory" {
		log.Fatal().Msg("seed requiere DB_DRIVER=postgres")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}

	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{Secret: cfg.JWT.Secret})
	n, err := authUC.SeedDefaultUsers(ctx, auth.DefaultAccounts(cfg.Seed.AdminPassword, cfg.Seed.UserPassword))
	if err != nil {
		log.Fatal().Err(err).Msg("crear usuarios")
	}
	if n == 0 {
		log.Info().Msg("ya existen usuarios, no se crean cuentas")
	} else {
		log.Info().Int("created", n).Msg("usuarios iniciales creados")
	}

	if *productsPath == "" {
		return
	}
	f, err := os.Open(*productsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	rows, err := parseProducts(f, *latin1)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}

	productUC := usecase.NewProductUseCase(postgres.NewProductRepository(pool))
	var created, skipped int
	for _, in := range rows {
		_, err := productUC.Create(ctx, in)
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
			log.Debug().Str("code", in.Code).Msg("producto ya existe, se omite")
		default:
			log.Error().Err(err).Str("code", in.Code).Msg("no se pudo importar el producto")
			skipped++
		}
	}
	log.Info().Int("created", created).Int("skipped", skipped).Msg("importación de productos terminada")
}
