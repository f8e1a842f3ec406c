package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/wms-api/docs"
	"github.com/jhoicas/wms-api/internal/application/auth"
	"github.com/jhoicas/wms-api/internal/application/inventory"
	"github.com/jhoicas/wms-api/internal/application/report"
	"github.com/jhoicas/wms-api/internal/application/shipping"
	"github.com/jhoicas/wms-api/internal/application/usecase"
	"github.com/jhoicas/wms-api/internal/domain/repository"
	"github.com/jhoicas/wms-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/wms-api/internal/infrastructure/pdf"
	"github.com/jhoicas/wms-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/wms-api/internal/interfaces/http"
	"github.com/jhoicas/wms-api/pkg/config"
	"github.com/jhoicas/wms-api/pkg/logger"
)

// @title           WMS API
// @version         1.0
// @description     Control de stock, movimientos y expediciones.
// @BasePath        /
// @securityDefinitions.apikey Bearer
// @in              header
// @name            Authorization

// txRunner lo implementan postgres.TxRunner y memory.Store.
type txRunner interface {
	inventory.TxRunner
	shipping.TxRunner
}

// storage agrupa los repositorios del driver elegido.
type storage struct {
	tx        txRunner
	products  repository.ProductRepository
	movements repository.MovementRepository
	shipments repository.ShipmentRepository
	users     repository.UserRepository
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStorage(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	n, err := authUC.SeedDefaultUsers(ctx, auth.DefaultAccounts(cfg.Seed.AdminPassword, cfg.Seed.UserPassword))
	if err != nil {
		log.Fatal().Err(err).Msg("crear usuarios iniciales")
	}
	if n > 0 {
		log.Warn().Int("created", n).Msg("usuarios iniciales creados, cambie las contraseñas")
	}

	productUC := usecase.NewProductUseCase(st.products)
	movementUC := inventory.NewMovementUseCase(st.tx, st.movements)
	shipmentUC := shipping.NewShipmentUseCase(st.tx, st.shipments, st.products)
	userUC := usecase.NewUserUseCase(st.users)
	reportUC := report.NewReportUseCase(st.products, st.movements, st.users, infrapdf.NewMarotoStockReport(time.Local))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger())
	app.Use(cors.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "WMS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		ProductUC:  productUC,
		MovementUC: movementUC,
		ShipmentUC: shipmentUC,
		UserUC:     userUC,
		ReportUC:   reportUC,
		JWTSecret:  cfg.JWT.Secret,
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

// openStorage conecta PostgreSQL y aplica el esquema, o arma el store en memoria si
// DB_DRIVER=memory (los datos se pierden al reiniciar).
func openStorage(ctx context.Context, cfg config.DBConfig) (*storage, error) {
	if cfg.Driver == "memory" {
		store := memory.NewStore()
		return &storage{
			tx:        store,
			products:  store.Products(),
			movements: store.Movements(),
			shipments: store.Shipments(),
			users:     store.Users(),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &storage{
		tx:        postgres.NewTxRunner(pool),
		products:  postgres.NewProductRepository(pool),
		movements: postgres.NewMovementRepository(pool),
		shipments: postgres.NewShipmentRepository(pool),
		users:     postgres.NewUserRepository(pool),
		close:     pool.Close,
	}, nil
}
