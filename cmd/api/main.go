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

	"github.com/jhoicas/trazabilidad-cafe/internal/application/auth"
	"github.com/jhoicas/trazabilidad-cafe/internal/application/inventory"
	"github.com/jhoicas/trazabilidad-cafe/internal/application/traceability"
	"github.com/jhoicas/trazabilidad-cafe/internal/application/usecase"
	"github.com/jhoicas/trazabilidad-cafe/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/trazabilidad-cafe/internal/infrastructure/pdf"
	"github.com/jhoicas/trazabilidad-cafe/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/trazabilidad-cafe/internal/interfaces/http"
	"github.com/jhoicas/trazabilidad-cafe/pkg/config"
	"github.com/jhoicas/trazabilidad-cafe/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("aplicar esquema")
		}
		log.Info().Msg("esquema aplicado")
	}

	appMetrics := metrics.New()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	providerRepo := postgres.NewProviderRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	stageRepo := postgres.NewStageRepository(pool)
	qualityRepo := postgres.NewQualityRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Libro de stock: insert + replay bajo el lock del lote.
	ledger := inventory.NewStockLedgerUseCase(txRunner, movRepo, appMetrics)
	resolver := inventory.NewLotStateResolver(stageRepo)
	reporting := inventory.NewReportingUseCase(lotRepo, stageRepo, movRepo, resolver, ledger, cfg.Report.Workers)

	stageUC := traceability.NewStageUseCase(txRunner, ledger)
	sheetUC := traceability.NewSheetUseCase(companyRepo, lotRepo, stageRepo, infrapdf.NewMarotoSheetRenderer())

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(appMetrics.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Trazabilidad Café API",
	}))

	app.Get("/metrics", appMetrics.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		LotUC:      usecase.NewLotUseCase(lotRepo, providerRepo, catalogRepo),
		ProviderUC: usecase.NewProviderUseCase(providerRepo),
		CatalogUC:  usecase.NewCatalogUseCase(catalogRepo),
		QualityUC:  usecase.NewQualityUseCase(qualityRepo, lotRepo),
		Ledger:     ledger,
		Reporting:  reporting,
		StageUC:    stageUC,
		SheetUC:    sheetUC,
		DB:         pool,
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
