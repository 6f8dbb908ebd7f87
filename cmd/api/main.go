package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/arba-api/internal/application/census"
	"github.com/jhoicas/arba-api/internal/application/export"
	"github.com/jhoicas/arba-api/internal/infrastructure/arbaws"
	infrapdf "github.com/jhoicas/arba-api/internal/infrastructure/pdf"
	"github.com/jhoicas/arba-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/arba-api/internal/interfaces/http"
	"github.com/jhoicas/arba-api/pkg/config"
	"github.com/jhoicas/arba-api/pkg/logger"
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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	partyRepo := postgres.NewPartyRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	retencionRepo := postgres.NewRetencionRepository(pool)

	exportUC := export.NewExportRN3811UseCase(invoiceRepo, retencionRepo, companyRepo, cfg.ARBA, log)
	reportGen := infrapdf.NewRunReportGenerator()

	// Cliente del padrón ARBA — solo si hay modo de certificación configurado.
	// Sin modo, la sincronización de censo responde con un error explicativo.
	censusSvc := census.NewSyncService(partyRepo, censusClient(cfg, log), cfg.ARBA, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ARBA RN 38/11 API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ExportUC:    exportUC,
		CensusSvc:   censusSvc,
		CompanyRepo: companyRepo,
		ReportGen:   reportGen,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log,
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

// censusClient construye el cliente del padrón si la config lo permite; nil
// hace que el servicio de censo falle con diagnóstico al primer uso.
func censusClient(cfg *config.Config, log *logger.Logger) census.Client {
	if cfg.ARBA.ModoCert == "" {
		log.Warn().Msg("ARBA_MODO_CERT sin configurar: la sincronización de padrón está deshabilitada")
		return nil
	}
	client, err := arbaws.NewClient(cfg.ARBA, cfg.ARBA.AgentCUIT)
	if err != nil {
		log.Fatal().Err(err).Msg("cliente del padrón ARBA")
	}
	return client
}
