package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/arba-api/internal/application/census"
	"github.com/jhoicas/arba-api/internal/application/export"
	"github.com/jhoicas/arba-api/internal/domain/repository"
	"github.com/jhoicas/arba-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ExportUC    *export.ExportRN3811UseCase
	CensusSvc   *census.SyncService
	CompanyRepo repository.CompanyRepository
	ReportGen   export.RunReportGenerator
	JWTSecret   string
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/arba", AuthMiddleware(deps.JWTSecret))

	exportHandler := NewExportHandler(deps.ExportUC, deps.CompanyRepo, deps.ReportGen, deps.Log)
	protected.Post("/rn3811/export", exportHandler.Export)
	protected.Post("/rn3811/export/report", exportHandler.ExportReport)

	censusHandler := NewCensusHandler(deps.CensusSvc, deps.Log)
	protected.Post("/census/sync", censusHandler.Sync)
}
