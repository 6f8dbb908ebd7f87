package http

import (
	"encoding/base64"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/arba-api/internal/application/dto"
	"github.com/jhoicas/arba-api/internal/application/export"
	"github.com/jhoicas/arba-api/internal/domain/repository"
	"github.com/jhoicas/arba-api/pkg/logger"
)

const periodoLayout = "2006-01"

// ExportHandler maneja las corridas de exportación RN 38/11 (protegido).
type ExportHandler struct {
	uc          *export.ExportRN3811UseCase
	companyRepo repository.CompanyRepository
	reportGen   export.RunReportGenerator
	log         *logger.Logger
}

// NewExportHandler construye el handler.
func NewExportHandler(uc *export.ExportRN3811UseCase, companyRepo repository.CompanyRepository, reportGen export.RunReportGenerator, log *logger.Logger) *ExportHandler {
	return &ExportHandler{uc: uc, companyRepo: companyRepo, reportGen: reportGen, log: log.Component("http")}
}

// parsePeriodo interpreta "YYYY-MM" y devuelve el primer y último día del mes.
func parsePeriodo(s string) (time.Time, time.Time, error) {
	start, err := time.Parse(periodoLayout, s)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 1, -1), nil
}

// Export ejecuta la corrida y devuelve ambos lotes en Base64.
// POST /api/arba/rn3811/export
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ExportRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	start, end, err := parsePeriodo(in.Periodo)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "periodo inválido, formato YYYY-MM"})
	}

	runID := uuid.New().String()
	h.log.Info().Str("run_id", runID).Str("periodo", in.Periodo).Bool("csv", in.CSV).Msg("corrida de exportación solicitada")

	res, err := h.uc.Run(c.Context(), export.Options{
		CompanyID: companyID,
		StartDate: start,
		EndDate:   end,
		CSVFormat: in.CSV,
	})
	if err != nil {
		h.log.Error().Str("run_id", runID).Err(err).Msg("corrida de exportación fallida")
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "EXPORT_FAILED", Message: err.Error()})
	}

	out := dto.ExportResponse{RunID: runID}
	out.Lote12 = loteResponse(res.Lote12)
	out.Lote19 = loteResponse(res.Lote19)
	for _, rej := range res.Rejections {
		out.Rechazos = append(out.Rechazos, rej.Message())
	}
	return c.JSON(out)
}

// ExportReport ejecuta la corrida y devuelve el reporte PDF en lugar del JSON.
// POST /api/arba/rn3811/export/report
func (h *ExportHandler) ExportReport(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ExportRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	start, end, err := parsePeriodo(in.Periodo)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "periodo inválido, formato YYYY-MM"})
	}

	company, err := h.companyRepo.GetByID(c.Context(), companyID)
	if err != nil || company == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "empresa no encontrada"})
	}

	res, err := h.uc.Run(c.Context(), export.Options{
		CompanyID: companyID,
		StartDate: start,
		EndDate:   end,
		CSVFormat: in.CSV,
	})
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "EXPORT_FAILED", Message: err.Error()})
	}

	pdfBytes, err := h.reportGen.GenerateRunReport(company, start, res)
	if err != nil {
		h.log.Error().Err(err).Msg("generación del reporte PDF")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo generar el reporte"})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="rn3811-`+in.Periodo+`.pdf"`)
	return c.Send(pdfBytes)
}

func loteResponse(lote *export.LoteFile) *dto.LoteResponse {
	if lote == nil {
		return nil
	}
	return &dto.LoteResponse{
		Filename:  lote.Filename,
		Registros: lote.Lines,
		Contenido: base64.StdEncoding.EncodeToString(lote.Content),
	}
}
