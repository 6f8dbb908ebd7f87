package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/arba-api/internal/application/census"
	"github.com/jhoicas/arba-api/internal/application/dto"
	"github.com/jhoicas/arba-api/pkg/logger"
)

// CensusHandler maneja la sincronización de alícuotas contra el padrón (protegido).
type CensusHandler struct {
	svc *census.SyncService
	log *logger.Logger
}

// NewCensusHandler construye el handler.
func NewCensusHandler(svc *census.SyncService, log *logger.Logger) *CensusHandler {
	return &CensusHandler{svc: svc, log: log.Component("http")}
}

// Sync consulta el padrón y actualiza las alícuotas de los terceros.
// POST /api/arba/census/sync
func (h *CensusHandler) Sync(c *fiber.Ctx) error {
	if GetUserID(c) == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CensusSyncRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}

	ref := time.Now()
	if in.Periodo != "" {
		parsed, err := time.Parse(periodoLayout, in.Periodo)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "periodo inválido, formato YYYY-MM"})
		}
		ref = parsed
	}
	desde, hasta := census.MonthRange(ref)

	res, err := h.svc.Run(c.Context(), desde, hasta)
	if err != nil {
		h.log.Error().Err(err).Msg("sincronización de padrón fallida")
		// El progreso parcial queda persistido; informamos el error igual.
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "CENSUS_FAILED", Message: err.Error()})
	}
	return c.JSON(dto.CensusSyncResponse{Consultados: res.Consulted, Actualizados: res.Updated})
}
