package repository

import (
	"context"
	"time"

	"github.com/jhoicas/arba-api/internal/domain/entity"
)

// RetencionRepository define el puerto de lectura de retenciones efectuadas.
type RetencionRepository interface {
	// ListIssued devuelve las retenciones del régimen indicado en estado
	// emitida, con fecha dentro del rango, ordenadas por fecha ascendente y
	// luego denominación ascendente (requisito de ingesta de la autoridad).
	// Incluye el tercero.
	ListIssued(ctx context.Context, taxID string, from, to time.Time) ([]*entity.Retencion, error)
}
