package repository

import (
	"context"

	"github.com/jhoicas/arba-api/internal/domain/entity"
)

// PartyRepository define el puerto de persistencia de terceros.
type PartyRepository interface {
	// ListWithVATNumber devuelve los terceros con CUIT cargado (no vacío).
	ListWithVATNumber(ctx context.Context) ([]*entity.Party, error)
	// UpdateAlicuotas persiste las alícuotas del padrón para un tercero.
	// Cada llamada confirma por separado: un fallo a mitad de una
	// sincronización larga conserva el progreso previo.
	UpdateAlicuotas(ctx context.Context, party *entity.Party) error
}
