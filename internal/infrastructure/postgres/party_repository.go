package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/arba-api/internal/domain/entity"
	"github.com/jhoicas/arba-api/internal/domain/repository"
)

var _ repository.PartyRepository = (*PartyRepo)(nil)

// PartyRepo implementación de PartyRepository (usable con pool o tx).
type PartyRepo struct {
	q Querier
}

// NewPartyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartyRepository(q Querier) *PartyRepo {
	return &PartyRepo{q: q}
}

// ListWithVATNumber devuelve los terceros con CUIT cargado, en orden estable
// por nombre para que las corridas de sincronización sean reproducibles.
func (r *PartyRepo) ListWithVATNumber(ctx context.Context) ([]*entity.Party, error) {
	query := `
		SELECT id, name, vat_number, alicuota_percepcion, alicuota_retencion
		FROM parties
		WHERE COALESCE(vat_number, '') <> ''
		ORDER BY name ASC, id ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	defer rows.Close()

	var list []*entity.Party
	for rows.Next() {
		var p entity.Party
		if err := rows.Scan(&p.ID, &p.Name, &p.VATNumber, &p.AlicuotaPercepcion, &p.AlicuotaRetencion); err != nil {
			return nil, fmt.Errorf("scan party: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// UpdateAlicuotas persiste las alícuotas del padrón para un tercero. Cada
// llamada es su propio statement autocommit: el progreso de una corrida larga
// queda firme tercero a tercero.
func (r *PartyRepo) UpdateAlicuotas(ctx context.Context, party *entity.Party) error {
	query := `
		UPDATE parties
		SET alicuota_percepcion = $2,
		    alicuota_retencion  = $3,
		    updated_at          = $4
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		party.ID, party.AlicuotaPercepcion, party.AlicuotaRetencion, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update party alicuotas: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update party alicuotas: tercero %s no existe", party.ID)
	}
	return nil
}
