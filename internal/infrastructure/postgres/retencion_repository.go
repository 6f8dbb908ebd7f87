package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/arba-api/internal/domain/entity"
	"github.com/jhoicas/arba-api/internal/domain/repository"
)

var _ repository.RetencionRepository = (*RetencionRepo)(nil)

// RetencionRepo implementación de RetencionRepository (usable con pool o tx).
type RetencionRepo struct {
	q Querier
}

// NewRetencionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRetencionRepository(q Querier) *RetencionRepo {
	return &RetencionRepo{q: q}
}

// ListIssued devuelve las retenciones emitidas del régimen dentro del rango,
// con su tercero, ordenadas por fecha y número de comprobante.
func (r *RetencionRepo) ListIssued(ctx context.Context, taxID string, from, to time.Time) ([]*entity.Retencion, error) {
	query := `
		SELECT r.id, r.name, r.tax_id, r.party_id, r.date,
		       r.payment_amount, r.amount, r.state,
		       p.id, p.name, COALESCE(p.vat_number, '')
		FROM retenciones r
		JOIN parties p ON p.id = r.party_id
		WHERE r.tax_id = $1
		  AND r.state = 'issued'
		  AND r.date >= $2
		  AND r.date <= $3
		ORDER BY r.date ASC, r.name ASC`
	rows, err := r.q.Query(ctx, query, taxID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list retenciones: %w", err)
	}
	defer rows.Close()

	var list []*entity.Retencion
	for rows.Next() {
		var ret entity.Retencion
		var party entity.Party
		if err := rows.Scan(
			&ret.ID, &ret.Name, &ret.TaxID, &ret.PartyID, &ret.Date,
			&ret.PaymentAmount, &ret.Amount, &ret.State,
			&party.ID, &party.Name, &party.VATNumber,
		); err != nil {
			return nil, fmt.Errorf("scan retencion: %w", err)
		}
		ret.Party = &party
		list = append(list, &ret)
	}
	return list, rows.Err()
}
