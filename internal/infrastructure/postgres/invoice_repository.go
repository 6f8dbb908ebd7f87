package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/arba-api/internal/domain/entity"
	"github.com/jhoicas/arba-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// ListForRN3811 devuelve los comprobantes de venta del período que entran al
// Lote 1.2, con su tercero y sus líneas de impuesto. El ORDER BY por número y
// fecha reproduce el orden que la herramienta de ingesta de ARBA exige.
func (r *InvoiceRepo) ListForRN3811(ctx context.Context, companyID string, from, to time.Time) ([]*entity.Invoice, error) {
	query := `
		SELECT i.id, i.company_id, i.party_id, i.type, i.state,
		       COALESCE(i.number, ''), COALESCE(i.reference, ''),
		       i.invoice_type_name, i.invoice_date, i.move_date, i.untaxed_amount,
		       p.id, p.name, COALESCE(p.vat_number, '')
		FROM invoices i
		JOIN parties p ON p.id = i.party_id
		WHERE i.company_id = $1
		  AND i.type = 'out'
		  AND (i.state IN ('posted', 'paid')
		       OR (i.state = 'cancelled' AND COALESCE(i.number, '') <> ''))
		  AND i.move_date >= $2
		  AND i.move_date <= $3
		ORDER BY i.number ASC, i.invoice_date ASC`
	rows, err := r.q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	byID := make(map[string]*entity.Invoice)
	var ids []string
	for rows.Next() {
		var inv entity.Invoice
		var party entity.Party
		if err := rows.Scan(
			&inv.ID, &inv.CompanyID, &inv.PartyID, &inv.Type, &inv.State,
			&inv.Number, &inv.Reference,
			&inv.InvoiceTypeName, &inv.InvoiceDate, &inv.MoveDate, &inv.UntaxedAmount,
			&party.ID, &party.Name, &party.VATNumber,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		inv.Party = &party
		list = append(list, &inv)
		byID[inv.ID] = &inv
		ids = append(ids, inv.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}

	if err := r.loadTaxes(ctx, ids, byID); err != nil {
		return nil, err
	}
	return list, nil
}

// loadTaxes carga las líneas de impuesto de todos los comprobantes en un solo
// viaje y las reparte por comprobante.
func (r *InvoiceRepo) loadTaxes(ctx context.Context, ids []string, byID map[string]*entity.Invoice) error {
	query := `
		SELECT id, invoice_id, tax_id, base, amount
		FROM invoice_taxes
		WHERE invoice_id = ANY($1::uuid[])
		ORDER BY invoice_id, id`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list invoice taxes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line entity.InvoiceTax
		if err := rows.Scan(&line.ID, &line.InvoiceID, &line.TaxID, &line.Base, &line.Amount); err != nil {
			return fmt.Errorf("scan invoice tax: %w", err)
		}
		if inv, ok := byID[line.InvoiceID]; ok {
			inv.Taxes = append(inv.Taxes, line)
		}
	}
	return rows.Err()
}
