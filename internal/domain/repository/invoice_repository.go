package repository

import (
	"context"
	"time"

	"github.com/jhoicas/arba-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de lectura de comprobantes para la exportación.
type InvoiceRepository interface {
	// ListForRN3811 devuelve los comprobantes de venta que entran al Lote 1.2:
	// estado posted/paid, o cancelled con número asignado; fecha de asiento
	// dentro del rango; ordenados por número ascendente y luego fecha de
	// comprobante ascendente. El orden es un requisito de la herramienta de
	// ingesta de la autoridad, no cosmético. Incluye tercero y líneas de impuesto.
	ListForRN3811(ctx context.Context, companyID string, from, to time.Time) ([]*entity.Invoice, error)
}
