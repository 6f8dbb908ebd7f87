package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de comprobante según su dirección.
const (
	InvoiceTypeOut = "out" // venta (único tipo exportable en Lote 1.2)
	InvoiceTypeIn  = "in"  // compra
)

// Estados del comprobante.
const (
	InvoiceStateDraft     = "draft"
	InvoiceStatePosted    = "posted"
	InvoiceStatePaid      = "paid"
	InvoiceStateCancelled = "cancelled"
)

// Invoice representa la cabecera de un comprobante de venta o compra.
// El número tiene la forma sucursal-emisión (ej: "0001-00000123").
type Invoice struct {
	ID              string
	CompanyID       string
	PartyID         string
	Type            string // out | in
	State           string
	Number          string
	Reference       string     // referencia externa; si existe, reemplaza al número al derivar sucursal/emisión
	InvoiceTypeName string     // nombre visible del tipo (ej: "Factura A", "Nota de Crédito B")
	InvoiceDate     *time.Time // fecha del comprobante; puede faltar en datos mal cargados
	MoveDate        time.Time  // fecha del asiento contable (criterio de corte del período)
	UntaxedAmount   decimal.Decimal
	Party           *Party
	Taxes           []InvoiceTax
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// InvoiceTax es una línea de impuesto del comprobante.
type InvoiceTax struct {
	ID        string
	InvoiceID string
	TaxID     string
	Base      decimal.Decimal
	Amount    decimal.Decimal
}

// TaxAmount acumula los importes de las líneas cuyo impuesto es taxID.
func (i *Invoice) TaxAmount(taxID string) decimal.Decimal {
	total := decimal.Zero
	for _, line := range i.Taxes {
		if line.TaxID == taxID {
			total = total.Add(line.Amount)
		}
	}
	return total
}
