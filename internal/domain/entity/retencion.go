package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una retención efectuada.
const (
	RetencionStateDraft     = "draft"
	RetencionStateIssued    = "issued"
	RetencionStateCancelled = "cancelled"
)

// Retencion representa una retención de IIBB efectuada a un tercero
// (comprobante de retención emitido por el agente).
type Retencion struct {
	ID            string
	Name          string // número/denominación del comprobante de retención
	TaxID         string // impuesto (régimen) bajo el que se practicó
	PartyID       string
	Party         *Party
	Date          time.Time       // fecha de la retención
	PaymentAmount decimal.Decimal // monto imponible del pago
	Amount        decimal.Decimal // importe retenido
	State         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
