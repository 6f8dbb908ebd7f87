package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Party es un tercero (cliente/proveedor) identificado por CUIT.
// Las alícuotas provienen del padrón ARBA y las actualiza la sincronización
// de censo; son nulas hasta que el padrón informe un valor.
type Party struct {
	ID                 string
	Name               string
	VATNumber          string // CUIT corto: 11 dígitos sin separadores; puede estar vacío o mal cargado
	AlicuotaPercepcion decimal.NullDecimal
	AlicuotaRetencion  decimal.NullDecimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
