package entity

import "time"

// Company es la empresa que actúa como agente de recaudación IIBB.
// Su CUIT encabeza los nombres de archivo RN 38/11 y es el usuario del WS DFE.
type Company struct {
	ID        string
	Name      string
	VATNumber string // CUIT corto del agente
	CreatedAt time.Time
	UpdatedAt time.Time
}
