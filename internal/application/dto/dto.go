// Package dto define los contratos JSON de la API.
package dto

// ErrorResponse respuesta de error uniforme de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ExportRequest parámetros de una corrida de exportación RN 38/11.
// Periodo es el mes a exportar en formato "YYYY-MM".
type ExportRequest struct {
	Periodo string `json:"periodo"`
	CSV     bool   `json:"csv"` // genera .CSV con separador ';' en lugar de .TXT de ancho fijo
}

// LoteResponse un lote empaquetado, con el ZIP en Base64.
type LoteResponse struct {
	Filename  string `json:"filename"`
	Registros int    `json:"registros"`
	Contenido string `json:"contenido"` // ZIP en Base64
}

// ExportResponse resultado de la corrida.
type ExportResponse struct {
	RunID    string        `json:"run_id"`
	Lote12   *LoteResponse `json:"lote_12,omitempty"`
	Lote19   *LoteResponse `json:"lote_19,omitempty"`
	Rechazos []string      `json:"rechazos,omitempty"` // una línea por comprobante excluido
}

// CensusSyncRequest parámetros de la sincronización de padrón. Periodo
// ("YYYY-MM") es opcional; vacío usa el mes corriente.
type CensusSyncRequest struct {
	Periodo string `json:"periodo,omitempty"`
}

// CensusSyncResponse resultado de la sincronización.
type CensusSyncResponse struct {
	Consultados  int `json:"consultados"`
	Actualizados int `json:"actualizados"`
}
