package rn3811

import "fmt"

// Rejection describe un comprobante excluido del lote con un motivo visible
// para el operador. No es un error: el resto del lote sigue procesándose.
type Rejection struct {
	Kind     string // "factura" | "retención"
	Document string // número o denominación del comprobante
	Party    string // nombre del tercero
	Reason   string // ej: "no tiene CUIT"
}

// Message devuelve la línea del reporte de rechazos para el operador.
func (r Rejection) Message() string {
	return fmt.Sprintf("ERROR: La %s %s de la entidad %s %s. Fue quitada del listado.",
		r.Kind, r.Document, r.Party, r.Reason)
}
