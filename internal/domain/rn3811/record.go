package rn3811

import "strings"

// EOL es el terminador de línea exigido por el instructivo RN 38/11.
const EOL = "\r\n"

// csvSeparator se usa en el modo CSV de depuración; el formato canónico de la
// autoridad es ancho fijo sin separador.
const csvSeparator = ";"

// Record es la tupla ordenada de campos ya renderizados de un registro.
// El orden de los campos es fijo por tipo de lote y nunca se reordena.
type Record struct {
	fields []string
}

// NewRecord construye el registro con los campos en su orden definitivo.
func NewRecord(fields ...string) Record {
	return Record{fields: fields}
}

// Fields devuelve una copia de los valores renderizados, en orden.
func (r Record) Fields() []string {
	out := make([]string, len(r.fields))
	copy(out, r.fields)
	return out
}

// Encode concatena los campos en una línea terminada en CRLF. Los campos de
// valor vacío se omiten (convención "campo omitido" del instructivo). Con
// csvFormat se separan con ';' en lugar de concatenarse a ancho fijo.
func (r Record) Encode(csvFormat bool) string {
	kept := make([]string, 0, len(r.fields))
	for _, f := range r.fields {
		if f != "" {
			kept = append(kept, f)
		}
	}
	sep := ""
	if csvFormat {
		sep = csvSeparator
	}
	return strings.Join(kept, sep) + EOL
}
