package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"
)

// Códigos de régimen en el nombre de archivo ARBA.
const (
	ReportCodePercepcion = "7" // Lote 1.2 — Percepciones Act. 7
	ReportCodeRetencion  = "6" // Lote 1.9 — Retenciones Act. 6
)

// Extensiones del archivo interno según el modo de exportación.
const (
	ExtensionTXT = "TXT"
	ExtensionCSV = "CSV"
)

// Period deriva el período del nombre de archivo: la fecha de inicio truncada
// a año-mes más un '0' literal al final. Es una convención fija del instructivo,
// no un día del mes real.
func Period(start time.Time) string {
	return start.Format("200601") + "0"
}

// Filename arma el nombre base exigido por ARBA: AR-{cuit}-{período}-{código}-{período}.
func Filename(agentCUIT, period, reportCode string) string {
	return fmt.Sprintf("AR-%s-%s-%s-%s", agentCUIT, period, reportCode, period)
}

// Package empaqueta el contenido del lote como única entrada
// {filename}.{ext} de un ZIP en memoria y devuelve el nombre del ZIP
// ({filename}.ZIP) y sus bytes, listos para entregar al llamador.
func Package(blob []byte, agentCUIT, period, reportCode, ext string) (zipName string, content []byte, err error) {
	base := Filename(agentCUIT, period, reportCode)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fw, err := zw.Create(base + "." + ext)
	if err != nil {
		return "", nil, fmt.Errorf("zip: crear entrada %s.%s: %w", base, ext, err)
	}
	if _, err := fw.Write(blob); err != nil {
		return "", nil, fmt.Errorf("zip: escribir lote: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", nil, fmt.Errorf("zip: cerrar archivo: %w", err)
	}
	return base + ".ZIP", buf.Bytes(), nil
}
