// Package pdf genera el reporte de corrida de la exportación RN 38/11: qué
// lotes se armaron y qué comprobantes quedaron fuera y por qué.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Agente + CUIT  │  Período + Fecha de corrida       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: archivo y registros de cada lote                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Tipo | Comprobante | Entidad | Motivo de exclusión   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/arba-api/internal/application/export"
	"github.com/jhoicas/arba-api/internal/domain/entity"
	"github.com/jhoicas/arba-api/internal/domain/rn3811"
	"github.com/jhoicas/arba-api/pkg/cuit"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 90, Blue: 60}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 160, Green: 30, Blue: 30}
)

// RunReportGenerator genera el PDF del reporte de corrida usando Maroto v2.
type RunReportGenerator struct{}

// NewRunReportGenerator construye el generador.
func NewRunReportGenerator() *RunReportGenerator { return &RunReportGenerator{} }

// GenerateRunReport genera el PDF y devuelve sus bytes.
func (g *RunReportGenerator) GenerateRunReport(
	company *entity.Company,
	period time.Time,
	result *export.Result,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Exportación RN 38/11 ARBA", true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(company, period))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRows(result)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if len(result.Rejections) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Todos los comprobantes del período entraron al lote.", props.Text{
				Size: 9, Top: 2, Color: colorGray,
			}),
		)))
	} else {
		m.AddRows(tableHeaderRow())
		for _, r := range rejectionRows(result.Rejections) {
			m.AddRows(r)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: agente + CUIT (izq) y período + fecha de corrida (der).
func headerRow(company *entity.Company, period time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("CUIT: "+cuit.Format(company.VATNumber, false), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("EXPORTACIÓN RN 38/11 ARBA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Período "+period.Format("01/2006"), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Generado: "+time.Now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// summaryRows: una línea por lote con archivo y cantidad de registros.
func summaryRows(result *export.Result) []core.Row {
	loteLine := func(label string, lote *export.LoteFile) string {
		if lote == nil {
			return label + ": no generado"
		}
		return fmt.Sprintf("%s: %s (%d registros)", label, lote.Filename, lote.Lines)
	}
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("ARCHIVOS GENERADOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(5).Add(col.New(12).Add(
			text.New(loteLine("Lote 1.2 (percepciones)", result.Lote12), props.Text{
				Size: 8, Top: 1, Left: 2, Color: colorGray,
			}),
		)),
		row.New(5).Add(col.New(12).Add(
			text.New(loteLine("Lote 1.9 (retenciones)", result.Lote19), props.Text{
				Size: 8, Top: 1, Left: 2, Color: colorGray,
			}),
		)),
	}
}

// tableHeaderRow: cabecera de la tabla de exclusiones.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Tipo", 2, align.Left),
		h("Comprobante", 3, align.Left),
		h("Entidad", 4, align.Left),
		h("Motivo de exclusión", 3, align.Left),
	)
}

// rejectionRows: una fila por comprobante excluido.
func rejectionRows(rejections []rn3811.Rejection) []core.Row {
	result := make([]core.Row, 0, len(rejections))
	for _, rej := range rejections {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				rej.Kind,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				rej.Document,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				rej.Party,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				rej.Reason,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1, Color: colorAlert},
			)),
		))
	}
	return result
}
