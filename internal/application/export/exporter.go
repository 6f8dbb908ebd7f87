// Package export implementa la exportación RN 38/11: consulta los comprobantes
// del período, arma los lotes 1.2 y 1.9 registro a registro y los empaqueta en
// los ZIP con el nombre que exige la autoridad.
package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/arba-api/internal/domain/repository"
	"github.com/jhoicas/arba-api/internal/domain/rn3811"
	"github.com/jhoicas/arba-api/pkg/config"
	"github.com/jhoicas/arba-api/pkg/logger"
)

// Options parámetros de una corrida de exportación.
type Options struct {
	CompanyID string
	StartDate time.Time
	EndDate   time.Time
	CSVFormat bool // modo CSV de depuración; el canónico es ancho fijo
}

// LoteFile es un lote ya empaquetado.
type LoteFile struct {
	Filename string // nombre del ZIP (AR-...-....ZIP)
	Content  []byte // bytes del ZIP
	Lines    int    // registros aceptados
}

// Result es el producto de una corrida: ambos lotes más el reporte de rechazos.
// Vive solo durante la corrida; nunca se persiste.
type Result struct {
	Lote12     *LoteFile
	Lote19     *LoteFile
	Rejections []rn3811.Rejection
}

// Message devuelve el reporte de rechazos, una línea por comprobante excluido.
func (r *Result) Message() string {
	if len(r.Rejections) == 0 {
		return ""
	}
	lines := make([]string, len(r.Rejections))
	for i, rej := range r.Rejections {
		lines[i] = rej.Message()
	}
	return strings.Join(lines, "\n")
}

// ExportRN3811UseCase orquesta la corrida completa de exportación.
// No guarda estado entre corridas: los acumuladores se crean por llamada.
type ExportRN3811UseCase struct {
	invoiceRepo   repository.InvoiceRepository
	retencionRepo repository.RetencionRepository
	companyRepo   repository.CompanyRepository
	arbaCfg       config.ARBAConfig
	log           *logger.Logger
}

// NewExportRN3811UseCase construye el caso de uso. La configuración ARBA se
// recibe por valor en la construcción; no hay estado global de proceso.
func NewExportRN3811UseCase(
	invoiceRepo repository.InvoiceRepository,
	retencionRepo repository.RetencionRepository,
	companyRepo repository.CompanyRepository,
	arbaCfg config.ARBAConfig,
	log *logger.Logger,
) *ExportRN3811UseCase {
	return &ExportRN3811UseCase{
		invoiceRepo:   invoiceRepo,
		retencionRepo: retencionRepo,
		companyRepo:   companyRepo,
		arbaCfg:       arbaCfg,
		log:           log.Component("exporter"),
	}
}

// Run ejecuta una corrida: arma el Lote 1.2 sobre los comprobantes de venta y
// el Lote 1.9 sobre las retenciones emitidas del período. Un rechazo de
// registro nunca aborta la corrida; un dato obligatorio ausente (fecha de
// comprobante) sí, con error. El empaquetado de cada lote es independiente:
// el fallo de uno no impide el otro.
func (uc *ExportRN3811UseCase) Run(ctx context.Context, opts Options) (*Result, error) {
	company, err := uc.companyRepo.GetByID(ctx, opts.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("export: empresa %s: %w", opts.CompanyID, err)
	}
	if company == nil {
		return nil, fmt.Errorf("export: empresa %s no encontrada", opts.CompanyID)
	}

	res := &Result{}

	lote12, err := uc.buildLote12(ctx, opts, res)
	if err != nil {
		return nil, err
	}
	lote19, err := uc.buildLote19(ctx, opts, res)
	if err != nil {
		return nil, err
	}

	period := Period(opts.StartDate)
	ext := ExtensionTXT
	if opts.CSVFormat {
		ext = ExtensionCSV
	}

	if name, content, err := Package([]byte(lote12.text), company.VATNumber, period, ReportCodePercepcion, ext); err != nil {
		uc.log.Error().Err(err).Msg("empaquetado del Lote 1.2")
	} else {
		res.Lote12 = &LoteFile{Filename: name, Content: content, Lines: lote12.lines}
	}

	if name, content, err := Package([]byte(lote19.text), company.VATNumber, period, ReportCodeRetencion, ext); err != nil {
		uc.log.Error().Err(err).Msg("empaquetado del Lote 1.9")
	} else {
		res.Lote19 = &LoteFile{Filename: name, Content: content, Lines: lote19.lines}
	}

	uc.log.Info().
		Int("lote12_registros", lote12.lines).
		Int("lote19_registros", lote19.lines).
		Int("rechazos", len(res.Rejections)).
		Str("periodo", period).
		Msg("exportación RN 38/11 completada")

	return res, nil
}

// batch acumula las líneas aceptadas de un lote en orden de aparición.
type batch struct {
	text  string
	lines int
}

func (uc *ExportRN3811UseCase) buildLote12(ctx context.Context, opts Options, res *Result) (batch, error) {
	invoices, err := uc.invoiceRepo.ListForRN3811(ctx, opts.CompanyID, opts.StartDate, opts.EndDate)
	if err != nil {
		return batch{}, fmt.Errorf("export: consultar comprobantes: %w", err)
	}

	var b strings.Builder
	var lines int
	for _, inv := range invoices {
		rec, rej, err := rn3811.BuildLote12(inv, uc.arbaCfg.RegimenPercepcionID)
		switch {
		case err != nil:
			return batch{}, err
		case rej != nil:
			uc.log.Warn().Str("factura", inv.Number).Msg(rej.Message())
			res.Rejections = append(res.Rejections, *rej)
		case rec == nil:
			uc.log.Info().Str("factura", inv.Number).Msg("sin percepción de IIBB BSAS, se omite")
		default:
			b.WriteString(rec.Encode(opts.CSVFormat))
			lines++
		}
	}
	return batch{text: b.String(), lines: lines}, nil
}

func (uc *ExportRN3811UseCase) buildLote19(ctx context.Context, opts Options, res *Result) (batch, error) {
	retenciones, err := uc.retencionRepo.ListIssued(ctx, uc.arbaCfg.RegimenRetencionID, opts.StartDate, opts.EndDate)
	if err != nil {
		return batch{}, fmt.Errorf("export: consultar retenciones: %w", err)
	}

	var b strings.Builder
	var lines int
	for _, ret := range retenciones {
		rec, rej, err := rn3811.BuildLote19(ret)
		switch {
		case err != nil:
			return batch{}, err
		case rej != nil:
			uc.log.Warn().Str("retencion", ret.Name).Msg(rej.Message())
			res.Rejections = append(res.Rejections, *rej)
		default:
			b.WriteString(rec.Encode(opts.CSVFormat))
			lines++
		}
	}
	return batch{text: b.String(), lines: lines}, nil
}
