package export_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/arba-api/internal/application/export"
	"github.com/jhoicas/arba-api/internal/domain/entity"
	"github.com/jhoicas/arba-api/pkg/config"
	"github.com/jhoicas/arba-api/pkg/logger"
)

const (
	testPercepcionID = "tax-percepcion-iibb"
	testRetencionID  = "tax-retencion-iibb"
)

// ── Fakes en memoria con el mismo contrato de orden que los adaptadores SQL ──

type fakeInvoiceRepo struct {
	invoices []*entity.Invoice
	err      error
}

func (f *fakeInvoiceRepo) ListForRN3811(_ context.Context, _ string, from, to time.Time) ([]*entity.Invoice, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.Invoice
	for _, inv := range f.invoices {
		if inv.MoveDate.Before(from) || inv.MoveDate.After(to) {
			continue
		}
		out = append(out, inv)
	}
	// Mismo orden que el adaptador postgres: número ASC, fecha ASC.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Number != out[j].Number {
			return out[i].Number < out[j].Number
		}
		return out[i].InvoiceDate.Before(*out[j].InvoiceDate)
	})
	return out, nil
}

type fakeRetencionRepo struct {
	retenciones []*entity.Retencion
}

func (f *fakeRetencionRepo) ListIssued(_ context.Context, taxID string, from, to time.Time) ([]*entity.Retencion, error) {
	var out []*entity.Retencion
	for _, ret := range f.retenciones {
		if ret.TaxID != taxID || ret.State != entity.RetencionStateIssued {
			continue
		}
		if ret.Date.Before(from) || ret.Date.After(to) {
			continue
		}
		out = append(out, ret)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

type fakeCompanyRepo struct{ company *entity.Company }

func (f *fakeCompanyRepo) GetByID(context.Context, string) (*entity.Company, error) {
	return f.company, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func testDate(day int) time.Time {
	return time.Date(2024, 7, day, 0, 0, 0, 0, time.UTC)
}

func outInvoice(number string, day int) *entity.Invoice {
	d := testDate(day)
	return &entity.Invoice{
		Type:            entity.InvoiceTypeOut,
		State:           entity.InvoiceStatePosted,
		Number:          number,
		InvoiceTypeName: "Factura A",
		InvoiceDate:     &d,
		MoveDate:        d,
		UntaxedAmount:   decimal.RequireFromString("100"),
		Party:           &entity.Party{Name: "ACME SA", VATNumber: "20123456786"},
		Taxes:           []entity.InvoiceTax{{TaxID: testPercepcionID, Amount: decimal.RequireFromString("3.50")}},
	}
}

func newUseCase(invRepo *fakeInvoiceRepo, retRepo *fakeRetencionRepo) *export.ExportRN3811UseCase {
	return export.NewExportRN3811UseCase(
		invRepo, retRepo,
		&fakeCompanyRepo{company: &entity.Company{ID: "co-1", Name: "AGENTE SA", VATNumber: "30111111118"}},
		config.ARBAConfig{
			ModoCert:            config.ModoCertHomologacion,
			RegimenPercepcionID: testPercepcionID,
			RegimenRetencionID:  testRetencionID,
		},
		testLogger(),
	)
}

func unzipSingle(t *testing.T, content []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func defaultOptions() export.Options {
	return export.Options{
		CompanyID: "co-1",
		StartDate: testDate(1),
		EndDate:   testDate(31),
	}
}

// ── Tests ────────────────────────────────────────────────────────────────────

// TestRun_OrdenPorNumeroDeComprobante: dos comprobantes de la misma fecha se
// emiten en orden ascendente de número; la herramienta de ingesta de la
// autoridad lo exige.
func TestRun_OrdenPorNumeroDeComprobante(t *testing.T) {
	invRepo := &fakeInvoiceRepo{invoices: []*entity.Invoice{
		outInvoice("0001-00000010", 15),
		outInvoice("0001-00000005", 15),
	}}
	uc := newUseCase(invRepo, &fakeRetencionRepo{})

	res, err := uc.Run(context.Background(), defaultOptions())
	require.NoError(t, err)
	require.NotNil(t, res.Lote12)

	text := unzipSingle(t, res.Lote12.Content)
	lines := strings.Split(strings.TrimSuffix(text, "\r\n"), "\r\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "00000005")
	assert.Contains(t, lines[1], "00000010")
}

func TestRun_NombresDeArchivo(t *testing.T) {
	uc := newUseCase(&fakeInvoiceRepo{}, &fakeRetencionRepo{})

	res, err := uc.Run(context.Background(), defaultOptions())
	require.NoError(t, err)
	require.NotNil(t, res.Lote12)
	require.NotNil(t, res.Lote19)
	assert.Equal(t, "AR-30111111118-2024070-7-2024070.ZIP", res.Lote12.Filename)
	assert.Equal(t, "AR-30111111118-2024070-6-2024070.ZIP", res.Lote19.Filename)
}

// TestRun_RechazoNoAbortaLaCorrida: un CUIT inválido excluye ese comprobante
// con mensaje y el resto del lote se emite igual.
func TestRun_RechazoNoAbortaLaCorrida(t *testing.T) {
	bad := outInvoice("0001-00000001", 10)
	bad.Party = &entity.Party{Name: "SIN CUIT SRL", VATNumber: ""}
	invRepo := &fakeInvoiceRepo{invoices: []*entity.Invoice{bad, outInvoice("0001-00000002", 11)}}
	uc := newUseCase(invRepo, &fakeRetencionRepo{})

	res, err := uc.Run(context.Background(), defaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Lote12.Lines)
	require.Len(t, res.Rejections, 1)
	assert.Equal(t,
		"ERROR: La factura 0001-00000001 de la entidad SIN CUIT SRL no tiene CUIT. Fue quitada del listado.",
		res.Message())
}

// TestRun_SinPercepcionNoGeneraMensaje: la exclusión silenciosa (percepción
// cero) se distingue del rechazo: no aparece en el reporte.
func TestRun_SinPercepcionNoGeneraMensaje(t *testing.T) {
	inv := outInvoice("0001-00000001", 10)
	inv.Taxes = nil
	uc := newUseCase(&fakeInvoiceRepo{invoices: []*entity.Invoice{inv}}, &fakeRetencionRepo{})

	res, err := uc.Run(context.Background(), defaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Lote12.Lines)
	assert.Empty(t, res.Rejections)
	assert.Empty(t, res.Message())
}

// TestRun_FechaFaltanteAbortaLaCorrida fija el contrato vigente: la fecha de
// comprobante ausente es un error fatal de datos, no un rechazo por línea.
func TestRun_FechaFaltanteAbortaLaCorrida(t *testing.T) {
	inv := outInvoice("0001-00000001", 10)
	inv.InvoiceDate = nil
	uc := newUseCase(&fakeInvoiceRepo{invoices: []*entity.Invoice{inv}}, &fakeRetencionRepo{})

	res, err := uc.Run(context.Background(), defaultOptions())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "Fecha Comprobante")
}

func TestRun_Lote19(t *testing.T) {
	retRepo := &fakeRetencionRepo{retenciones: []*entity.Retencion{
		{
			Name: "RET-0002", TaxID: testRetencionID, State: entity.RetencionStateIssued,
			Date:          testDate(20),
			PaymentAmount: decimal.RequireFromString("1500"),
			Amount:        decimal.RequireFromString("52.50"),
			Party:         &entity.Party{Name: "BANCO SUR", VATNumber: "27000000006"},
		},
		{
			// Otro régimen: queda fuera por el filtro del repositorio.
			Name: "RET-0003", TaxID: "otro-tax", State: entity.RetencionStateIssued,
			Date:          testDate(21),
			PaymentAmount: decimal.RequireFromString("10"),
			Amount:        decimal.RequireFromString("1"),
			Party:         &entity.Party{Name: "BANCO SUR", VATNumber: "27000000006"},
		},
	}}
	uc := newUseCase(&fakeInvoiceRepo{}, retRepo)

	res, err := uc.Run(context.Background(), defaultOptions())
	require.NoError(t, err)
	require.NotNil(t, res.Lote19)
	assert.Equal(t, 1, res.Lote19.Lines)

	text := unzipSingle(t, res.Lote19.Content)
	assert.Equal(t, "27-00000000-6000001500.00000000052.50020/07/2024A", strings.TrimSuffix(text, "\r\n"))
}

func TestRun_ModoCSV(t *testing.T) {
	opts := defaultOptions()
	opts.CSVFormat = true
	uc := newUseCase(&fakeInvoiceRepo{invoices: []*entity.Invoice{outInvoice("0001-00000001", 10)}}, &fakeRetencionRepo{})

	res, err := uc.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(res.Lote12.Filename, ".ZIP"))

	text := unzipSingle(t, res.Lote12.Content)
	line := strings.TrimSuffix(text, "\r\n")
	assert.Len(t, strings.Split(line, ";"), 10, "el modo CSV separa los 10 campos con ';'")
}
