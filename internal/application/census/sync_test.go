package census_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/arba-api/internal/application/census"
	"github.com/jhoicas/arba-api/internal/domain/entity"
	"github.com/jhoicas/arba-api/pkg/config"
	"github.com/jhoicas/arba-api/pkg/logger"
)

type fakePartyRepo struct {
	parties []*entity.Party
	updated []string // IDs persistidos, en orden
	failOn  string   // ID que hace fallar UpdateAlicuotas
}

func (f *fakePartyRepo) ListWithVATNumber(context.Context) ([]*entity.Party, error) {
	return f.parties, nil
}

func (f *fakePartyRepo) UpdateAlicuotas(_ context.Context, party *entity.Party) error {
	if party.ID == f.failOn {
		return errors.New("conexión perdida")
	}
	f.updated = append(f.updated, party.ID)
	return nil
}

type fakeCensusClient struct {
	responses map[string]*census.Contribuyente
	errOn     string // CUIT que devuelve error
	calls     []string
}

func (f *fakeCensusClient) ConsultarContribuyente(_ context.Context, cuit string, _, _ time.Time) (*census.Contribuyente, error) {
	f.calls = append(f.calls, cuit)
	if cuit == f.errOn {
		return nil, errors.New("HTTP 500")
	}
	// Un CUIT sin respuesta configurada no está en el padrón.
	return f.responses[cuit], nil
}

func syncCfg() config.ARBAConfig {
	return config.ARBAConfig{ModoCert: config.ModoCertHomologacion, Password: "clave"}
}

func syncLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func window() (time.Time, time.Time) {
	return census.MonthRange(time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC))
}

func TestMonthRange(t *testing.T) {
	desde, hasta := census.MonthRange(time.Date(2024, 2, 15, 12, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), desde)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), hasta)

	desde, hasta = census.MonthRange(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), desde)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), hasta)
}

func TestRun_ActualizaAlicuotasConComaDecimal(t *testing.T) {
	repo := &fakePartyRepo{parties: []*entity.Party{
		{ID: "p1", Name: "ACME SA", VATNumber: "20123456786"},
	}}
	client := &fakeCensusClient{responses: map[string]*census.Contribuyente{
		"20123456786": {CUIT: "20123456786", AlicuotaPercepcion: "3,50", AlicuotaRetencion: "1,75"},
	}}
	svc := census.NewSyncService(repo, client, syncCfg(), syncLogger())

	desde, hasta := window()
	res, err := svc.Run(context.Background(), desde, hasta)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Consulted)
	assert.Equal(t, 1, res.Updated)
	require.Equal(t, []string{"p1"}, repo.updated)

	p := repo.parties[0]
	require.True(t, p.AlicuotaPercepcion.Valid)
	assert.Equal(t, "3.5", p.AlicuotaPercepcion.Decimal.String())
	require.True(t, p.AlicuotaRetencion.Valid)
	assert.Equal(t, "1.75", p.AlicuotaRetencion.Decimal.String())
}

// TestRun_CampoVacioNoPisaLaAlicuota: el padrón puede informar una sola de
// las dos alícuotas; la otra queda como estaba.
func TestRun_CampoVacioNoPisaLaAlicuota(t *testing.T) {
	p := &entity.Party{ID: "p1", Name: "ACME SA", VATNumber: "20123456786"}
	p.AlicuotaRetencion.Valid = true
	p.AlicuotaRetencion.Decimal = decimal.RequireFromString("2.00")

	repo := &fakePartyRepo{parties: []*entity.Party{p}}
	client := &fakeCensusClient{responses: map[string]*census.Contribuyente{
		"20123456786": {CUIT: "20123456786", AlicuotaPercepcion: "4,00"},
	}}
	svc := census.NewSyncService(repo, client, syncCfg(), syncLogger())

	desde, hasta := window()
	res, err := svc.Run(context.Background(), desde, hasta)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, "4", p.AlicuotaPercepcion.Decimal.String())
	assert.Equal(t, "2", p.AlicuotaRetencion.Decimal.String())
}

// TestRun_SinAlicuotasNoPersiste: el padrón devuelve la fila del CUIT pero
// sin alícuotas informadas; no hay nada que actualizar.
func TestRun_SinAlicuotasNoPersiste(t *testing.T) {
	repo := &fakePartyRepo{parties: []*entity.Party{
		{ID: "p1", Name: "ACME SA", VATNumber: "20123456786"},
	}}
	client := &fakeCensusClient{responses: map[string]*census.Contribuyente{
		"20123456786": {CUIT: "20123456786"},
	}}
	svc := census.NewSyncService(repo, client, syncCfg(), syncLogger())

	desde, hasta := window()
	res, err := svc.Run(context.Background(), desde, hasta)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Consulted)
	assert.Equal(t, 0, res.Updated)
	assert.Empty(t, repo.updated)
}

// TestRun_CuitFueraDelPadronNoAbortaLaCorrida: un CUIT que el padrón no
// conoce se salta y los terceros siguientes se siguen sincronizando.
func TestRun_CuitFueraDelPadronNoAbortaLaCorrida(t *testing.T) {
	repo := &fakePartyRepo{parties: []*entity.Party{
		{ID: "p1", Name: "ACME SA", VATNumber: "20123456786"},
		{ID: "p2", Name: "BANCO SUR", VATNumber: "27000000006"},
	}}
	client := &fakeCensusClient{responses: map[string]*census.Contribuyente{
		"27000000006": {CUIT: "27000000006", AlicuotaPercepcion: "3,50"},
	}}
	svc := census.NewSyncService(repo, client, syncCfg(), syncLogger())

	desde, hasta := window()
	res, err := svc.Run(context.Background(), desde, hasta)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Consulted)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, []string{"p2"}, repo.updated)
	assert.Equal(t, []string{"20123456786", "27000000006"}, client.calls)
	assert.False(t, repo.parties[0].AlicuotaPercepcion.Valid)
}

// TestRun_ErrorDelWSAbortaPeroConservaElProgreso: el commit por tercero hace
// que un fallo a mitad de corrida no pierda lo ya sincronizado.
func TestRun_ErrorDelWSAbortaPeroConservaElProgreso(t *testing.T) {
	repo := &fakePartyRepo{parties: []*entity.Party{
		{ID: "p1", Name: "ACME SA", VATNumber: "20123456786"},
		{ID: "p2", Name: "BANCO SUR", VATNumber: "27000000006"},
		{ID: "p3", Name: "TERCERO SRL", VATNumber: "30111111118"},
	}}
	client := &fakeCensusClient{
		responses: map[string]*census.Contribuyente{
			"20123456786": {CUIT: "20123456786", AlicuotaPercepcion: "3,50"},
		},
		errOn: "27000000006",
	}
	svc := census.NewSyncService(repo, client, syncCfg(), syncLogger())

	desde, hasta := window()
	res, err := svc.Run(context.Background(), desde, hasta)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "27000000006")
	// p1 quedó firme; p3 nunca se consultó.
	assert.Equal(t, []string{"p1"}, repo.updated)
	assert.Equal(t, []string{"20123456786", "27000000006"}, client.calls)
	assert.Equal(t, 1, res.Updated)
}

func TestRun_ModoCertSinConfigurar(t *testing.T) {
	svc := census.NewSyncService(&fakePartyRepo{}, &fakeCensusClient{}, config.ARBAConfig{}, syncLogger())

	desde, hasta := window()
	res, err := svc.Run(context.Background(), desde, hasta)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, census.ErrModoCertNotSet)
	assert.Contains(t, err.Error(), "ARBA_MODO_CERT")
}
