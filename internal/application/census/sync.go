// Package census sincroniza las alícuotas de percepción y retención de IIBB
// de cada tercero contra el padrón de ARBA (web service DFE).
package census

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/arba-api/internal/domain/entity"
	"github.com/jhoicas/arba-api/internal/domain/repository"
	"github.com/jhoicas/arba-api/internal/domain/rn3811"
	"github.com/jhoicas/arba-api/pkg/config"
	"github.com/jhoicas/arba-api/pkg/logger"
)

// Contribuyente es la respuesta del padrón para un CUIT consultado. Las
// alícuotas vienen como texto con coma decimal ("3,50"); un campo vacío
// significa que el padrón no informa ese dato para el período.
type Contribuyente struct {
	CUIT               string
	AlicuotaPercepcion string
	AlicuotaRetencion  string
}

// ErrModoCertNotSet indica que el agente no configuró el modo de
// certificación y por lo tanto no hay endpoint de padrón al que consultar.
var ErrModoCertNotSet = errors.New("modo de certificación ARBA sin configurar")

// Client es el puerto hacia el web service de padrón de ARBA. Cuando el padrón
// no tiene datos para el CUIT en el período devuelve (nil, nil).
type Client interface {
	ConsultarContribuyente(ctx context.Context, cuit string, desde, hasta time.Time) (*Contribuyente, error)
}

// MonthRange devuelve el primer y último día del mes de ref. Es la ventana
// por defecto de consulta al padrón: ARBA publica alícuotas por mes calendario.
func MonthRange(ref time.Time) (desde, hasta time.Time) {
	desde = time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	hasta = desde.AddDate(0, 1, -1)
	return desde, hasta
}

// SyncResult resume una corrida de sincronización.
type SyncResult struct {
	Consulted int // terceros consultados al padrón
	Updated   int // terceros con alguna alícuota actualizada
}

// SyncService recorre los terceros con CUIT y actualiza sus alícuotas según
// el padrón. Cada tercero se persiste por separado: un corte a mitad de una
// corrida larga conserva lo ya sincronizado.
type SyncService struct {
	parties repository.PartyRepository
	client  Client
	cfg     config.ARBAConfig
	log     *logger.Logger
}

// NewSyncService construye el servicio de sincronización de padrón.
func NewSyncService(parties repository.PartyRepository, client Client, cfg config.ARBAConfig, log *logger.Logger) *SyncService {
	return &SyncService{
		parties: parties,
		client:  client,
		cfg:     cfg,
		log:     log.Component("census"),
	}
}

// Run consulta el padrón para cada tercero con CUIT dentro de la ventana
// [desde, hasta]. Un CUIT sin datos en el padrón se salta y la corrida sigue;
// un error del web service aborta los terceros restantes, y los ya
// persistidos quedan firmes. Un campo vacío en la respuesta deja la alícuota
// existente sin tocar.
func (s *SyncService) Run(ctx context.Context, desde, hasta time.Time) (*SyncResult, error) {
	if s.cfg.ModoCert == "" {
		return nil, fmt.Errorf("census: %w: defina ARBA_MODO_CERT=%q o %q para consultar el padrón",
			ErrModoCertNotSet, config.ModoCertHomologacion, config.ModoCertProduccion)
	}

	parties, err := s.parties.ListWithVATNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("census: listar terceros: %w", err)
	}

	res := &SyncResult{}
	for _, party := range parties {
		contrib, err := s.client.ConsultarContribuyente(ctx, party.VATNumber, desde, hasta)
		if err != nil {
			return res, fmt.Errorf("census: consultar CUIT %s: %w", party.VATNumber, err)
		}
		res.Consulted++

		if contrib == nil {
			s.log.Debug().Str("cuit", party.VATNumber).Msg("CUIT sin datos en el padrón")
			continue
		}

		changed, err := applyRates(party, contrib)
		if err != nil {
			return res, fmt.Errorf("census: CUIT %s: %w", party.VATNumber, err)
		}
		if !changed {
			s.log.Debug().Str("cuit", party.VATNumber).Msg("padrón sin alícuotas informadas")
			continue
		}

		if err := s.parties.UpdateAlicuotas(ctx, party); err != nil {
			return res, fmt.Errorf("census: actualizar tercero %s: %w", party.ID, err)
		}
		res.Updated++
		s.log.Info().
			Str("cuit", party.VATNumber).
			Str("percepcion", contrib.AlicuotaPercepcion).
			Str("retencion", contrib.AlicuotaRetencion).
			Msg("alícuotas actualizadas")
	}

	s.log.Info().
		Int("consultados", res.Consulted).
		Int("actualizados", res.Updated).
		Time("desde", desde).
		Time("hasta", hasta).
		Msg("sincronización de padrón completada")
	return res, nil
}

// applyRates vuelca sobre party las alícuotas informadas. Devuelve si hubo
// algún cambio que persistir.
func applyRates(party *entity.Party, contrib *Contribuyente) (bool, error) {
	if contrib == nil {
		return false, nil
	}
	changed := false
	if contrib.AlicuotaPercepcion != "" {
		rate, err := rn3811.ParseAmount(contrib.AlicuotaPercepcion)
		if err != nil {
			return false, fmt.Errorf("alícuota de percepción %q: %w", contrib.AlicuotaPercepcion, err)
		}
		party.AlicuotaPercepcion.Decimal = rate
		party.AlicuotaPercepcion.Valid = true
		changed = true
	}
	if contrib.AlicuotaRetencion != "" {
		rate, err := rn3811.ParseAmount(contrib.AlicuotaRetencion)
		if err != nil {
			return false, fmt.Errorf("alícuota de retención %q: %w", contrib.AlicuotaRetencion, err)
		}
		party.AlicuotaRetencion.Decimal = rate
		party.AlicuotaRetencion.Valid = true
		changed = true
	}
	return changed, nil
}
