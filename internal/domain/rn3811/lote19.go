package rn3811

import (
	"fmt"

	"github.com/jhoicas/arba-api/internal/domain/entity"
	"github.com/jhoicas/arba-api/pkg/cuit"
)

// BuildLote19 construye el registro "1.9. Retenciones Act. 6 de Bancos" para
// una retención efectuada (ya filtrada por régimen y estado emitida).
//
// Campos, en orden: CUIT contribuyente (13), monto imponible (9+3 con signo),
// importe retención (8+3 con signo), fecha retención (10), tipo de operación (1).
//
// El contrato de resultado es el mismo de BuildLote12, salvo que este lote no
// admite monto imponible en cero: eso es un rechazo con mensaje, no un salto
// silencioso.
func BuildLote19(ret *entity.Retencion) (*Record, *Rejection, error) {
	partyName, vatNumber := partyData(ret.Party)

	// Campo 1: CUIT contribuyente retenido.
	cuitOK := cuit.Format(vatNumber, true)
	if cuitOK == "" {
		return nil, &Rejection{
			Kind: "retención", Document: ret.Name, Party: partyName,
			Reason: "no tiene CUIT",
		}, nil
	}

	// Campo 2: monto imponible, siempre mayor a cero.
	if ret.PaymentAmount.IsZero() {
		return nil, &Rejection{
			Kind: "retención", Document: ret.Name, Party: partyName,
			Reason: "no tiene Monto imponible",
		}, nil
	}
	monto, err := FormatNumber(ret.PaymentAmount, 9, 3, true)
	if err != nil {
		return nil, nil, err
	}

	// Campo 3: importe retenido.
	importe, err := FormatNumber(ret.Amount, 8, 3, true)
	if err != nil {
		return nil, nil, err
	}

	// Campo 4: fecha de la retención (dd/mm/aaaa), obligatoria.
	if ret.Date.IsZero() {
		return nil, nil, fmt.Errorf(`rn3811: falta "Fecha Retención" en %s (Campo 4)`, ret.Name)
	}
	fecha := ret.Date.Format(fechaLayout)

	rec := NewRecord(cuitOK, monto, importe, fecha, TipoOperacionA)
	return &rec, nil, nil
}
