package rn3811

import (
	"fmt"
	"strings"

	"github.com/jhoicas/arba-api/internal/domain/entity"
	"github.com/jhoicas/arba-api/pkg/cuit"
)

// fechaLayout es el formato dd/mm/aaaa de los campos fecha del instructivo.
const fechaLayout = "02/01/2006"

// TipoOperacionA es el único tipo de operación soportado. El campo existe en
// el esquema de la autoridad para futuras ampliaciones.
const TipoOperacionA = "A"

// BuildLote12 construye el registro "1.2. Percepciones Act. 7 método Percibido
// (quincenal)" para un comprobante de venta.
//
// Campos, en orden: CUIT contribuyente (13), fecha percepción (10), tipo de
// comprobante (1), letra (1), número de sucursal (4), número de emisión (8),
// monto imponible (9+3 con signo), importe percepción (8+3 con signo), fecha
// de emisión (10), tipo de operación (1).
//
// Resultado:
//   - (rec, nil, nil): el comprobante califica.
//   - (nil, nil, nil): sin percepción del régimen; se excluye en silencio.
//   - (nil, rej, nil): rechazado con mensaje para el operador (CUIT inválido).
//   - (nil, nil, err): dato obligatorio ausente o violación de ancho; corta el proceso.
func BuildLote12(inv *entity.Invoice, percepcionTaxID string) (*Record, *Rejection, error) {
	taxAmount := inv.TaxAmount(percepcionTaxID)
	if taxAmount.IsZero() {
		return nil, nil, nil
	}

	partyName, vatNumber := partyData(inv.Party)

	// Campo 1: CUIT contribuyente percibido (formato 99-99999999-9, validado).
	cuitOK := cuit.Format(vatNumber, true)
	if cuitOK == "" {
		return nil, &Rejection{
			Kind: "factura", Document: inv.Number, Party: partyName,
			Reason: "no tiene CUIT",
		}, nil
	}

	// Campo 2 y 9: fecha de percepción y de emisión (dd/mm/aaaa).
	// La autoridad siempre exige este campo; su ausencia es un dato roto
	// que el operador debe corregir, no un rechazo silencioso.
	if inv.InvoiceDate == nil {
		return nil, nil, fmt.Errorf(`rn3811: falta "Fecha Comprobante" en la factura %s (Campo 2)`, inv.Number)
	}
	fecha := inv.InvoiceDate.Format(fechaLayout)

	// Campos 3 y 4: tipo y letra de comprobante desde el nombre visible del tipo.
	tipo, letra := comprobanteCodes(inv.InvoiceTypeName)

	// Campos 5 y 6: sucursal y emisión desde la referencia (o el número).
	sucursal, emision, err := documentNumbers(inv)
	if err != nil {
		return nil, nil, err
	}

	// Campos 7 y 8: montos con signo (las notas de crédito vienen negativas).
	monto, err := FormatNumber(inv.UntaxedAmount, 9, 3, true)
	if err != nil {
		return nil, nil, err
	}
	importe, err := FormatNumber(taxAmount, 8, 3, true)
	if err != nil {
		return nil, nil, err
	}

	rec := NewRecord(cuitOK, fecha, tipo, letra, sucursal, emision, monto, importe, fecha, TipoOperacionA)
	return &rec, nil, nil
}

// comprobanteCodes deriva el tipo (F/R/C/D) y la letra (A/B/C) del nombre
// visible del tipo de comprobante. La tabla de códigos de la autoridad tiene
// una excepción: los subtipos "Nota ..." no usan la inicial sino el carácter
// en la posición 8 del nombre ("Nota de Crédito A" → C, "Nota de Débito A" → D).
func comprobanteCodes(typeName string) (tipo, letra string) {
	rs := []rune(typeName)
	if len(rs) == 0 {
		return "", ""
	}
	tipo = string(rs[0])
	if rs[0] == 'N' && len(rs) > 8 {
		tipo = string(rs[8])
	}
	letra = string(rs[len(rs)-1])
	return strings.ToUpper(tipo), strings.ToUpper(letra)
}

// documentNumbers separa la referencia del comprobante en número de sucursal
// (4 dígitos) y número de emisión (8 dígitos), ambos rellenos a ceros.
// Sin separador '-', toda la referencia se toma como número de emisión.
func documentNumbers(inv *entity.Invoice) (sucursal, emision string, err error) {
	ref := inv.Reference
	if ref == "" {
		ref = inv.Number
	}
	ref = strings.ToUpper(strings.TrimSpace(ref))

	pos, num := "", ref
	if idx := strings.Index(ref, "-"); idx >= 0 {
		pos, num = ref[:idx], ref[idx+1:]
	}

	posAmount, err := ParseAmount(pos)
	if err != nil {
		return "", "", fmt.Errorf("rn3811: sucursal de %q: %w", ref, err)
	}
	numAmount, err := ParseAmount(num)
	if err != nil {
		return "", "", fmt.Errorf("rn3811: número de emisión de %q: %w", ref, err)
	}

	if sucursal, err = FormatNumber(posAmount, 4, 0, false); err != nil {
		return "", "", err
	}
	if emision, err = FormatNumber(numAmount, 8, 0, false); err != nil {
		return "", "", err
	}
	return sucursal, emision, nil
}

func partyData(p *entity.Party) (name, vatNumber string) {
	if p == nil {
		return "", ""
	}
	return p.Name, p.VATNumber
}
