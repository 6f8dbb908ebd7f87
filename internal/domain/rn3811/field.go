// Package rn3811 implementa la codificación de registros de ancho fijo de la
// Resolución Normativa ARBA Nº 038/11 (lotes de importación de percepciones y
// retenciones de Ingresos Brutos).
//
// El instructivo exige campos alfanuméricos alineados a la izquierda, rellenos
// de blancos, en mayúsculas, sin caracteres especiales ni vocales acentuadas;
// y campos numéricos alineados a la derecha rellenos a ceros.
package rn3811

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Alineación de campos de texto.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// FormatError indica que un campo renderizado no coincide con el ancho pedido.
// Señala un error de programación en la aritmética de anchos, nunca datos del
// usuario: el registro afectado no se emite parcialmente.
type FormatError struct {
	Value string
	Want  int
	Got   int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("rn3811: campo %q de largo %d, se esperaba %d", e.Value, e.Got, e.Want)
}

// FormatText renderiza un valor alfanumérico a un campo de exactamente length
// caracteres: translitera a ASCII (ver Transliterate), pasa a mayúsculas,
// trunca si excede el ancho y rellena con fill según la alineación.
func FormatText(value string, length int, fill byte, align Align) (string, error) {
	s := strings.ToUpper(Transliterate(value))
	if len(s) > length {
		s = s[:length]
	}
	pad := strings.Repeat(string(fill), length-len(s))
	if align == AlignRight {
		s = pad + s
	} else {
		s = s + pad
	}
	if len(s) != length {
		return "", &FormatError{Value: s, Want: length, Got: len(s)}
	}
	return s, nil
}

// FormatNumber renderiza un importe como campo numérico de ancho fijo:
// parte entera en valor absoluto rellena a ceros hasta intDigits; si
// decDigits > 0 se agrega el separador '.' y exactamente decDigits decimales
// (truncados, no redondeados). Con signed, un valor negativo sobreescribe la
// posición inicial con '-'; los no negativos no llevan signo explícito.
//
// El ancho resultante es intDigits + 1 + decDigits (o intDigits si no hay
// decimales). Una parte entera que no entra en intDigits es FormatError:
// nunca se trunca un importe en silencio.
func FormatNumber(value decimal.Decimal, intDigits, decDigits int, signed bool) (string, error) {
	width := intDigits
	if decDigits > 0 {
		width += 1 + decDigits
	}

	abs := value.Abs().Truncate(int32(decDigits))
	rendered := abs.StringFixed(int32(decDigits)) // "55.230" o "55"

	intPart := rendered
	fracPart := ""
	if idx := strings.IndexByte(rendered, '.'); idx >= 0 {
		intPart, fracPart = rendered[:idx], rendered[idx+1:]
	}
	if len(intPart) > intDigits {
		return "", &FormatError{Value: rendered, Want: width, Got: len(rendered)}
	}

	s := strings.Repeat("0", intDigits-len(intPart)) + intPart
	if decDigits > 0 {
		s += "." + fracPart
	}
	if signed && value.IsNegative() {
		s = "-" + s[1:]
	}
	if len(s) != width {
		return "", &FormatError{Value: s, Want: width, Got: len(s)}
	}
	return s, nil
}

// FormatInteger conserva solo los dígitos del valor, trunca a length y rellena
// con blancos a la derecha. Siempre produce exactamente length caracteres.
func FormatInteger(value string, length int) string {
	var digits strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	s := digits.String()
	if len(s) > length {
		s = s[:length]
	}
	return s + strings.Repeat(" ", length-len(s))
}

// ParseAmount interpreta un importe en texto; vacío equivale a cero.
// Acepta coma o punto como separador decimal (el padrón ARBA usa coma).
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("rn3811: importe %q inválido: %w", s, err)
	}
	return d, nil
}
