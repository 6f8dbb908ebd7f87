// Package cuit valida y formatea la Clave Única de Identificación Tributaria
// argentina (AFIP): 11 dígitos con dígito verificador módulo 11.
package cuit

import (
	"fmt"
	"unicode"
)

// pesos para el cálculo del dígito verificador del CUIT (módulo 11, AFIP).
// Se aplican a los 10 primeros dígitos, de izquierda a derecha.
var cuitWeights = [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

// IsValid informa si el CUIT (con o sin guiones) tiene exactamente 11 dígitos
// y un dígito verificador correcto.
func IsValid(raw string) bool {
	digits := extractDigits(raw)
	if len(digits) != 11 {
		return false
	}
	expected, err := checkDigit(digits[:10])
	if err != nil {
		return false
	}
	return digits[10] == expected
}

// ComputeCheckDigit calcula el dígito verificador para los 10 primeros dígitos del CUIT.
func ComputeCheckDigit(raw string) (byte, error) {
	digits := extractDigits(raw)
	if len(digits) < 10 {
		return 0, fmt.Errorf("cuit: se requieren al menos 10 dígitos, se encontraron %d", len(digits))
	}
	return checkDigit(digits[:10])
}

// checkDigit devuelve el dígito esperado según (11 - suma%11) % 11.
// Un resultado de 10 no es representable en un dígito: el CUIT es inválido.
func checkDigit(base []byte) (byte, error) {
	var sum int
	for i, d := range base {
		sum += int(d-'0') * cuitWeights[i]
	}
	mod := (11 - sum%11) % 11
	if mod == 10 {
		return 0, fmt.Errorf("cuit: combinación sin dígito verificador válido")
	}
	return byte('0' + mod), nil
}

// Format reformatea un CUIT de 11 dígitos como 99-99999999-9.
// Si check es true, devuelve "" cuando el CUIT no es un número de 11 dígitos
// con verificador válido. Sin check, una entrada que no llega a 11 dígitos
// se devuelve como sus dígitos sueltos, sin guiones.
func Format(raw string, check bool) string {
	if check && !IsValid(raw) {
		return ""
	}
	digits := string(extractDigits(raw))
	if len(digits) != 11 {
		return digits
	}
	return digits[:2] + "-" + digits[2:10] + "-" + digits[10:]
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}
