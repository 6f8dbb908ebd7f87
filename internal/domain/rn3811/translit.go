package rn3811

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks descompone (NFD) y elimina las marcas diacríticas combinantes,
// de modo que Á→A, É→E, Í→I, Ó→O, Ú→U (y sus minúsculas), además de Ü→U y Ñ→N.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Transliterate convierte texto arbitrario a ASCII de 7 bits sin fallar nunca.
// Reglas de sustitución, en orden:
//  1. Vocales acentuadas y demás letras con diacríticos pierden la marca
//     (Á→A, É→E, Í→I, Ó→O, Ú→U, Ü→U, Ñ→N).
//  2. Todo carácter restante fuera de ASCII se sustituye por '?'.
//
// La pérdida es deliberada: un campo de ancho fijo exigido por la autoridad
// no puede rechazar texto por contener caracteres no representables.
func Transliterate(s string) string {
	plain, _, err := transform.String(stripMarks, s)
	if err != nil {
		plain = s
	}
	var b strings.Builder
	b.Grow(len(plain))
	for _, r := range plain {
		if r > unicode.MaxASCII {
			b.WriteByte('?')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
