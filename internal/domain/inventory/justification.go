package inventory

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DefaultMinJustification caracteres mínimos de una justificación de diferencia.
const DefaultMinJustification = 5

// JustificationLength cuenta caracteres visibles: recorta espacios y normaliza a NFC para que
// "dañado" escrito con tilde combinada cuente igual que con la letra precompuesta.
func JustificationLength(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(strings.TrimSpace(s)))
}

// ValidJustification informa si s alcanza el mínimo de caracteres.
func ValidJustification(s string, min int) bool {
	if min <= 0 {
		min = DefaultMinJustification
	}
	return JustificationLength(s) >= min
}

// NormalizeJustification devuelve el texto recortado y en NFC, listo para persistir.
func NormalizeJustification(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
