package entity

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upper = cases.Upper(language.Und)

// NormalizeCode deja un código de ítem/SKU en su forma canónica (sin espacios, en mayúsculas).
// Los códigos se comparan siempre normalizados, por lo que la búsqueda es insensible a mayúsculas.
func NormalizeCode(code string) string {
	return upper.String(strings.TrimSpace(code))
}
