// Package scan reúne las reglas puras de interpretación de un código leído por el escáner:
// normalización, prefijo de operador, marcador de canal y prioridad del operador.
package scan

import (
	"strings"

	"github.com/jhoicas/fabrica-api/internal/domain/entity"
)

// Normalize recorta espacios, pasa a mayúsculas y quita el sufijo configurado del lector.
func Normalize(raw, scannerSuffix string) string {
	code := entity.NormalizeCode(raw)
	suffix := entity.NormalizeCode(scannerSuffix)
	if suffix != "" && strings.HasSuffix(code, suffix) {
		code = strings.TrimSpace(strings.TrimSuffix(code, suffix))
	}
	return code
}

// PrefixMatch resultado de ExtractOperatorPrefix.
type PrefixMatch struct {
	Code     string // código sin el prefijo (o el original si no hubo coincidencia)
	Operator string // nombre del operador cuyo prefijo coincidió
	Matched  bool
}

// ExtractOperatorPrefix interpreta un código con forma "(PREFIX)codigo". Solo se quita el prefijo
// si coincide con el de un operador activo; en otro caso el código se devuelve intacto.
func ExtractOperatorPrefix(code string, operators []entity.Operator) PrefixMatch {
	if !strings.HasPrefix(code, "(") {
		return PrefixMatch{Code: code}
	}
	end := strings.Index(code, ")")
	if end <= 1 {
		return PrefixMatch{Code: code}
	}
	prefix := code[1:end]
	for _, op := range operators {
		if !op.Active || op.Prefix == "" {
			continue
		}
		if strings.EqualFold(op.Prefix, prefix) {
			return PrefixMatch{
				Code:     strings.TrimSpace(code[end+1:]),
				Operator: op.Name,
				Matched:  true,
			}
		}
	}
	return PrefixMatch{Code: code}
}

// ResolveOperator aplica la cadena de prioridad: operador por defecto > prefijo > usuario de la sesión.
func ResolveOperator(sessionActor string, prefix PrefixMatch, defaultOperator string) string {
	if op := strings.TrimSpace(defaultOperator); op != "" {
		return op
	}
	if prefix.Matched && prefix.Operator != "" {
		return prefix.Operator
	}
	return sessionActor
}

// DetectChannel devuelve el canal inferido si el código termina con alguno de los marcadores.
// Gana el sufijo más largo cuando varios coinciden.
func DetectChannel(code string, markers []entity.ChannelMarker) (string, bool) {
	best := -1
	channel := ""
	for _, m := range markers {
		suffix := entity.NormalizeCode(m.Suffix)
		if suffix == "" || m.Channel == "" {
			continue
		}
		if strings.HasSuffix(code, suffix) && len(suffix) > best {
			best = len(suffix)
			channel = m.Channel
		}
	}
	return channel, best >= 0
}
