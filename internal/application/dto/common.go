package dto

// Límites de paginación de los listados (registro de escaneos, ítems, vínculos SKU).
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

// PageRequest paginación leída de la query (?limit=&offset=).
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize aplica el límite por defecto, acota Limit a MaxPageLimit y descarta offsets negativos.
func (p *PageRequest) Normalize() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse página efectivamente aplicada.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo de error HTTP: code estable para el cliente, message legible.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
