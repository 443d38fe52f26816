package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrCyclicRecipe = errors.New("receta cíclica")
	ErrTransport    = errors.New("fallo de comunicación con el almacenamiento")
)

// IsBusiness indica si err es un error de negocio (resultado estructurado para el llamador)
// y no un fallo de infraestructura que debe propagarse.
func IsBusiness(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrCyclicRecipe) ||
		errors.Is(err, ErrForbidden)
}
