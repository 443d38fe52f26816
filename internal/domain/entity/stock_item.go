package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ítem de inventario.
const (
	KindRawMaterial     = "RAW_MATERIAL"
	KindIntermediate    = "INTERMEDIATE"
	KindFinishedProduct = "FINISHED_PRODUCT"
)

// ValidKind indica si kind pertenece al conjunto cerrado de tipos.
func ValidKind(kind string) bool {
	switch kind {
	case KindRawMaterial, KindIntermediate, KindFinishedProduct:
		return true
	}
	return false
}

// Producible indica si un ítem de este tipo puede tener receta y producirse.
func Producible(kind string) bool {
	return kind == KindIntermediate || kind == KindFinishedProduct
}

// StockItem representa un ítem de inventario (materia prima, intermedio o producto terminado).
// CurrentQty es una proyección en caché: siempre igual a la suma de los movimientos del ítem.
// Solo el Ledger la modifica.
type StockItem struct {
	Code           string // código único, normalizado
	Name           string
	Kind           string
	CurrentQty     decimal.Decimal // puede ser negativo (indica pendiente de producción)
	MinQty         decimal.Decimal
	Unit           string
	SubstituteCode string // opcional: ítem alternativo del mismo tipo
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
