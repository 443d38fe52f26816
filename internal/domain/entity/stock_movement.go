package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Orígenes de movimiento (conjunto cerrado).
const (
	OriginManualAdjustment      = "MANUAL_ADJUSTMENT"
	OriginScanDeduction         = "SCAN_DEDUCTION"
	OriginProduction            = "PRODUCTION"
	OriginProductionConsumption = "PRODUCTION_CONSUMPTION"
	OriginWeighing              = "WEIGHING"
	OriginGrinding              = "GRINDING"
	OriginImportReconciliation  = "IMPORT_RECONCILIATION"
	OriginInventoryCount        = "INVENTORY_COUNT"
	OriginCancelRevert          = "CANCEL_REVERT"
	OriginReturnEntry           = "RETURN_ENTRY"
	OriginReturnRevert          = "RETURN_REVERT"
)

// ValidOrigin indica si origin pertenece al conjunto cerrado de orígenes.
func ValidOrigin(origin string) bool {
	switch origin {
	case OriginManualAdjustment, OriginScanDeduction, OriginProduction, OriginProductionConsumption,
		OriginWeighing, OriginGrinding, OriginImportReconciliation, OriginInventoryCount,
		OriginCancelRevert, OriginReturnEntry, OriginReturnRevert:
		return true
	}
	return false
}

// StockMovement registro inmutable del libro de movimientos (append-only).
type StockMovement struct {
	ID               string
	ItemCode         string
	ItemNameSnapshot string // nombre del ítem al momento del movimiento
	Origin           string
	QtyDelta         decimal.Decimal // positivo entrada, negativo salida
	Ref              string          // escaneo, orden, lote de producción, conteo...
	Actor            string
	CreatedAt        time.Time
}
