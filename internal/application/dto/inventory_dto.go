package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/ledger/adjustments.
type AdjustStockRequest struct {
	ItemCode string          `json:"item_code"`
	QtyDelta decimal.Decimal `json:"qty_delta"`
	Origin   string          `json:"origin"`
	Ref      string          `json:"ref"`
}

// ProduceRequest body para POST /api/ledger/production.
type ProduceRequest struct {
	ItemCode string          `json:"item_code"`
	Quantity decimal.Decimal `json:"quantity"`
	Ref      string          `json:"ref"`
}

// MovementResponse salida de un movimiento del libro.
type MovementResponse struct {
	ID               string          `json:"id"`
	ItemCode         string          `json:"item_code"`
	ItemNameSnapshot string          `json:"item_name_snapshot"`
	Origin           string          `json:"origin"`
	QtyDelta         decimal.Decimal `json:"qty_delta"`
	Ref              string          `json:"ref"`
	Actor            string          `json:"actor"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ComponentUsageResponse consumo de un componente en una producción.
type ComponentUsageResponse struct {
	ItemCode       string           `json:"item_code"`
	Consumed       decimal.Decimal  `json:"consumed"`
	BalanceAfter   decimal.Decimal  `json:"balance_after"`
	Short          bool             `json:"short"`
	SubstituteCode string           `json:"substitute_code,omitempty"`
	SubstituteQty  *decimal.Decimal `json:"substitute_qty,omitempty"`
}

// ProductionResponse resultado de una producción.
type ProductionResponse struct {
	ItemCode   string                   `json:"item_code"`
	Quantity   decimal.Decimal          `json:"quantity"`
	Components []ComponentUsageResponse `json:"components"`
}

// AuditResponse comparación saldo en caché vs. suma del libro.
type AuditResponse struct {
	ItemCode   string          `json:"item_code"`
	CachedQty  decimal.Decimal `json:"cached_qty"`
	LedgerQty  decimal.Decimal `json:"ledger_qty"`
	Consistent bool            `json:"consistent"`
}

// BOMLine requerimiento total de un componente.
type BOMLine struct {
	ItemCode string          `json:"item_code"`
	Quantity decimal.Decimal `json:"quantity"`
}

// BOMResponse explosión de una receta.
type BOMResponse struct {
	ItemCode string          `json:"item_code"`
	Quantity decimal.Decimal `json:"quantity"`
	Lines    []BOMLine       `json:"lines"`
}

// StockTarget saldo objetivo de un ítem en un conteo de inventario.
type StockTarget struct {
	ItemCode string          `json:"item_code"`
	NewQty   decimal.Decimal `json:"new_qty"`
}

// BulkStockRequest body para POST /api/inventory/initial-stock.
type BulkStockRequest struct {
	Items []StockTarget `json:"items"`
}

// BulkStockFailure ítem que no pudo conciliarse.
type BulkStockFailure struct {
	ItemCode string `json:"item_code"`
	Reason   string `json:"reason"`
}

// BulkStockReport resultado de la conciliación masiva.
type BulkStockReport struct {
	Updated   int                `json:"updated"`
	Unchanged int                `json:"unchanged"`
	Failed    []BulkStockFailure `json:"failed"`
}

// ReturnRequest body para POST /api/orders/:orderId/:sku/return.
type ReturnRequest struct {
	Restock bool `json:"restock"`
}

// CancelScanResponse resultado de DELETE /api/scans/:id.
type CancelScanResponse struct {
	ScanID        string `json:"scan_id"`
	Found         bool   `json:"found"`
	RevertedLines int    `json:"reverted_lines"`
}

// ReplenishmentSuggestion ítem a reponer (GET /api/inventory/replenishment).
type ReplenishmentSuggestion struct {
	ItemCode     string          `json:"item_code"`
	Name         string          `json:"name"`
	Kind         string          `json:"kind"`
	Unit         string          `json:"unit"`
	CurrentQty   decimal.Decimal `json:"current_qty"`
	MinQty       decimal.Decimal `json:"min_qty"`
	IdealQty     decimal.Decimal `json:"ideal_qty"`
	SuggestedQty decimal.Decimal `json:"suggested_qty"`
	Action       string          `json:"action"` // PRODUCE | PURCHASE
	Priority     int             `json:"priority"`
}
