package dto

import "time"

// ScanRequest body para POST /api/scans y /api/scans/resolve.
type ScanRequest struct {
	Code   string `json:"code"`
	Device string `json:"device"`
	Mode   string `json:"mode,omitempty"` // STOCK (por defecto) o PRODUCTION
}

// OrderKeyResponse clave (pedido, SKU) de una línea.
type OrderKeyResponse struct {
	OrderID string `json:"order_id"`
	SKU     string `json:"sku"`
}

// FirstScanInfo atribución del primer escaneo cuando el resultado es DUPLICATE.
type FirstScanInfo struct {
	ScanID    string    `json:"scan_id"`
	Operator  string    `json:"operator"`
	Device    string    `json:"device"`
	ScannedAt time.Time `json:"scanned_at"`
}

// ScanResult resultado estructurado de un escaneo. Los errores de negocio llegan aquí con
// status ERROR; solo los fallos de infraestructura se devuelven como error.
type ScanResult struct {
	Status           string             `json:"status"`
	Message          string             `json:"message"`
	InputCode        string             `json:"input_code"`
	DisplayKey       string             `json:"display_key"`
	MatchedOrderKeys []OrderKeyResponse `json:"matched_order_keys,omitempty"`
	FirstScan        *FirstScanInfo     `json:"first_scan,omitempty"`
	ResolvedOperator string             `json:"resolved_operator,omitempty"`
	Channel          string             `json:"channel,omitempty"`
	ScanID           string             `json:"scan_id,omitempty"`
}

// AdjustScanRequest body para POST /api/scans/:id/adjust.
type AdjustScanRequest struct {
	OrderID string `json:"order_id"`
}

// ScanLogResponse entrada del registro de escaneos.
type ScanLogResponse struct {
	ID         string    `json:"id"`
	DisplayKey string    `json:"display_key"`
	InputCode  string    `json:"input_code"`
	Status     string    `json:"status"`
	Operator   string    `json:"operator"`
	Device     string    `json:"device"`
	Channel    string    `json:"channel"`
	OrderID    string    `json:"order_id"`
	Tracking   string    `json:"tracking"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

// ScanLogListResponse lista paginada del registro.
type ScanLogListResponse struct {
	Items []ScanLogResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ScanSettingsRequest body para PUT /api/scan-settings.
type ScanSettingsRequest struct {
	DefaultOperator string                 `json:"default_operator"`
	ScannerSuffix   string                 `json:"scanner_suffix"`
	ChannelMarkers  []ChannelMarkerRequest `json:"channel_markers"`
}

// ChannelMarkerRequest sufijo → canal.
type ChannelMarkerRequest struct {
	Suffix  string `json:"suffix"`
	Channel string `json:"channel"`
}
