package entity

import "time"

// Estados de un intento de escaneo.
const (
	ScanStatusOK        = "OK"
	ScanStatusAdjusted  = "ADJUSTED"
	ScanStatusDuplicate = "DUPLICATE"
	ScanStatusNotFound  = "NOT_FOUND"
	ScanStatusError     = "ERROR"
)

// Resolved indica si el estado cuenta como despacho efectivo del pedido.
// Solo puede existir una entrada resuelta por DisplayKey.
func Resolved(status string) bool {
	return status == ScanStatusOK || status == ScanStatusAdjusted
}

// ScanLog entrada del registro de escaneos (append-only).
type ScanLog struct {
	ID         string
	DisplayKey string
	InputCode  string
	Status     string
	Operator   string
	Device     string
	Channel    string
	OrderID    string
	Tracking   string
	Message    string
	CreatedAt  time.Time
}
