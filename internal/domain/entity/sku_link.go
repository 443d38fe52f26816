package entity

import "time"

// SkuLink vincula el SKU de un canal de venta con el código maestro del inventario (muchos a uno).
type SkuLink struct {
	ImportedSKU string
	MasterSKU   string
	CreatedAt   time.Time
}
