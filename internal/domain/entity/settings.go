package entity

// ChannelMarker sufijo de código que identifica un canal de venta (ej. rastreos de un transportista).
type ChannelMarker struct {
	Suffix  string `json:"suffix"`
	Channel string `json:"channel"`
}

// ScanSettings configuración global de escaneo, editable en tiempo de ejecución.
type ScanSettings struct {
	DefaultOperator string          `json:"default_operator"` // tiene prioridad sobre prefijo y sesión
	ScannerSuffix   string          `json:"scanner_suffix"`   // sufijo que agrega el lector (ej. "\r" o "#")
	ChannelMarkers  []ChannelMarker `json:"channel_markers"`
}
