package entity

import "time"

// Estados de un pedido.
const (
	OrderStatusNormal      = "NORMAL"
	OrderStatusBipado      = "BIPADO"
	OrderStatusErro        = "ERRO"
	OrderStatusSolucionado = "SOLUCIONADO"
	OrderStatusDevolvido   = "DEVOLVIDO"
)

// orderTransitions máquina de estados del pedido. BIPADO→NORMAL y DEVOLVIDO→NORMAL
// son transiciones de reversión.
var orderTransitions = map[string][]string{
	OrderStatusNormal:    {OrderStatusBipado, OrderStatusErro, OrderStatusDevolvido},
	OrderStatusBipado:    {OrderStatusSolucionado, OrderStatusNormal},
	OrderStatusErro:      {OrderStatusSolucionado},
	OrderStatusDevolvido: {OrderStatusNormal},
}

// CanTransition indica si el pedido puede pasar de from a to.
func CanTransition(from, to string) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// OrderKey clave única de una línea de pedido.
type OrderKey struct {
	OrderID string
	SKU     string
}

// Order línea de pedido importada desde un canal de venta. La clave es (OrderID, SKU):
// un pedido con N SKUs tiene N filas que comparten OrderID y Tracking.
type Order struct {
	OrderID   string
	SKU       string
	Tracking  string
	Channel   string // canal de venta; puede corregirse durante el escaneo
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Key devuelve la clave (OrderID, SKU).
func (o *Order) Key() OrderKey {
	return OrderKey{OrderID: o.OrderID, SKU: o.SKU}
}

// DisplayKey identificador usado para detectar escaneos duplicados: OrderID o, en su defecto, Tracking.
func (o *Order) DisplayKey() string {
	if o.OrderID != "" {
		return o.OrderID
	}
	return o.Tracking
}

// Open indica si la línea sigue abierta (referencia activa al ítem maestro).
func (o *Order) Open() bool {
	switch o.Status {
	case OrderStatusNormal, OrderStatusBipado, OrderStatusErro:
		return true
	}
	return false
}
