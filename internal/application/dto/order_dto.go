package dto

import "time"

// OrderResponse línea de pedido.
type OrderResponse struct {
	OrderID   string    `json:"order_id"`
	SKU       string    `json:"sku"`
	Tracking  string    `json:"tracking"`
	Channel   string    `json:"channel"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderStatusRequest body para PATCH /api/orders/:orderId/:sku/status.
type OrderStatusRequest struct {
	Status string `json:"status"`
}
