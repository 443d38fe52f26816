package repository

import (
	"context"

	"github.com/jhoicas/fabrica-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para líneas de pedido.
// La creación la hace el subsistema de importación; aquí solo se expone el puerto.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	Get(ctx context.Context, orderID, sku string) (*entity.Order, error)
	// FindByCode busca líneas cuyo OrderID o Tracking sea igual a code.
	FindByCode(ctx context.Context, code string) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, orderID, sku, status string) error
	UpdateChannel(ctx context.Context, orderID, sku, channel string) error
	// HasOpenForSKUs indica si alguna línea abierta usa alguno de los SKUs.
	HasOpenForSKUs(ctx context.Context, skus []string) (bool, error)
}
