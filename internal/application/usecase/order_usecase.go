package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/fabrica-api/internal/application/dto"
	"github.com/jhoicas/fabrica-api/internal/application/ledger"
	"github.com/jhoicas/fabrica-api/internal/domain"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
)

// OrderUseCase consulta y transiciones manuales de líneas de pedido.
// BIPADO, DEVOLVIDO y las reversiones se aplican desde el escaneo y el motor de reversión.
type OrderUseCase struct {
	txRunner ledger.TxRunner
	repos    repository.Repositories
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(txRunner ledger.TxRunner, repos repository.Repositories) *OrderUseCase {
	return &OrderUseCase{txRunner: txRunner, repos: repos}
}

// GetByCode devuelve las líneas cuyo pedido o tracking coincide con code.
func (uc *OrderUseCase) GetByCode(ctx context.Context, code string) ([]dto.OrderResponse, error) {
	orders, err := uc.repos.Orders.FindByCode(ctx, entity.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, domain.ErrNotFound
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out, nil
}

// Transition mueve la línea a ERRO o SOLUCIONADO respetando la máquina de estados.
func (uc *OrderUseCase) Transition(ctx context.Context, orderID, sku, status string) (*dto.OrderResponse, error) {
	if status != entity.OrderStatusErro && status != entity.OrderStatusSolucionado {
		return nil, fmt.Errorf("%w: estado %q no se asigna manualmente", domain.ErrInvalidInput, status)
	}
	var out dto.OrderResponse
	err := uc.txRunner.Run(ctx, func(r repository.Repositories) error {
		order, err := r.Orders.Get(ctx, orderID, sku)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !entity.CanTransition(order.Status, status) {
			return fmt.Errorf("%w: %s → %s", domain.ErrConflict, order.Status, status)
		}
		if err := r.Orders.UpdateStatus(ctx, orderID, sku, status); err != nil {
			return err
		}
		order.Status = status
		out = toOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func toOrderResponse(o *entity.Order) dto.OrderResponse {
	return dto.OrderResponse{
		OrderID:   o.OrderID,
		SKU:       o.SKU,
		Tracking:  o.Tracking,
		Channel:   o.Channel,
		Status:    o.Status,
		UpdatedAt: o.UpdatedAt,
	}
}
