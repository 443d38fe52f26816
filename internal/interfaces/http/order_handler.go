package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fabrica-api/internal/application/dto"
	"github.com/jhoicas/fabrica-api/internal/application/reversal"
	"github.com/jhoicas/fabrica-api/internal/application/usecase"
)

// OrderHandler consulta de pedidos, estados manuales y devoluciones (protegido).
type OrderHandler struct {
	uc       *usecase.OrderUseCase
	reversal *reversal.Engine
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *usecase.OrderUseCase, rev *reversal.Engine) *OrderHandler {
	return &OrderHandler{uc: uc, reversal: rev}
}

// GetByCode godoc
// @Summary      Líneas de un pedido por número o rastreo
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "order_id o tracking"
// @Success      200  {array}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{code} [get]
func (h *OrderHandler) GetByCode(c *fiber.Ctx) error {
	out, err := h.uc.GetByCode(c.UserContext(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de una línea (ERRO / SOLUCIONADO)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        orderId  path  string                  true  "pedido"
// @Param        sku      path  string                  true  "SKU"
// @Param        body     body  dto.OrderStatusRequest  true  "status"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{orderId}/{sku}/status [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.OrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Transition(c.UserContext(), c.Params("orderId"), c.Params("sku"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RegisterReturn godoc
// @Summary      Registrar devolución de una línea
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Param        orderId  path  string             true  "pedido"
// @Param        sku      path  string             true  "SKU"
// @Param        body     body  dto.ReturnRequest  false "restock"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{orderId}/{sku}/return [post]
func (h *OrderHandler) RegisterReturn(c *fiber.Ctx) error {
	var in dto.ReturnRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	if err := h.reversal.RegisterReturn(c.UserContext(), c.Params("orderId"), c.Params("sku"), in.Restock, GetActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveReturn godoc
// @Summary      Deshacer devolución de una línea
// @Tags         orders
// @Security     Bearer
// @Param        orderId  path  string  true  "pedido"
// @Param        sku      path  string  true  "SKU"
// @Success      204
// @Router       /api/orders/{orderId}/{sku}/return [delete]
func (h *OrderHandler) RemoveReturn(c *fiber.Ctx) error {
	if err := h.reversal.RemoveReturn(c.UserContext(), c.Params("orderId"), c.Params("sku"), GetActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
