package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fabrica-api/internal/application/dto"
	"github.com/jhoicas/fabrica-api/internal/application/usecase"
)

// ItemHandler catálogo de ítems de inventario (protegido).
type ItemHandler struct {
	uc            *usecase.ItemUseCase
	replenishment *usecase.ReplenishmentUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *usecase.ItemUseCase, replenishment *usecase.ReplenishmentUseCase) *ItemHandler {
	return &ItemHandler{uc: uc, replenishment: replenishment}
}

// Create godoc
// @Summary      Crear ítem
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "code, name, kind, min_qty, unit, substitute_code"
// @Success      201  {object}  dto.ItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ítems
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        kind    query  string  false  "RAW_MATERIAL | INTERMEDIATE | FINISHED_PRODUCT"
// @Param        limit   query  int     false  "límite (default 20)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.ItemListResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), strings.ToUpper(c.Query("kind")), pageFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "código"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{code} [get]
func (h *ItemHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar metadatos de un ítem (nunca el saldo)
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        code  path  string                 true  "código"
// @Param        body  body  dto.UpdateItemRequest  true  "campos a cambiar"
// @Success      200  {object}  dto.ItemResponse
// @Router       /api/items/{code} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateMeta(c.UserContext(), c.Params("code"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar ítem (solo si nada lo referencia)
// @Tags         items
// @Security     Bearer
// @Param        code  path  string  true  "código"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/items/{code} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("code")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Ítems bajo su mínimo o con saldo negativo, con la cantidad sugerida y prioridad.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestion
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment [get]
func (h *ItemHandler) GetReplenishmentList(c *fiber.Ctx) error {
	out, err := h.replenishment.GenerateList(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
