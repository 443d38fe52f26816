package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fabrica-api/internal/application/dto"
	"github.com/jhoicas/fabrica-api/internal/application/usecase"
)

// CatalogHandler recetas, vínculos SKU, operadores y configuración de escaneo (protegido).
type CatalogHandler struct {
	recipes   *usecase.RecipeUseCase
	links     *usecase.SkuLinkUseCase
	operators *usecase.OperatorUseCase
	settings  *usecase.SettingsUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(
	recipes *usecase.RecipeUseCase,
	links *usecase.SkuLinkUseCase,
	operators *usecase.OperatorUseCase,
	settings *usecase.SettingsUseCase,
) *CatalogHandler {
	return &CatalogHandler{recipes: recipes, links: links, operators: operators, settings: settings}
}

// GetRecipe godoc
// @Summary      Obtener receta
// @Tags         recipes
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "código del producto"
// @Success      200  {object}  dto.RecipeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recipes/{code} [get]
func (h *CatalogHandler) GetRecipe(c *fiber.Ctx) error {
	out, err := h.recipes.Get(c.UserContext(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PutRecipe godoc
// @Summary      Crear o reemplazar receta
// @Tags         recipes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        code  path  string             true  "código del producto"
// @Param        body  body  dto.RecipeRequest  true  "components"
// @Success      200  {object}  dto.RecipeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/recipes/{code} [put]
func (h *CatalogHandler) PutRecipe(c *fiber.Ctx) error {
	var in dto.RecipeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.recipes.Upsert(c.UserContext(), c.Params("code"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteRecipe godoc
// @Summary      Eliminar receta
// @Tags         recipes
// @Security     Bearer
// @Param        code  path  string  true  "código del producto"
// @Success      204
// @Router       /api/recipes/{code} [delete]
func (h *CatalogHandler) DeleteRecipe(c *fiber.Ctx) error {
	if err := h.recipes.Delete(c.UserContext(), c.Params("code")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpsertSkuLink godoc
// @Summary      Vincular SKU de canal a ítem maestro
// @Tags         sku-links
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SkuLinkRequest  true  "imported_sku, master_sku"
// @Success      200  {object}  dto.SkuLinkResponse
// @Router       /api/sku-links [post]
func (h *CatalogHandler) UpsertSkuLink(c *fiber.Ctx) error {
	var in dto.SkuLinkRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.links.Upsert(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListSkuLinks godoc
// @Summary      Listar vínculos SKU
// @Tags         sku-links
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SkuLinkResponse
// @Router       /api/sku-links [get]
func (h *CatalogHandler) ListSkuLinks(c *fiber.Ctx) error {
	out, err := h.links.List(c.UserContext(), pageFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteSkuLink godoc
// @Summary      Eliminar vínculo SKU
// @Tags         sku-links
// @Security     Bearer
// @Param        sku  path  string  true  "SKU importado"
// @Success      204
// @Router       /api/sku-links/{sku} [delete]
func (h *CatalogHandler) DeleteSkuLink(c *fiber.Ctx) error {
	if err := h.links.Delete(c.UserContext(), c.Params("sku")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateOperator godoc
// @Summary      Registrar operador de escaneo
// @Tags         operators
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOperatorRequest  true  "name, prefix"
// @Success      201  {object}  dto.OperatorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/operators [post]
func (h *CatalogHandler) CreateOperator(c *fiber.Ctx) error {
	var in dto.CreateOperatorRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.operators.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListOperators godoc
// @Summary      Listar operadores
// @Tags         operators
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.OperatorResponse
// @Router       /api/operators [get]
func (h *CatalogHandler) ListOperators(c *fiber.Ctx) error {
	out, err := h.operators.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteOperator godoc
// @Summary      Eliminar operador
// @Tags         operators
// @Security     Bearer
// @Param        id  path  string  true  "ID"
// @Success      204
// @Router       /api/operators/{id} [delete]
func (h *CatalogHandler) DeleteOperator(c *fiber.Ctx) error {
	if err := h.operators.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetSettings godoc
// @Summary      Configuración de escaneo
// @Tags         scans
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.ScanSettings
// @Router       /api/scan-settings [get]
func (h *CatalogHandler) GetSettings(c *fiber.Ctx) error {
	out, err := h.settings.Get(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PutSettings godoc
// @Summary      Guardar configuración de escaneo
// @Tags         scans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScanSettingsRequest  true  "default_operator, scanner_suffix, channel_markers"
// @Success      200  {object}  entity.ScanSettings
// @Router       /api/scan-settings [put]
func (h *CatalogHandler) PutSettings(c *fiber.Ctx) error {
	var in dto.ScanSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.settings.Save(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
