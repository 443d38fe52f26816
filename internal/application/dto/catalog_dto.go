package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecipeComponentRequest línea de receta.
type RecipeComponentRequest struct {
	ComponentCode string          `json:"component_code"`
	QtyPerUnit    decimal.Decimal `json:"qty_per_unit"`
}

// RecipeRequest body para PUT /api/recipes/:code.
type RecipeRequest struct {
	Components []RecipeComponentRequest `json:"components"`
}

// RecipeResponse receta de un producto.
type RecipeResponse struct {
	ProductCode string                   `json:"product_code"`
	Components  []RecipeComponentRequest `json:"components"`
}

// SkuLinkRequest body para POST /api/sku-links.
type SkuLinkRequest struct {
	ImportedSKU string `json:"imported_sku"`
	MasterSKU   string `json:"master_sku"`
}

// SkuLinkResponse vínculo SKU de canal → maestro.
type SkuLinkResponse struct {
	ImportedSKU string    `json:"imported_sku"`
	MasterSKU   string    `json:"master_sku"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateOperatorRequest body para POST /api/operators.
type CreateOperatorRequest struct {
	Name   string `json:"name"`
	Prefix string `json:"prefix"`
}

// OperatorResponse operador de escaneo.
type OperatorResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Prefix    string    `json:"prefix"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
