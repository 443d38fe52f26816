package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un ítem. El saldo inicia en 0: el stock entra por el libro.
type CreateItemRequest struct {
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	MinQty         decimal.Decimal `json:"min_qty"`
	Unit           string          `json:"unit"`
	SubstituteCode string          `json:"substitute_code"`
}

// UpdateItemRequest entrada para actualizar metadatos (nunca el saldo).
type UpdateItemRequest struct {
	Name           *string          `json:"name"`
	MinQty         *decimal.Decimal `json:"min_qty"`
	Unit           *string          `json:"unit"`
	SubstituteCode *string          `json:"substitute_code"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	CurrentQty     decimal.Decimal `json:"current_qty"`
	MinQty         decimal.Decimal `json:"min_qty"`
	BelowMin       bool            `json:"below_min"`
	Unit           string          `json:"unit"`
	SubstituteCode string          `json:"substitute_code,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
