package entity

import "github.com/shopspring/decimal"

// RecipeComponent línea de la lista de materiales (BOM): cantidad de un componente por unidad producida.
type RecipeComponent struct {
	ComponentCode string
	QtyPerUnit    decimal.Decimal
}

// Recipe receta de un ítem producible (INTERMEDIATE o FINISHED_PRODUCT).
// Un componente puede ser a su vez un intermedio con receta propia (grafo acíclico).
type Recipe struct {
	ProductCode string
	Components  []RecipeComponent
}
