package usecase

import (
	"context"
	"sort"

	"github.com/jhoicas/fabrica-api/internal/application/dto"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Acciones sugeridas de reposición.
const (
	ActionProduce  = "PRODUCE"
	ActionPurchase = "PURCHASE"
)

// ReplenishmentUseCase genera la lista de reposición: ítems bajo su mínimo o con saldo negativo
// (pendiente de producción).
type ReplenishmentUseCase struct {
	repos repository.Repositories
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(repos repository.Repositories) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{repos: repos}
}

// GenerateList devuelve los ítems a reponer con la cantidad sugerida (hasta 1.5 × mínimo)
// y una prioridad: primero saldos negativos, luego mayor déficit relativo.
func (uc *ReplenishmentUseCase) GenerateList(ctx context.Context) ([]dto.ReplenishmentSuggestion, error) {
	items, err := uc.repos.Items.List(ctx, "", 0, 0)
	if err != nil {
		return nil, err
	}

	factor := decimal.RequireFromString("1.5")
	suggestions := make([]dto.ReplenishmentSuggestion, 0)
	for _, it := range items {
		negative := it.CurrentQty.IsNegative()
		if !negative && !it.CurrentQty.LessThan(it.MinQty) {
			continue
		}
		ideal := it.MinQty.Mul(factor)
		suggested := ideal.Sub(it.CurrentQty)
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		action := ActionPurchase
		if entity.Producible(it.Kind) {
			action = ActionProduce
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestion{
			ItemCode:     it.Code,
			Name:         it.Name,
			Kind:         it.Kind,
			Unit:         it.Unit,
			CurrentQty:   it.CurrentQty,
			MinQty:       it.MinQty,
			IdealQty:     ideal,
			SuggestedQty: suggested,
			Action:       action,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.CurrentQty.IsNegative() != b.CurrentQty.IsNegative() {
			return a.CurrentQty.IsNegative()
		}
		ra, rb := relativeDeficit(a), relativeDeficit(b)
		if !ra.Equal(rb) {
			return ra.GreaterThan(rb)
		}
		return a.ItemCode < b.ItemCode
	})

	// 1 = más urgente
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

func relativeDeficit(s dto.ReplenishmentSuggestion) decimal.Decimal {
	if !s.MinQty.IsPositive() {
		return s.CurrentQty.Neg()
	}
	return s.MinQty.Sub(s.CurrentQty).Div(s.MinQty)
}
