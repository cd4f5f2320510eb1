package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Pankajol/aits-erp-core/internal/application/dto"
	"github.com/Pankajol/aits-erp-core/internal/domain/repository"
)

// ReorderUseCase genera la lista de reposición para una bodega: artículos por debajo
// de su punto de reorden, con cantidad sugerida neta de lo ya pedido a proveedores.
type ReorderUseCase struct {
	invRepo repository.InventoryRepository
}

// NewReorderUseCase construye el caso de uso de reposición.
func NewReorderUseCase(invRepo repository.InventoryRepository) *ReorderUseCase {
	return &ReorderUseCase{invRepo: invRepo}
}

// GenerateReorderList devuelve los artículos bajo punto de reorden con la cantidad
// sugerida de pedido. Lo pendiente por recibir (OnOrder) descuenta la sugerencia:
// no se repite un pedido ya colocado. warehouseID puede ser vacío para considerar
// stock global de la empresa.
func (uc *ReorderUseCase) GenerateReorderList(
	ctx context.Context,
	companyID, warehouseID string,
) ([]dto.ReplenishmentSuggestionDTO, error) {

	rawItems, err := uc.invRepo.ListBelowReorderPoint(ctx, companyID, warehouseID)
	if err != nil {
		return nil, err
	}
	if len(rawItems) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(rawItems))
	for _, item := range rawItems {
		idealStock := item.ReorderPoint.Mul(decimal.NewFromFloat(1.5))
		suggestedQty := idealStock.Sub(item.CurrentStock).Sub(item.OnOrder)
		if suggestedQty.LessThanOrEqual(decimal.Zero) {
			suggestedQty = decimal.Zero
		}

		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ItemID:             item.ItemID,
			SKU:                item.SKU,
			ItemName:           item.ItemName,
			CurrentStock:       item.CurrentStock,
			OnOrder:            item.OnOrder,
			ReorderPoint:       item.ReorderPoint,
			IdealStock:         idealStock,
			SuggestedOrderQty:  suggestedQty,
			UnitCost:           item.UnitCost,
			EstimatedOrderCost: suggestedQty.Mul(item.UnitCost),
		})
	}

	// Ordenar por mayor déficit absoluto primero.
	sort.SliceStable(suggestions, func(i, j int) bool {
		defA := suggestions[i].ReorderPoint.Sub(suggestions[i].CurrentStock)
		defB := suggestions[j].ReorderPoint.Sub(suggestions[j].CurrentStock)
		return defA.GreaterThan(defB)
	})

	// Prioridad 1 = más urgente
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}

	return suggestions, nil
}
