package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Pankajol/aits-erp-core/internal/domain/entity"
)

// ReplenishmentItem resultado crudo del repositorio para un artículo bajo reorden.
type ReplenishmentItem struct {
	ItemID       string
	SKU          string
	ItemName     string
	CurrentStock decimal.Decimal
	OnOrder      decimal.Decimal
	ReorderPoint decimal.Decimal
	UnitCost     decimal.Decimal
	Price        decimal.Decimal
}

// InventoryRepository define el puerto para consultar/actualizar el ledger de stock
// por (empresa, artículo, bodega, ubicación) (DIP). Usado dentro de transacciones
// para garantizar consistencia.
type InventoryRepository interface {
	// Get devuelve el registro; si no existe retorna un registro en cero (no error).
	Get(companyID, itemID, warehouseID, binID string) (*entity.InventoryRecord, error)
	// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE).
	// Igual que Get, la ausencia se resuelve como registro en cero.
	GetForUpdate(companyID, itemID, warehouseID, binID string) (*entity.InventoryRecord, error)
	Upsert(record *entity.InventoryRecord) error
	ListByWarehouse(companyID, warehouseID string, limit, offset int) ([]*entity.InventoryRecord, error)
	ListByItem(companyID, itemID string) ([]*entity.InventoryRecord, error)

	// ListBelowReorderPoint devuelve los artículos cuyo stock actual (en la bodega
	// indicada) es inferior a su punto de reorden, ordenados por mayor déficit primero.
	ListBelowReorderPoint(ctx context.Context, companyID, warehouseID string) ([]ReplenishmentItem, error)
}
