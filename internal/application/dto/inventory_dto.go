package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchDTO estado de un lote dentro de un registro de inventario.
type BatchDTO struct {
	BatchNumber  string          `json:"batch_number"`
	Quantity     decimal.Decimal `json:"quantity"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
	Manufacturer string          `json:"manufacturer,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// InventoryRecordResponse estado del ledger para (artículo, bodega, ubicación).
type InventoryRecordResponse struct {
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id"`
	BinID       string          `json:"bin_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Committed   decimal.Decimal `json:"committed"`
	OnOrder     decimal.Decimal `json:"on_order"`
	Available   decimal.Decimal `json:"available"` // Quantity - Committed
	Batches     []BatchDTO      `json:"batches,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// InventoryListResponse lista paginada de registros de inventario.
type InventoryListResponse struct {
	Items []InventoryRecordResponse `json:"items"`
	Page  PageResponse              `json:"page"`
}

// StockMovementResponse un asiento de la bitácora de movimientos.
type StockMovementResponse struct {
	ID            string          `json:"id"`
	ItemID        string          `json:"item_id"`
	WarehouseID   string          `json:"warehouse_id"`
	BinID         string          `json:"bin_id,omitempty"`
	MovementType  string          `json:"movement_type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Reference     string          `json:"reference"`
	ReferenceType string          `json:"reference_type"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// ReplenishmentSuggestionDTO representa una sugerencia de reposición para un SKU
// que se encuentra por debajo de su punto de reorden.
type ReplenishmentSuggestionDTO struct {
	ItemID             string          `json:"item_id"`
	SKU                string          `json:"sku"`
	ItemName           string          `json:"item_name"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	OnOrder            decimal.Decimal `json:"on_order"`
	ReorderPoint       decimal.Decimal `json:"reorder_point"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`          // ReorderPoint * 1.5
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`  // IdealStock - CurrentStock - OnOrder
	UnitCost           decimal.Decimal `json:"unit_cost"`            // costo promedio ponderado
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	Priority           int             `json:"priority"`             // 1 = más urgente
}
