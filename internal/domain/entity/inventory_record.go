package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch es el sub-saldo de un lote nombrado dentro de un InventoryRecord.
type Batch struct {
	BatchNumber  string           `json:"batch_number"`
	Quantity     decimal.Decimal  `json:"quantity"`
	ExpiryDate   *time.Time       `json:"expiry_date,omitempty"`
	Manufacturer string           `json:"manufacturer,omitempty"`
	UnitPrice    decimal.Decimal  `json:"unit_price"`
}

// InventoryRecord es el saldo de un artículo en una bodega (y ubicación opcional).
// Clave lógica: (companyID, itemID, warehouseID, binID); binID vacío para bodegas sin
// ubicaciones. Se crea perezosamente con el primer movimiento y nunca se elimina.
// Quantity, Committed y OnOrder nunca son negativos; las mutaciones ocurren solo dentro
// de una transacción del orquestador de documentos.
type InventoryRecord struct {
	ID          string
	CompanyID   string
	ItemID      string
	WarehouseID string
	BinID       string // "" = bodega sin ubicaciones
	Quantity    decimal.Decimal
	Committed   decimal.Decimal // reservado por pedidos de venta abiertos
	OnOrder     decimal.Decimal // esperado de órdenes de compra abiertas
	Batches     []Batch         // solo para artículos manejados por lotes
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewInventoryRecord crea un registro en cero para la clave dada (creación perezosa).
func NewInventoryRecord(companyID, itemID, warehouseID, binID string, now time.Time) *InventoryRecord {
	return &InventoryRecord{
		CompanyID:   companyID,
		ItemID:      itemID,
		WarehouseID: warehouseID,
		BinID:       binID,
		Quantity:    decimal.Zero,
		Committed:   decimal.Zero,
		OnOrder:     decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// FindBatch devuelve el lote con ese número, o nil si no existe.
func (r *InventoryRecord) FindBatch(batchNumber string) *Batch {
	for i := range r.Batches {
		if r.Batches[i].BatchNumber == batchNumber {
			return &r.Batches[i]
		}
	}
	return nil
}

// PruneEmptyBatches elimina de la lista los lotes cuyo saldo llegó a cero.
func (r *InventoryRecord) PruneEmptyBatches() {
	kept := r.Batches[:0]
	for _, b := range r.Batches {
		if b.Quantity.GreaterThan(decimal.Zero) {
			kept = append(kept, b)
		}
	}
	r.Batches = kept
}
