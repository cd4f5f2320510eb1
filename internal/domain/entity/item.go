package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo o SKU del inventario (multi-bodega).
// Cost es promedio ponderado calculado desde las recepciones; el stock se maneja por
// bodega/ubicación en InventoryRecord. BatchManaged decide la política de mutación de
// stock del artículo (a granel vs. por lotes) una sola vez, en el dato maestro.
type Item struct {
	ID           string
	CompanyID    string
	SKU          string // código único por empresa
	Name         string
	Description  string
	Price        decimal.Decimal // precio de venta
	Cost         decimal.Decimal // costo promedio ponderado (inicia en 0)
	BatchManaged bool            // true = stock controlado por lotes nombrados
	ReorderPoint decimal.Decimal // 0 = sin punto de reorden
	UnitMeasure  string
	Attributes   json.RawMessage
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
