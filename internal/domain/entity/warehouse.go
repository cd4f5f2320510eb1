package entity

import "time"

// Warehouse representa una bodega o sucursal donde se almacena inventario (multi-bodega).
// Una bodega puede definir ubicaciones internas (bins); si las define, todo movimiento
// hacia o desde ella debe indicar una ubicación.
type Warehouse struct {
	ID           string
	CompanyID    string
	Name         string
	Address      string
	BinLocations []string // vacío = bodega sin ubicaciones
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasBins informa si la bodega maneja ubicaciones internas.
func (w *Warehouse) HasBins() bool {
	return len(w.BinLocations) > 0
}

// HasBin informa si la ubicación existe en la bodega.
func (w *Warehouse) HasBin(binID string) bool {
	for _, b := range w.BinLocations {
		if b == binID {
			return true
		}
	}
	return false
}
