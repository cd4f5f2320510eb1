package dto

import "time"

// CreateWarehouseRequest entrada para crear una bodega. BinLocations define las
// ubicaciones internas; vacío = bodega sin ubicaciones.
type CreateWarehouseRequest struct {
	Name         string   `json:"name" validate:"required,min=1,max=200"`
	Address      string   `json:"address"`
	BinLocations []string `json:"bin_locations"`
}

// UpdateWarehouseRequest entrada para actualizar una bodega.
type UpdateWarehouseRequest struct {
	Name         *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Address      *string  `json:"address"`
	BinLocations []string `json:"bin_locations"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"company_id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	BinLocations []string  `json:"bin_locations"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WarehouseListResponse lista paginada de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
