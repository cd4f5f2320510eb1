package repository

import (
	"time"

	"github.com/Pankajol/aits-erp-core/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para la bitácora de
// movimientos de inventario (DIP). Solo inserciones y lecturas: la bitácora es
// append-only.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByItemAndWarehouse(companyID, itemID, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByReference(companyID, reference string) ([]*entity.StockMovement, error)
}
