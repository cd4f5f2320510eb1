package inventory

import (
	"time"

	"github.com/Pankajol/aits-erp-core/internal/application/dto"
	"github.com/Pankajol/aits-erp-core/internal/domain"
	"github.com/Pankajol/aits-erp-core/internal/domain/entity"
	"github.com/Pankajol/aits-erp-core/internal/domain/repository"
)

// QueryUseCase lecturas del ledger y la bitácora de movimientos (sin mutaciones).
type QueryUseCase struct {
	invRepo       repository.InventoryRepository
	movRepo       repository.StockMovementRepository
	warehouseRepo repository.WarehouseRepository
}

// NewQueryUseCase construye el caso de uso de consultas de inventario.
func NewQueryUseCase(
	invRepo repository.InventoryRepository,
	movRepo repository.StockMovementRepository,
	warehouseRepo repository.WarehouseRepository,
) *QueryUseCase {
	return &QueryUseCase{invRepo: invRepo, movRepo: movRepo, warehouseRepo: warehouseRepo}
}

// LevelsByWarehouse lista los registros del ledger de una bodega de la empresa.
func (uc *QueryUseCase) LevelsByWarehouse(companyID, warehouseID string, limit, offset int) (*dto.InventoryListResponse, error) {
	wh, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil || wh.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	list, err := uc.invRepo.ListByWarehouse(companyID, warehouseID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryRecordResponse, 0, len(list))
	for _, rec := range list {
		items = append(items, recordToResponse(rec))
	}
	return &dto.InventoryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// LevelsByItem lista los registros del ledger de un artículo en todas las bodegas.
func (uc *QueryUseCase) LevelsByItem(companyID, itemID string) ([]dto.InventoryRecordResponse, error) {
	list, err := uc.invRepo.ListByItem(companyID, itemID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryRecordResponse, 0, len(list))
	for _, rec := range list {
		items = append(items, recordToResponse(rec))
	}
	return items, nil
}

// Movements lista la bitácora de un artículo en una bodega, con rango de fechas opcional.
func (uc *QueryUseCase) Movements(companyID, itemID, warehouseID string, from, to *time.Time, limit, offset int) (*dto.MovementListResponse, error) {
	list, err := uc.movRepo.ListByItemAndWarehouse(companyID, itemID, warehouseID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, movementToResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// MovementsByReference lista la bitácora generada por un documento (por su número).
func (uc *QueryUseCase) MovementsByReference(companyID, reference string) ([]dto.StockMovementResponse, error) {
	list, err := uc.movRepo.ListByReference(companyID, reference)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, movementToResponse(m))
	}
	return items, nil
}

func recordToResponse(rec *entity.InventoryRecord) dto.InventoryRecordResponse {
	batches := make([]dto.BatchDTO, 0, len(rec.Batches))
	for _, b := range rec.Batches {
		batches = append(batches, dto.BatchDTO{
			BatchNumber:  b.BatchNumber,
			Quantity:     b.Quantity,
			ExpiryDate:   b.ExpiryDate,
			Manufacturer: b.Manufacturer,
			UnitPrice:    b.UnitPrice,
		})
	}
	return dto.InventoryRecordResponse{
		ItemID:      rec.ItemID,
		WarehouseID: rec.WarehouseID,
		BinID:       rec.BinID,
		Quantity:    rec.Quantity,
		Committed:   rec.Committed,
		OnOrder:     rec.OnOrder,
		Available:   rec.Quantity.Sub(rec.Committed),
		Batches:     batches,
		UpdatedAt:   rec.UpdatedAt,
	}
}

func movementToResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:            m.ID,
		ItemID:        m.ItemID,
		WarehouseID:   m.WarehouseID,
		BinID:         m.BinID,
		MovementType:  m.MovementType,
		Quantity:      m.Quantity,
		Reference:     m.Reference,
		ReferenceType: m.ReferenceType,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}
