package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Pankajol/aits-erp-core/internal/domain/entity"
	"github.com/Pankajol/aits-erp-core/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL (usable con
// pool o tx). Los lotes se guardan como JSONB en la misma fila: el bloqueo de la
// fila cubre también el estado de lotes.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventorySelect = `
	SELECT id, company_id, item_id, warehouse_id, bin_id, quantity, committed, on_order, batches, created_at, updated_at
	FROM inventory_records
	WHERE company_id = $1 AND item_id = $2 AND warehouse_id = $3 AND bin_id = $4`

// Get obtiene el registro del ledger; si no existe devuelve un registro en cero.
func (r *InventoryRepo) Get(companyID, itemID, warehouseID, binID string) (*entity.InventoryRecord, error) {
	return r.get(inventorySelect, companyID, itemID, warehouseID, binID)
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE).
// La ausencia también se resuelve como registro en cero: la fila nace con el Upsert.
func (r *InventoryRepo) GetForUpdate(companyID, itemID, warehouseID, binID string) (*entity.InventoryRecord, error) {
	return r.get(inventorySelect+`
	FOR UPDATE`, companyID, itemID, warehouseID, binID)
}

func (r *InventoryRepo) get(query, companyID, itemID, warehouseID, binID string) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	var batchesJSON []byte
	err := r.q.QueryRow(context.Background(), query, companyID, itemID, warehouseID, binID).Scan(
		&rec.ID, &rec.CompanyID, &rec.ItemID, &rec.WarehouseID, &rec.BinID,
		&rec.Quantity, &rec.Committed, &rec.OnOrder, &batchesJSON,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return entity.NewInventoryRecord(companyID, itemID, warehouseID, binID, time.Now()), nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	if len(batchesJSON) > 0 {
		if err := json.Unmarshal(batchesJSON, &rec.Batches); err != nil {
			return nil, fmt.Errorf("decode batches: %w", err)
		}
	}
	return &rec, nil
}

// Upsert inserta o actualiza el registro por (empresa, artículo, bodega, ubicación).
func (r *InventoryRepo) Upsert(record *entity.InventoryRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	batchesJSON, err := json.Marshal(record.Batches)
	if err != nil {
		return fmt.Errorf("encode batches: %w", err)
	}
	query := `
		INSERT INTO inventory_records (id, company_id, item_id, warehouse_id, bin_id, quantity, committed, on_order, batches, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		ON CONFLICT (company_id, item_id, warehouse_id, bin_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, committed = EXCLUDED.committed,
			on_order = EXCLUDED.on_order, batches = EXCLUDED.batches, updated_at = now()`
	_, err = r.q.Exec(context.Background(), query,
		record.ID, record.CompanyID, record.ItemID, record.WarehouseID, record.BinID,
		record.Quantity, record.Committed, record.OnOrder, batchesJSON,
	)
	if err != nil {
		return fmt.Errorf("upsert inventory record: %w", err)
	}
	return nil
}

// ListByWarehouse lista los registros de una bodega con paginación.
func (r *InventoryRepo) ListByWarehouse(companyID, warehouseID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT id, company_id, item_id, warehouse_id, bin_id, quantity, committed, on_order, batches, created_at, updated_at
		FROM inventory_records
		WHERE company_id = $1 AND warehouse_id = $2
		ORDER BY item_id, bin_id LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory by warehouse: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ListByItem lista los registros de un artículo en todas las bodegas.
func (r *InventoryRepo) ListByItem(companyID, itemID string) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT id, company_id, item_id, warehouse_id, bin_id, quantity, committed, on_order, batches, created_at, updated_at
		FROM inventory_records
		WHERE company_id = $1 AND item_id = $2
		ORDER BY warehouse_id, bin_id`
	rows, err := r.q.Query(context.Background(), query, companyID, itemID)
	if err != nil {
		return nil, fmt.Errorf("list inventory by item: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ListBelowReorderPoint devuelve los artículos cuyo stock está por debajo de su punto
// de reorden, con lo pendiente por recibir, ordenados por mayor déficit primero.
// warehouseID vacío agrega el stock de todas las bodegas de la empresa.
func (r *InventoryRepo) ListBelowReorderPoint(ctx context.Context, companyID, warehouseID string) ([]repository.ReplenishmentItem, error) {
	query := `
		SELECT i.id, i.sku, i.name,
			COALESCE(SUM(ir.quantity), 0)  AS current_stock,
			COALESCE(SUM(ir.on_order), 0)  AS on_order,
			i.reorder_point, i.cost, i.price
		FROM items i
		LEFT JOIN inventory_records ir
			ON ir.item_id = i.id
			AND ir.company_id = i.company_id
			AND ($2 = '' OR ir.warehouse_id = $2)
		WHERE i.company_id = $1 AND i.reorder_point > 0
		GROUP BY i.id, i.sku, i.name, i.reorder_point, i.cost, i.price
		HAVING COALESCE(SUM(ir.quantity), 0) < i.reorder_point
		ORDER BY i.reorder_point - COALESCE(SUM(ir.quantity), 0) DESC`
	rows, err := r.q.Query(ctx, query, companyID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list below reorder point: %w", err)
	}
	defer rows.Close()

	var out []repository.ReplenishmentItem
	for rows.Next() {
		var it repository.ReplenishmentItem
		if err := rows.Scan(&it.ItemID, &it.SKU, &it.ItemName, &it.CurrentStock, &it.OnOrder, &it.ReorderPoint, &it.UnitCost, &it.Price); err != nil {
			return nil, fmt.Errorf("scan replenishment item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func scanRecords(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*entity.InventoryRecord, error) {
	var list []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		var batchesJSON []byte
		if err := rows.Scan(
			&rec.ID, &rec.CompanyID, &rec.ItemID, &rec.WarehouseID, &rec.BinID,
			&rec.Quantity, &rec.Committed, &rec.OnOrder, &batchesJSON,
			&rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		if len(batchesJSON) > 0 {
			if err := json.Unmarshal(batchesJSON, &rec.Batches); err != nil {
				return nil, fmt.Errorf("decode batches: %w", err)
			}
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
