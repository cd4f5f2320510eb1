package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Pankajol/aits-erp-core/internal/domain/entity"
	"github.com/Pankajol/aits-erp-core/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación de StockMovementRepository sobre PostgreSQL
// (usable con pool o tx). La tabla es append-only: no hay Update ni Delete.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador de la bitácora. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create agrega un asiento a la bitácora.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, company_id, item_id, warehouse_id, bin_id, movement_type, quantity, reference, reference_type, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.CompanyID, m.ItemID, m.WarehouseID, m.BinID,
		m.MovementType, m.Quantity, m.Reference, m.ReferenceType,
		m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un asiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `
		SELECT id, company_id, item_id, warehouse_id, bin_id, movement_type, quantity, reference, reference_type, created_by, created_at
		FROM stock_movements WHERE id = $1`
	var m entity.StockMovement
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.CompanyID, &m.ItemID, &m.WarehouseID, &m.BinID,
		&m.MovementType, &m.Quantity, &m.Reference, &m.ReferenceType,
		&m.CreatedBy, &m.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return &m, nil
}

// ListByItemAndWarehouse lista la bitácora de un artículo en una bodega, con rango
// de fechas opcional, del asiento más reciente al más antiguo.
func (r *StockMovementRepo) ListByItemAndWarehouse(companyID, itemID, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, company_id, item_id, warehouse_id, bin_id, movement_type, quantity, reference, reference_type, created_by, created_at
		FROM stock_movements
		WHERE company_id = $1 AND item_id = $2 AND warehouse_id = $3
			AND ($4::timestamptz IS NULL OR created_at >= $4)
			AND ($5::timestamptz IS NULL OR created_at <= $5)
		ORDER BY created_at DESC LIMIT $6 OFFSET $7`
	rows, err := r.q.Query(context.Background(), query, companyID, itemID, warehouseID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByReference lista los asientos generados por un documento (por su número),
// en orden de inserción.
func (r *StockMovementRepo) ListByReference(companyID, reference string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, company_id, item_id, warehouse_id, bin_id, movement_type, quantity, reference, reference_type, created_by, created_at
		FROM stock_movements
		WHERE company_id = $1 AND reference = $2
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, companyID, reference)
	if err != nil {
		return nil, fmt.Errorf("list stock movements by reference: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

func scanMovements(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.CompanyID, &m.ItemID, &m.WarehouseID, &m.BinID,
			&m.MovementType, &m.Quantity, &m.Reference, &m.ReferenceType,
			&m.CreatedBy, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
