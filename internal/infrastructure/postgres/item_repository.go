package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Pankajol/aits-erp-core/internal/domain"
	"github.com/Pankajol/aits-erp-core/internal/domain/entity"
	"github.com/Pankajol/aits-erp-core/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para artículos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, company_id, sku, name, description, price, cost, batch_managed, reorder_point, unit_measure, attributes, created_at, updated_at`

// Create persiste un nuevo artículo. SKU único por empresa.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.CompanyID, item.SKU, item.Name, item.Description,
		item.Price, item.Cost, item.BatchManaged, item.ReorderPoint,
		item.UnitMeasure, item.Attributes, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	return r.getOne(`WHERE id = $1`, id)
}

// GetByCompanyAndSKU obtiene un artículo por SKU dentro de la empresa.
func (r *ItemRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Item, error) {
	return r.getOne(`WHERE company_id = $1 AND sku = $2`, companyID, sku)
}

func (r *ItemRepo) getOne(where string, args ...any) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ` + where
	var it entity.Item
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&it.ID, &it.CompanyID, &it.SKU, &it.Name, &it.Description,
		&it.Price, &it.Cost, &it.BatchManaged, &it.ReorderPoint,
		&it.UnitMeasure, &it.Attributes, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// Update actualiza un artículo existente (sin tocar el costo: usar UpdateCost).
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, description = $3, price = $4, reorder_point = $5,
			unit_measure = $6, attributes = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Description, item.Price, item.ReorderPoint,
		item.UnitMeasure, item.Attributes, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// UpdateCost fija el costo promedio ponderado del artículo (desde recepciones).
func (r *ItemRepo) UpdateCost(itemID string, cost decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE items SET cost = $2, updated_at = now() WHERE id = $1`, itemID, cost)
	if err != nil {
		return fmt.Errorf("update item cost: %w", err)
	}
	return nil
}

// ListByCompany lista artículos de la empresa con paginación.
func (r *ItemRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE company_id = $1 ORDER BY sku LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var list []*entity.Item
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(
			&it.ID, &it.CompanyID, &it.SKU, &it.Name, &it.Description,
			&it.Price, &it.Cost, &it.BatchManaged, &it.ReorderPoint,
			&it.UnitMeasure, &it.Attributes, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// Delete elimina un artículo por ID.
func (r *ItemRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}
