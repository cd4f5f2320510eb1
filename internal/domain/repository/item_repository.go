package repository

import (
	"github.com/shopspring/decimal"

	"github.com/Pankajol/aits-erp-core/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetByCompanyAndSKU(companyID, sku string) (*entity.Item, error)
	Update(item *entity.Item) error
	UpdateCost(itemID string, cost decimal.Decimal) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error)
	Delete(id string) error
}
