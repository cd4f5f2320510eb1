package repository

import (
	"context"

	"github.com/Pankajol/aits-erp-core/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	GetByTaxID(taxID string) (*entity.Company, error)
	Update(company *entity.Company) error
	List(limit, offset int) ([]*entity.Company, error)
	Delete(id string) error

	// HasActiveModule indica si la empresa tiene contratado y activo el módulo
	// SaaS dado (inventory, purchasing, sales).
	HasActiveModule(ctx context.Context, companyID, module string) (bool, error)
	// SetModule activa o desactiva un módulo para la empresa.
	SetModule(companyID, module string, enabled bool) error
	// ListModules devuelve los módulos contratados por la empresa.
	ListModules(companyID string) ([]*entity.CompanyModule, error)
}
