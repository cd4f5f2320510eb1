package repository

import "github.com/Pankajol/aits-erp-core/internal/domain/entity"

// DocumentRepository define el puerto de persistencia para documentos comerciales
// y sus líneas (DIP). Create persiste cabecera y líneas juntas; se invoca dentro
// de la transacción del documento.
type DocumentRepository interface {
	Create(document *entity.Document) error
	// GetByID está acotado por empresa: un documento de otra empresa se resuelve
	// como ErrNotFound.
	GetByID(companyID, id string) (*entity.Document, error)
	GetByNumber(companyID, documentNumber string) (*entity.Document, error)
	ListByCompany(companyID, docType string, limit, offset int) ([]*entity.Document, error)
}
