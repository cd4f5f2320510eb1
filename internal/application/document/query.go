package document

import (
	"fmt"

	"github.com/Pankajol/aits-erp-core/internal/application/dto"
	"github.com/Pankajol/aits-erp-core/internal/domain"
	"github.com/Pankajol/aits-erp-core/internal/domain/repository"
)

// QueryUseCase lecturas de documentos emitidos (sin mutaciones).
type QueryUseCase struct {
	docRepo repository.DocumentRepository
}

// NewQueryUseCase construye el caso de uso de consultas de documentos.
func NewQueryUseCase(docRepo repository.DocumentRepository) *QueryUseCase {
	return &QueryUseCase{docRepo: docRepo}
}

// GetByID obtiene un documento acotado por empresa.
func (uc *QueryUseCase) GetByID(companyID, id string) (*dto.DocumentResponse, error) {
	doc, err := uc.docRepo.GetByID(companyID, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return documentToResponse(doc), nil
}

// GetByNumber obtiene un documento por su número (acotado por empresa).
func (uc *QueryUseCase) GetByNumber(companyID, number string) (*dto.DocumentResponse, error) {
	doc, err := uc.docRepo.GetByNumber(companyID, number)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return documentToResponse(doc), nil
}

// List lista documentos de la empresa filtrados por tipo.
func (uc *QueryUseCase) List(companyID, docType string, limit, offset int) (*dto.DocumentListResponse, error) {
	if docType != "" {
		if _, ok := KindFor(docType); !ok {
			return nil, fmt.Errorf("%w: tipo de documento %q desconocido", domain.ErrInvalidInput, docType)
		}
	}
	list, err := uc.docRepo.ListByCompany(companyID, docType, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DocumentResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *documentToResponse(d))
	}
	return &dto.DocumentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}
