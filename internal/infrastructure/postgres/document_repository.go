package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Pankajol/aits-erp-core/internal/domain"
	"github.com/Pankajol/aits-erp-core/internal/domain/entity"
	"github.com/Pankajol/aits-erp-core/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación de DocumentRepository sobre PostgreSQL (usable con
// pool o tx). Cabecera en documents, líneas en document_items (lotes como JSONB),
// adjuntos como JSONB en la cabecera.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador de documentos. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// Create persiste cabecera y líneas. Se invoca dentro de la transacción del
// documento: cabecera y líneas se confirman juntas.
func (r *DocumentRepo) Create(doc *entity.Document) error {
	attachmentsJSON, err := json.Marshal(doc.Attachments)
	if err != nil {
		return fmt.Errorf("encode attachments: %w", err)
	}
	query := `
		INSERT INTO documents (id, company_id, doc_type, document_number, party_name, source_order_id, notes, attachments, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10)`
	_, err = r.q.Exec(context.Background(), query,
		doc.ID, doc.CompanyID, doc.DocType, doc.DocumentNumber,
		doc.PartyName, doc.SourceOrderID, doc.Notes, attachmentsJSON,
		doc.CreatedBy, doc.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert document: %w", err)
	}

	lineQuery := `
		INSERT INTO document_items (id, document_id, item_id, warehouse_id, bin_id, quantity, unit_price, batches)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, it := range doc.Items {
		batchesJSON, err := json.Marshal(it.Batches)
		if err != nil {
			return fmt.Errorf("encode line batches: %w", err)
		}
		if _, err := r.q.Exec(context.Background(), lineQuery,
			it.ID, it.DocumentID, it.ItemID, it.WarehouseID, it.BinID,
			it.Quantity, it.UnitPrice, batchesJSON,
		); err != nil {
			return fmt.Errorf("insert document item: %w", err)
		}
	}
	return nil
}

const documentSelect = `
	SELECT id, company_id, doc_type, document_number, party_name, COALESCE(source_order_id, ''), notes, attachments, created_by, created_at
	FROM documents`

// GetByID obtiene un documento con sus líneas, acotado por empresa.
func (r *DocumentRepo) GetByID(companyID, id string) (*entity.Document, error) {
	return r.getOne(documentSelect+` WHERE company_id = $1 AND id = $2`, companyID, id)
}

// GetByNumber obtiene un documento por su número, acotado por empresa.
func (r *DocumentRepo) GetByNumber(companyID, number string) (*entity.Document, error) {
	return r.getOne(documentSelect+` WHERE company_id = $1 AND document_number = $2`, companyID, number)
}

func (r *DocumentRepo) getOne(query string, args ...any) (*entity.Document, error) {
	doc, err := r.scanDocument(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	if err := r.loadItems(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ListByCompany lista documentos de la empresa, filtrados por tipo si se indica,
// del más reciente al más antiguo. Las líneas se cargan por documento.
func (r *DocumentRepo) ListByCompany(companyID, docType string, limit, offset int) ([]*entity.Document, error) {
	query := documentSelect + `
	WHERE company_id = $1 AND ($2 = '' OR doc_type = $2)
	ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, docType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var list []*entity.Document
	for rows.Next() {
		doc, err := r.scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, doc := range list {
		if err := r.loadItems(doc); err != nil {
			return nil, err
		}
	}
	return list, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func (r *DocumentRepo) scanDocument(row rowScanner) (*entity.Document, error) {
	var doc entity.Document
	var attachmentsJSON []byte
	if err := row.Scan(
		&doc.ID, &doc.CompanyID, &doc.DocType, &doc.DocumentNumber,
		&doc.PartyName, &doc.SourceOrderID, &doc.Notes, &attachmentsJSON,
		&doc.CreatedBy, &doc.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(attachmentsJSON) > 0 {
		if err := json.Unmarshal(attachmentsJSON, &doc.Attachments); err != nil {
			return nil, fmt.Errorf("decode attachments: %w", err)
		}
	}
	return &doc, nil
}

func (r *DocumentRepo) loadItems(doc *entity.Document) error {
	query := `
		SELECT id, document_id, item_id, warehouse_id, bin_id, quantity, unit_price, batches
		FROM document_items WHERE document_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, doc.ID)
	if err != nil {
		return fmt.Errorf("list document items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it entity.DocumentItem
		var batchesJSON []byte
		if err := rows.Scan(&it.ID, &it.DocumentID, &it.ItemID, &it.WarehouseID, &it.BinID, &it.Quantity, &it.UnitPrice, &batchesJSON); err != nil {
			return fmt.Errorf("scan document item: %w", err)
		}
		if len(batchesJSON) > 0 {
			if err := json.Unmarshal(batchesJSON, &it.Batches); err != nil {
				return fmt.Errorf("decode line batches: %w", err)
			}
		}
		doc.Items = append(doc.Items, it)
	}
	return rows.Err()
}
