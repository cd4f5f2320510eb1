package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchAllocationRequest asignación de lote en una línea de documento.
type BatchAllocationRequest struct {
	BatchNumber  string          `json:"batch_number" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
	Manufacturer string          `json:"manufacturer,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// DocumentItemRequest una línea de documento comercial.
type DocumentItemRequest struct {
	ItemID      string                   `json:"item_id" validate:"required,uuid"`
	WarehouseID string                   `json:"warehouse_id" validate:"required,uuid"`
	BinID       string                   `json:"bin_id,omitempty"`
	Quantity    decimal.Decimal          `json:"quantity"`
	UnitPrice   decimal.Decimal          `json:"unit_price"`
	Batches     []BatchAllocationRequest `json:"batches,omitempty"`
}

// AttachmentUpload archivo adjunto recibido en el submit (contenido en memoria).
type AttachmentUpload struct {
	FileName string `json:"file_name"`
	Content  []byte `json:"content"`
}

// SubmitDocumentRequest body para POST /api/documents/{tipo}. El tipo de documento
// viene de la ruta, no del body.
type SubmitDocumentRequest struct {
	PartyName     string                `json:"party_name"`
	SourceOrderID string                `json:"source_order_id,omitempty"`
	Notes         string                `json:"notes"`
	Items         []DocumentItemRequest `json:"items" validate:"required,min=1"`
	Attachments   []AttachmentUpload    `json:"attachments,omitempty"`
}

// AttachmentResponse adjunto ya almacenado.
type AttachmentResponse struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
}

// DocumentItemResponse una línea persistida.
type DocumentItemResponse struct {
	ID          string                   `json:"id"`
	ItemID      string                   `json:"item_id"`
	WarehouseID string                   `json:"warehouse_id"`
	BinID       string                   `json:"bin_id,omitempty"`
	Quantity    decimal.Decimal          `json:"quantity"`
	UnitPrice   decimal.Decimal          `json:"unit_price"`
	Batches     []BatchAllocationRequest `json:"batches,omitempty"`
}

// DocumentResponse salida de un documento comercial.
type DocumentResponse struct {
	ID             string                 `json:"id"`
	CompanyID      string                 `json:"company_id"`
	DocType        string                 `json:"doc_type"`
	DocumentNumber string                 `json:"document_number"`
	PartyName      string                 `json:"party_name"`
	SourceOrderID  string                 `json:"source_order_id,omitempty"`
	Notes          string                 `json:"notes"`
	Items          []DocumentItemResponse `json:"items"`
	Attachments    []AttachmentResponse   `json:"attachments,omitempty"`
	CreatedBy      string                 `json:"created_by"`
	CreatedAt      time.Time              `json:"created_at"`
}

// DocumentListResponse lista paginada de documentos.
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
