package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento transaccional. Cada tipo tiene su propio prefijo de numeración
// y su efecto sobre el ledger (ver application/document).
const (
	DocTypeGoodsReceipt  = "GRN"
	DocTypePurchaseOrder = "PurchaseOrder"
	DocTypeSalesOrder    = "SalesOrder"
	DocTypeSalesInvoice  = "SalesInvoice"
	DocTypeDelivery      = "Delivery"
	DocTypeDebitNote     = "DebitNote"
	DocTypeCreditNote    = "CreditNote"
)

// Attachment es la metadata de un archivo adjunto ya subido al almacenamiento externo.
// La subida ocurre antes de abrir la transacción; si la transacción aborta después, el
// archivo subido no se limpia automáticamente.
type Attachment struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	FileName string `json:"file_name"`
}

// BatchAllocation asigna parte de la cantidad de una línea a un lote nombrado.
// Para artículos por lotes, la suma de asignaciones debe igualar la cantidad de la línea.
type BatchAllocation struct {
	BatchNumber  string          `json:"batch_number"`
	Quantity     decimal.Decimal `json:"quantity"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
	Manufacturer string          `json:"manufacturer,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// DocumentItem es una línea de documento. Cada línea causa exactamente un movimiento
// de stock y un delta sobre un InventoryRecord.
type DocumentItem struct {
	ID          string
	DocumentID  string
	ItemID      string
	WarehouseID string
	BinID       string // "" = bodega sin ubicaciones
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Batches     []BatchAllocation
}

// Document es el documento de negocio (recepción, orden, factura, entrega o nota).
// Se crea una sola vez, con su número ya asignado, después de computar los efectos de
// ledger; una vez confirmado es inmutable — las correcciones son documentos nuevos
// (nota débito/crédito que reversa una factura o recepción previa).
type Document struct {
	ID             string
	CompanyID      string
	DocType        string // ver constantes DocType*
	DocumentNumber string // <PREFIJO>/<añoFiscal>/<secuencia> ej. PURCH-ORD/2024-25/00007
	PartyName      string // proveedor o cliente según el tipo
	SourceOrderID  string // pedido de venta origen (facturas/entregas); "" = venta directa
	Notes          string
	Items          []DocumentItem
	Attachments    []Attachment
	CreatedBy      string
	CreatedAt      time.Time
}
