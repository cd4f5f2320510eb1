package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock. El tipo determina el signo del efecto sobre el ledger;
// la cantidad del movimiento siempre es positiva.
const (
	MovementTypeIN        = "IN"        // entrada física (recepción, nota crédito)
	MovementTypeOUT       = "OUT"       // salida física (factura, entrega, nota débito)
	MovementTypeOnOrder   = "ON_ORDER"  // cantidad esperada por orden de compra
	MovementTypeCommitted = "COMMITTED" // cantidad reservada por pedido de venta
)

// StockMovement es el registro de auditoría de una mutación del ledger: una fila por
// línea de documento. Solo se inserta, jamás se actualiza ni borra; reconstruir el
// saldo de un artículo es reproducir sus movimientos desde cero.
type StockMovement struct {
	ID            string
	CompanyID     string
	ItemID        string
	WarehouseID   string
	BinID         string // "" = sin ubicación
	MovementType  string // ver constantes MovementType*
	Quantity      decimal.Decimal // siempre > 0
	Reference     string          // número del documento que originó el movimiento (ej. GRN/2024-25/00001)
	ReferenceType string          // tipo de documento (ver constantes DocType*)
	CreatedBy     string
	CreatedAt     time.Time
}
