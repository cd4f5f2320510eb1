package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// ErrInvalidReference: artículo, bodega, ubicación o documento origen inexistente
	// o perteneciente a otra empresa.
	ErrInvalidReference = errors.New("referencia inválida")

	// ErrBatchMismatch: la suma de lotes asignados no coincide con la cantidad de la
	// línea, o se nombró un lote desconocido.
	ErrBatchMismatch = errors.New("asignación de lotes inconsistente")

	// ErrInsufficientStock: la cantidad de salida supera el saldo disponible.
	ErrInsufficientStock = errors.New("stock insuficiente")

	// ErrConcurrencyConflict: el stock validado en el pre-chequeo fue consumido por otra
	// transacción antes del re-chequeo final dentro de la tx. El caller puede reintentar.
	ErrConcurrencyConflict = errors.New("stock consumido por una transacción concurrente")
)

// StockShortfallError detalla una salida rechazada: qué artículo, dónde, cuánto se
// pidió y cuánto había. errors.Is(err, ErrInsufficientStock) es verdadero.
type StockShortfallError struct {
	ItemID      string
	WarehouseID string
	BinID       string
	BatchNumber string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

func (e *StockShortfallError) Error() string {
	scope := "bodega " + e.WarehouseID
	if e.BinID != "" {
		scope += " ubicación " + e.BinID
	}
	if e.BatchNumber != "" {
		scope += " lote " + e.BatchNumber
	}
	return fmt.Sprintf("stock insuficiente para artículo %s en %s: solicitado %s, disponible %s",
		e.ItemID, scope, e.Requested.String(), e.Available.String())
}

func (e *StockShortfallError) Unwrap() error { return ErrInsufficientStock }
