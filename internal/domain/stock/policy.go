package stock

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Pankajol/aits-erp-core/internal/domain"
	"github.com/Pankajol/aits-erp-core/internal/domain/entity"
)

// Movement describe el efecto ya resuelto de una línea de documento sobre un
// InventoryRecord. La cantidad siempre es positiva; el tipo define el signo.
type Movement struct {
	Type        string // entity.MovementType*
	Quantity    decimal.Decimal
	Allocations []entity.BatchAllocation // solo artículos por lotes, movimientos IN/OUT

	// ReleasesOnOrder: entrada de recepción (GRN) que descuenta lo pendiente por
	// recibir, con piso en cero.
	ReleasesOnOrder bool
	// ReleasesCommitted: salida contra pedido de venta que libera lo reservado,
	// con piso en cero.
	ReleasesCommitted bool
}

// MutationPolicy es el contrato único de mutación de stock. Hay dos variantes según
// el dato maestro del artículo: Bulk (cantidad fungible) y BatchTracked (lotes
// nombrados). La variante se elige una sola vez por artículo con PolicyFor, en lugar
// de ramificar por tipo de documento.
type MutationPolicy interface {
	// ValidateAllocations revisa la estructura de asignación de lotes de la línea,
	// sin tocar el ledger. Falla con ErrBatchMismatch.
	ValidateAllocations(mv Movement) error
	// Check verifica suficiencia para salidas contra el registro dado. Falla con
	// *domain.StockShortfallError (ErrInsufficientStock) o ErrBatchMismatch si un
	// lote nombrado no existe. Para entradas no hay nada que verificar.
	Check(rec *entity.InventoryRecord, mv Movement) error
	// Apply muta el registro. Re-verifica suficiencia inmediatamente antes de
	// escribir (el chequeo final de la transacción pasa por aquí).
	Apply(rec *entity.InventoryRecord, mv Movement, now time.Time) error
}

// PolicyFor selecciona la política según el flag de lotes del artículo.
func PolicyFor(item *entity.Item) MutationPolicy {
	if item.BatchManaged {
		return BatchTrackedPolicy{}
	}
	return BulkPolicy{}
}

// floorZero resta b de a sin bajar de cero.
func floorZero(a, b decimal.Decimal) decimal.Decimal {
	r := a.Sub(b)
	if r.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return r
}

// ── BulkPolicy ────────────────────────────────────────────────────────────────

// BulkPolicy muta artículos de cantidad fungible (sin lotes).
type BulkPolicy struct{}

func (BulkPolicy) ValidateAllocations(mv Movement) error {
	if len(mv.Allocations) > 0 {
		return fmt.Errorf("%w: el artículo no maneja lotes", domain.ErrBatchMismatch)
	}
	return nil
}

func (BulkPolicy) Check(rec *entity.InventoryRecord, mv Movement) error {
	if mv.Type != entity.MovementTypeOUT {
		return nil
	}
	if rec.Quantity.LessThan(mv.Quantity) {
		return &domain.StockShortfallError{
			ItemID:      rec.ItemID,
			WarehouseID: rec.WarehouseID,
			BinID:       rec.BinID,
			Requested:   mv.Quantity,
			Available:   rec.Quantity,
		}
	}
	return nil
}

func (p BulkPolicy) Apply(rec *entity.InventoryRecord, mv Movement, now time.Time) error {
	switch mv.Type {
	case entity.MovementTypeIN:
		rec.Quantity = rec.Quantity.Add(mv.Quantity)
		if mv.ReleasesOnOrder {
			rec.OnOrder = floorZero(rec.OnOrder, mv.Quantity)
		}
	case entity.MovementTypeOUT:
		if err := p.Check(rec, mv); err != nil {
			return err
		}
		rec.Quantity = rec.Quantity.Sub(mv.Quantity)
		if mv.ReleasesCommitted {
			rec.Committed = floorZero(rec.Committed, mv.Quantity)
		}
	case entity.MovementTypeOnOrder:
		rec.OnOrder = rec.OnOrder.Add(mv.Quantity)
	case entity.MovementTypeCommitted:
		rec.Committed = rec.Committed.Add(mv.Quantity)
	default:
		return domain.ErrInvalidInput
	}
	rec.UpdatedAt = now
	return nil
}

// ── BatchTrackedPolicy ────────────────────────────────────────────────────────

// BatchTrackedPolicy muta artículos controlados por lotes nombrados. Los movimientos
// físicos (IN/OUT) exigen asignaciones cuya suma iguala la cantidad de la línea; los
// movimientos de planeación (ON_ORDER/COMMITTED) no tocan lotes.
type BatchTrackedPolicy struct{}

func (BatchTrackedPolicy) ValidateAllocations(mv Movement) error {
	if mv.Type == entity.MovementTypeOnOrder || mv.Type == entity.MovementTypeCommitted {
		if len(mv.Allocations) > 0 {
			return fmt.Errorf("%w: un movimiento de planeación no lleva lotes", domain.ErrBatchMismatch)
		}
		return nil
	}
	if len(mv.Allocations) == 0 {
		return fmt.Errorf("%w: el artículo exige asignación de lotes", domain.ErrBatchMismatch)
	}
	sum := decimal.Zero
	seen := make(map[string]bool, len(mv.Allocations))
	for _, a := range mv.Allocations {
		if a.BatchNumber == "" {
			return fmt.Errorf("%w: lote sin número", domain.ErrBatchMismatch)
		}
		if !a.Quantity.GreaterThan(decimal.Zero) {
			return fmt.Errorf("%w: cantidad del lote %s debe ser positiva", domain.ErrBatchMismatch, a.BatchNumber)
		}
		if seen[a.BatchNumber] {
			return fmt.Errorf("%w: lote %s repetido", domain.ErrBatchMismatch, a.BatchNumber)
		}
		seen[a.BatchNumber] = true
		sum = sum.Add(a.Quantity)
	}
	if !sum.Equal(mv.Quantity) {
		return fmt.Errorf("%w: la suma de lotes (%s) no iguala la cantidad de la línea (%s)",
			domain.ErrBatchMismatch, sum.String(), mv.Quantity.String())
	}
	return nil
}

func (BatchTrackedPolicy) Check(rec *entity.InventoryRecord, mv Movement) error {
	if mv.Type != entity.MovementTypeOUT {
		return nil
	}
	for _, a := range mv.Allocations {
		b := rec.FindBatch(a.BatchNumber)
		if b == nil {
			return fmt.Errorf("%w: lote %s no existe en el inventario", domain.ErrBatchMismatch, a.BatchNumber)
		}
		if b.Quantity.LessThan(a.Quantity) {
			return &domain.StockShortfallError{
				ItemID:      rec.ItemID,
				WarehouseID: rec.WarehouseID,
				BinID:       rec.BinID,
				BatchNumber: a.BatchNumber,
				Requested:   a.Quantity,
				Available:   b.Quantity,
			}
		}
	}
	if rec.Quantity.LessThan(mv.Quantity) {
		return &domain.StockShortfallError{
			ItemID:      rec.ItemID,
			WarehouseID: rec.WarehouseID,
			BinID:       rec.BinID,
			Requested:   mv.Quantity,
			Available:   rec.Quantity,
		}
	}
	return nil
}

func (p BatchTrackedPolicy) Apply(rec *entity.InventoryRecord, mv Movement, now time.Time) error {
	switch mv.Type {
	case entity.MovementTypeIN:
		for _, a := range mv.Allocations {
			if b := rec.FindBatch(a.BatchNumber); b != nil {
				b.Quantity = b.Quantity.Add(a.Quantity)
				continue
			}
			rec.Batches = append(rec.Batches, entity.Batch{
				BatchNumber:  a.BatchNumber,
				Quantity:     a.Quantity,
				ExpiryDate:   a.ExpiryDate,
				Manufacturer: a.Manufacturer,
				UnitPrice:    a.UnitPrice,
			})
		}
		rec.Quantity = rec.Quantity.Add(mv.Quantity)
		if mv.ReleasesOnOrder {
			rec.OnOrder = floorZero(rec.OnOrder, mv.Quantity)
		}
	case entity.MovementTypeOUT:
		if err := p.Check(rec, mv); err != nil {
			return err
		}
		for _, a := range mv.Allocations {
			b := rec.FindBatch(a.BatchNumber)
			b.Quantity = b.Quantity.Sub(a.Quantity)
		}
		rec.PruneEmptyBatches()
		rec.Quantity = rec.Quantity.Sub(mv.Quantity)
		if mv.ReleasesCommitted {
			rec.Committed = floorZero(rec.Committed, mv.Quantity)
		}
	case entity.MovementTypeOnOrder:
		rec.OnOrder = rec.OnOrder.Add(mv.Quantity)
	case entity.MovementTypeCommitted:
		rec.Committed = rec.Committed.Add(mv.Quantity)
	default:
		return domain.ErrInvalidInput
	}
	rec.UpdatedAt = now
	return nil
}
