package inventory

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Pankajol/aits-erp-core/internal/domain"
	"github.com/Pankajol/aits-erp-core/internal/domain/entity"
	"github.com/Pankajol/aits-erp-core/internal/domain/repository"
	"github.com/Pankajol/aits-erp-core/internal/domain/stock"
)

// MovementInput entrada ya resuelta para aplicar un movimiento al ledger.
// El caller valida antes el artículo y la bodega (tenencia y existencia).
type MovementInput struct {
	CompanyID   string
	UserID      string
	Item        *entity.Item
	WarehouseID string
	BinID       string // "" = bodega sin ubicaciones
	Movement    stock.Movement

	// Reference/ReferenceType enlazan el asiento de la bitácora con su documento
	// (número y tipo).
	Reference     string
	ReferenceType string

	// PrecheckPassed: la verificación de lectura (fuera de la transacción) ya aprobó
	// esta línea. Un faltante detectado después, con la fila bloqueada, significa que
	// otra transacción consumió el stock en medio: se reporta como conflicto de
	// concurrencia y no como faltante simple.
	PrecheckPassed bool
}

// LedgerUseCase aplica movimientos al ledger de inventario con bloqueo de fila
// (SELECT FOR UPDATE) y bitácora append-only. La mutación concreta la decide la
// política del artículo (a granel o por lotes).
type LedgerUseCase struct {
	invRepo repository.InventoryRepository
}

// NewLedgerUseCase construye el caso de uso del ledger.
func NewLedgerUseCase(invRepo repository.InventoryRepository) *LedgerUseCase {
	return &LedgerUseCase{invRepo: invRepo}
}

// Precheck valida todas las líneas de un documento contra el estado actual del
// ledger, sin bloquear filas ni abrir transacción. Es la primera fase de la
// verificación en dos tiempos: barata, de solo lectura, y susceptible a carreras
// (la segunda fase ocurre en ApplyMovementInTx con la fila bloqueada).
//
// Las líneas que comparten registro (mismo artículo, bodega y ubicación) se
// verifican en conjunto: la suma pedida sobre un mismo saldo, y sobre un mismo
// lote, debe caber completa. Un faltante combinado es stock insuficiente del
// propio documento, no un conflicto de concurrencia.
func (uc *LedgerUseCase) Precheck(ins []MovementInput) error {
	type group struct {
		first    *MovementInput
		combined stock.Movement
	}
	groups := make(map[string]*group)
	var order []string

	for i := range ins {
		in := &ins[i]
		if err := stock.PolicyFor(in.Item).ValidateAllocations(in.Movement); err != nil {
			return err
		}
		key := strings.Join([]string{in.CompanyID, in.Item.ID, in.WarehouseID, in.BinID}, "|")
		g, ok := groups[key]
		if !ok {
			mv := in.Movement
			mv.Allocations = append([]entity.BatchAllocation(nil), in.Movement.Allocations...)
			groups[key] = &group{first: in, combined: mv}
			order = append(order, key)
			continue
		}
		g.combined.Quantity = g.combined.Quantity.Add(in.Movement.Quantity)
		for _, a := range in.Movement.Allocations {
			merged := false
			for j := range g.combined.Allocations {
				if g.combined.Allocations[j].BatchNumber == a.BatchNumber {
					g.combined.Allocations[j].Quantity = g.combined.Allocations[j].Quantity.Add(a.Quantity)
					merged = true
					break
				}
			}
			if !merged {
				g.combined.Allocations = append(g.combined.Allocations, a)
			}
		}
	}

	for _, key := range order {
		g := groups[key]
		in := g.first
		rec, err := uc.invRepo.Get(in.CompanyID, in.Item.ID, in.WarehouseID, in.BinID)
		if err != nil {
			return err
		}
		if err := stock.PolicyFor(in.Item).Check(rec, g.combined); err != nil {
			return err
		}
	}
	return nil
}

// ApplyMovementInTx ejecuta un movimiento usando los repositorios proporcionados
// (misma transacción del caller): bloquea la fila del registro, re-verifica
// suficiencia, aplica la mutación, persiste el registro y agrega el asiento a la
// bitácora. Cualquier error hace rollback de toda la transacción en el caller.
func (uc *LedgerUseCase) ApplyMovementInTx(
	recRepo repository.InventoryRepository,
	movRepo repository.StockMovementRepository,
	in MovementInput,
	now time.Time,
) error {
	// Bloquea la fila del ledger (SELECT FOR UPDATE) para evitar condiciones de carrera
	rec, err := recRepo.GetForUpdate(in.CompanyID, in.Item.ID, in.WarehouseID, in.BinID)
	if err != nil {
		return err
	}

	policy := stock.PolicyFor(in.Item)
	if err := policy.Check(rec, in.Movement); err != nil {
		if in.PrecheckPassed && errors.Is(err, domain.ErrInsufficientStock) {
			// El pre-chequeo aprobó y ahora falta stock: otra transacción ganó la carrera.
			return fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, err)
		}
		return err
	}
	if err := policy.Apply(rec, in.Movement, now); err != nil {
		return err
	}
	if err := recRepo.Upsert(rec); err != nil {
		return err
	}

	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		CompanyID:     in.CompanyID,
		ItemID:        in.Item.ID,
		WarehouseID:   in.WarehouseID,
		BinID:         in.BinID,
		MovementType:  in.Movement.Type,
		Quantity:      in.Movement.Quantity,
		Reference:     in.Reference,
		ReferenceType: in.ReferenceType,
		CreatedBy:     in.UserID,
		CreatedAt:     now,
	}
	return movRepo.Create(mov)
}
