package document

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Pankajol/aits-erp-core/internal/application/dto"
	"github.com/Pankajol/aits-erp-core/internal/application/inventory"
	"github.com/Pankajol/aits-erp-core/internal/domain"
	"github.com/Pankajol/aits-erp-core/internal/domain/entity"
	"github.com/Pankajol/aits-erp-core/internal/domain/numbering"
	"github.com/Pankajol/aits-erp-core/internal/domain/repository"
	"github.com/Pankajol/aits-erp-core/internal/domain/stock"
)

// SubmitDocumentUseCase emite documentos comerciales: valida, numera, verifica stock,
// persiste y confirma en una sola transacción. Todos los tipos de documento pasan por
// el mismo flujo; la variación vive en la tabla de Kinds.
type SubmitDocumentUseCase struct {
	txRunner      DocumentTxRunner
	ledger        LedgerPort
	itemRepo      repository.ItemRepository
	warehouseRepo repository.WarehouseRepository
	docRepo       repository.DocumentRepository
	storage       FileStorage

	// clock permite fijar el tiempo en tests; nil = time.Now.
	clock func() time.Time
}

// NewSubmitDocumentUseCase construye el caso de uso de emisión de documentos.
func NewSubmitDocumentUseCase(
	txRunner DocumentTxRunner,
	ledger LedgerPort,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
	docRepo repository.DocumentRepository,
	storage FileStorage,
) *SubmitDocumentUseCase {
	return &SubmitDocumentUseCase{
		txRunner:      txRunner,
		ledger:        ledger,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		docRepo:       docRepo,
		storage:       storage,
	}
}

// resolvedLine una línea ya validada con sus referencias resueltas.
type resolvedLine struct {
	req   dto.DocumentItemRequest
	item  *entity.Item
	input inventory.MovementInput
}

// Submit emite un documento del tipo indicado para la empresa. El flujo es:
//
//  1. Validación estructural y de referencias (fuera de la tx, solo lectura).
//  2. Pre-chequeo de stock para salidas (fuera de la tx, sin bloqueos).
//  3. Subida de adjuntos (fuera de la tx; si la tx aborta el archivo queda huérfano).
//  4. Transacción: consecutivo → número → movimientos con fila bloqueada → documento.
//
// Si cualquier paso dentro de la transacción falla, nada queda persistido y el
// consecutivo se revierte con el rollback (sin huecos en la numeración).
func (uc *SubmitDocumentUseCase) Submit(ctx context.Context, companyID, userID, docType string, in dto.SubmitDocumentRequest) (*dto.DocumentResponse, error) {
	kind, ok := KindFor(docType)
	if !ok {
		return nil, fmt.Errorf("%w: tipo de documento %q desconocido", domain.ErrInvalidInput, docType)
	}
	if companyID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.SourceOrderID != "" && !kind.AllowsSourceOrder {
		return nil, fmt.Errorf("%w: %s no admite pedido origen", domain.ErrInvalidInput, kind.DocType)
	}

	now := uc.now()
	docID := uuid.New().String()

	// Validar referencias y armar los movimientos (fuera de la tx, solo lectura)
	lines, err := uc.resolveLines(companyID, userID, kind, in.Items)
	if err != nil {
		return nil, err
	}

	// Pedido origen: debe existir, ser de la empresa y ser un pedido de venta
	releasesCommitted := false
	if in.SourceOrderID != "" {
		src, err := uc.docRepo.GetByID(companyID, in.SourceOrderID)
		if err != nil || src == nil {
			return nil, fmt.Errorf("%w: pedido origen %s", domain.ErrInvalidReference, in.SourceOrderID)
		}
		if src.DocType != entity.DocTypeSalesOrder {
			return nil, fmt.Errorf("%w: el pedido origen %s no es un pedido de venta", domain.ErrInvalidReference, in.SourceOrderID)
		}
		releasesCommitted = true
	}

	// Pre-chequeo de stock sobre el documento completo: detecta faltantes, incluso
	// los que varias líneas producen en conjunto sobre un mismo registro, antes de
	// abrir la transacción. Un faltante que aparezca después, ya con la fila
	// bloqueada, se reporta como conflicto de concurrencia.
	inputs := make([]inventory.MovementInput, len(lines))
	for i := range lines {
		lines[i].input.Movement.ReleasesCommitted = releasesCommitted
		inputs[i] = lines[i].input
	}
	if err := uc.ledger.Precheck(inputs); err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i].input.PrecheckPassed = true
	}

	// Adjuntos antes de la tx: el storage externo no participa del rollback
	attachments := make([]entity.Attachment, 0, len(in.Attachments))
	for _, a := range in.Attachments {
		stored, err := uc.storage.Upload(ctx, a.FileName, a.Content)
		if err != nil {
			return nil, fmt.Errorf("subir adjunto %s: %w", a.FileName, err)
		}
		attachments = append(attachments, *stored)
	}

	fy := numbering.FiscalYearAt(now)
	var doc *entity.Document

	err = uc.txRunner.RunDocument(ctx, func(
		counterRepo repository.CounterRepository,
		invRepo repository.InventoryRepository,
		movRepo repository.StockMovementRepository,
		docRepo repository.DocumentRepository,
		itemRepo repository.ItemRepository,
	) error {
		// 1) Consecutivo dentro de la tx: si algo falla después, el número se
		// revierte con el rollback y no quedan huecos.
		seq, err := counterRepo.Next(companyID, numbering.CounterKey(kind.CounterKey, fy))
		if err != nil {
			return err
		}
		number := numbering.FormatNumber(kind.Prefix, fy, seq)

		// 2) Movimientos de inventario, una línea a la vez, con fila bloqueada.
		// El costo promedio del artículo se recalcula en recepciones.
		costByItem := make(map[string]decimal.Decimal)
		for i := range lines {
			line := &lines[i]
			line.input.Reference = number
			line.input.ReferenceType = kind.DocType

			if kind.DocType == entity.DocTypeGoodsReceipt {
				cost, seen := costByItem[line.item.ID]
				if !seen {
					cost = line.item.Cost
				}
				// Fila bloqueada: la cantidad leída para el promedio no puede
				// cambiar bajo otra recepción concurrente.
				rec, err := invRepo.GetForUpdate(companyID, line.item.ID, line.req.WarehouseID, line.req.BinID)
				if err != nil {
					return err
				}
				newCost := stock.WeightedAverageCost(rec.Quantity, cost, line.req.Quantity, line.req.UnitPrice)
				if err := itemRepo.UpdateCost(line.item.ID, newCost); err != nil {
					return err
				}
				costByItem[line.item.ID] = newCost
			}

			if err := uc.ledger.ApplyMovementInTx(invRepo, movRepo, line.input, now); err != nil {
				return err
			}
		}

		// 3) Cabecera y líneas del documento
		doc = &entity.Document{
			ID:             docID,
			CompanyID:      companyID,
			DocType:        kind.DocType,
			DocumentNumber: number,
			PartyName:      in.PartyName,
			SourceOrderID:  in.SourceOrderID,
			Notes:          in.Notes,
			Attachments:    attachments,
			CreatedBy:      userID,
			CreatedAt:      now,
		}
		for _, line := range lines {
			doc.Items = append(doc.Items, entity.DocumentItem{
				ID:          uuid.New().String(),
				DocumentID:  docID,
				ItemID:      line.req.ItemID,
				WarehouseID: line.req.WarehouseID,
				BinID:       line.req.BinID,
				Quantity:    line.req.Quantity,
				UnitPrice:   line.req.UnitPrice,
				Batches:     toBatchAllocations(line.req.Batches),
			})
		}
		return docRepo.Create(doc)
	})
	if err != nil {
		return nil, err
	}

	return documentToResponse(doc), nil
}

// resolveLines valida cada línea y resuelve artículo, bodega y ubicación.
// Referencias rotas o de otra empresa fallan con ErrInvalidReference.
func (uc *SubmitDocumentUseCase) resolveLines(companyID, userID string, kind Kind, reqs []dto.DocumentItemRequest) ([]resolvedLine, error) {
	lines := make([]resolvedLine, 0, len(reqs))
	warehouses := make(map[string]*entity.Warehouse)

	for _, req := range reqs {
		if req.ItemID == "" || req.WarehouseID == "" {
			return nil, domain.ErrInvalidInput
		}
		if !req.Quantity.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
		}
		if req.UnitPrice.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: el precio unitario no puede ser negativo", domain.ErrInvalidInput)
		}

		item, err := uc.itemRepo.GetByID(req.ItemID)
		if err != nil || item == nil || item.CompanyID != companyID {
			return nil, fmt.Errorf("%w: artículo %s", domain.ErrInvalidReference, req.ItemID)
		}

		wh, cached := warehouses[req.WarehouseID]
		if !cached {
			wh, err = uc.warehouseRepo.GetByID(req.WarehouseID)
			if err != nil || wh == nil || wh.CompanyID != companyID {
				return nil, fmt.Errorf("%w: bodega %s", domain.ErrInvalidReference, req.WarehouseID)
			}
			warehouses[req.WarehouseID] = wh
		}

		// Reglas de ubicación: bodega con ubicaciones exige bin válido en cada
		// línea; bodega sin ubicaciones lo prohíbe.
		if wh.HasBins() {
			if req.BinID == "" {
				return nil, fmt.Errorf("%w: la bodega %s exige ubicación", domain.ErrInvalidReference, wh.Name)
			}
			if !wh.HasBin(req.BinID) {
				return nil, fmt.Errorf("%w: ubicación %s no existe en la bodega %s", domain.ErrInvalidReference, req.BinID, wh.Name)
			}
		} else if req.BinID != "" {
			return nil, fmt.Errorf("%w: la bodega %s no maneja ubicaciones", domain.ErrInvalidReference, wh.Name)
		}

		lines = append(lines, resolvedLine{
			req:  req,
			item: item,
			input: inventory.MovementInput{
				CompanyID:   companyID,
				UserID:      userID,
				Item:        item,
				WarehouseID: req.WarehouseID,
				BinID:       req.BinID,
				Movement: stock.Movement{
					Type:            kind.MovementType,
					Quantity:        req.Quantity,
					Allocations:     toBatchAllocations(req.Batches),
					ReleasesOnOrder: kind.ReleasesOnOrder,
				},
			},
		})
	}
	return lines, nil
}

func (uc *SubmitDocumentUseCase) now() time.Time {
	if uc.clock != nil {
		return uc.clock()
	}
	return time.Now()
}

func toBatchAllocations(reqs []dto.BatchAllocationRequest) []entity.BatchAllocation {
	if len(reqs) == 0 {
		return nil
	}
	out := make([]entity.BatchAllocation, 0, len(reqs))
	for _, b := range reqs {
		out = append(out, entity.BatchAllocation{
			BatchNumber:  b.BatchNumber,
			Quantity:     b.Quantity,
			ExpiryDate:   b.ExpiryDate,
			Manufacturer: b.Manufacturer,
			UnitPrice:    b.UnitPrice,
		})
	}
	return out
}

func documentToResponse(d *entity.Document) *dto.DocumentResponse {
	if d == nil {
		return nil
	}
	items := make([]dto.DocumentItemResponse, 0, len(d.Items))
	for _, it := range d.Items {
		batches := make([]dto.BatchAllocationRequest, 0, len(it.Batches))
		for _, b := range it.Batches {
			batches = append(batches, dto.BatchAllocationRequest{
				BatchNumber:  b.BatchNumber,
				Quantity:     b.Quantity,
				ExpiryDate:   b.ExpiryDate,
				Manufacturer: b.Manufacturer,
				UnitPrice:    b.UnitPrice,
			})
		}
		items = append(items, dto.DocumentItemResponse{
			ID:          it.ID,
			ItemID:      it.ItemID,
			WarehouseID: it.WarehouseID,
			BinID:       it.BinID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Batches:     batches,
		})
	}
	attachments := make([]dto.AttachmentResponse, 0, len(d.Attachments))
	for _, a := range d.Attachments {
		attachments = append(attachments, dto.AttachmentResponse{URL: a.URL, FileName: a.FileName})
	}
	return &dto.DocumentResponse{
		ID:             d.ID,
		CompanyID:      d.CompanyID,
		DocType:        d.DocType,
		DocumentNumber: d.DocumentNumber,
		PartyName:      d.PartyName,
		SourceOrderID:  d.SourceOrderID,
		Notes:          d.Notes,
		Items:          items,
		Attachments:    attachments,
		CreatedBy:      d.CreatedBy,
		CreatedAt:      d.CreatedAt,
	}
}
