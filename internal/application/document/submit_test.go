package document

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pankajol/aits-erp-core/internal/application/dto"
	"github.com/Pankajol/aits-erp-core/internal/application/inventory"
	"github.com/Pankajol/aits-erp-core/internal/domain"
	"github.com/Pankajol/aits-erp-core/internal/domain/entity"
)

const (
	testCompany = "comp-1"
	testUser    = "user-1"
)

// env arma el caso de uso completo sobre los fakes en memoria, con reloj fijo.
type env struct {
	s       *fakeState
	docRepo *fakeDocumentRepo
	storage *fakeStorage
	uc      *SubmitDocumentUseCase
	now     time.Time
}

func newEnv() *env {
	s := newFakeState()
	docRepo := &fakeDocumentRepo{s: s}
	storage := &fakeStorage{}
	e := &env{
		s:       s,
		docRepo: docRepo,
		storage: storage,
		now:     time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC), // año fiscal 2024-25
	}
	uc := NewSubmitDocumentUseCase(
		&fakeTxRunner{s: s, docRepo: docRepo},
		inventory.NewLedgerUseCase(&fakeInventoryRepo{s: s}),
		&fakeItemRepo{s: s},
		&fakeWarehouseRepo{s: s},
		docRepo,
		storage,
	)
	uc.clock = func() time.Time { return e.now }
	e.uc = uc
	return e
}

func (e *env) addItem(id string, batchManaged bool) *entity.Item {
	it := &entity.Item{
		ID:           id,
		CompanyID:    testCompany,
		SKU:          "SKU-" + id,
		Name:         "Artículo " + id,
		Cost:         decimal.Zero,
		BatchManaged: batchManaged,
	}
	e.s.items[id] = it
	return it
}

func (e *env) addWarehouse(id string, bins ...string) {
	e.s.warehouses[id] = &entity.Warehouse{
		ID:           id,
		CompanyID:    testCompany,
		Name:         "Bodega " + id,
		BinLocations: bins,
	}
}

func (e *env) seed(itemID, warehouseID, binID, quantity string, batches ...entity.Batch) {
	rec := entity.NewInventoryRecord(testCompany, itemID, warehouseID, binID, e.now)
	rec.Quantity = decimal.RequireFromString(quantity)
	rec.Batches = batches
	e.s.records[recKey(testCompany, itemID, warehouseID, binID)] = rec
}

func (e *env) record(itemID, warehouseID, binID string) *entity.InventoryRecord {
	rec, ok := e.s.records[recKey(testCompany, itemID, warehouseID, binID)]
	if !ok {
		return entity.NewInventoryRecord(testCompany, itemID, warehouseID, binID, e.now)
	}
	return rec
}

func line(itemID, warehouseID, qty, price string) dto.DocumentItemRequest {
	return dto.DocumentItemRequest{
		ItemID:      itemID,
		WarehouseID: warehouseID,
		Quantity:    decimal.RequireFromString(qty),
		UnitPrice:   decimal.RequireFromString(price),
	}
}

// ── Escenario compra-a-recepción ──────────────────────────────────────────────

func TestSubmit_CompraARecepcion(t *testing.T) {
	e := newEnv()
	e.addItem("item-1", false)
	e.addWarehouse("wh-1")
	ctx := context.Background()

	// Pedido de compra por 100: sube OnOrder, no toca cantidad física
	po, err := e.uc.Submit(ctx, testCompany, testUser, entity.DocTypePurchaseOrder, dto.SubmitDocumentRequest{
		PartyName: "Proveedor SA",
		Items:     []dto.DocumentItemRequest{line("item-1", "wh-1", "100", "50")},
	})
	require.NoError(t, err)
	assert.Equal(t, "PURCH-ORD/2024-25/00001", po.DocumentNumber)

	rec := e.record("item-1", "wh-1", "")
	assert.True(t, rec.OnOrder.Equal(decimal.RequireFromString("100")))
	assert.True(t, rec.Quantity.IsZero())

	// Recepción parcial de 60 a costo 50: entra stock, libera pendiente, fija costo
	grn, err := e.uc.Submit(ctx, testCompany, testUser, entity.DocTypeGoodsReceipt, dto.SubmitDocumentRequest{
		PartyName: "Proveedor SA",
		Items:     []dto.DocumentItemRequest{line("item-1", "wh-1", "60", "50")},
	})
	require.NoError(t, err)
	assert.Equal(t, "GRN/2024-25/00001", grn.DocumentNumber, "cada tipo de documento lleva su propio consecutivo")

	rec = e.record("item-1", "wh-1", "")
	assert.True(t, rec.Quantity.Equal(decimal.RequireFromString("60")))
	assert.True(t, rec.OnOrder.Equal(decimal.RequireFromString("40")), "la recepción descuenta lo pendiente")
	assert.True(t, e.s.items["item-1"].Cost.Equal(decimal.RequireFromString("50")), "costo promedio tras la primera recepción")

	// Bitácora: un asiento por documento, con la referencia del número emitido
	movs, err := (&fakeMovementRepo{s: e.s}).ListByReference(testCompany, grn.DocumentNumber)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeIN, movs[0].MovementType)
	assert.Equal(t, entity.DocTypeGoodsReceipt, movs[0].ReferenceType)
	assert.Equal(t, testUser, movs[0].CreatedBy)
}

// ── Escenario pedido-a-entrega con lotes ──────────────────────────────────────

func TestSubmit_PedidoAFacturaConLotes(t *testing.T) {
	e := newEnv()
	e.addItem("item-b", true)
	e.addWarehouse("wh-1")
	e.seed("item-b", "wh-1", "", "50",
		entity.Batch{BatchNumber: "L-1", Quantity: decimal.RequireFromString("30")},
		entity.Batch{BatchNumber: "L-2", Quantity: decimal.RequireFromString("20")},
	)
	ctx := context.Background()

	// Pedido de venta por 30: compromete sin tocar lotes
	so, err := e.uc.Submit(ctx, testCompany, testUser, entity.DocTypeSalesOrder, dto.SubmitDocumentRequest{
		PartyName: "Cliente SA",
		Items:     []dto.DocumentItemRequest{line("item-b", "wh-1", "30", "120")},
	})
	require.NoError(t, err)
	assert.Equal(t, "SALES-ORD/2024-25/00001", so.DocumentNumber)

	rec := e.record("item-b", "wh-1", "")
	assert.True(t, rec.Committed.Equal(decimal.RequireFromString("30")))
	assert.True(t, rec.Quantity.Equal(decimal.RequireFromString("50")), "comprometer no descuenta stock físico")
	assert.Len(t, rec.Batches, 2)

	// Factura contra el pedido: descuenta lote, libera comprometido
	invLine := line("item-b", "wh-1", "30", "120")
	invLine.Batches = []dto.BatchAllocationRequest{
		{BatchNumber: "L-1", Quantity: decimal.RequireFromString("30")},
	}
	inv, err := e.uc.Submit(ctx, testCompany, testUser, entity.DocTypeSalesInvoice, dto.SubmitDocumentRequest{
		PartyName:     "Cliente SA",
		SourceOrderID: so.ID,
		Items:         []dto.DocumentItemRequest{invLine},
	})
	require.NoError(t, err)
	assert.Equal(t, "SALES-INV/2024-25/00001", inv.DocumentNumber)

	rec = e.record("item-b", "wh-1", "")
	assert.True(t, rec.Quantity.Equal(decimal.RequireFromString("20")))
	assert.True(t, rec.Committed.IsZero(), "la factura con pedido origen libera lo comprometido")
	require.Len(t, rec.Batches, 1, "el lote L-1 agotado se poda")
	assert.Equal(t, "L-2", rec.Batches[0].BatchNumber)
}

// ── Devolución a proveedor con lotes ──────────────────────────────────────────

func TestSubmit_NotaDebitoAgotaLote(t *testing.T) {
	e := newEnv()
	e.addItem("item-b", true)
	e.addWarehouse("wh-1")
	e.seed("item-b", "wh-1", "", "4",
		entity.Batch{BatchNumber: "B1", Quantity: decimal.RequireFromString("4")})
	ctx := context.Background()

	l := line("item-b", "wh-1", "4", "10")
	l.Batches = []dto.BatchAllocationRequest{
		{BatchNumber: "B1", Quantity: decimal.RequireFromString("4")},
	}
	dn, err := e.uc.Submit(ctx, testCompany, testUser, entity.DocTypeDebitNote, dto.SubmitDocumentRequest{
		PartyName: "Proveedor SA",
		Items:     []dto.DocumentItemRequest{l},
	})
	require.NoError(t, err)
	assert.Equal(t, "DEBIT-NOTE/2024-25/00001", dn.DocumentNumber)

	rec := e.record("item-b", "wh-1", "")
	assert.True(t, rec.Quantity.IsZero())
	assert.Empty(t, rec.Batches, "el lote B1 agotado se poda de la lista")

	movs, err := (&fakeMovementRepo{s: e.s}).ListByReference(testCompany, dn.DocumentNumber)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeOUT, movs[0].MovementType)
	assert.True(t, movs[0].Quantity.Equal(decimal.RequireFromString("4")))
}

// ── Rechazos: nada queda persistido ───────────────────────────────────────────

func TestSubmit_StockInsuficienteNadaPersiste(t *testing.T) {
	e := newEnv()
	e.addItem("item-1", false)
	e.addWarehouse("wh-1")
	e.seed("item-1", "wh-1", "", "10")

	_, err := e.uc.Submit(context.Background(), testCompany, testUser, entity.DocTypeSalesInvoice, dto.SubmitDocumentRequest{
		Items: []dto.DocumentItemRequest{line("item-1", "wh-1", "100", "10")},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	rec := e.record("item-1", "wh-1", "")
	assert.True(t, rec.Quantity.Equal(decimal.RequireFromString("10")), "el stock queda intacto")
	assert.Empty(t, e.s.movements, "sin asientos en la bitácora")
	assert.Empty(t, e.s.documents, "sin documento persistido")

	cur, _ := (&fakeCounterRepo{s: e.s}).Current(testCompany, "SalesInvoice-2024")
	assert.Zero(t, cur, "el consecutivo no se quema: el rechazo ocurre antes de numerar")
}

func TestSubmit_LineasSobreElMismoRegistroSeValidanEnConjunto(t *testing.T) {
	e := newEnv()
	e.addItem("item-1", false)
	e.addWarehouse("wh-1")
	e.seed("item-1", "wh-1", "", "10")

	// Dos líneas de 6 sobre el mismo registro: cada una cabe sola, juntas no.
	// Sin transacción rival, esto es stock insuficiente, no conflicto.
	_, err := e.uc.Submit(context.Background(), testCompany, testUser, entity.DocTypeSalesInvoice, dto.SubmitDocumentRequest{
		Items: []dto.DocumentItemRequest{
			line("item-1", "wh-1", "6", "10"),
			line("item-1", "wh-1", "6", "10"),
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.NotErrorIs(t, err, domain.ErrConcurrencyConflict,
		"un faltante producido por el propio documento no es un conflicto: reintentarlo jamás tendría éxito")

	var shortfall *domain.StockShortfallError
	require.ErrorAs(t, err, &shortfall)
	assert.True(t, shortfall.Requested.Equal(decimal.RequireFromString("12")), "el faltante reporta la suma pedida")
	assert.True(t, shortfall.Available.Equal(decimal.RequireFromString("10")))

	rec := e.record("item-1", "wh-1", "")
	assert.True(t, rec.Quantity.Equal(decimal.RequireFromString("10")), "el stock queda intacto")
	assert.Empty(t, e.s.movements)
	assert.Empty(t, e.s.documents)
}

func TestSubmit_LineasSobreElMismoLoteSeValidanEnConjunto(t *testing.T) {
	e := newEnv()
	e.addItem("item-b", true)
	e.addWarehouse("wh-1")
	e.seed("item-b", "wh-1", "", "5",
		entity.Batch{BatchNumber: "B1", Quantity: decimal.RequireFromString("5")})

	l1 := line("item-b", "wh-1", "3", "10")
	l1.Batches = []dto.BatchAllocationRequest{
		{BatchNumber: "B1", Quantity: decimal.RequireFromString("3")},
	}
	l2 := line("item-b", "wh-1", "3", "10")
	l2.Batches = []dto.BatchAllocationRequest{
		{BatchNumber: "B1", Quantity: decimal.RequireFromString("3")},
	}
	_, err := e.uc.Submit(context.Background(), testCompany, testUser, entity.DocTypeSalesInvoice, dto.SubmitDocumentRequest{
		Items: []dto.DocumentItemRequest{l1, l2},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.NotErrorIs(t, err, domain.ErrConcurrencyConflict)

	var shortfall *domain.StockShortfallError
	require.ErrorAs(t, err, &shortfall)
	assert.Equal(t, "B1", shortfall.BatchNumber, "el faltante nombra el lote sobregirado")
	assert.True(t, shortfall.Requested.Equal(decimal.RequireFromString("6")))

	rec := e.record("item-b", "wh-1", "")
	assert.True(t, rec.Quantity.Equal(decimal.RequireFromString("5")))
	assert.Empty(t, e.s.movements)
	assert.Empty(t, e.s.documents)
}

func TestSubmit_FalloDePersistenciaRevierteTodo(t *testing.T) {
	e := newEnv()
	e.addItem("item-1", false)
	e.addWarehouse("wh-1")
	e.seed("item-1", "wh-1", "", "10")
	ctx := context.Background()

	e.docRepo.failCreate = true
	_, err := e.uc.Submit(ctx, testCompany, testUser, entity.DocTypeSalesInvoice, dto.SubmitDocumentRequest{
		Items: []dto.DocumentItemRequest{line("item-1", "wh-1", "4", "10")},
	})
	require.Error(t, err)

	rec := e.record("item-1", "wh-1", "")
	assert.True(t, rec.Quantity.Equal(decimal.RequireFromString("10")), "el rollback revierte el descuento de stock")
	assert.Empty(t, e.s.movements)

	// El consecutivo también se revierte: el siguiente submit exitoso emite 00001
	e.docRepo.failCreate = false
	inv, err := e.uc.Submit(ctx, testCompany, testUser, entity.DocTypeSalesInvoice, dto.SubmitDocumentRequest{
		Items: []dto.DocumentItemRequest{line("item-1", "wh-1", "4", "10")},
	})
	require.NoError(t, err)
	assert.Equal(t, "SALES-INV/2024-25/00001", inv.DocumentNumber, "sin huecos en la numeración tras un rollback")
}

func TestSubmit_ConflictoDeConcurrencia(t *testing.T) {
	e := newEnv()
	e.addItem("item-1", false)
	e.addWarehouse("wh-1")
	e.seed("item-1", "wh-1", "", "10")

	// Una transacción rival consume el stock entre el pre-chequeo y el bloqueo de fila
	var once sync.Once
	e.s.onGetForUpdate = func(key string) {
		once.Do(func() {
			e.s.mu.Lock()
			defer e.s.mu.Unlock()
			e.s.records[key].Quantity = decimal.RequireFromString("2")
		})
	}

	_, err := e.uc.Submit(context.Background(), testCompany, testUser, entity.DocTypeSalesInvoice, dto.SubmitDocumentRequest{
		Items: []dto.DocumentItemRequest{line("item-1", "wh-1", "5", "10")},
	})
	require.ErrorIs(t, err, domain.ErrConcurrencyConflict,
		"faltante detectado con la fila bloqueada, después de un pre-chequeo exitoso, es conflicto")
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, e.s.documents)
}

func TestSubmit_CostoPromedioLeeLaFilaBloqueada(t *testing.T) {
	e := newEnv()
	item := e.addItem("item-1", false)
	item.Cost = decimal.RequireFromString("50")
	e.addWarehouse("wh-1")
	e.seed("item-1", "wh-1", "", "0")

	// Una recepción rival deja 10 unidades (ya costeadas a 50) justo antes de que
	// esta transacción tome el bloqueo. El promedio debe calcularse sobre la
	// cantidad bloqueada, no sobre la lectura previa.
	var once sync.Once
	e.s.onGetForUpdate = func(key string) {
		once.Do(func() {
			e.s.mu.Lock()
			defer e.s.mu.Unlock()
			e.s.records[key].Quantity = decimal.RequireFromString("10")
		})
	}

	_, err := e.uc.Submit(context.Background(), testCompany, testUser, entity.DocTypeGoodsReceipt, dto.SubmitDocumentRequest{
		Items: []dto.DocumentItemRequest{line("item-1", "wh-1", "10", "100")},
	})
	require.NoError(t, err)

	// (10*50 + 10*100) / 20 = 75; una lectura sin bloqueo habría dado 100
	assert.True(t, e.s.items["item-1"].Cost.Equal(decimal.RequireFromString("75")),
		"el promedio pondera el stock existente bajo bloqueo, costo=%s", e.s.items["item-1"].Cost)
}

// ── Validación de referencias y lotes ─────────────────────────────────────────

func TestSubmit_ReferenciasInvalidas(t *testing.T) {
	e := newEnv()
	e.addItem("item-1", false)
	e.addWarehouse("wh-1")
	e.addWarehouse("wh-bins", "A1", "B2")
	ctx := context.Background()

	// Artículo inexistente
	_, err := e.uc.Submit(ctx, testCompany, testUser, entity.DocTypePurchaseOrder, dto.SubmitDocumentRequest{
		Items: []dto.DocumentItemRequest{line("fantasma", "wh-1", "5", "10")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	// Ubicación en bodega que no las maneja
	l := line("item-1", "wh-1", "5", "10")
	l.BinID = "A1"
	_, err = e.uc.Submit(ctx, testCompany, testUser, entity.DocTypePurchaseOrder, dto.SubmitDocumentRequest{
		Items: []dto.DocumentItemRequest{l},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	// Bodega con ubicaciones exige bin en cada línea
	_, err = e.uc.Submit(ctx, testCompany, testUser, entity.DocTypePurchaseOrder, dto.SubmitDocumentRequest{
		Items: []dto.DocumentItemRequest{line("item-1", "wh-bins", "5", "10")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	// Bin válido funciona y genera su propio registro
	l = line("item-1", "wh-bins", "5", "10")
	l.BinID = "A1"
	_, err = e.uc.Submit(ctx, testCompany, testUser, entity.DocTypePurchaseOrder, dto.SubmitDocumentRequest{
		Items: []dto.DocumentItemRequest{l},
	})
	require.NoError(t, err)
	rec := e.record("item-1", "wh-bins", "A1")
	assert.True(t, rec.OnOrder.Equal(decimal.RequireFromString("5")))
}

func TestSubmit_LotesInvalidos(t *testing.T) {
	e := newEnv()
	e.addItem("item-b", true)
	e.addItem("item-1", false)
	e.addWarehouse("wh-1")
	e.seed("item-b", "wh-1", "", "50",
		entity.Batch{BatchNumber: "L-1", Quantity: decimal.RequireFromString("50")})
	ctx := context.Background()

	// Suma de lotes distinta a la cantidad de la línea
	l := line("item-b", "wh-1", "10", "5")
	l.Batches = []dto.BatchAllocationRequest{
		{BatchNumber: "L-1", Quantity: decimal.RequireFromString("4")},
	}
	_, err := e.uc.Submit(ctx, testCompany, testUser, entity.DocTypeSalesInvoice, dto.SubmitDocumentRequest{
		Items: []dto.DocumentItemRequest{l},
	})
	assert.ErrorIs(t, err, domain.ErrBatchMismatch)

	// Artículo sin lotes no acepta asignaciones
	l = line("item-1", "wh-1", "5", "5")
	l.Batches = []dto.BatchAllocationRequest{
		{BatchNumber: "L-9", Quantity: decimal.RequireFromString("5")},
	}
	_, err = e.uc.Submit(ctx, testCompany, testUser, entity.DocTypePurchaseOrder, dto.SubmitDocumentRequest{
		Items: []dto.DocumentItemRequest{l},
	})
	assert.ErrorIs(t, err, domain.ErrBatchMismatch)
}

func TestSubmit_PedidoOrigen(t *testing.T) {
	e := newEnv()
	e.addItem("item-1", false)
	e.addWarehouse("wh-1")
	e.seed("item-1", "wh-1", "", "50")
	ctx := context.Background()

	// Un GRN no admite pedido origen
	_, err := e.uc.Submit(ctx, testCompany, testUser, entity.DocTypeGoodsReceipt, dto.SubmitDocumentRequest{
		SourceOrderID: "cualquiera",
		Items:         []dto.DocumentItemRequest{line("item-1", "wh-1", "5", "10")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// El pedido origen debe ser un pedido de venta existente
	inv, err := e.uc.Submit(ctx, testCompany, testUser, entity.DocTypeSalesInvoice, dto.SubmitDocumentRequest{
		Items: []dto.DocumentItemRequest{line("item-1", "wh-1", "5", "10")},
	})
	require.NoError(t, err)

	_, err = e.uc.Submit(ctx, testCompany, testUser, entity.DocTypeSalesInvoice, dto.SubmitDocumentRequest{
		SourceOrderID: inv.ID, // una factura, no un pedido
		Items:         []dto.DocumentItemRequest{line("item-1", "wh-1", "5", "10")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	_, err = e.uc.Submit(ctx, testCompany, testUser, entity.DocTypeSalesInvoice, dto.SubmitDocumentRequest{
		SourceOrderID: "no-existe",
		Items:         []dto.DocumentItemRequest{line("item-1", "wh-1", "5", "10")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}

// ── Año fiscal ────────────────────────────────────────────────────────────────

func TestSubmit_CambioDeAnioFiscal(t *testing.T) {
	e := newEnv()
	e.addItem("item-1", false)
	e.addWarehouse("wh-1")
	ctx := context.Background()

	// 31 de marzo: todavía año fiscal 2023-24
	e.now = time.Date(2024, time.March, 31, 23, 59, 0, 0, time.UTC)
	po, err := e.uc.Submit(ctx, testCompany, testUser, entity.DocTypePurchaseOrder, dto.SubmitDocumentRequest{
		Items: []dto.DocumentItemRequest{line("item-1", "wh-1", "5", "10")},
	})
	require.NoError(t, err)
	assert.Equal(t, "PURCH-ORD/2023-24/00001", po.DocumentNumber)

	// 1 de abril: nuevo año fiscal, el consecutivo reinicia en 1
	e.now = time.Date(2024, time.April, 1, 0, 1, 0, 0, time.UTC)
	po, err = e.uc.Submit(ctx, testCompany, testUser, entity.DocTypePurchaseOrder, dto.SubmitDocumentRequest{
		Items: []dto.DocumentItemRequest{line("item-1", "wh-1", "5", "10")},
	})
	require.NoError(t, err)
	assert.Equal(t, "PURCH-ORD/2024-25/00001", po.DocumentNumber)

	// El contador del año anterior sigue intacto
	cur, _ := (&fakeCounterRepo{s: e.s}).Current(testCompany, "PurchaseOrder-2023")
	assert.Equal(t, int64(1), cur)
}

// ── Reconstrucción del saldo desde la bitácora ────────────────────────────────

// La bitácora es la fuente de verdad: reproducir todos los movimientos físicos de
// una clave (IN suma, OUT resta; la planeación no toca el saldo) desde cero debe
// dar exactamente la cantidad del registro de inventario.
func TestSubmit_BitacoraReconstruyeSaldo(t *testing.T) {
	e := newEnv()
	e.addItem("item-1", false)
	e.addWarehouse("wh-1")
	ctx := context.Background()

	submit := func(docType, qty string) {
		t.Helper()
		_, err := e.uc.Submit(ctx, testCompany, testUser, docType, dto.SubmitDocumentRequest{
			Items: []dto.DocumentItemRequest{line("item-1", "wh-1", qty, "10")},
		})
		require.NoError(t, err)
	}

	submit(entity.DocTypePurchaseOrder, "100") // solo OnOrder
	submit(entity.DocTypeGoodsReceipt, "60")
	submit(entity.DocTypeCreditNote, "8")
	submit(entity.DocTypeSalesInvoice, "25")
	submit(entity.DocTypeSalesOrder, "10") // solo Committed
	submit(entity.DocTypeDelivery, "12")
	submit(entity.DocTypeDebitNote, "6")

	e.s.mu.Lock()
	replayed := decimal.Zero
	for _, m := range e.s.movements {
		if m.CompanyID != testCompany || m.ItemID != "item-1" || m.WarehouseID != "wh-1" || m.BinID != "" {
			continue
		}
		assert.True(t, m.Quantity.GreaterThan(decimal.Zero), "todo asiento lleva cantidad positiva")
		switch m.MovementType {
		case entity.MovementTypeIN:
			replayed = replayed.Add(m.Quantity)
		case entity.MovementTypeOUT:
			replayed = replayed.Sub(m.Quantity)
		}
	}
	count := len(e.s.movements)
	e.s.mu.Unlock()

	assert.Equal(t, 7, count, "un asiento por línea de documento")
	rec := e.record("item-1", "wh-1", "")
	assert.True(t, rec.Quantity.Equal(replayed),
		"reproducir la bitácora desde cero da el saldo del registro: %s vs %s",
		replayed.String(), rec.Quantity.String())
	assert.True(t, rec.Quantity.Equal(decimal.RequireFromString("25")), "60+8-25-12-6")
}

// ── Numeración concurrente y aislamiento por empresa ──────────────────────────

func TestSubmit_NumeracionConcurrente(t *testing.T) {
	e := newEnv()
	e.addItem("item-1", false)
	e.addWarehouse("wh-1")
	ctx := context.Background()

	const n = 10
	numbers := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			po, err := e.uc.Submit(ctx, testCompany, testUser, entity.DocTypePurchaseOrder, dto.SubmitDocumentRequest{
				Items: []dto.DocumentItemRequest{line("item-1", "wh-1", "1", "10")},
			})
			if !assert.NoError(t, err) {
				return
			}
			numbers <- po.DocumentNumber
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool, n)
	for num := range numbers {
		assert.False(t, seen[num], "número duplicado: %s", num)
		seen[num] = true
	}
	assert.Len(t, seen, n)

	cur, _ := (&fakeCounterRepo{s: e.s}).Current(testCompany, "PurchaseOrder-2024")
	assert.Equal(t, int64(n), cur, "consecutivo denso: n emisiones, último número n")
}

func TestSubmit_ConsecutivoAisladoPorEmpresa(t *testing.T) {
	e := newEnv()
	e.addItem("item-1", false)
	e.addWarehouse("wh-1")

	otherItem := &entity.Item{ID: "item-2", CompanyID: "comp-2", SKU: "SKU-2", Name: "Otro"}
	e.s.items["item-2"] = otherItem
	e.s.warehouses["wh-2"] = &entity.Warehouse{ID: "wh-2", CompanyID: "comp-2", Name: "Bodega 2"}
	ctx := context.Background()

	po1, err := e.uc.Submit(ctx, testCompany, testUser, entity.DocTypePurchaseOrder, dto.SubmitDocumentRequest{
		Items: []dto.DocumentItemRequest{line("item-1", "wh-1", "5", "10")},
	})
	require.NoError(t, err)

	po2, err := e.uc.Submit(ctx, "comp-2", testUser, entity.DocTypePurchaseOrder, dto.SubmitDocumentRequest{
		Items: []dto.DocumentItemRequest{line("item-2", "wh-2", "5", "10")},
	})
	require.NoError(t, err)

	assert.Equal(t, "PURCH-ORD/2024-25/00001", po1.DocumentNumber)
	assert.Equal(t, "PURCH-ORD/2024-25/00001", po2.DocumentNumber,
		"cada empresa lleva su propio consecutivo")
}

// ── Adjuntos ──────────────────────────────────────────────────────────────────

func TestSubmit_Adjuntos(t *testing.T) {
	e := newEnv()
	e.addItem("item-1", false)
	e.addWarehouse("wh-1")
	ctx := context.Background()

	po, err := e.uc.Submit(ctx, testCompany, testUser, entity.DocTypePurchaseOrder, dto.SubmitDocumentRequest{
		Items:       []dto.DocumentItemRequest{line("item-1", "wh-1", "5", "10")},
		Attachments: []dto.AttachmentUpload{{FileName: "orden.pdf", Content: []byte("pdf")}},
	})
	require.NoError(t, err)
	require.Len(t, po.Attachments, 1)
	assert.Equal(t, "orden.pdf", po.Attachments[0].FileName)
	assert.NotEmpty(t, po.Attachments[0].URL)
	assert.Equal(t, 1, e.storage.uploads)

	// Si la tx aborta después de subir, el archivo queda huérfano en el storage
	e.docRepo.failCreate = true
	_, err = e.uc.Submit(ctx, testCompany, testUser, entity.DocTypePurchaseOrder, dto.SubmitDocumentRequest{
		Items:       []dto.DocumentItemRequest{line("item-1", "wh-1", "5", "10")},
		Attachments: []dto.AttachmentUpload{{FileName: "orden2.pdf", Content: []byte("pdf")}},
	})
	require.Error(t, err)
	assert.Equal(t, 2, e.storage.uploads, "la subida ocurre antes de la transacción")
}
