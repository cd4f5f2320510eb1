package document

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Pankajol/aits-erp-core/internal/domain"
	"github.com/Pankajol/aits-erp-core/internal/domain/entity"
	"github.com/Pankajol/aits-erp-core/internal/domain/repository"
)

// fakeState backend en memoria compartido por todos los fakes. mu protege los mapas;
// txMu serializa transacciones completas (como lo haría el bloqueo de filas en la BD).
type fakeState struct {
	mu   sync.Mutex
	txMu sync.Mutex

	items      map[string]*entity.Item
	warehouses map[string]*entity.Warehouse
	records    map[string]*entity.InventoryRecord
	movements  []*entity.StockMovement
	counters   map[string]int64
	documents  map[string]*entity.Document

	// onGetForUpdate corre dentro de la tx, con la clave del registro, antes de
	// devolverlo. Permite simular una transacción rival que consume stock entre
	// el pre-chequeo y el bloqueo de fila.
	onGetForUpdate func(key string)
}

func newFakeState() *fakeState {
	return &fakeState{
		items:      make(map[string]*entity.Item),
		warehouses: make(map[string]*entity.Warehouse),
		records:    make(map[string]*entity.InventoryRecord),
		counters:   make(map[string]int64),
		documents:  make(map[string]*entity.Document),
	}
}

func recKey(companyID, itemID, warehouseID, binID string) string {
	return strings.Join([]string{companyID, itemID, warehouseID, binID}, "|")
}

func cloneRecord(r *entity.InventoryRecord) *entity.InventoryRecord {
	c := *r
	c.Batches = append([]entity.Batch(nil), r.Batches...)
	return &c
}

// snapshot copia el estado mutable para poder revertirlo si la tx falla.
type snapshot struct {
	records   map[string]*entity.InventoryRecord
	movements []*entity.StockMovement
	counters  map[string]int64
	documents map[string]*entity.Document
	itemCosts map[string]decimal.Decimal
}

func (s *fakeState) take() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		records:   make(map[string]*entity.InventoryRecord, len(s.records)),
		movements: append([]*entity.StockMovement(nil), s.movements...),
		counters:  make(map[string]int64, len(s.counters)),
		documents: make(map[string]*entity.Document, len(s.documents)),
		itemCosts: make(map[string]decimal.Decimal, len(s.items)),
	}
	for k, v := range s.records {
		snap.records[k] = cloneRecord(v)
	}
	for k, v := range s.counters {
		snap.counters[k] = v
	}
	for k, v := range s.documents {
		snap.documents[k] = v
	}
	for k, v := range s.items {
		snap.itemCosts[k] = v.Cost
	}
	return snap
}

func (s *fakeState) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = snap.records
	s.movements = snap.movements
	s.counters = snap.counters
	s.documents = snap.documents
	for id, cost := range snap.itemCosts {
		if it, ok := s.items[id]; ok {
			it.Cost = cost
		}
	}
}

// ── repos ─────────────────────────────────────────────────────────────────────

type fakeItemRepo struct{ s *fakeState }

func (r *fakeItemRepo) Create(item *entity.Item) error { r.s.mu.Lock(); defer r.s.mu.Unlock(); r.s.items[item.ID] = item; return nil }
func (r *fakeItemRepo) GetByID(id string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	c := *it
	return &c, nil
}
func (r *fakeItemRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range r.s.items {
		if it.CompanyID == companyID && it.SKU == sku {
			c := *it
			return &c, nil
		}
	}
	return nil, nil
}
func (r *fakeItemRepo) Update(item *entity.Item) error { r.s.mu.Lock(); defer r.s.mu.Unlock(); r.s.items[item.ID] = item; return nil }
func (r *fakeItemRepo) UpdateCost(itemID string, cost decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	it.Cost = cost
	return nil
}
func (r *fakeItemRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error) {
	return nil, nil
}
func (r *fakeItemRepo) Delete(id string) error { r.s.mu.Lock(); defer r.s.mu.Unlock(); delete(r.s.items, id); return nil }

type fakeWarehouseRepo struct{ s *fakeState }

func (r *fakeWarehouseRepo) Create(wh *entity.Warehouse) error { r.s.mu.Lock(); defer r.s.mu.Unlock(); r.s.warehouses[wh.ID] = wh; return nil }
func (r *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wh, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	c := *wh
	return &c, nil
}
func (r *fakeWarehouseRepo) Update(wh *entity.Warehouse) error { return nil }
func (r *fakeWarehouseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	return nil, nil
}
func (r *fakeWarehouseRepo) Delete(id string) error { return nil }

type fakeInventoryRepo struct{ s *fakeState }

func (r *fakeInventoryRepo) get(companyID, itemID, warehouseID, binID string) *entity.InventoryRecord {
	key := recKey(companyID, itemID, warehouseID, binID)
	if rec, ok := r.s.records[key]; ok {
		return cloneRecord(rec)
	}
	return entity.NewInventoryRecord(companyID, itemID, warehouseID, binID, time.Now())
}

func (r *fakeInventoryRepo) Get(companyID, itemID, warehouseID, binID string) (*entity.InventoryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.get(companyID, itemID, warehouseID, binID), nil
}

func (r *fakeInventoryRepo) GetForUpdate(companyID, itemID, warehouseID, binID string) (*entity.InventoryRecord, error) {
	key := recKey(companyID, itemID, warehouseID, binID)
	if hook := r.s.onGetForUpdate; hook != nil {
		hook(key)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.get(companyID, itemID, warehouseID, binID), nil
}

func (r *fakeInventoryRepo) Upsert(record *entity.InventoryRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := recKey(record.CompanyID, record.ItemID, record.WarehouseID, record.BinID)
	r.s.records[key] = cloneRecord(record)
	return nil
}

func (r *fakeInventoryRepo) ListByWarehouse(companyID, warehouseID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	return nil, nil
}
func (r *fakeInventoryRepo) ListByItem(companyID, itemID string) ([]*entity.InventoryRecord, error) {
	return nil, nil
}
func (r *fakeInventoryRepo) ListBelowReorderPoint(ctx context.Context, companyID, warehouseID string) ([]repository.ReplenishmentItem, error) {
	return nil, nil
}

type fakeMovementRepo struct{ s *fakeState }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *m
	r.s.movements = append(r.s.movements, &c)
	return nil
}
func (r *fakeMovementRepo) GetByID(id string) (*entity.StockMovement, error) { return nil, nil }
func (r *fakeMovementRepo) ListByItemAndWarehouse(companyID, itemID, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (r *fakeMovementRepo) ListByReference(companyID, reference string) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.CompanyID == companyID && m.Reference == reference {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

type fakeCounterRepo struct{ s *fakeState }

func (r *fakeCounterRepo) Next(companyID, documentKey string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := companyID + "|" + documentKey
	r.s.counters[key]++
	return r.s.counters[key], nil
}
func (r *fakeCounterRepo) Current(companyID, documentKey string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.counters[companyID+"|"+documentKey], nil
}

type fakeDocumentRepo struct {
	s          *fakeState
	failCreate bool
}

func (r *fakeDocumentRepo) Create(doc *entity.Document) error {
	if r.failCreate {
		return fmt.Errorf("insert documents: conexión perdida")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.documents[doc.ID] = doc
	return nil
}
func (r *fakeDocumentRepo) GetByID(companyID, id string) (*entity.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doc, ok := r.s.documents[id]
	if !ok || doc.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}
func (r *fakeDocumentRepo) GetByNumber(companyID, number string) (*entity.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, doc := range r.s.documents {
		if doc.CompanyID == companyID && doc.DocumentNumber == number {
			return doc, nil
		}
	}
	return nil, domain.ErrNotFound
}
func (r *fakeDocumentRepo) ListByCompany(companyID, docType string, limit, offset int) ([]*entity.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Document
	for _, doc := range r.s.documents {
		if doc.CompanyID == companyID && (docType == "" || doc.DocType == docType) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// ── tx runner y storage ───────────────────────────────────────────────────────

// fakeTxRunner simula la transacción: toma snapshot del estado y lo restaura si
// la función falla. txMu serializa las transacciones concurrentes.
type fakeTxRunner struct {
	s       *fakeState
	docRepo *fakeDocumentRepo
}

func (t *fakeTxRunner) RunDocument(ctx context.Context, fn func(
	counterRepo repository.CounterRepository,
	invRepo repository.InventoryRepository,
	movRepo repository.StockMovementRepository,
	docRepo repository.DocumentRepository,
	itemRepo repository.ItemRepository,
) error) error {
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()
	snap := t.s.take()
	err := fn(
		&fakeCounterRepo{s: t.s},
		&fakeInventoryRepo{s: t.s},
		&fakeMovementRepo{s: t.s},
		t.docRepo,
		&fakeItemRepo{s: t.s},
	)
	if err != nil {
		t.s.restore(snap)
	}
	return err
}

type fakeStorage struct {
	uploads int
	fail    bool
}

func (f *fakeStorage) Upload(ctx context.Context, fileName string, content []byte) (*entity.Attachment, error) {
	if f.fail {
		return nil, fmt.Errorf("storage no disponible")
	}
	f.uploads++
	id := uuid.New().String()
	return &entity.Attachment{URL: "/uploads/" + id, PublicID: id, FileName: fileName}, nil
}
func (f *fakeStorage) Delete(ctx context.Context, publicID string) error { return nil }
