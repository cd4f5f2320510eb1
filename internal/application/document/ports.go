package document

import (
	"context"
	"time"

	"github.com/Pankajol/aits-erp-core/internal/application/inventory"
	"github.com/Pankajol/aits-erp-core/internal/domain/entity"
	"github.com/Pankajol/aits-erp-core/internal/domain/repository"
)

// DocumentTxRunner ejecuta una función dentro de una transacción que incluye los
// repos de numeración, inventario y documentos. Garantiza todo-o-nada: número,
// stock, bitácora y documento se confirman juntos o se revierten juntos.
type DocumentTxRunner interface {
	RunDocument(ctx context.Context, fn func(
		counterRepo repository.CounterRepository,
		invRepo repository.InventoryRepository,
		movRepo repository.StockMovementRepository,
		docRepo repository.DocumentRepository,
		itemRepo repository.ItemRepository,
	) error) error
}

// LedgerPort integra documentos con el motor de inventario (misma transacción).
// Precheck recibe el documento completo para validar en conjunto las líneas que
// comparten registro. Si ApplyMovementInTx retorna error, el caller debe hacer
// rollback.
type LedgerPort interface {
	Precheck(ins []inventory.MovementInput) error
	ApplyMovementInTx(
		recRepo repository.InventoryRepository,
		movRepo repository.StockMovementRepository,
		in inventory.MovementInput,
		now time.Time,
	) error
}

// FileStorage puerto de almacenamiento de adjuntos. Los archivos se suben antes de
// abrir la transacción: si esta aborta, el archivo queda huérfano en el storage
// (no hay limpieza automática).
type FileStorage interface {
	Upload(ctx context.Context, fileName string, content []byte) (*entity.Attachment, error)
	Delete(ctx context.Context, publicID string) error
}
