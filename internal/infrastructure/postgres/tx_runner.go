package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Pankajol/aits-erp-core/internal/application/document"
	"github.com/Pankajol/aits-erp-core/internal/domain/repository"
)

var _ document.DocumentTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunDocument inicia una transacción con los repos que participan en la emisión de
// un documento (contadores, ledger, bitácora, documentos, artículos) y hace Commit
// o Rollback. El rollback revierte también el consecutivo: sin huecos.
func (r *TxRunner) RunDocument(ctx context.Context, fn func(
	counterRepo repository.CounterRepository,
	invRepo repository.InventoryRepository,
	movRepo repository.StockMovementRepository,
	docRepo repository.DocumentRepository,
	itemRepo repository.ItemRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	counterRepo := NewCounterRepository(tx)
	invRepo := NewInventoryRepository(tx)
	movRepo := NewStockMovementRepository(tx)
	docRepo := NewDocumentRepository(tx)
	itemRepo := NewItemRepository(tx)

	if err := fn(counterRepo, invRepo, movRepo, docRepo, itemRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
