package postgres

import (
	"context"
	"fmt"

	"github.com/Pankajol/aits-erp-core/internal/domain/repository"
)

var _ repository.CounterRepository = (*CounterRepo)(nil)

// CounterRepo implementación del puerto CounterRepository sobre PostgreSQL
// (usable con pool o tx). El incremento es un solo UPSERT atómico: dos
// transacciones concurrentes serializan sobre la fila y nunca reciben el mismo
// número.
type CounterRepo struct {
	q Querier
}

// NewCounterRepository construye el adaptador de contadores. Pasar pool o tx (Querier).
func NewCounterRepository(q Querier) *CounterRepo {
	return &CounterRepo{q: q}
}

// Next incrementa el contador (empresa, clave) y devuelve el nuevo valor.
// La primera emisión de una clave crea la fila con seq = 1.
func (r *CounterRepo) Next(companyID, documentKey string) (int64, error) {
	query := `
		INSERT INTO counters (company_id, document_key, seq, updated_at)
		VALUES ($1, $2, 1, now())
		ON CONFLICT (company_id, document_key)
		DO UPDATE SET seq = counters.seq + 1, updated_at = now()
		RETURNING seq`
	var seq int64
	if err := r.q.QueryRow(context.Background(), query, companyID, documentKey).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next counter %s: %w", documentKey, err)
	}
	return seq, nil
}

// Current devuelve el último número emitido (0 si la clave aún no existe).
func (r *CounterRepo) Current(companyID, documentKey string) (int64, error) {
	query := `SELECT seq FROM counters WHERE company_id = $1 AND document_key = $2`
	var seq int64
	err := r.q.QueryRow(context.Background(), query, companyID, documentKey).Scan(&seq)
	if err != nil {
		if isNoRows(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("current counter %s: %w", documentKey, err)
	}
	return seq, nil
}
