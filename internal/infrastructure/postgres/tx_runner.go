package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/velocityfibre/fibreflow-stock/internal/application/stock"
	"github.com/velocityfibre/fibreflow-stock/internal/domain"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/repository"
)

// Ensure TxRunner implements stock.TxRunner.
var _ stock.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL SERIALIZABLE.
// Ante un fallo de serialización (otro escritor tocó las mismas filas) la
// transacción completa se reintenta desde cero hasta maxRetries veces, así que
// fn debe ser re-ejecutable. Agotados los reintentos se devuelve
// domain.ErrConcurrencyConflict.
// txBeginner es lo único que el runner necesita del pool.
type txBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type TxRunner struct {
	pool       txBeginner
	maxRetries int
}

// NewTxRunner construye el runner con el pool. maxRetries <= 0 usa 3.
func NewTxRunner(pool *pgxpool.Pool, maxRetries int) *TxRunner {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &TxRunner{pool: pool, maxRetries: maxRetries}
}

// Run inicia una transacción serializable, ejecuta fn con repos atados a la tx
// y hace Commit o Rollback. Reintenta ante 40001/40P01.
func (r *TxRunner) Run(ctx context.Context, fn func(
	items repository.StockItemRepository,
	movements repository.StockMovementRepository,
	allocations repository.StockAllocationRepository,
) error) error {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			// Backoff corto antes de reintentar, respetando cancelación.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 10 * time.Millisecond):
			}
		}
		err := r.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, lastErr)
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(
	items repository.StockItemRepository,
	movements repository.StockMovementRepository,
	allocations repository.StockAllocationRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	itemRepo := NewStockItemRepository(tx)
	movementRepo := NewStockMovementRepository(tx)
	allocationRepo := NewStockAllocationRepository(tx)

	if err := fn(itemRepo, movementRepo, allocationRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
