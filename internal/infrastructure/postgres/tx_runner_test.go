package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/velocityfibre/fibreflow-stock/internal/domain"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes: un beginner que entrega transacciones no-op, suficiente para ejercer
// el loop de reintentos sin una base real.
// ──────────────────────────────────────────────────────────────────────────────

type fakeBeginner struct{ begins int }

func (b *fakeBeginner) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	b.begins++
	return fakeTx{}, nil
}

type fakeTx struct{}

func (fakeTx) Begin(context.Context) (pgx.Tx, error) { return fakeTx{}, nil }
func (fakeTx) Commit(context.Context) error          { return nil }
func (fakeTx) Rollback(context.Context) error        { return nil }
func (fakeTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (fakeTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (fakeTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (fakeTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (fakeTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (fakeTx) Conn() *pgx.Conn                                         { return nil }

func noRepos(fn func() error) func(
	repository.StockItemRepository,
	repository.StockMovementRepository,
	repository.StockAllocationRepository,
) error {
	return func(repository.StockItemRepository, repository.StockMovementRepository, repository.StockAllocationRepository) error {
		return fn()
	}
}

// Conflictos de serialización persistentes agotan el presupuesto y se traducen
// al error de dominio: intento inicial más maxRetries reintentos, ni uno más.
func TestRun_ConflictoPersistente_DevuelveConcurrencyConflict(t *testing.T) {
	runner := &TxRunner{pool: &fakeBeginner{}, maxRetries: 2}

	calls := 0
	err := runner.Run(context.Background(), noRepos(func() error {
		calls++
		return pgError("40001")
	}))
	require.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Equal(t, 3, calls)
}

// Un conflicto transitorio se resuelve solo: el primer reintento confirma.
func TestRun_ConflictoTransitorio_ReintentaYConfirma(t *testing.T) {
	runner := &TxRunner{pool: &fakeBeginner{}, maxRetries: 3}

	calls := 0
	err := runner.Run(context.Background(), noRepos(func() error {
		calls++
		if calls == 1 {
			return pgError("40P01")
		}
		return nil
	}))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

// Un error de negocio corta el loop: se devuelve intacto, sin reintentos y sin
// envolverlo como conflicto de concurrencia.
func TestRun_ErrorDeNegocio_NoReintenta(t *testing.T) {
	runner := &TxRunner{pool: &fakeBeginner{}, maxRetries: 3}

	calls := 0
	err := runner.Run(context.Background(), noRepos(func() error {
		calls++
		return domain.ErrInsufficientStock
	}))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.NotErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Equal(t, 1, calls)
}

// El presupuesto de reintentos por defecto es 3; valores no positivos lo
// restauran en lugar de deshabilitar el retry.
func TestNewTxRunner_DefaultMaxRetries(t *testing.T) {
	assert.Equal(t, 3, NewTxRunner(nil, 0).maxRetries)
	assert.Equal(t, 3, NewTxRunner(nil, -1).maxRetries)
	assert.Equal(t, 5, NewTxRunner(nil, 5).maxRetries)
}
