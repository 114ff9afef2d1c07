package stock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appstock "github.com/velocityfibre/fibreflow-stock/internal/application/stock"
	"github.com/velocityfibre/fibreflow-stock/internal/domain"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Caché de low stock: read-through en el catálogo e invalidación vía el
// decorador de TxRunner.
// ──────────────────────────────────────────────────────────────────────────────

func TestNewInvalidatingTxRunner_SinCacheDevuelveElMismo(t *testing.T) {
	inner := &memTxRunner{store: newMemStore()}
	assert.Same(t, appstock.TxRunner(inner), appstock.NewInvalidatingTxRunner(inner, nil))
}

// Solo una transacción confirmada invalida; un rollback deja la caché como
// estaba.
func TestInvalidatingTxRunner_InvalidaSoloTrasCommit(t *testing.T) {
	store := newMemStore()
	store.items["item-1"] = testItem("item-1", "FIB-000001", "100", "0")
	cache := &memLowStockCache{}
	runner := appstock.NewInvalidatingTxRunner(&memTxRunner{store: store}, cache)
	uc := appstock.NewCommitMovementUseCase(runner)

	_, err := uc.Commit(context.Background(), appstock.MovementInput{
		ItemID:       "item-1",
		MovementType: entity.MovementReceipt,
		Quantity:     dec("10"),
	}, testActor)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidations)

	// ISSUE mayor que el stock: la tx se revierte y la caché no se toca.
	_, err = uc.Commit(context.Background(), appstock.MovementInput{
		ItemID:       "item-1",
		MovementType: entity.MovementIssue,
		Quantity:     dec("9999"),
	}, testActor)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, cache.invalidations, "un rollback no invalida")
}

// Miss puebla la caché, hit la sirve sin releer la base, y un movimiento
// confirmado la invalida para que la siguiente lectura refresque.
func TestLowStock_CacheReadThroughEInvalidacion(t *testing.T) {
	store := newMemStore()
	store.items["item-1"] = testItem("item-1", "FIB-000001", "5", "0") // reorder 10 -> low
	cache := &memLowStockCache{}
	catalogUC := appstock.NewCatalogUseCase(
		&memItemRepo{store: store},
		&memMovementRepo{store: store},
		cache,
	)
	runner := appstock.NewInvalidatingTxRunner(&memTxRunner{store: store}, cache)
	commitUC := appstock.NewCommitMovementUseCase(runner)

	// Miss: lee la base y puebla.
	items, err := catalogUC.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, cache.sets)

	// Hit: sirve lo cacheado aunque la base cambie por fuera.
	store.items["item-2"] = testItem("item-2", "POL-000002", "2", "0")
	items, err = catalogUC.LowStock(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1, "hit sirve la entrada cacheada")
	assert.Equal(t, 1, cache.sets)

	// Un RECEIPT confirmado saca a item-1 del reporte e invalida la entrada.
	_, err = commitUC.Commit(context.Background(), appstock.MovementInput{
		ItemID:       "item-1",
		MovementType: entity.MovementReceipt,
		Quantity:     dec("50"),
	}, testActor)
	require.NoError(t, err)
	require.Equal(t, 1, cache.invalidations)

	items, err = catalogUC.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "item-2", items[0].ID, "la lectura posterior refresca desde la base")
	assert.Equal(t, 2, cache.sets)
}
