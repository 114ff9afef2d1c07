package stock

import (
	"context"

	"github.com/velocityfibre/fibreflow-stock/internal/domain/entity"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es el primitivo "una unidad atómica" del
// motor: la implementación debe garantizar aislamiento serializable (o
// equivalente) y reintentar la función completa ante conflictos de
// concurrencia, con presupuesto acotado. Por eso fn debe ser re-ejecutable:
// relee su estado en cada intento y no acumula efectos fuera de la tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		items repository.StockItemRepository,
		movements repository.StockMovementRepository,
		allocations repository.StockAllocationRepository,
	) error) error
}

// LowStockCache es el puerto opcional de caché del reporte de bajo stock.
// Invalidate la llama el decorador de TxRunner tras cada transacción
// confirmada, así el reporte cacheado no sobrevive a un movimiento que pudo
// cambiarlo.
type LowStockCache interface {
	Get(ctx context.Context) ([]*entity.StockItem, bool)
	Set(ctx context.Context, items []*entity.StockItem)
	Invalidate(ctx context.Context)
}

// NewInvalidatingTxRunner decora un TxRunner: tras cada transacción
// confirmada invalida la caché de low stock. Toda mutación de stock pasa por
// un TxRunner, así que este es el único punto de cableado necesario. Con
// cache nil devuelve el runner sin decorar.
func NewInvalidatingTxRunner(inner TxRunner, cache LowStockCache) TxRunner {
	if cache == nil {
		return inner
	}
	return &invalidatingTxRunner{inner: inner, cache: cache}
}

type invalidatingTxRunner struct {
	inner TxRunner
	cache LowStockCache
}

func (r *invalidatingTxRunner) Run(ctx context.Context, fn func(
	items repository.StockItemRepository,
	movements repository.StockMovementRepository,
	allocations repository.StockAllocationRepository,
) error) error {
	if err := r.inner.Run(ctx, fn); err != nil {
		return err
	}
	r.cache.Invalidate(ctx)
	return nil
}

// SummaryPDFGenerator genera la representación PDF de un resumen de
// movimientos para el tooling de exportación.
type SummaryPDFGenerator interface {
	GenerateSummaryPDF(ctx context.Context, summary *MovementSummary, movements []*entity.StockMovement) ([]byte, error)
}
