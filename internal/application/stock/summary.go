package stock

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/velocityfibre/fibreflow-stock/internal/domain"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/entity"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/repository"
	domstock "github.com/velocityfibre/fibreflow-stock/internal/domain/stock"
)

// summaryWindow: techo de movimientos considerados por agregación, para
// acotar la lectura del reporte.
const summaryWindow = 1000

// MovementSummary agrega un conjunto filtrado de movimientos para reportes y
// exportación: totales de entrada/salida/neto, valor movido y cantidades por
// tipo. ALLOCATION no cuenta como entrada ni salida (no mueve stock físico).
type MovementSummary struct {
	TotalIn     decimal.Decimal
	TotalOut    decimal.Decimal
	NetMovement decimal.Decimal
	TotalValue  decimal.Decimal
	ByType      map[entity.MovementType]decimal.Decimal
	Count       int
}

// SummaryUseCase sirve las consultas de solo lectura sobre el ledger.
type SummaryUseCase struct {
	movements repository.StockMovementRepository
	pdf       SummaryPDFGenerator // opcional, nil = sin export PDF
}

// NewSummaryUseCase construye el caso de uso de reportes.
func NewSummaryUseCase(movements repository.StockMovementRepository, pdf SummaryPDFGenerator) *SummaryUseCase {
	return &SummaryUseCase{movements: movements, pdf: pdf}
}

// List devuelve movimientos filtrados, más recientes primero.
func (uc *SummaryUseCase) List(_ context.Context, filter repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.movements.List(filter, limit, offset)
}

// GetMovement devuelve una entrada del ledger por ID.
func (uc *SummaryUseCase) GetMovement(_ context.Context, id string) (*entity.StockMovement, error) {
	return uc.movements.GetByID(id)
}

// Summarize calcula el resumen del conjunto filtrado.
func (uc *SummaryUseCase) Summarize(_ context.Context, filter repository.MovementFilter) (*MovementSummary, error) {
	movements, err := uc.movements.List(filter, summaryWindow, 0)
	if err != nil {
		return nil, err
	}
	return summarize(movements), nil
}

func summarize(movements []*entity.StockMovement) *MovementSummary {
	summary := &MovementSummary{
		ByType: make(map[entity.MovementType]decimal.Decimal),
		Count:  len(movements),
	}
	for _, m := range movements {
		if domstock.IsIncoming(m.MovementType) {
			summary.TotalIn = summary.TotalIn.Add(m.Quantity)
		} else if domstock.IsOutgoing(m.MovementType) {
			summary.TotalOut = summary.TotalOut.Add(m.Quantity)
		}
		summary.TotalValue = summary.TotalValue.Add(m.TotalCost)
		summary.ByType[m.MovementType] = summary.ByType[m.MovementType].Add(m.Quantity)
	}
	summary.NetMovement = summary.TotalIn.Sub(summary.TotalOut)
	return summary
}

// ExportPDF genera el PDF del resumen con el detalle de movimientos incluido.
func (uc *SummaryUseCase) ExportPDF(ctx context.Context, filter repository.MovementFilter) ([]byte, error) {
	if uc.pdf == nil {
		return nil, domain.ErrConflict
	}
	movements, err := uc.movements.List(filter, summaryWindow, 0)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateSummaryPDF(ctx, summarize(movements), movements)
}
