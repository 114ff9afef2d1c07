package stock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/velocityfibre/fibreflow-stock/internal/domain"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/repository"
	domstock "github.com/velocityfibre/fibreflow-stock/internal/domain/stock"
)

// writesPerMovement: cada movimiento genera dos escrituras en la tx
// (insert del ledger + update del item).
const writesPerMovement = 2

// BulkResult reporta el resultado de un import masivo: chunks confirmados con
// sus IDs de ledger, e items rechazados en la pasada de validación (con su
// causa) cuyos movimientos no se escribieron.
type BulkResult struct {
	Committed     []domain.ChunkResult
	RejectedItems map[string]error
	Applied       int
}

// BulkImportUseCase aplica grandes lotes de movimientos en chunks atómicos de
// tamaño fijo, acotado por el techo de operaciones de escritura por
// transacción (500 por defecto).
//
// Modelo de fallo: la atomicidad vale DENTRO de un chunk, no entre chunks. Si
// el chunk k falla, los chunks 1..k-1 quedan aplicados y se reportan en
// PartialBatchError para que el caller reanude desde k en lugar de reintentar
// el lote completo (que duplicaría lo ya confirmado).
type BulkImportUseCase struct {
	txRunner TxRunner
	items    repository.StockItemRepository // lecturas de la pasada de validación
	maxTxOps int
}

// NewBulkImportUseCase construye el procesador. maxTxOps <= 0 usa 500.
func NewBulkImportUseCase(txRunner TxRunner, items repository.StockItemRepository, maxTxOps int) *BulkImportUseCase {
	if maxTxOps <= 0 {
		maxTxOps = 500
	}
	return &BulkImportUseCase{txRunner: txRunner, items: items, maxTxOps: maxTxOps}
}

// CommitBulk valida y aplica el lote.
//
// Pasada 1 (sin escrituras): entradas malformadas rechazan la llamada entera;
// después se agrupa por item y se proyecta el delta NETO de ambos contadores
// con el clasificador. Un item cuyo neto viola un invariante se rechaza
// completo ANTES de escribir nada suyo; los items no afectados del mismo lote
// siguen adelante.
//
// Pasada 2: los movimientos admitidos se aplican en chunks atómicos
// secuenciales (mismo item, orden preservado). Cada movimiento revalida sus
// invariantes dentro de la tx, así que escritores concurrentes ajenos al lote
// no pueden colar un estado inválido entre la validación y el apply.
func (uc *BulkImportUseCase) CommitBulk(ctx context.Context, inputs []MovementInput, actor Actor) (*BulkResult, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, input := range inputs {
		if err := validateMovementInput(input); err != nil {
			return nil, err
		}
	}

	result := &BulkResult{RejectedItems: make(map[string]error)}

	// Pasada 1: delta neto por item.
	netStock := make(map[string]decimal.Decimal)
	netAllocated := make(map[string]decimal.Decimal)
	order := make([]string, 0, len(inputs))
	for _, input := range inputs {
		effect, _ := domstock.Classify(input.MovementType)
		if _, seen := netStock[input.ItemID]; !seen {
			order = append(order, input.ItemID)
		}
		netStock[input.ItemID] = netStock[input.ItemID].Add(effect.StockDelta(input.Quantity))
		netAllocated[input.ItemID] = netAllocated[input.ItemID].Add(effect.AllocatedDelta(input.Quantity))
	}
	for _, itemID := range order {
		item, err := uc.items.GetByID(itemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			result.RejectedItems[itemID] = domain.ErrNotFound
			continue
		}
		projectedStock := item.CurrentStock.Add(netStock[itemID])
		projectedAllocated := item.AllocatedStock.Add(netAllocated[itemID])
		if projectedAllocated.IsNegative() {
			projectedAllocated = decimal.Zero
		}
		if projectedStock.IsNegative() || projectedAllocated.GreaterThan(projectedStock) {
			result.RejectedItems[itemID] = domain.ErrInsufficientStock
		}
	}

	admitted := make([]MovementInput, 0, len(inputs))
	for _, input := range inputs {
		if _, rejected := result.RejectedItems[input.ItemID]; !rejected {
			admitted = append(admitted, input)
		}
	}
	if len(admitted) == 0 {
		return result, nil
	}

	// Pasada 2: chunks atómicos secuenciales. Un techo menor que el costo de
	// un solo movimiento no es satisfacible: se degrada a chunks de un
	// movimiento en lugar de dejar de avanzar.
	chunkSize := uc.maxTxOps / writesPerMovement
	if chunkSize < 1 {
		chunkSize = 1
	}
	for chunkIndex, start := 0, 0; start < len(admitted); chunkIndex, start = chunkIndex+1, start+chunkSize {
		end := start + chunkSize
		if end > len(admitted) {
			end = len(admitted)
		}
		chunk := admitted[start:end]

		var movementIDs []string
		err := uc.txRunner.Run(ctx, func(
			items repository.StockItemRepository,
			movements repository.StockMovementRepository,
			_ repository.StockAllocationRepository,
		) error {
			movementIDs = movementIDs[:0] // fn re-ejecutable ante retry
			now := time.Now()
			for _, input := range chunk {
				id, err := applyMovement(items, movements, input, actor, now)
				if err != nil {
					return err
				}
				movementIDs = append(movementIDs, id)
			}
			return nil
		})
		if err != nil {
			return result, &domain.PartialBatchError{
				Committed:   result.Committed,
				FailedChunk: chunkIndex,
				Err:         err,
			}
		}
		result.Committed = append(result.Committed, domain.ChunkResult{
			Index:       chunkIndex,
			MovementIDs: append([]string(nil), movementIDs...),
		})
		result.Applied += len(movementIDs)
	}
	return result, nil
}
