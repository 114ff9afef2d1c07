package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/velocityfibre/fibreflow-stock/internal/domain"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/entity"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/repository"
	domstock "github.com/velocityfibre/fibreflow-stock/internal/domain/stock"
)

// Actor es la identidad del que ejecuta la operación. Se threadea explícita
// en toda llamada mutadora; no hay estado global de "usuario actual".
type Actor struct {
	ID   string
	Name string
}

// MovementInput es el candidato a movimiento que recibe el coordinador.
// Quantity es magnitud positiva; el signo lo determina el tipo.
type MovementInput struct {
	ItemID          string
	MovementType    entity.MovementType
	Quantity        decimal.Decimal
	ReferenceType   entity.ReferenceType
	ReferenceID     string
	ReferenceNumber string
	FromLocation    string
	ToLocation      string
	FromProjectID   string
	FromProjectName string
	ToProjectID     string
	ToProjectName   string
	UnitCost        *decimal.Decimal // nil = costo estándar del item
	Reason          string
	Notes           string
	MovementDate    *time.Time // nil = ahora
}

// CommitMovementUseCase es el coordinador transaccional: el ÚNICO camino que
// muta CurrentStock/AllocatedStock de un item. Cada commit es una
// read-modify-write atómica: lee el snapshot, aplica el clasificador, valida
// los invariantes y escribe item actualizado + entrada de ledger en la misma
// transacción. Commits concurrentes sobre el mismo item se linealizan con el
// reintento del TxRunner; sobre items distintos no contienden.
type CommitMovementUseCase struct {
	txRunner TxRunner
}

// NewCommitMovementUseCase construye el coordinador.
func NewCommitMovementUseCase(txRunner TxRunner) *CommitMovementUseCase {
	return &CommitMovementUseCase{txRunner: txRunner}
}

// Commit valida y confirma un movimiento. Falla ANTES de cualquier escritura:
// el caller recibe un rechazo limpio con el estado intacto.
// Errores: ErrNotFound, ErrInvalidInput, ErrInsufficientStock,
// ErrConcurrencyConflict (transitorio, seguro de reintentar la llamada).
func (uc *CommitMovementUseCase) Commit(ctx context.Context, input MovementInput, actor Actor) (string, error) {
	if err := validateMovementInput(input); err != nil {
		return "", err
	}
	var movementID string
	err := uc.txRunner.Run(ctx, func(
		items repository.StockItemRepository,
		movements repository.StockMovementRepository,
		_ repository.StockAllocationRepository,
	) error {
		id, err := applyMovement(items, movements, input, actor, time.Now())
		if err != nil {
			return err
		}
		movementID = id
		return nil
	})
	if err != nil {
		return "", err
	}
	return movementID, nil
}

func validateMovementInput(input MovementInput) error {
	if input.ItemID == "" {
		return domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if _, err := domstock.Classify(input.MovementType); err != nil {
		return err
	}
	if input.UnitCost != nil && input.UnitCost.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}

// applyMovement es el núcleo del coordinador y corre SIEMPRE dentro de una
// transacción: lo reutilizan asignaciones, transferencias e import masivo
// para componer varios movimientos en una misma unidad atómica.
//
// Regla de piso: cuando el tipo resta asignación (RETURN_FROM_PROJECT) el
// nuevo AllocatedStock se trunca en 0 en vez de rechazar: una devolución que
// excede lo reservado sigue siendo stock que vuelve. Los demás cruces de
// invariante (stock negativo, asignación mayor que stock) abortan sin
// escribir nada.
func applyMovement(
	items repository.StockItemRepository,
	movements repository.StockMovementRepository,
	input MovementInput,
	actor Actor,
	now time.Time,
) (string, error) {
	item, err := items.GetByID(input.ItemID)
	if err != nil {
		return "", err
	}
	if item == nil {
		return "", domain.ErrNotFound
	}

	effect, err := domstock.Classify(input.MovementType)
	if err != nil {
		return "", err
	}

	previousStock := item.CurrentStock
	newStock := previousStock.Add(effect.StockDelta(input.Quantity))
	newAllocated := item.AllocatedStock.Add(effect.AllocatedDelta(input.Quantity))
	if effect.Allocated < 0 && newAllocated.IsNegative() {
		newAllocated = decimal.Zero
	}
	if newStock.IsNegative() || newAllocated.IsNegative() || newAllocated.GreaterThan(newStock) {
		return "", domain.ErrInsufficientStock
	}

	unitCost := item.StandardCost
	if input.UnitCost != nil {
		unitCost = *input.UnitCost
	}
	movementDate := now
	if input.MovementDate != nil {
		movementDate = *input.MovementDate
	}

	movement := &entity.StockMovement{
		ID:              uuid.New().String(),
		ItemID:          item.ID,
		ItemCode:        item.ItemCode,
		ItemName:        item.Name,
		MovementType:    input.MovementType,
		Quantity:        input.Quantity,
		UnitOfMeasure:   item.UnitOfMeasure,
		ReferenceType:   input.ReferenceType,
		ReferenceID:     input.ReferenceID,
		ReferenceNumber: input.ReferenceNumber,
		FromLocation:    input.FromLocation,
		ToLocation:      input.ToLocation,
		FromProjectID:   input.FromProjectID,
		FromProjectName: input.FromProjectName,
		ToProjectID:     input.ToProjectID,
		ToProjectName:   input.ToProjectName,
		UnitCost:        unitCost,
		TotalCost:       input.Quantity.Mul(unitCost),
		PreviousStock:   previousStock,
		NewStock:        newStock,
		PerformedBy:     actor.ID,
		PerformedByName: actor.Name,
		Reason:          input.Reason,
		Notes:           input.Notes,
		MovementDate:    movementDate,
		CreatedAt:       now,
	}

	item.CurrentStock = newStock
	item.AllocatedStock = newAllocated
	item.LastMovementDate = &movementDate
	item.LastMovementType = input.MovementType
	item.UpdatedAt = now
	item.UpdatedBy = actor.ID

	if err := items.UpdateStockLevels(item); err != nil {
		return "", err
	}
	if err := movements.Create(movement); err != nil {
		return "", err
	}
	return movement.ID, nil
}
