package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/velocityfibre/fibreflow-stock/internal/domain"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/entity"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/repository"
)

// AllocationUseCase gestiona reservas de stock contra proyectos consumidores.
// El movimiento de ledger y el registro de reserva se escriben en la MISMA
// transacción: escritos por separado podrían divergir ante un fallo a mitad
// (decisión documentada en DESIGN.md).
type AllocationUseCase struct {
	txRunner    TxRunner
	allocations repository.StockAllocationRepository // lecturas fuera de tx
	projects    repository.ProjectRepository
}

// NewAllocationUseCase construye el gestor de reservas.
func NewAllocationUseCase(
	txRunner TxRunner,
	allocations repository.StockAllocationRepository,
	projects repository.ProjectRepository,
) *AllocationUseCase {
	return &AllocationUseCase{txRunner: txRunner, allocations: allocations, projects: projects}
}

// Allocate reserva cantidad ya en stock contra un proyecto. Requiere
// disponible (current - allocated) >= qty; el movimiento ALLOCATION sube
// AllocatedStock y la reserva acumula sobre la activa del par item+proyecto
// si existe. Devuelve (movementID, allocationID).
func (uc *AllocationUseCase) Allocate(ctx context.Context, itemID string, qty decimal.Decimal, projectID, notes string, actor Actor) (string, string, error) {
	if itemID == "" || projectID == "" || !qty.GreaterThan(decimal.Zero) {
		return "", "", domain.ErrInvalidInput
	}
	project, err := uc.projects.GetByID(projectID)
	if err != nil {
		return "", "", err
	}
	if project == nil {
		return "", "", domain.ErrNotFound
	}

	input := MovementInput{
		ItemID:          itemID,
		MovementType:    entity.MovementAllocation,
		Quantity:        qty,
		ReferenceType:   entity.ReferenceProject,
		ReferenceID:     project.ID,
		ReferenceNumber: project.ProjectCode,
		ToProjectID:     project.ID,
		ToProjectName:   project.Name,
		Notes:           notes,
	}

	var movementID, allocationID string
	err = uc.txRunner.Run(ctx, func(
		items repository.StockItemRepository,
		movements repository.StockMovementRepository,
		allocations repository.StockAllocationRepository,
	) error {
		now := time.Now()
		id, err := applyMovement(items, movements, input, actor, now)
		if err != nil {
			return err
		}
		movementID = id

		existing, err := allocations.GetActiveByItemAndProject(itemID, projectID)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.AllocatedQuantity = existing.AllocatedQuantity.Add(qty)
			existing.UpdatedAt = now
			allocationID = existing.ID
			return allocations.Update(existing)
		}
		allocation := &entity.StockAllocation{
			ID:                uuid.New().String(),
			StockItemID:       itemID,
			ProjectID:         projectID,
			AllocatedQuantity: qty,
			ConsumedQuantity:  decimal.Zero,
			Status:            entity.AllocationReserved,
			AllocationDate:    now,
			CreatedBy:         actor.ID,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		allocationID = allocation.ID
		return allocations.Create(allocation)
	})
	if err != nil {
		return "", "", err
	}
	return movementID, allocationID, nil
}

// ReturnFromProject devuelve material de un proyecto al stock: sube
// CurrentStock y baja AllocatedStock (truncado en 0), y encoge la reserva
// activa correspondiente, todo en una transacción.
func (uc *AllocationUseCase) ReturnFromProject(ctx context.Context, itemID string, qty decimal.Decimal, projectID, reason, notes string, actor Actor) (string, error) {
	if itemID == "" || projectID == "" || !qty.GreaterThan(decimal.Zero) {
		return "", domain.ErrInvalidInput
	}
	project, err := uc.projects.GetByID(projectID)
	if err != nil {
		return "", err
	}
	if project == nil {
		return "", domain.ErrNotFound
	}

	input := MovementInput{
		ItemID:          itemID,
		MovementType:    entity.MovementReturnFromProject,
		Quantity:        qty,
		ReferenceType:   entity.ReferenceReturn,
		ReferenceID:     project.ID,
		ReferenceNumber: project.ProjectCode,
		FromProjectID:   project.ID,
		FromProjectName: project.Name,
		Reason:          reason,
		Notes:           notes,
	}

	var movementID string
	err = uc.txRunner.Run(ctx, func(
		items repository.StockItemRepository,
		movements repository.StockMovementRepository,
		allocations repository.StockAllocationRepository,
	) error {
		now := time.Now()
		id, err := applyMovement(items, movements, input, actor, now)
		if err != nil {
			return err
		}
		movementID = id

		allocation, err := allocations.GetActiveByItemAndProject(itemID, projectID)
		if err != nil {
			return err
		}
		if allocation == nil {
			// Devolución sin reserva registrada: el ledger ya la recoge.
			return nil
		}
		allocation.AllocatedQuantity = allocation.AllocatedQuantity.Sub(qty)
		if allocation.AllocatedQuantity.LessThan(allocation.ConsumedQuantity) {
			allocation.AllocatedQuantity = allocation.ConsumedQuantity
		}
		if allocation.RemainingQuantity().IsZero() {
			if allocation.ConsumedQuantity.GreaterThan(decimal.Zero) {
				allocation.Status = entity.AllocationConsumed
			} else {
				allocation.Status = entity.AllocationCancelled
			}
		}
		allocation.UpdatedAt = now
		return allocations.Update(allocation)
	})
	if err != nil {
		return "", err
	}
	return movementID, nil
}

// Consume marca parte de una reserva como consumida en obra. Es contabilidad
// sobre la reserva, independiente del ledger: no genera movimiento ni toca
// los contadores del item.
func (uc *AllocationUseCase) Consume(ctx context.Context, allocationID string, qty decimal.Decimal, actor Actor) error {
	if allocationID == "" || !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(
		_ repository.StockItemRepository,
		_ repository.StockMovementRepository,
		allocations repository.StockAllocationRepository,
	) error {
		allocation, err := allocations.GetByID(allocationID)
		if err != nil {
			return err
		}
		if allocation == nil {
			return domain.ErrNotFound
		}
		if !allocation.IsActive() {
			return domain.ErrConflict
		}
		if qty.GreaterThan(allocation.RemainingQuantity()) {
			return domain.ErrInvalidInput
		}
		allocation.ConsumedQuantity = allocation.ConsumedQuantity.Add(qty)
		if allocation.RemainingQuantity().IsZero() {
			allocation.Status = entity.AllocationConsumed
		} else {
			allocation.Status = entity.AllocationIssued
		}
		allocation.UpdatedAt = time.Now()
		return allocations.Update(allocation)
	})
}

// ListAllocations lista reservas vivas; projectID vacío = todas.
func (uc *AllocationUseCase) ListAllocations(_ context.Context, projectID string) ([]*entity.StockAllocation, error) {
	return uc.allocations.ListActive(projectID)
}
