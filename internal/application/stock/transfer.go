package stock

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/velocityfibre/fibreflow-stock/internal/domain"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/entity"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/repository"
)

// TransferInput describe un traslado de material entre ubicaciones y/o
// proyectos.
type TransferInput struct {
	ItemID        string
	Quantity      decimal.Decimal
	FromLocation  string
	ToLocation    string
	FromProjectID string
	ToProjectID   string
	Notes         string
}

// TransferResult identifica las dos patas y su referencia compartida.
type TransferResult struct {
	TransferID    string
	OutMovementID string
	InMovementID  string
}

// TransferUseCase compone TRANSFER_OUT + TRANSFER_IN. Las dos patas corren en
// UNA transacción atómica (decisión en DESIGN.md), pero conservan un
// ReferenceID compartido para que sigan siendo emparejables en consultas del
// ledger.
type TransferUseCase struct {
	txRunner TxRunner
	projects repository.ProjectRepository
}

// NewTransferUseCase construye el orquestador de traslados.
func NewTransferUseCase(txRunner TxRunner, projects repository.ProjectRepository) *TransferUseCase {
	return &TransferUseCase{txRunner: txRunner, projects: projects}
}

// Transfer ejecuta el traslado. El neto sobre CurrentStock es cero, pero el
// invariante se valida en cada pata: si la salida dejara stock negativo la
// transacción completa aborta sin escribir ninguna de las dos.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput, actor Actor) (*TransferResult, error) {
	if input.ItemID == "" || !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if input.FromLocation == "" || input.ToLocation == "" || input.FromLocation == input.ToLocation {
		return nil, domain.ErrInvalidInput
	}

	fromProjectName, err := uc.projectName(input.FromProjectID)
	if err != nil {
		return nil, err
	}
	toProjectName, err := uc.projectName(input.ToProjectID)
	if err != nil {
		return nil, err
	}

	transferID := uuid.New().String()
	referenceNumber := "TRF-" + strings.ToUpper(transferID[:8])

	out := MovementInput{
		ItemID:          input.ItemID,
		MovementType:    entity.MovementTransferOut,
		Quantity:        input.Quantity,
		ReferenceType:   entity.ReferenceTransfer,
		ReferenceID:     transferID,
		ReferenceNumber: referenceNumber,
		FromLocation:    input.FromLocation,
		FromProjectID:   input.FromProjectID,
		FromProjectName: fromProjectName,
		Notes:           input.Notes,
	}
	in := MovementInput{
		ItemID:          input.ItemID,
		MovementType:    entity.MovementTransferIn,
		Quantity:        input.Quantity,
		ReferenceType:   entity.ReferenceTransfer,
		ReferenceID:     transferID,
		ReferenceNumber: referenceNumber,
		ToLocation:      input.ToLocation,
		ToProjectID:     input.ToProjectID,
		ToProjectName:   toProjectName,
		Notes:           input.Notes,
	}

	result := &TransferResult{TransferID: transferID}
	err = uc.txRunner.Run(ctx, func(
		items repository.StockItemRepository,
		movements repository.StockMovementRepository,
		_ repository.StockAllocationRepository,
	) error {
		now := time.Now()
		outID, err := applyMovement(items, movements, out, actor, now)
		if err != nil {
			return err
		}
		// La pata de entrada relee el item y parte del snapshot que dejó la
		// salida, dentro de la misma tx.
		inID, err := applyMovement(items, movements, in, actor, now)
		if err != nil {
			return err
		}
		result.OutMovementID = outID
		result.InMovementID = inID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *TransferUseCase) projectName(projectID string) (string, error) {
	if projectID == "" {
		return "", nil
	}
	project, err := uc.projects.GetByID(projectID)
	if err != nil {
		return "", err
	}
	if project == nil {
		return "", domain.ErrNotFound
	}
	return project.Name, nil
}
