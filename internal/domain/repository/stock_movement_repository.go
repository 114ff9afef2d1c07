package repository

import (
	"time"

	"github.com/velocityfibre/fibreflow-stock/internal/domain/entity"
)

// MovementFilter filtros de consulta del ledger.
type MovementFilter struct {
	ItemID        string
	MovementType  entity.MovementType
	ReferenceType entity.ReferenceType
	ReferenceID   string
	ProjectID     string // coincide con FromProjectID o ToProjectID
	PerformedBy   string
	From          *time.Time
	To            *time.Time
}

// StockMovementRepository define el puerto de persistencia del ledger (DIP).
// El ledger es append-only: no existen Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	List(filter MovementFilter, limit, offset int) ([]*entity.StockMovement, error)
	CountByItem(itemID string) (int64, error)
}
