package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock (enum cerrado; la tabla de efectos vive en
// internal/domain/stock).
type MovementType string

const (
	MovementPurchase          MovementType = "PURCHASE"
	MovementReceipt           MovementType = "RECEIPT"
	MovementIssue             MovementType = "ISSUE"
	MovementAdjustmentIn      MovementType = "ADJUSTMENT_IN"
	MovementAdjustmentOut     MovementType = "ADJUSTMENT_OUT"
	MovementTransferIn        MovementType = "TRANSFER_IN"
	MovementTransferOut       MovementType = "TRANSFER_OUT"
	MovementAllocation        MovementType = "ALLOCATION"
	MovementReturnFromProject MovementType = "RETURN_FROM_PROJECT"
	MovementDamage            MovementType = "DAMAGE"
	MovementLoss              MovementType = "LOSS"
)

// Tipos de referencia de un movimiento (documento/operación de origen).
type ReferenceType string

const (
	ReferenceProject    ReferenceType = "project"
	ReferenceTransfer   ReferenceType = "transfer"
	ReferenceAdjustment ReferenceType = "adjustment"
	ReferenceReturn     ReferenceType = "return"
	ReferencePurchase   ReferenceType = "purchase"
	ReferenceImport     ReferenceType = "import"
)

// StockMovement es una entrada inmutable del ledger: una vez escrita nunca se
// actualiza ni se borra. ItemCode e ItemName se desnormalizan para que la
// historia sobreviva a ediciones posteriores del catálogo. Quantity es siempre
// magnitud positiva; el signo lo implica el tipo.
// Invariante: NewStock = PreviousStock + delta(Type) * Quantity y NewStock >= 0.
type StockMovement struct {
	ID              string
	ItemID          string
	ItemCode        string
	ItemName        string
	MovementType    MovementType
	Quantity        decimal.Decimal
	UnitOfMeasure   UnitOfMeasure
	ReferenceType   ReferenceType
	ReferenceID     string
	ReferenceNumber string
	FromLocation    string
	ToLocation      string
	FromProjectID   string
	FromProjectName string
	ToProjectID     string
	ToProjectName   string
	UnitCost        decimal.Decimal
	TotalCost       decimal.Decimal
	PreviousStock   decimal.Decimal
	NewStock        decimal.Decimal
	PerformedBy     string
	PerformedByName string
	Reason          string
	Notes           string
	MovementDate    time.Time
	CreatedAt       time.Time
}
