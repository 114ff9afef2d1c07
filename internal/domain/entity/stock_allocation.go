package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una reserva de stock.
type AllocationStatus string

const (
	AllocationReserved  AllocationStatus = "reserved"
	AllocationIssued    AllocationStatus = "issued"
	AllocationConsumed  AllocationStatus = "consumed"
	AllocationCancelled AllocationStatus = "cancelled"
)

// StockAllocation es el registro de reserva de un item contra un proyecto
// consumidor. Es contabilidad sobre los movimientos del ledger, no un
// sustituto: el contador AllocatedStock del item se mueve por movimientos
// ALLOCATION / RETURN_FROM_PROJECT, y esta entidad acumula cuánto de la
// reserva ya fue consumido en obra.
type StockAllocation struct {
	ID                string
	StockItemID       string
	ProjectID         string
	AllocatedQuantity decimal.Decimal
	ConsumedQuantity  decimal.Decimal
	Status            AllocationStatus
	AllocationDate    time.Time
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RemainingQuantity es derivado: lo reservado menos lo ya consumido.
func (a *StockAllocation) RemainingQuantity() decimal.Decimal {
	return a.AllocatedQuantity.Sub(a.ConsumedQuantity)
}

// IsActive indica si la reserva sigue viva (reservada o en entrega).
func (a *StockAllocation) IsActive() bool {
	return a.Status == AllocationReserved || a.Status == AllocationIssued
}
