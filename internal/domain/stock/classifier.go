// Package stock contiene la lógica de dominio pura del motor de inventario:
// la clasificación de movimientos y la proyección de sus efectos numéricos.
package stock

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/velocityfibre/fibreflow-stock/internal/domain"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/entity"
)

// Effect es el efecto numérico de un tipo de movimiento sobre los contadores
// del item: cada delta (en {-1, 0, +1}) se multiplica por la cantidad.
type Effect struct {
	Stock     int // delta sobre CurrentStock
	Allocated int // delta sobre AllocatedStock
}

// effects es la tabla cerrada y exhaustiva: TODO tipo declarado en entity debe
// aparecer aquí (verificado por test). Un tipo desconocido es error de
// validación, nunca un no-op silencioso.
var effects = map[entity.MovementType]Effect{
	entity.MovementPurchase:          {Stock: +1, Allocated: 0},
	entity.MovementReceipt:           {Stock: +1, Allocated: 0},
	entity.MovementIssue:             {Stock: -1, Allocated: 0},
	entity.MovementAdjustmentIn:      {Stock: +1, Allocated: 0},
	entity.MovementAdjustmentOut:     {Stock: -1, Allocated: 0},
	entity.MovementTransferIn:        {Stock: +1, Allocated: 0},
	entity.MovementTransferOut:       {Stock: -1, Allocated: 0},
	entity.MovementAllocation:        {Stock: 0, Allocated: +1},
	entity.MovementReturnFromProject: {Stock: +1, Allocated: -1},
	entity.MovementDamage:            {Stock: -1, Allocated: 0},
	entity.MovementLoss:              {Stock: -1, Allocated: 0},
}

// MovementTypes devuelve los tipos declarados en la tabla (orden estable).
func MovementTypes() []entity.MovementType {
	return []entity.MovementType{
		entity.MovementPurchase,
		entity.MovementReceipt,
		entity.MovementIssue,
		entity.MovementAdjustmentIn,
		entity.MovementAdjustmentOut,
		entity.MovementTransferIn,
		entity.MovementTransferOut,
		entity.MovementAllocation,
		entity.MovementReturnFromProject,
		entity.MovementDamage,
		entity.MovementLoss,
	}
}

// Classify devuelve el efecto de un tipo de movimiento.
func Classify(t entity.MovementType) (Effect, error) {
	e, ok := effects[t]
	if !ok {
		return Effect{}, fmt.Errorf("%w: tipo de movimiento desconocido %q", domain.ErrInvalidInput, t)
	}
	return e, nil
}

// IsIncoming indica si el tipo suma stock físico.
func IsIncoming(t entity.MovementType) bool {
	return effects[t].Stock > 0
}

// IsOutgoing indica si el tipo resta stock físico.
func IsOutgoing(t entity.MovementType) bool {
	return effects[t].Stock < 0
}

// StockDelta devuelve el delta firmado sobre CurrentStock para una cantidad.
func (e Effect) StockDelta(qty decimal.Decimal) decimal.Decimal {
	return qty.Mul(decimal.NewFromInt(int64(e.Stock)))
}

// AllocatedDelta devuelve el delta firmado sobre AllocatedStock para una cantidad.
func (e Effect) AllocatedDelta(qty decimal.Decimal) decimal.Decimal {
	return qty.Mul(decimal.NewFromInt(int64(e.Allocated)))
}
