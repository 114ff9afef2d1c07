package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de material de red de fibra (enum cerrado).
type StockCategory string

const (
	CategoryFibreCable       StockCategory = "fibre_cable"
	CategoryPoles            StockCategory = "poles"
	CategoryEquipment        StockCategory = "equipment"
	CategoryTools            StockCategory = "tools"
	CategoryConsumables      StockCategory = "consumables"
	CategoryHomeConnections  StockCategory = "home_connections"
	CategoryNetworkEquipment StockCategory = "network_equipment"
	CategorySafetyEquipment  StockCategory = "safety_equipment"
	CategoryOther            StockCategory = "other"
)

// Unidades de medida (enum cerrado).
type UnitOfMeasure string

const (
	UnitMeters    UnitOfMeasure = "meters"
	UnitUnits     UnitOfMeasure = "units"
	UnitPieces    UnitOfMeasure = "pieces"
	UnitBoxes     UnitOfMeasure = "boxes"
	UnitRolls     UnitOfMeasure = "rolls"
	UnitSets      UnitOfMeasure = "sets"
	UnitLiters    UnitOfMeasure = "liters"
	UnitKilograms UnitOfMeasure = "kilograms"
	UnitHours     UnitOfMeasure = "hours"
)

// Estados del item de catálogo.
type StockItemStatus string

const (
	ItemStatusActive       StockItemStatus = "active"
	ItemStatusInactive     StockItemStatus = "inactive"
	ItemStatusDiscontinued StockItemStatus = "discontinued"
)

// StockItem representa un material del catálogo junto con su snapshot de stock.
// CurrentStock y AllocatedStock se mutan únicamente a través del coordinador
// transaccional; el invariante 0 <= AllocatedStock <= CurrentStock se sostiene
// tras cada operación confirmada.
type StockItem struct {
	ID                string
	ItemCode          string // clave de negocio, única
	Name              string
	Description       string
	Category          StockCategory
	Subcategory       string
	UnitOfMeasure     UnitOfMeasure
	CurrentStock      decimal.Decimal
	AllocatedStock    decimal.Decimal
	ReorderLevel      decimal.Decimal
	MinimumStock      decimal.Decimal
	StandardCost      decimal.Decimal
	WarehouseLocation string
	ProjectID         string // el item está adscrito a un único proyecto
	Status            StockItemStatus
	LastMovementDate  *time.Time
	LastMovementType  MovementType
	CreatedAt         time.Time
	CreatedBy         string
	UpdatedAt         time.Time
	UpdatedBy         string
}

// AvailableStock es derivado, nunca se persiste como fuente de verdad.
func (s *StockItem) AvailableStock() decimal.Decimal {
	return s.CurrentStock.Sub(s.AllocatedStock)
}

// IsLowStock indica si el item está en o bajo su nivel de reorden.
func (s *StockItem) IsLowStock() bool {
	return s.Status == ItemStatusActive && s.CurrentStock.LessThanOrEqual(s.ReorderLevel)
}
