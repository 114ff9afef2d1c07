package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/entity"
)

// CreateItemRequest body para POST /api/stock/items.
type CreateItemRequest struct {
	ItemCode          string          `json:"item_code,omitempty"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Category          string          `json:"category"`
	Subcategory       string          `json:"subcategory,omitempty"`
	UnitOfMeasure     string          `json:"unit_of_measure"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	ReorderLevel      decimal.Decimal `json:"reorder_level"`
	MinimumStock      decimal.Decimal `json:"minimum_stock"`
	StandardCost      decimal.Decimal `json:"standard_cost"`
	WarehouseLocation string          `json:"warehouse_location,omitempty"`
	ProjectID         string          `json:"project_id,omitempty"`
}

// UpdateItemRequest body para PUT /api/stock/items/:id. Campos en nil no se
// tocan; los contadores de stock no son editables por esta vía.
type UpdateItemRequest struct {
	Name              *string          `json:"name,omitempty"`
	Description       *string          `json:"description,omitempty"`
	Subcategory       *string          `json:"subcategory,omitempty"`
	ReorderLevel      *decimal.Decimal `json:"reorder_level,omitempty"`
	MinimumStock      *decimal.Decimal `json:"minimum_stock,omitempty"`
	StandardCost      *decimal.Decimal `json:"standard_cost,omitempty"`
	WarehouseLocation *string          `json:"warehouse_location,omitempty"`
	Status            *string          `json:"status,omitempty"`
}

// StockItemResponse representación HTTP de un item. AvailableStock se deriva
// siempre al serializar, nunca viene de la base.
type StockItemResponse struct {
	ID                string          `json:"id"`
	ItemCode          string          `json:"item_code"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Category          string          `json:"category"`
	Subcategory       string          `json:"subcategory,omitempty"`
	UnitOfMeasure     string          `json:"unit_of_measure"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	AllocatedStock    decimal.Decimal `json:"allocated_stock"`
	AvailableStock    decimal.Decimal `json:"available_stock"`
	ReorderLevel      decimal.Decimal `json:"reorder_level"`
	MinimumStock      decimal.Decimal `json:"minimum_stock"`
	StandardCost      decimal.Decimal `json:"standard_cost"`
	WarehouseLocation string          `json:"warehouse_location,omitempty"`
	ProjectID         string          `json:"project_id,omitempty"`
	Status            string          `json:"status"`
	IsLowStock        bool            `json:"is_low_stock"`
	LastMovementDate  *time.Time      `json:"last_movement_date,omitempty"`
	LastMovementType  string          `json:"last_movement_type,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToStockItemResponse mapea la entidad a su DTO de salida.
func ToStockItemResponse(item *entity.StockItem) StockItemResponse {
	return StockItemResponse{
		ID:                item.ID,
		ItemCode:          item.ItemCode,
		Name:              item.Name,
		Description:       item.Description,
		Category:          string(item.Category),
		Subcategory:       item.Subcategory,
		UnitOfMeasure:     string(item.UnitOfMeasure),
		CurrentStock:      item.CurrentStock,
		AllocatedStock:    item.AllocatedStock,
		AvailableStock:    item.AvailableStock(),
		ReorderLevel:      item.ReorderLevel,
		MinimumStock:      item.MinimumStock,
		StandardCost:      item.StandardCost,
		WarehouseLocation: item.WarehouseLocation,
		ProjectID:         item.ProjectID,
		Status:            string(item.Status),
		IsLowStock:        item.IsLowStock(),
		LastMovementDate:  item.LastMovementDate,
		LastMovementType:  string(item.LastMovementType),
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}

// ToStockItemResponses mapea una lista de entidades.
func ToStockItemResponses(items []*entity.StockItem) []StockItemResponse {
	out := make([]StockItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, ToStockItemResponse(item))
	}
	return out
}

// RegisterMovementRequest body para POST /api/stock/movements.
type RegisterMovementRequest struct {
	ItemID          string           `json:"item_id"`
	MovementType    string           `json:"movement_type"`
	Quantity        decimal.Decimal  `json:"quantity"`
	ReferenceType   string           `json:"reference_type,omitempty"`
	ReferenceID     string           `json:"reference_id,omitempty"`
	ReferenceNumber string           `json:"reference_number,omitempty"`
	FromLocation    string           `json:"from_location,omitempty"`
	ToLocation      string           `json:"to_location,omitempty"`
	FromProjectID   string           `json:"from_project_id,omitempty"`
	ToProjectID     string           `json:"to_project_id,omitempty"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason          string           `json:"reason,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	MovementDate    *time.Time       `json:"movement_date,omitempty"`
}

// MovementResponse entrada del ledger tal como se expone por HTTP.
type MovementResponse struct {
	ID              string          `json:"id"`
	ItemID          string          `json:"item_id"`
	ItemCode        string          `json:"item_code"`
	ItemName        string          `json:"item_name"`
	MovementType    string          `json:"movement_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitOfMeasure   string          `json:"unit_of_measure"`
	PreviousStock   decimal.Decimal `json:"previous_stock"`
	NewStock        decimal.Decimal `json:"new_stock"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	ReferenceType   string          `json:"reference_type,omitempty"`
	ReferenceID     string          `json:"reference_id,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	FromLocation    string          `json:"from_location,omitempty"`
	ToLocation      string          `json:"to_location,omitempty"`
	FromProjectID   string          `json:"from_project_id,omitempty"`
	FromProjectName string          `json:"from_project_name,omitempty"`
	ToProjectID     string          `json:"to_project_id,omitempty"`
	ToProjectName   string          `json:"to_project_name,omitempty"`
	PerformedBy     string          `json:"performed_by"`
	PerformedByName string          `json:"performed_by_name,omitempty"`
	Reason          string          `json:"reason,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	MovementDate    time.Time       `json:"movement_date"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToMovementResponse mapea una entrada del ledger a su DTO de salida.
func ToMovementResponse(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:              m.ID,
		ItemID:          m.ItemID,
		ItemCode:        m.ItemCode,
		ItemName:        m.ItemName,
		MovementType:    string(m.MovementType),
		Quantity:        m.Quantity,
		UnitOfMeasure:   string(m.UnitOfMeasure),
		PreviousStock:   m.PreviousStock,
		NewStock:        m.NewStock,
		UnitCost:        m.UnitCost,
		TotalCost:       m.TotalCost,
		ReferenceType:   string(m.ReferenceType),
		ReferenceID:     m.ReferenceID,
		ReferenceNumber: m.ReferenceNumber,
		FromLocation:    m.FromLocation,
		ToLocation:      m.ToLocation,
		FromProjectID:   m.FromProjectID,
		FromProjectName: m.FromProjectName,
		ToProjectID:     m.ToProjectID,
		ToProjectName:   m.ToProjectName,
		PerformedBy:     m.PerformedBy,
		PerformedByName: m.PerformedByName,
		Reason:          m.Reason,
		Notes:           m.Notes,
		MovementDate:    m.MovementDate,
		CreatedAt:       m.CreatedAt,
	}
}

// ToMovementResponses mapea una lista de entradas del ledger.
func ToMovementResponses(movements []*entity.StockMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, ToMovementResponse(m))
	}
	return out
}

// TransferRequest body para POST /api/stock/transfers.
type TransferRequest struct {
	ItemID        string          `json:"item_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	FromLocation  string          `json:"from_location"`
	ToLocation    string          `json:"to_location"`
	FromProjectID string          `json:"from_project_id,omitempty"`
	ToProjectID   string          `json:"to_project_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// TransferResponse identifica las dos patas del traslado.
type TransferResponse struct {
	TransferID    string `json:"transfer_id"`
	OutMovementID string `json:"out_movement_id"`
	InMovementID  string `json:"in_movement_id"`
}

// AllocateRequest body para POST /api/stock/allocations.
type AllocateRequest struct {
	ItemID    string          `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	ProjectID string          `json:"project_id"`
	Notes     string          `json:"notes,omitempty"`
}

// ReturnRequest body para POST /api/stock/allocations/return.
type ReturnRequest struct {
	ItemID    string          `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	ProjectID string          `json:"project_id"`
	Notes     string          `json:"notes,omitempty"`
}

// ConsumeRequest body para POST /api/stock/allocations/:id/consume.
type ConsumeRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// AllocationResponse reserva de material para un proyecto.
type AllocationResponse struct {
	ID                string          `json:"id"`
	StockItemID       string          `json:"stock_item_id"`
	ProjectID         string          `json:"project_id"`
	AllocatedQuantity decimal.Decimal `json:"allocated_quantity"`
	ConsumedQuantity  decimal.Decimal `json:"consumed_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	Status            string          `json:"status"`
	AllocationDate    time.Time       `json:"allocation_date"`
	CreatedBy         string          `json:"created_by"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToAllocationResponse mapea una reserva a su DTO de salida.
func ToAllocationResponse(a *entity.StockAllocation) AllocationResponse {
	return AllocationResponse{
		ID:                a.ID,
		StockItemID:       a.StockItemID,
		ProjectID:         a.ProjectID,
		AllocatedQuantity: a.AllocatedQuantity,
		ConsumedQuantity:  a.ConsumedQuantity,
		RemainingQuantity: a.RemainingQuantity(),
		Status:            string(a.Status),
		AllocationDate:    a.AllocationDate,
		CreatedBy:         a.CreatedBy,
		UpdatedAt:         a.UpdatedAt,
	}
}

// ToAllocationResponses mapea una lista de reservas.
func ToAllocationResponses(allocations []*entity.StockAllocation) []AllocationResponse {
	out := make([]AllocationResponse, 0, len(allocations))
	for _, a := range allocations {
		out = append(out, ToAllocationResponse(a))
	}
	return out
}

// AllocateResponse resultado de una reserva: movimiento del ledger más la
// reserva creada o acumulada.
type AllocateResponse struct {
	MovementID   string `json:"movement_id"`
	AllocationID string `json:"allocation_id"`
}

// BulkMovementsRequest body para POST /api/stock/bulk/movements.
type BulkMovementsRequest struct {
	Movements []RegisterMovementRequest `json:"movements"`
}

// ChunkResultDTO chunk confirmado de un lote masivo.
type ChunkResultDTO struct {
	Index       int      `json:"index"`
	MovementIDs []string `json:"movement_ids"`
}

// BulkResultResponse resultado de un lote masivo: chunks confirmados, items
// rechazados en validación y total de movimientos aplicados.
type BulkResultResponse struct {
	Committed     []ChunkResultDTO  `json:"committed"`
	RejectedItems map[string]string `json:"rejected_items,omitempty"`
	Applied       int               `json:"applied"`
	FailedChunk   *int              `json:"failed_chunk,omitempty"`
	Error         string            `json:"error,omitempty"`
}

// SummaryResponse agregado del ledger para reportes.
type SummaryResponse struct {
	TotalIn     decimal.Decimal            `json:"total_in"`
	TotalOut    decimal.Decimal            `json:"total_out"`
	NetMovement decimal.Decimal            `json:"net_movement"`
	TotalValue  decimal.Decimal            `json:"total_value"`
	ByType      map[string]decimal.Decimal `json:"by_type"`
	Count       int                        `json:"count"`
}

// ImportItemsRequest body para POST /api/stock/items/import.
type ImportItemsRequest struct {
	Items []CreateItemRequest `json:"items"`
}

// ImportReportResponse resultado de un import de catálogo.
type ImportReportResponse struct {
	Created int      `json:"created"`
	Errors  []string `json:"errors,omitempty"`
}
