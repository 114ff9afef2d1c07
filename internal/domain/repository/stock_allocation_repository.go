package repository

import "github.com/velocityfibre/fibreflow-stock/internal/domain/entity"

// StockAllocationRepository define el puerto de persistencia de reservas (DIP).
type StockAllocationRepository interface {
	Create(allocation *entity.StockAllocation) error
	GetByID(id string) (*entity.StockAllocation, error)
	// GetActiveByItemAndProject devuelve la reserva viva (reserved/issued) de
	// un item contra un proyecto, o nil si no existe.
	GetActiveByItemAndProject(itemID, projectID string) (*entity.StockAllocation, error)
	Update(allocation *entity.StockAllocation) error
	// ListActive lista reservas vivas; projectID vacío = todas.
	ListActive(projectID string) ([]*entity.StockAllocation, error)
}
