package repository

import "github.com/velocityfibre/fibreflow-stock/internal/domain/entity"

// ItemFilter filtros de listado del catálogo.
type ItemFilter struct {
	Category  entity.StockCategory
	ProjectID string
	Status    entity.StockItemStatus
}

// StockItemRepository define el puerto de persistencia del catálogo (DIP).
// Los contadores de stock solo se escriben vía UpdateStockLevels dentro de la
// transacción del coordinador; ningún otro camino muta CurrentStock.
type StockItemRepository interface {
	Create(item *entity.StockItem) error
	CreateBatch(items []*entity.StockItem) error
	GetByID(id string) (*entity.StockItem, error)
	GetByCode(itemCode string) (*entity.StockItem, error)
	List(filter ItemFilter, limit, offset int) ([]*entity.StockItem, error)
	ListLowStock() ([]*entity.StockItem, error)
	Update(item *entity.StockItem) error
	// UpdateStockLevels persiste el snapshot de contadores tras un movimiento
	// (current, allocated, último movimiento y auditoría).
	UpdateStockLevels(item *entity.StockItem) error
	Delete(id string) error
}
