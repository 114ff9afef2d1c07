package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/velocityfibre/fibreflow-stock/internal/domain"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/entity"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

const stockItemColumns = `id, item_code, name, description, category, subcategory, unit_of_measure,
		current_stock, allocated_stock, reorder_level, minimum_stock, standard_cost,
		warehouse_location, project_id, status, last_movement_date, last_movement_type,
		created_at, created_by, updated_at, updated_by`

// StockItemRepo implementación del puerto StockItemRepository sobre PostgreSQL
// (usable con pool o tx). available_stock NO existe como columna: es derivado
// y se calcula siempre en memoria.
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

// Create persiste un nuevo item del catálogo.
func (r *StockItemRepo) Create(item *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (` + stockItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(context.Background(), query, itemArgs(item)...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock item: %w", err)
	}
	return nil
}

// CreateBatch persiste varios items en una sola ronda (pgx.Batch).
func (r *StockItemRepo) CreateBatch(items []*entity.StockItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
		INSERT INTO stock_items (` + stockItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, itemArgs(item)...)
	}
	results := r.q.SendBatch(context.Background(), batch)
	defer results.Close()
	for range items {
		if _, err := results.Exec(); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("batch insert stock items: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un item por ID. Devuelve nil si no existe.
func (r *StockItemRepo) GetByID(id string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE id = $1`
	return r.getOne(query, id)
}

// GetByCode obtiene un item por su clave de negocio. Devuelve nil si no existe.
func (r *StockItemRepo) GetByCode(itemCode string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE item_code = $1`
	return r.getOne(query, itemCode)
}

func (r *StockItemRepo) getOne(query string, arg any) (*entity.StockItem, error) {
	row := r.q.QueryRow(context.Background(), query, arg)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return item, nil
}

// List lista el catálogo con filtros opcionales y paginación.
func (r *StockItemRepo) List(filter repository.ItemFilter, limit, offset int) ([]*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", pos)
		args = append(args, filter.Category)
		pos++
	}
	if filter.ProjectID != "" {
		query += fmt.Sprintf(" AND project_id = $%d", pos)
		args = append(args, filter.ProjectID)
		pos++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY item_code LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// ListLowStock lista los items activos en o bajo su nivel de reorden.
func (r *StockItemRepo) ListLowStock() ([]*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + `
		FROM stock_items
		WHERE status = 'active' AND current_stock <= reorder_level
		ORDER BY item_code`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// Update actualiza la definición de catálogo. No toca los contadores de stock
// (eso va por UpdateStockLevels dentro de la tx del coordinador).
func (r *StockItemRepo) Update(item *entity.StockItem) error {
	query := `
		UPDATE stock_items SET name = $2, description = $3, subcategory = $4,
			reorder_level = $5, minimum_stock = $6, standard_cost = $7,
			warehouse_location = $8, status = $9, updated_at = $10, updated_by = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Description, item.Subcategory,
		item.ReorderLevel, item.MinimumStock, item.StandardCost,
		item.WarehouseLocation, item.Status, item.UpdatedAt, item.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("update stock item: %w", err)
	}
	return nil
}

// UpdateStockLevels persiste el snapshot de contadores tras un movimiento.
func (r *StockItemRepo) UpdateStockLevels(item *entity.StockItem) error {
	query := `
		UPDATE stock_items SET current_stock = $2, allocated_stock = $3,
			last_movement_date = $4, last_movement_type = $5, updated_at = $6, updated_by = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.CurrentStock, item.AllocatedStock,
		item.LastMovementDate, item.LastMovementType, item.UpdatedAt, item.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("update stock levels: %w", err)
	}
	return nil
}

// Delete elimina un item por ID. El caso de uso verifica antes que el ledger
// no lo referencie.
func (r *StockItemRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM stock_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock item: %w", err)
	}
	return nil
}

func itemArgs(item *entity.StockItem) []any {
	return []any{
		item.ID, item.ItemCode, item.Name, item.Description, item.Category,
		item.Subcategory, item.UnitOfMeasure, item.CurrentStock, item.AllocatedStock,
		item.ReorderLevel, item.MinimumStock, item.StandardCost,
		item.WarehouseLocation, item.ProjectID, item.Status,
		item.LastMovementDate, item.LastMovementType,
		item.CreatedAt, item.CreatedBy, item.UpdatedAt, item.UpdatedBy,
	}
}

func scanItem(row pgx.Row) (*entity.StockItem, error) {
	var item entity.StockItem
	var lastMovementType *string
	err := row.Scan(
		&item.ID, &item.ItemCode, &item.Name, &item.Description, &item.Category,
		&item.Subcategory, &item.UnitOfMeasure, &item.CurrentStock, &item.AllocatedStock,
		&item.ReorderLevel, &item.MinimumStock, &item.StandardCost,
		&item.WarehouseLocation, &item.ProjectID, &item.Status,
		&item.LastMovementDate, &lastMovementType,
		&item.CreatedAt, &item.CreatedBy, &item.UpdatedAt, &item.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if lastMovementType != nil {
		item.LastMovementType = entity.MovementType(*lastMovementType)
	}
	return &item, nil
}

func scanItems(rows pgx.Rows) ([]*entity.StockItem, error) {
	var list []*entity.StockItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}
