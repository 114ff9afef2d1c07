package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/entity"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/repository"
)

var _ repository.StockAllocationRepository = (*StockAllocationRepo)(nil)

const stockAllocationColumns = `id, stock_item_id, project_id, allocated_quantity, consumed_quantity,
		status, allocation_date, created_by, created_at, updated_at`

// StockAllocationRepo implementación del puerto de reservas sobre PostgreSQL
// (usable con pool o tx).
type StockAllocationRepo struct {
	q Querier
}

// NewStockAllocationRepository construye el adaptador de reservas. Pasar pool o tx (Querier).
func NewStockAllocationRepository(q Querier) *StockAllocationRepo {
	return &StockAllocationRepo{q: q}
}

// Create persiste una reserva nueva.
func (r *StockAllocationRepo) Create(allocation *entity.StockAllocation) error {
	query := `
		INSERT INTO stock_allocations (` + stockAllocationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		allocation.ID, allocation.StockItemID, allocation.ProjectID,
		allocation.AllocatedQuantity, allocation.ConsumedQuantity,
		allocation.Status, allocation.AllocationDate,
		allocation.CreatedBy, allocation.CreatedAt, allocation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create allocation: %w", err)
	}
	return nil
}

// GetByID obtiene una reserva por ID. Devuelve nil si no existe.
func (r *StockAllocationRepo) GetByID(id string) (*entity.StockAllocation, error) {
	query := `SELECT ` + stockAllocationColumns + ` FROM stock_allocations WHERE id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	allocation, err := scanAllocation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get allocation: %w", err)
	}
	return allocation, nil
}

// GetActiveByItemAndProject devuelve la reserva viva (reserved/issued) de un
// item contra un proyecto, o nil si no existe.
func (r *StockAllocationRepo) GetActiveByItemAndProject(itemID, projectID string) (*entity.StockAllocation, error) {
	query := `SELECT ` + stockAllocationColumns + `
		FROM stock_allocations
		WHERE stock_item_id = $1 AND project_id = $2 AND status IN ('reserved', 'issued')
		ORDER BY allocation_date DESC
		LIMIT 1`
	row := r.q.QueryRow(context.Background(), query, itemID, projectID)
	allocation, err := scanAllocation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active allocation: %w", err)
	}
	return allocation, nil
}

// Update actualiza cantidades y estado de una reserva.
func (r *StockAllocationRepo) Update(allocation *entity.StockAllocation) error {
	query := `
		UPDATE stock_allocations SET allocated_quantity = $2, consumed_quantity = $3,
			status = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		allocation.ID, allocation.AllocatedQuantity, allocation.ConsumedQuantity,
		allocation.Status, allocation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update allocation: %w", err)
	}
	return nil
}

// ListActive lista reservas vivas; projectID vacío = todas.
func (r *StockAllocationRepo) ListActive(projectID string) ([]*entity.StockAllocation, error) {
	query := `SELECT ` + stockAllocationColumns + `
		FROM stock_allocations WHERE status IN ('reserved', 'issued')`
	args := []any{}
	if projectID != "" {
		query += " AND project_id = $1"
		args = append(args, projectID)
	}
	query += " ORDER BY allocation_date DESC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list active allocations: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockAllocation
	for rows.Next() {
		allocation, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		list = append(list, allocation)
	}
	return list, rows.Err()
}

func scanAllocation(row pgx.Row) (*entity.StockAllocation, error) {
	var a entity.StockAllocation
	err := row.Scan(
		&a.ID, &a.StockItemID, &a.ProjectID,
		&a.AllocatedQuantity, &a.ConsumedQuantity,
		&a.Status, &a.AllocationDate,
		&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
