package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/entity"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const stockMovementColumns = `id, item_id, item_code, item_name, movement_type, quantity, unit_of_measure,
		reference_type, reference_id, reference_number, from_location, to_location,
		from_project_id, from_project_name, to_project_id, to_project_name,
		unit_cost, total_cost, previous_stock, new_stock,
		performed_by, performed_by_name, reason, notes, movement_date, created_at`

// StockMovementRepo implementación del ledger sobre PostgreSQL (usable con
// pool o tx). Append-only: solo INSERT y lecturas, nunca UPDATE ni DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste una entrada del ledger.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + stockMovementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ItemID, movement.ItemCode, movement.ItemName,
		movement.MovementType, movement.Quantity, movement.UnitOfMeasure,
		movement.ReferenceType, movement.ReferenceID, movement.ReferenceNumber,
		movement.FromLocation, movement.ToLocation,
		movement.FromProjectID, movement.FromProjectName,
		movement.ToProjectID, movement.ToProjectName,
		movement.UnitCost, movement.TotalCost, movement.PreviousStock, movement.NewStock,
		movement.PerformedBy, movement.PerformedByName, movement.Reason, movement.Notes,
		movement.MovementDate, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene una entrada del ledger por ID. Devuelve nil si no existe.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + stockMovementColumns + ` FROM stock_movements WHERE id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	movement, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return movement, nil
}

// List lista el ledger con filtros opcionales, más recientes primero.
func (r *StockMovementRepo) List(filter repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + stockMovementColumns + ` FROM stock_movements WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.ItemID != "" {
		query += fmt.Sprintf(" AND item_id = $%d", pos)
		args = append(args, filter.ItemID)
		pos++
	}
	if filter.MovementType != "" {
		query += fmt.Sprintf(" AND movement_type = $%d", pos)
		args = append(args, filter.MovementType)
		pos++
	}
	if filter.ReferenceType != "" {
		query += fmt.Sprintf(" AND reference_type = $%d", pos)
		args = append(args, filter.ReferenceType)
		pos++
	}
	if filter.ReferenceID != "" {
		query += fmt.Sprintf(" AND reference_id = $%d", pos)
		args = append(args, filter.ReferenceID)
		pos++
	}
	if filter.ProjectID != "" {
		query += fmt.Sprintf(" AND (from_project_id = $%d OR to_project_id = $%d)", pos, pos)
		args = append(args, filter.ProjectID)
		pos++
	}
	if filter.PerformedBy != "" {
		query += fmt.Sprintf(" AND performed_by = $%d", pos)
		args = append(args, filter.PerformedBy)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND movement_date >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND movement_date <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY movement_date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, movement)
	}
	return list, rows.Err()
}

// CountByItem cuenta cuántas entradas del ledger referencian un item.
func (r *StockMovementRepo) CountByItem(itemID string) (int64, error) {
	var count int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM stock_movements WHERE item_id = $1`, itemID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count movements by item: %w", err)
	}
	return count, nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(
		&m.ID, &m.ItemID, &m.ItemCode, &m.ItemName,
		&m.MovementType, &m.Quantity, &m.UnitOfMeasure,
		&m.ReferenceType, &m.ReferenceID, &m.ReferenceNumber,
		&m.FromLocation, &m.ToLocation,
		&m.FromProjectID, &m.FromProjectName,
		&m.ToProjectID, &m.ToProjectName,
		&m.UnitCost, &m.TotalCost, &m.PreviousStock, &m.NewStock,
		&m.PerformedBy, &m.PerformedByName, &m.Reason, &m.Notes,
		&m.MovementDate, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
