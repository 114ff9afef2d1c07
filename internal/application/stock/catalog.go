package stock

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/velocityfibre/fibreflow-stock/internal/domain"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/entity"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/repository"
)

// importBatchSize: los items de un import se crean en lotes de 500 documentos,
// mismo techo que los chunks de movimientos.
const importBatchSize = 500

// CatalogUseCase gestiona las definiciones canónicas del catálogo de
// materiales. Nunca toca los contadores de stock después del alta: eso es
// territorio exclusivo del coordinador transaccional.
type CatalogUseCase struct {
	items     repository.StockItemRepository
	movements repository.StockMovementRepository
	cache     LowStockCache // opcional, nil = sin caché
}

// NewCatalogUseCase construye el catálogo. cache puede ser nil.
func NewCatalogUseCase(
	items repository.StockItemRepository,
	movements repository.StockMovementRepository,
	cache LowStockCache,
) *CatalogUseCase {
	return &CatalogUseCase{items: items, movements: movements, cache: cache}
}

// CreateItemInput alta de item. Category y UnitOfMeasure llegan como texto
// libre (import o formulario) y se normalizan al enum.
type CreateItemInput struct {
	ItemCode          string // vacío = se genera
	Name              string
	Description       string
	Category          string
	Subcategory       string
	UnitOfMeasure     string
	CurrentStock      decimal.Decimal
	ReorderLevel      decimal.Decimal
	MinimumStock      decimal.Decimal
	StandardCost      decimal.Decimal
	WarehouseLocation string
	ProjectID         string
}

// UpdateItemInput campos editables del catálogo. Los contadores de stock NO
// son editables por esta vía.
type UpdateItemInput struct {
	Name              *string
	Description       *string
	Subcategory       *string
	ReorderLevel      *decimal.Decimal
	MinimumStock      *decimal.Decimal
	StandardCost      *decimal.Decimal
	WarehouseLocation *string
	Status            *entity.StockItemStatus
}

// CreateItem da de alta un item con CurrentStock sembrado y AllocatedStock=0.
func (uc *CatalogUseCase) CreateItem(_ context.Context, in CreateItemInput, actor Actor) (*entity.StockItem, error) {
	if in.Name == "" || in.CurrentStock.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	category := NormalizeCategory(in.Category)
	now := time.Now()

	itemCode := in.ItemCode
	if itemCode == "" {
		itemCode = GenerateItemCode(category)
	}
	reorderLevel := in.ReorderLevel
	if reorderLevel.IsZero() {
		reorderLevel = in.MinimumStock
	}

	item := &entity.StockItem{
		ID:                uuid.New().String(),
		ItemCode:          itemCode,
		Name:              in.Name,
		Description:       in.Description,
		Category:          category,
		Subcategory:       in.Subcategory,
		UnitOfMeasure:     NormalizeUnit(in.UnitOfMeasure),
		CurrentStock:      in.CurrentStock,
		AllocatedStock:    decimal.Zero,
		ReorderLevel:      reorderLevel,
		MinimumStock:      in.MinimumStock,
		StandardCost:      in.StandardCost,
		WarehouseLocation: in.WarehouseLocation,
		ProjectID:         in.ProjectID,
		Status:            entity.ItemStatusActive,
		CreatedAt:         now,
		CreatedBy:         actor.ID,
		UpdatedAt:         now,
		UpdatedBy:         actor.ID,
	}
	if err := uc.items.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem devuelve un item por ID.
func (uc *CatalogUseCase) GetItem(_ context.Context, id string) (*entity.StockItem, error) {
	item, err := uc.items.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// ListItems lista el catálogo con filtros opcionales.
func (uc *CatalogUseCase) ListItems(_ context.Context, filter repository.ItemFilter, limit, offset int) ([]*entity.StockItem, error) {
	return uc.items.List(filter, limit, offset)
}

// UpdateItem edita la definición de catálogo de un item.
func (uc *CatalogUseCase) UpdateItem(_ context.Context, id string, in UpdateItemInput, actor Actor) (*entity.StockItem, error) {
	item, err := uc.items.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Subcategory != nil {
		item.Subcategory = *in.Subcategory
	}
	if in.ReorderLevel != nil {
		item.ReorderLevel = *in.ReorderLevel
	}
	if in.MinimumStock != nil {
		item.MinimumStock = *in.MinimumStock
	}
	if in.StandardCost != nil {
		item.StandardCost = *in.StandardCost
	}
	if in.WarehouseLocation != nil {
		item.WarehouseLocation = *in.WarehouseLocation
	}
	if in.Status != nil {
		switch *in.Status {
		case entity.ItemStatusActive, entity.ItemStatusInactive, entity.ItemStatusDiscontinued:
			item.Status = *in.Status
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	item.UpdatedAt = time.Now()
	item.UpdatedBy = actor.ID
	if err := uc.items.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem elimina un item SOLO si ningún movimiento lo referencia; con
// historia en el ledger el retiro es status=discontinued, nunca hard delete.
func (uc *CatalogUseCase) DeleteItem(_ context.Context, id string) error {
	item, err := uc.items.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	count, err := uc.movements.CountByItem(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrConflict
	}
	return uc.items.Delete(id)
}

// LowStock devuelve los items activos con CurrentStock <= ReorderLevel,
// pasando por la caché read-through si está configurada.
func (uc *CatalogUseCase) LowStock(ctx context.Context) ([]*entity.StockItem, error) {
	if uc.cache != nil {
		if items, ok := uc.cache.Get(ctx); ok {
			return items, nil
		}
	}
	items, err := uc.items.ListLowStock()
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		uc.cache.Set(ctx, items)
	}
	return items, nil
}

// ItemImportRow es una fila ya parseada del pipeline de import Excel/CSV.
type ItemImportRow struct {
	ItemCode          string
	Name              string
	Description       string
	Category          string
	Subcategory       string
	UnitOfMeasure     string
	CurrentStock      decimal.Decimal
	ReorderLevel      decimal.Decimal
	MinimumStock      decimal.Decimal
	StandardCost      decimal.Decimal
	WarehouseLocation string
	ProjectID         string
}

// ImportReport resume un import de catálogo: filas creadas y errores por fila
// (numerados como en la hoja de origen, con cabecera en la fila 1).
type ImportReport struct {
	Created int
	Errors  []string
}

// ImportItems crea items en lotes de importBatchSize. Las filas inválidas se
// reportan y no detienen el resto del archivo.
func (uc *CatalogUseCase) ImportItems(_ context.Context, rows []ItemImportRow, actor Actor) (*ImportReport, error) {
	if len(rows) == 0 {
		return nil, domain.ErrInvalidInput
	}
	report := &ImportReport{}
	now := time.Now()

	batch := make([]*entity.StockItem, 0, importBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := uc.items.CreateBatch(batch); err != nil {
			return err
		}
		report.Created += len(batch)
		batch = batch[:0]
		return nil
	}

	for i, row := range rows {
		if row.Name == "" || row.ItemCode == "" {
			report.Errors = append(report.Errors, fmt.Sprintf("fila %d: itemCode y name son obligatorios", i+2))
			continue
		}
		if row.CurrentStock.IsNegative() {
			report.Errors = append(report.Errors, fmt.Sprintf("fila %d: stock inicial negativo", i+2))
			continue
		}
		reorderLevel := row.ReorderLevel
		if reorderLevel.IsZero() {
			reorderLevel = row.MinimumStock
		}
		batch = append(batch, &entity.StockItem{
			ID:                uuid.New().String(),
			ItemCode:          row.ItemCode,
			Name:              row.Name,
			Description:       row.Description,
			Category:          NormalizeCategory(row.Category),
			Subcategory:       row.Subcategory,
			UnitOfMeasure:     NormalizeUnit(row.UnitOfMeasure),
			CurrentStock:      row.CurrentStock,
			AllocatedStock:    decimal.Zero,
			ReorderLevel:      reorderLevel,
			MinimumStock:      row.MinimumStock,
			StandardCost:      row.StandardCost,
			WarehouseLocation: row.WarehouseLocation,
			ProjectID:         row.ProjectID,
			Status:            entity.ItemStatusActive,
			CreatedAt:         now,
			CreatedBy:         actor.ID,
			UpdatedAt:         now,
			UpdatedBy:         actor.ID,
		})
		if len(batch) == importBatchSize {
			if err := flush(); err != nil {
				return report, err
			}
		}
	}
	if err := flush(); err != nil {
		return report, err
	}
	return report, nil
}

// GenerateItemCode genera un código de negocio <prefijo-categoría><sufijo
// temporal>: 3 letras de la categoría + últimos 6 dígitos del reloj en
// milisegundos. Unicidad práctica para altas manuales; la real la garantiza
// el índice único de itemCode.
func GenerateItemCode(category entity.StockCategory) string {
	letters := make([]rune, 0, 3)
	for _, r := range strings.ToUpper(string(category)) {
		if r >= 'A' && r <= 'Z' {
			letters = append(letters, r)
		}
		if len(letters) == 3 {
			break
		}
	}
	prefix := string(letters)
	if prefix == "" {
		prefix = "OTH"
	}
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return prefix + "-" + ts[len(ts)-6:]
}
