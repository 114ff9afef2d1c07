package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/velocityfibre/fibreflow-stock/internal/application/dto"
	"github.com/velocityfibre/fibreflow-stock/internal/application/stock"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/entity"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/repository"
)

// StockHandler maneja las peticiones HTTP del catálogo de materiales (protegido).
type StockHandler struct {
	catalog *stock.CatalogUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(catalog *stock.CatalogUseCase) *StockHandler {
	return &StockHandler{catalog: catalog}
}

// Create godoc
// @Summary      Crear item de catálogo
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "name, category, unit_of_measure, current_stock inicial"
// @Success      201   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/items [post]
func (h *StockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.catalog.CreateItem(c.Context(), stock.CreateItemInput{
		ItemCode:          in.ItemCode,
		Name:              in.Name,
		Description:       in.Description,
		Category:          in.Category,
		Subcategory:       in.Subcategory,
		UnitOfMeasure:     in.UnitOfMeasure,
		CurrentStock:      in.CurrentStock,
		ReorderLevel:      in.ReorderLevel,
		MinimumStock:      in.MinimumStock,
		StandardCost:      in.StandardCost,
		WarehouseLocation: in.WarehouseLocation,
		ProjectID:         in.ProjectID,
	}, GetActor(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToStockItemResponse(item))
}

// List godoc
// @Summary      Listar catálogo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        category    query  string  false  "Filtrar por categoría"
// @Param        project_id  query  string  false  "Filtrar por proyecto"
// @Param        status      query  string  false  "Filtrar por estado"
// @Success      200  {array}   dto.StockItemResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stock/items [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	filter := repository.ItemFilter{
		Category:  entity.StockCategory(c.Query("category")),
		ProjectID: c.Query("project_id"),
		Status:    entity.StockItemStatus(c.Query("status")),
	}
	items, err := h.catalog.ListItems(c.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": dto.ToStockItemResponses(items),
		"page":  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// GetByID godoc
// @Summary      Obtener item por ID
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del item"
// @Success      200  {object}  dto.StockItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/items/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	item, err := h.catalog.GetItem(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.ToStockItemResponse(item))
}

// Update godoc
// @Summary      Editar definición de catálogo
// @Description  Los contadores de stock no son editables por esta vía; se mueven
//
//	únicamente registrando movimientos.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del item"
// @Param        body  body  dto.UpdateItemRequest  true  "campos a actualizar"
// @Success      200  {object}  dto.StockItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/items/{id} [put]
func (h *StockHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	var status *entity.StockItemStatus
	if in.Status != nil {
		s := entity.StockItemStatus(*in.Status)
		status = &s
	}
	item, err := h.catalog.UpdateItem(c.Context(), c.Params("id"), stock.UpdateItemInput{
		Name:              in.Name,
		Description:       in.Description,
		Subcategory:       in.Subcategory,
		ReorderLevel:      in.ReorderLevel,
		MinimumStock:      in.MinimumStock,
		StandardCost:      in.StandardCost,
		WarehouseLocation: in.WarehouseLocation,
		Status:            status,
	}, GetActor(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.ToStockItemResponse(item))
}

// Delete godoc
// @Summary      Eliminar item sin historia
// @Description  Solo se permite si ningún movimiento del ledger referencia el
//
//	item; con historia, el retiro es cambiar status a discontinued.
//
// @Tags         stock
// @Security     Bearer
// @Param        id  path  string  true  "ID del item"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/items/{id} [delete]
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	if err := h.catalog.DeleteItem(c.Context(), c.Params("id")); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LowStock godoc
// @Summary      Items bajo nivel de reorden
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.StockItemResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stock/items/low-stock [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.catalog.LowStock(c.Context())
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"total": len(items),
		"items": dto.ToStockItemResponses(items),
	})
}

// Import godoc
// @Summary      Import masivo de catálogo
// @Description  Crea items en lotes; las filas inválidas se reportan sin
//
//	detener el resto del archivo.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ImportItemsRequest  true  "filas a importar"
// @Success      200  {object}  dto.ImportReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/items/import [post]
func (h *StockHandler) Import(c *fiber.Ctx) error {
	var in dto.ImportItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rows := make([]stock.ItemImportRow, 0, len(in.Items))
	for _, item := range in.Items {
		rows = append(rows, stock.ItemImportRow{
			ItemCode:          item.ItemCode,
			Name:              item.Name,
			Description:       item.Description,
			Category:          item.Category,
			Subcategory:       item.Subcategory,
			UnitOfMeasure:     item.UnitOfMeasure,
			CurrentStock:      item.CurrentStock,
			ReorderLevel:      item.ReorderLevel,
			MinimumStock:      item.MinimumStock,
			StandardCost:      item.StandardCost,
			WarehouseLocation: item.WarehouseLocation,
			ProjectID:         item.ProjectID,
		})
	}
	report, err := h.catalog.ImportItems(c.Context(), rows, GetActor(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.ImportReportResponse{Created: report.Created, Errors: report.Errors})
}
