package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/velocityfibre/fibreflow-stock/internal/application/dto"
	"github.com/velocityfibre/fibreflow-stock/internal/application/stock"
	"github.com/velocityfibre/fibreflow-stock/internal/domain"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/entity"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/repository"
)

// MovementHandler maneja las peticiones HTTP del ledger de movimientos (protegido).
type MovementHandler struct {
	commit  *stock.CommitMovementUseCase
	bulk    *stock.BulkImportUseCase
	summary *stock.SummaryUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(
	commit *stock.CommitMovementUseCase,
	bulk *stock.BulkImportUseCase,
	summary *stock.SummaryUseCase,
) *MovementHandler {
	return &MovementHandler{commit: commit, bulk: bulk, summary: summary}
}

// Register godoc
// @Summary      Registrar movimiento de stock
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "item_id, movement_type, quantity"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movementID, err := h.commit.Commit(c.Context(), toMovementInput(in), GetActor(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"movement_id": movementID})
}

// Bulk godoc
// @Summary      Import masivo de movimientos
// @Description  Valida el lote completo, proyecta el delta neto por item y
//
//	aplica los movimientos admitidos en chunks atómicos secuenciales.
//	Un fallo a mitad devuelve 207 con los chunks ya confirmados.
//
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkMovementsRequest  true  "movimientos del lote"
// @Success      200  {object}  dto.BulkResultResponse
// @Success      207  {object}  dto.BulkResultResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements/bulk [post]
func (h *MovementHandler) Bulk(c *fiber.Ctx) error {
	var in dto.BulkMovementsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	inputs := make([]stock.MovementInput, 0, len(in.Movements))
	for _, m := range in.Movements {
		inputs = append(inputs, toMovementInput(m))
	}
	result, err := h.bulk.CommitBulk(c.Context(), inputs, GetActor(c))

	var partial *domain.PartialBatchError
	if errors.As(err, &partial) {
		// Fallo parcial: los chunks previos quedaron aplicados.
		failed := partial.FailedChunk
		return c.Status(fiber.StatusMultiStatus).JSON(dto.BulkResultResponse{
			Committed:   toChunkDTOs(partial.Committed),
			FailedChunk: &failed,
			Error:       partial.Err.Error(),
		})
	}
	if err != nil {
		return mapDomainError(c, err)
	}

	rejected := make(map[string]string, len(result.RejectedItems))
	for itemID, cause := range result.RejectedItems {
		rejected[itemID] = cause.Error()
	}
	return c.JSON(dto.BulkResultResponse{
		Committed:     toChunkDTOs(result.Committed),
		RejectedItems: rejected,
		Applied:       result.Applied,
	})
}

// List godoc
// @Summary      Consultar el ledger
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        item_id       query  string  false  "Filtrar por item"
// @Param        movement_type query  string  false  "Filtrar por tipo"
// @Param        project_id    query  string  false  "Filtrar por proyecto (origen o destino)"
// @Param        from          query  string  false  "Desde (RFC3339)"
// @Param        to            query  string  false  "Hasta (RFC3339)"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	filter, err := movementFilterFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filtro de fechas inválido (RFC3339)"})
	}
	movements, err := h.summary.List(c.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"movements": dto.ToMovementResponses(movements),
		"page":      dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// GetByID godoc
// @Summary      Obtener entrada del ledger por ID
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	movement, err := h.summary.GetMovement(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	if movement == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "movimiento no encontrado"})
	}
	return c.JSON(dto.ToMovementResponse(movement))
}

// Summary godoc
// @Summary      Resumen agregado del ledger
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/reports/summary [get]
func (h *MovementHandler) Summary(c *fiber.Ctx) error {
	filter, err := movementFilterFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filtro de fechas inválido (RFC3339)"})
	}
	summary, err := h.summary.Summarize(c.Context(), filter)
	if err != nil {
		return mapDomainError(c, err)
	}
	out := dto.SummaryResponse{
		TotalIn:     summary.TotalIn,
		TotalOut:    summary.TotalOut,
		NetMovement: summary.NetMovement,
		TotalValue:  summary.TotalValue,
		ByType:      make(map[string]decimal.Decimal, len(summary.ByType)),
		Count:       summary.Count,
	}
	for t, qty := range summary.ByType {
		out.ByType[string(t)] = qty
	}
	return c.JSON(out)
}

// SummaryPDF godoc
// @Summary      Exportar el resumen como PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/reports/summary/pdf [get]
func (h *MovementHandler) SummaryPDF(c *fiber.Ctx) error {
	filter, err := movementFilterFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filtro de fechas inválido (RFC3339)"})
	}
	pdfBytes, err := h.summary.ExportPDF(c.Context(), filter)
	if err != nil {
		return mapDomainError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="stock-movements.pdf"`)
	return c.Send(pdfBytes)
}

func toMovementInput(in dto.RegisterMovementRequest) stock.MovementInput {
	return stock.MovementInput{
		ItemID:          in.ItemID,
		MovementType:    entity.MovementType(in.MovementType),
		Quantity:        in.Quantity,
		ReferenceType:   entity.ReferenceType(in.ReferenceType),
		ReferenceID:     in.ReferenceID,
		ReferenceNumber: in.ReferenceNumber,
		FromLocation:    in.FromLocation,
		ToLocation:      in.ToLocation,
		FromProjectID:   in.FromProjectID,
		ToProjectID:     in.ToProjectID,
		UnitCost:        in.UnitCost,
		Reason:          in.Reason,
		Notes:           in.Notes,
		MovementDate:    in.MovementDate,
	}
}

func toChunkDTOs(chunks []domain.ChunkResult) []dto.ChunkResultDTO {
	out := make([]dto.ChunkResultDTO, 0, len(chunks))
	for _, chunk := range chunks {
		out = append(out, dto.ChunkResultDTO{Index: chunk.Index, MovementIDs: chunk.MovementIDs})
	}
	return out
}

func movementFilterFromQuery(c *fiber.Ctx) (repository.MovementFilter, error) {
	filter := repository.MovementFilter{
		ItemID:        c.Query("item_id"),
		MovementType:  entity.MovementType(c.Query("movement_type")),
		ReferenceType: entity.ReferenceType(c.Query("reference_type")),
		ReferenceID:   c.Query("reference_id"),
		ProjectID:     c.Query("project_id"),
		PerformedBy:   c.Query("performed_by"),
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, err
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, err
		}
		filter.To = &t
	}
	return filter, nil
}
