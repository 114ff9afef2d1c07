package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/velocityfibre/fibreflow-stock/internal/application/dto"
	"github.com/velocityfibre/fibreflow-stock/internal/application/stock"
)

// AllocationHandler maneja reservas y traslados de material (protegido).
type AllocationHandler struct {
	allocation *stock.AllocationUseCase
	transfer   *stock.TransferUseCase
}

// NewAllocationHandler construye el handler.
func NewAllocationHandler(allocation *stock.AllocationUseCase, transfer *stock.TransferUseCase) *AllocationHandler {
	return &AllocationHandler{allocation: allocation, transfer: transfer}
}

// Allocate godoc
// @Summary      Reservar stock contra un proyecto
// @Tags         allocations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocateRequest  true  "item_id, quantity, project_id"
// @Success      201  {object}  dto.AllocateResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/allocations [post]
func (h *AllocationHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movementID, allocationID, err := h.allocation.Allocate(c.Context(), in.ItemID, in.Quantity, in.ProjectID, in.Notes, GetActor(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AllocateResponse{
		MovementID:   movementID,
		AllocationID: allocationID,
	})
}

// Return godoc
// @Summary      Devolver material de un proyecto al stock
// @Tags         allocations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReturnRequest  true  "item_id, quantity, project_id"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/allocations/return [post]
func (h *AllocationHandler) Return(c *fiber.Ctx) error {
	var in dto.ReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movementID, err := h.allocation.ReturnFromProject(c.Context(), in.ItemID, in.Quantity, in.ProjectID, "", in.Notes, GetActor(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"movement_id": movementID})
}

// Consume godoc
// @Summary      Marcar consumo de una reserva en obra
// @Description  Contabilidad sobre la reserva: no genera movimiento de ledger
//
//	ni toca los contadores del item.
//
// @Tags         allocations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la reserva"
// @Param        body  body  dto.ConsumeRequest  true  "quantity"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/allocations/{id}/consume [post]
func (h *AllocationHandler) Consume(c *fiber.Ctx) error {
	var in dto.ConsumeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.allocation.Consume(c.Context(), c.Params("id"), in.Quantity, GetActor(c)); err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "consumo registrado"})
}

// List godoc
// @Summary      Listar reservas vivas
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Param        project_id  query  string  false  "Filtrar por proyecto"
// @Success      200  {array}   dto.AllocationResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stock/allocations [get]
func (h *AllocationHandler) List(c *fiber.Ctx) error {
	allocations, err := h.allocation.ListAllocations(c.Context(), c.Query("project_id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":       len(allocations),
		"allocations": dto.ToAllocationResponses(allocations),
	})
}

// Transfer godoc
// @Summary      Trasladar material entre ubicaciones/proyectos
// @Description  Registra TRANSFER_OUT y TRANSFER_IN en una sola transacción;
//
//	ambas patas comparten reference_id para seguir siendo emparejables.
//
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "item_id, quantity, from_location, to_location"
// @Success      201  {object}  dto.TransferResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/transfers [post]
func (h *AllocationHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.transfer.Transfer(c.Context(), stock.TransferInput{
		ItemID:        in.ItemID,
		Quantity:      in.Quantity,
		FromLocation:  in.FromLocation,
		ToLocation:    in.ToLocation,
		FromProjectID: in.FromProjectID,
		ToProjectID:   in.ToProjectID,
		Notes:         in.Notes,
	}, GetActor(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		TransferID:    result.TransferID,
		OutMovementID: result.OutMovementID,
		InMovementID:  result.InMovementID,
	})
}
