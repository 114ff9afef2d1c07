package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/velocityfibre/fibreflow-stock/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Catalog    *stock.CatalogUseCase
	Commit     *stock.CommitMovementUseCase
	Bulk       *stock.BulkImportUseCase
	Summary    *stock.SummaryUseCase
	Allocation *stock.AllocationUseCase
	Transfer   *stock.TransferUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/stock", AuthMiddleware(deps.JWTSecret))

	// Catálogo
	items := protected.Group("/items")
	stockHandler := NewStockHandler(deps.Catalog)
	items.Post("/", stockHandler.Create)
	items.Get("/", stockHandler.List)
	items.Get("/low-stock", stockHandler.LowStock)
	items.Post("/import", stockHandler.Import)
	items.Get("/:id", stockHandler.GetByID)
	items.Put("/:id", stockHandler.Update)
	items.Delete("/:id", stockHandler.Delete)

	// Ledger de movimientos
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.Commit, deps.Bulk, deps.Summary)
	movements.Post("/", movementHandler.Register)
	movements.Post("/bulk", movementHandler.Bulk)
	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.GetByID)

	// Reservas y traslados
	allocations := protected.Group("/allocations")
	allocationHandler := NewAllocationHandler(deps.Allocation, deps.Transfer)
	allocations.Post("/", allocationHandler.Allocate)
	allocations.Get("/", allocationHandler.List)
	allocations.Post("/return", allocationHandler.Return)
	allocations.Post("/:id/consume", allocationHandler.Consume)
	protected.Post("/transfers", allocationHandler.Transfer)

	// Reportes
	reports := protected.Group("/reports")
	reports.Get("/summary", movementHandler.Summary)
	reports.Get("/summary/pdf", movementHandler.SummaryPDF)
}
