package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sucursales-api/internal/application/clearing"
	"github.com/jhoicas/sucursales-api/internal/application/inventory"
	"github.com/jhoicas/sucursales-api/internal/application/transfer"
	"github.com/jhoicas/sucursales-api/internal/domain/access"
	"github.com/jhoicas/sucursales-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BalanceUC    *clearing.BalanceUseCase
	SettlementUC *clearing.SettlementUseCase
	TransferUC   *transfer.UseCase
	StockEntryUC *inventory.StockEntryUseCase
	Modules      access.ModuleChecker
	JWTSecret    string
	Log          *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token con un rol reconocido)
	protected := api.Group("/",
		AuthMiddleware(deps.JWTSecret),
		RequireRole(access.RoleAdmin, access.RoleGerente, access.RoleSupervisor, access.RoleCajero),
	)

	// Clearing: balance y liquidaciones
	clearingGroup := protected.Group("/clearing", RequireModule(access.ModuleClearing, deps.Modules))
	clearingHandler := NewClearingHandler(deps.BalanceUC, deps.SettlementUC, deps.Log)
	clearingGroup.Get("/balance", clearingHandler.GetBalance)
	clearingGroup.Get("/balance/export", clearingHandler.ExportBalance)
	clearingGroup.Post("/settlements", clearingHandler.CreateSettlement)
	clearingGroup.Get("/settlements", clearingHandler.ListSettlements)
	clearingGroup.Get("/settlements/:id", clearingHandler.GetSettlement)
	clearingGroup.Patch("/settlements/:id", clearingHandler.UpdateSettlement)

	// Traslados entre sucursales
	transfers := protected.Group("/transfers", RequireModule(access.ModuleTransfers, deps.Modules))
	transferHandler := NewTransferHandler(deps.TransferUC, deps.Log)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.Get)
	transfers.Get("/:id/pdf", transferHandler.VoucherPDF)
	transfers.Post("/:id/emit", transferHandler.Emit)
	transfers.Post("/:id/receive", transferHandler.Receive)
	transfers.Post("/:id/cancel", transferHandler.Cancel)
	transfers.Post("/:id/items/:itemId/photo", transferHandler.UploadPhoto)

	// Ingresos de proveedor
	entries := protected.Group("/stock-entries", RequireModule(access.ModuleStockEntries, deps.Modules))
	entryHandler := NewStockEntryHandler(deps.StockEntryUC, deps.Log)
	entries.Post("/", entryHandler.Create)
	entries.Get("/", entryHandler.List)
}
