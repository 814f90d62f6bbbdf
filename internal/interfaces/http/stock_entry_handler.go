package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sucursales-api/internal/application/dto"
	"github.com/jhoicas/sucursales-api/internal/application/inventory"
	"github.com/jhoicas/sucursales-api/pkg/logger"
)

// StockEntryHandler ingresos de mercadería de proveedores (protegido).
type StockEntryHandler struct {
	uc  *inventory.StockEntryUseCase
	log *logger.Logger
}

// NewStockEntryHandler construye el handler.
func NewStockEntryHandler(uc *inventory.StockEntryUseCase, log *logger.Logger) *StockEntryHandler {
	return &StockEntryHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Registrar ingreso de proveedor
// @Description  Suma stock por línea y, si update_price, reemplaza el precio base por el costo.
// @Tags         stock-entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockEntryRequest  true  "supplier_name, invoice_ref, items"
// @Success      201   {object}  dto.StockEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock-entries [post]
func (h *StockEntryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), ActorFrom(c), RequestedBranch(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ingresos de la sucursal
// @Tags         stock-entries
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (solo ADMIN/GERENTE)"
// @Param        limit      query  int     false  "Límite (máx 100)"
// @Param        offset     query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.StockEntryListResponse
// @Router       /api/stock-entries [get]
func (h *StockEntryHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(c.Context(), ActorFrom(c), RequestedBranch(c), page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
