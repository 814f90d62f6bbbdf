package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sucursales-api/internal/application/clearing"
	"github.com/jhoicas/sucursales-api/internal/application/dto"
	"github.com/jhoicas/sucursales-api/pkg/logger"
)

// ClearingHandler balance entre sucursales y liquidaciones (protegido).
type ClearingHandler struct {
	balance     *clearing.BalanceUseCase
	settlements *clearing.SettlementUseCase
	log         *logger.Logger
}

// NewClearingHandler construye el handler.
func NewClearingHandler(balance *clearing.BalanceUseCase, settlements *clearing.SettlementUseCase, log *logger.Logger) *ClearingHandler {
	return &ClearingHandler{balance: balance, settlements: settlements, log: log}
}

// GetBalance godoc
// @Summary      Balance de clearing de la sucursal
// @Description  Una fila por contraparte con deuda, cuenta por cobrar, pagos y saldo neto, más totales.
// @Tags         clearing
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (solo ADMIN/GERENTE)"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clearing/balance [get]
func (h *ClearingHandler) GetBalance(c *fiber.Ctx) error {
	out, err := h.balance.GetBalance(c.Context(), ActorFrom(c), RequestedBranch(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ExportBalance godoc
// @Summary      Exportar balance a Excel
// @Tags         clearing
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        branch_id  query  string  false  "Sucursal (solo ADMIN/GERENTE)"
// @Success      200  {file}    file
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/clearing/balance/export [get]
func (h *ClearingHandler) ExportBalance(c *fiber.Ctx) error {
	data, name, err := h.balance.ExportBalance(c.Context(), ActorFrom(c), RequestedBranch(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(data)
}

// CreateSettlement godoc
// @Summary      Registrar liquidación (nace PENDING)
// @Tags         clearing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSettlementRequest  true  "target_branch_id, amount, note"
// @Success      201   {object}  dto.SettlementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/clearing/settlements [post]
func (h *ClearingHandler) CreateSettlement(c *fiber.Ctx) error {
	var in dto.CreateSettlementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.settlements.Create(c.Context(), ActorFrom(c), RequestedBranch(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSettlements godoc
// @Summary      Listar liquidaciones
// @Tags         clearing
// @Security     Bearer
// @Produce      json
// @Param        mode       query  string  false  "outgoing (por defecto) | incoming"
// @Param        branch_id  query  string  false  "Sucursal (solo ADMIN/GERENTE)"
// @Success      200  {object}  dto.SettlementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/clearing/settlements [get]
func (h *ClearingHandler) ListSettlements(c *fiber.Ctx) error {
	out, err := h.settlements.List(c.Context(), ActorFrom(c), RequestedBranch(c), c.Query("mode"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetSettlement godoc
// @Summary      Obtener liquidación
// @Tags         clearing
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la liquidación"
// @Success      200  {object}  dto.SettlementResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clearing/settlements/{id} [get]
func (h *ClearingHandler) GetSettlement(c *fiber.Ctx) error {
	out, err := h.settlements.Get(c.Context(), ActorFrom(c), RequestedBranch(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateSettlement godoc
// @Summary      Confirmar o rechazar liquidación
// @Description  Solo la sucursal acreedora; solo desde PENDING.
// @Tags         clearing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la liquidación"
// @Param        body  body  dto.UpdateSettlementRequest  true  "status: CONFIRMED | REJECTED"
// @Success      200   {object}  dto.SettlementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/clearing/settlements/{id} [patch]
func (h *ClearingHandler) UpdateSettlement(c *fiber.Ctx) error {
	var in dto.UpdateSettlementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.settlements.Update(c.Context(), ActorFrom(c), RequestedBranch(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
