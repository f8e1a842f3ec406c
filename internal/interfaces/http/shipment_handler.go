package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/application/shipping"
)

// ShipmentHandler maneja expediciones y sus líneas (protegido).
type ShipmentHandler struct {
	uc *shipping.ShipmentUseCase
}

// NewShipmentHandler construye el handler.
func NewShipmentHandler(uc *shipping.ShipmentUseCase) *ShipmentHandler {
	return &ShipmentHandler{uc: uc}
}

// Create godoc
// @Summary      Crear expedición
// @Tags         shipments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateShipmentRequest  true  "Datos de la expedición"
// @Success      201   {object}  dto.ShipmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shipments [post]
func (h *ShipmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateShipmentRequest
	if err := bindBody(c, &in); err != nil {
		return nil
	}
	out, err := h.uc.Create(c.UserContext(), ActorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar expediciones
// @Tags         shipments
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ShipmentResponse
// @Router       /api/shipments [get]
func (h *ShipmentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener expedición con sus líneas
// @Tags         shipments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la expedición"
// @Success      200  {object}  dto.ShipmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shipments/{id} [get]
func (h *ShipmentHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Expediciones por estado
// @Tags         shipments
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ShipmentStatsResponse
// @Router       /api/shipments/stats [get]
func (h *ShipmentHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddItem godoc
// @Summary      Agregar línea
// @Description  Verifica que el saldo actual cubra la línea, sin reservar.
// @Tags         shipments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la expedición"
// @Param        body  body  dto.AddShipmentItemRequest  true  "product_id, quantity"
// @Success      201   {object}  dto.ShipmentItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  InsufficientStockResponse
// @Router       /api/shipments/{id}/items [post]
func (h *ShipmentHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddShipmentItemRequest
	if err := bindBody(c, &in); err != nil {
		return nil
	}
	out, err := h.uc.AddItem(c.UserContext(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RemoveItem godoc
// @Summary      Quitar línea
// @Tags         shipments
// @Security     Bearer
// @Param        itemID  path  string  true  "ID de la línea"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/shipments/items/{itemID} [delete]
func (h *ShipmentHandler) RemoveItem(c *fiber.Ctx) error {
	if err := h.uc.RemoveItem(c.UserContext(), ActorFrom(c), c.Params("itemID")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateStatus godoc
// @Summary      Cambiar estado
// @Description  Pasar a shipped descuenta el stock agregado de todas las líneas (todo o nada, una sola vez).
// @Tags         shipments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la expedición"
// @Param        body  body  dto.UpdateShipmentStatusRequest  true  "status"
// @Success      200   {object}  dto.ShipmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  InsufficientStockResponse
// @Router       /api/shipments/{id}/status [patch]
func (h *ShipmentHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateShipmentStatusRequest
	if err := bindBody(c, &in); err != nil {
		return nil
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), ActorFrom(c), c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar expedición
// @Description  Si ya fue despachada devuelve el stock descontado.
// @Tags         shipments
// @Security     Bearer
// @Param        id   path  string  true  "ID de la expedición"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shipments/{id} [delete]
func (h *ShipmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), ActorFrom(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
