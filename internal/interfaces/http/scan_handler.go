package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fabrica-api/internal/application/dto"
	"github.com/jhoicas/fabrica-api/internal/application/reversal"
	"github.com/jhoicas/fabrica-api/internal/application/scanning"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
)

// ScanHandler maneja escaneos de despacho (protegido).
type ScanHandler struct {
	resolver    *scanning.Resolver
	fulfillment *scanning.Fulfillment
	reversal    *reversal.Engine
}

// NewScanHandler construye el handler.
func NewScanHandler(resolver *scanning.Resolver, fulfillment *scanning.Fulfillment, rev *reversal.Engine) *ScanHandler {
	return &ScanHandler{resolver: resolver, fulfillment: fulfillment, reversal: rev}
}

// Resolve godoc
// @Summary      Resolver un código escaneado (sin efectos de inventario)
// @Tags         scans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScanRequest  true  "code, device"
// @Success      200   {object}  dto.ScanResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/scans/resolve [post]
func (h *ScanHandler) Resolve(c *fiber.Ctx) error {
	var in dto.ScanRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.resolver.Resolve(c.UserContext(), scanning.ResolveInput{
		Code:         in.Code,
		SessionActor: GetActor(c),
		Device:       in.Device,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// Handle godoc
// @Summary      Escanear y despachar
// @Description  Resuelve el código, marca las líneas como BIPADO y descuenta inventario.
//
//	mode = STOCK (por defecto) o PRODUCTION.
//
// @Tags         scans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScanRequest  true  "code, device, mode"
// @Success      200   {object}  dto.ScanResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/scans [post]
func (h *ScanHandler) Handle(c *fiber.Ctx) error {
	var in dto.ScanRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	mode := strings.ToUpper(strings.TrimSpace(in.Mode))
	if mode == "" {
		mode = scanning.ModeStock
	}
	res, err := h.fulfillment.HandleScan(c.UserContext(), scanning.HandleScanInput{
		ResolveInput: scanning.ResolveInput{
			Code:         in.Code,
			SessionActor: GetActor(c),
			Device:       in.Device,
		},
		Mode: mode,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// List godoc
// @Summary      Registro de escaneos
// @Tags         scans
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "límite (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.ScanLogListResponse
// @Router       /api/scans [get]
func (h *ScanHandler) List(c *fiber.Ctx) error {
	page := pageFrom(c)
	logs, err := h.resolver.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := dto.ScanLogListResponse{
		Items: make([]dto.ScanLogResponse, 0, len(logs)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, l := range logs {
		out.Items = append(out.Items, toScanLogResponse(l))
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar un escaneo
// @Description  Revierte pedidos e inventario de un escaneo OK y borra la entrada. Repetir no tiene efecto.
// @Tags         scans
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del escaneo"
// @Success      200  {object}  dto.CancelScanResponse
// @Router       /api/scans/{id} [delete]
func (h *ScanHandler) Cancel(c *fiber.Ctx) error {
	res, err := h.reversal.CancelScan(c.UserContext(), c.Params("id"), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// Adjust godoc
// @Summary      Ajustar un escaneo NOT_FOUND a un pedido
// @Tags         scans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del escaneo"
// @Param        body  body  dto.AdjustScanRequest  true  "order_id"
// @Success      200  {object}  dto.ScanLogResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/scans/{id}/adjust [post]
func (h *ScanHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustScanRequest
	if err := c.BodyParser(&in); err != nil || strings.TrimSpace(in.OrderID) == "" {
		return badBody(c)
	}
	entry, err := h.resolver.MarkAdjusted(c.UserContext(), c.Params("id"), in.OrderID, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toScanLogResponse(entry))
}

func toScanLogResponse(l *entity.ScanLog) dto.ScanLogResponse {
	return dto.ScanLogResponse{
		ID:         l.ID,
		DisplayKey: l.DisplayKey,
		InputCode:  l.InputCode,
		Status:     l.Status,
		Operator:   l.Operator,
		Device:     l.Device,
		Channel:    l.Channel,
		OrderID:    l.OrderID,
		Tracking:   l.Tracking,
		Message:    l.Message,
		CreatedAt:  l.CreatedAt,
	}
}
