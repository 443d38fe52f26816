package http

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fabrica-api/internal/application/dto"
	"github.com/jhoicas/fabrica-api/internal/application/ledger"
	"github.com/jhoicas/fabrica-api/internal/application/reversal"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LedgerHandler ajustes, producción, historial y conciliación de inventario (protegido).
type LedgerHandler struct {
	ledger   *ledger.Ledger
	reversal *reversal.Engine
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(l *ledger.Ledger, rev *reversal.Engine) *LedgerHandler {
	return &LedgerHandler{ledger: l, reversal: rev}
}

// Adjust godoc
// @Summary      Registrar un ajuste de saldo
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "item_code, qty_delta, origin, ref"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/ledger/adjustments [post]
func (h *LedgerHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	origin := strings.ToUpper(strings.TrimSpace(in.Origin))
	if origin == "" {
		origin = entity.OriginManualAdjustment
	}
	mov, err := h.ledger.Adjust(c.UserContext(), ledger.AdjustInput{
		ItemCode: in.ItemCode,
		QtyDelta: in.QtyDelta,
		Origin:   origin,
		Ref:      in.Ref,
		Actor:    GetActor(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// Produce godoc
// @Summary      Registrar una producción
// @Description  Suma el producto y descuenta los componentes de su receta (explosión recursiva).
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProduceRequest  true  "item_code, quantity, ref"
// @Success      201   {object}  dto.ProductionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/ledger/production [post]
func (h *LedgerHandler) Produce(c *fiber.Ctx) error {
	var in dto.ProduceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rep, err := h.ledger.Produce(c.UserContext(), ledger.ProduceInput{
		ItemCode: in.ItemCode,
		Quantity: in.Quantity,
		Ref:      in.Ref,
		Actor:    GetActor(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	out := dto.ProductionResponse{
		ItemCode:   rep.ItemCode,
		Quantity:   rep.Quantity,
		Components: make([]dto.ComponentUsageResponse, 0, len(rep.Components)),
	}
	for _, u := range rep.Components {
		out.Components = append(out.Components, dto.ComponentUsageResponse{
			ItemCode:       u.ItemCode,
			Consumed:       u.Consumed,
			BalanceAfter:   u.BalanceAfter,
			Short:          u.Short,
			SubstituteCode: u.SubstituteCode,
			SubstituteQty:  u.SubstituteQty,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Movements godoc
// @Summary      Historial de movimientos de un ítem
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        code    path   string  true   "código del ítem"
// @Param        limit   query  int     false  "límite (default 20)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/ledger/items/{code}/movements [get]
func (h *LedgerHandler) Movements(c *fiber.Ctx) error {
	page := pageFrom(c)
	movs, err := h.ledger.Movements(c.UserContext(), c.Params("code"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}

// Audit godoc
// @Summary      Verificar saldo contra el libro de movimientos
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "código del ítem"
// @Success      200  {object}  dto.AuditResponse
// @Router       /api/ledger/items/{code}/audit [get]
func (h *LedgerHandler) Audit(c *fiber.Ctx) error {
	a, err := h.ledger.Audit(c.UserContext(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AuditResponse{
		ItemCode:   a.ItemCode,
		CachedQty:  a.CachedQty,
		LedgerQty:  a.LedgerQty,
		Consistent: a.Consistent,
	})
}

// Explode godoc
// @Summary      Explosión de receta (vista previa, no modifica inventario)
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        code  path   string  true   "código del producto"
// @Param        qty   query  string  false  "cantidad (default 1)"
// @Success      200  {object}  dto.BOMResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/bom/{code} [get]
func (h *LedgerHandler) Explode(c *fiber.Ctx) error {
	qty := decimal.NewFromInt(1)
	if raw := c.Query("qty"); raw != "" {
		q, err := decimal.NewFromString(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "qty inválido"})
		}
		qty = q
	}
	req, err := h.ledger.Explode(c.UserContext(), c.Params("code"), qty)
	if err != nil {
		return respondError(c, err)
	}
	out := dto.BOMResponse{
		ItemCode: entity.NormalizeCode(c.Params("code")),
		Quantity: qty,
		Lines:    make([]dto.BOMLine, 0, len(req)),
	}
	for code, q := range req {
		out.Lines = append(out.Lines, dto.BOMLine{ItemCode: code, Quantity: q})
	}
	sort.Slice(out.Lines, func(i, j int) bool { return out.Lines[i].ItemCode < out.Lines[j].ItemCode })
	return c.JSON(out)
}

// InitialStock godoc
// @Summary      Conciliación masiva de saldos (conteo de inventario)
// @Description  Cada ítem se ajusta a new_qty con un movimiento INVENTORY_COUNT. Idempotente.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkStockRequest  true  "items"
// @Success      200  {object}  dto.BulkStockReport
// @Router       /api/inventory/initial-stock [post]
func (h *LedgerHandler) InitialStock(c *fiber.Ctx) error {
	var in dto.BulkStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rep, err := h.reversal.BulkSetInitialStock(c.UserContext(), in.Items, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rep)
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:               m.ID,
		ItemCode:         m.ItemCode,
		ItemNameSnapshot: m.ItemNameSnapshot,
		Origin:           m.Origin,
		QtyDelta:         m.QtyDelta,
		Ref:              m.Ref,
		Actor:            m.Actor,
		CreatedAt:        m.CreatedAt,
	}
}
