package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warenwelt-api/internal/application/dto"
	"github.com/jhoicas/warenwelt-api/internal/application/payout"
)

// PayoutHandler maneja las liquidaciones de comisiones (protegido).
type PayoutHandler struct {
	uc *payout.UseCase
}

// NewPayoutHandler construye el handler.
func NewPayoutHandler(uc *payout.UseCase) *PayoutHandler {
	return &PayoutHandler{uc: uc}
}

// Summary GET /api/payouts/suppliers/:id/summary
func (h *PayoutHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create liquida todas las comisiones pendientes del proveedor.
// POST /api/payouts
func (h *PayoutHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePayoutRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/payouts?supplier_id=&limit=&offset=
func (h *PayoutHandler) List(c *fiber.Ctx) error {
	var in dto.PayoutListRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	in.DefaultPage()
	out, err := h.uc.List(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPage(in.PageRequest, out))
}

// Get GET /api/payouts/:id
func (h *PayoutHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Statement descarga el comprobante PDF.
// GET /api/payouts/:id/statement.pdf
func (h *PayoutHandler) Statement(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.Statement(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
