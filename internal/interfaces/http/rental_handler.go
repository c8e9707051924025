package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warenwelt-api/internal/application/dto"
	"github.com/jhoicas/warenwelt-api/internal/application/rental"
	domainrental "github.com/jhoicas/warenwelt-api/internal/domain/rental"
)

// RentalHandler maneja facturas y contratos de alquiler de estantes (protegido).
type RentalHandler struct {
	generate  *rental.GenerateInvoicesUseCase
	invoices  *rental.InvoiceUseCase
	contracts *rental.ContractUseCase
}

// NewRentalHandler construye el handler.
func NewRentalHandler(generate *rental.GenerateInvoicesUseCase, invoices *rental.InvoiceUseCase, contracts *rental.ContractUseCase) *RentalHandler {
	return &RentalHandler{generate: generate, invoices: invoices, contracts: contracts}
}

// Generate lanza la facturación mensual.
// POST /api/rental-invoices/generate?target_date=YYYY-MM-DD
func (h *RentalHandler) Generate(c *fiber.Ctx) error {
	var target *time.Time
	if raw := c.Query("target_date"); raw != "" {
		d, err := domainrental.ParseDate(raw)
		if err != nil {
			return badRequest(c, "VALIDATION", "target_date inválido, formato YYYY-MM-DD")
		}
		target = &d
	}
	out, err := h.generate.GenerateMonthly(c.Context(), target)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateInvoice alta manual de una factura.
// POST /api/rental-invoices
func (h *RentalHandler) CreateInvoice(c *fiber.Ctx) error {
	var in dto.CreateRentalInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.invoices.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListInvoices lista facturas con filtros.
// GET /api/rental-invoices
func (h *RentalHandler) ListInvoices(c *fiber.Ctx) error {
	var in dto.RentalInvoiceListRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	in.DefaultPage()
	out, err := h.invoices.List(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPage(in.PageRequest, out))
}

// GetInvoice GET /api/rental-invoices/:id
func (h *RentalHandler) GetInvoice(c *fiber.Ctx) error {
	out, err := h.invoices.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateInvoice cambia estado, importe pagado o notas.
// PATCH /api/rental-invoices/:id
func (h *RentalHandler) UpdateInvoice(c *fiber.Ctx) error {
	var in dto.UpdateRentalInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.invoices.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteInvoice DELETE /api/rental-invoices/:id
func (h *RentalHandler) DeleteInvoice(c *fiber.Ctx) error {
	if err := h.invoices.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateContract POST /api/rental-contracts
func (h *RentalHandler) CreateContract(c *fiber.Ctx) error {
	var in dto.CreateRentalContractRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.contracts.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateContractStatus PATCH /api/rental-contracts/:id/status
func (h *RentalHandler) UpdateContractStatus(c *fiber.Ctx) error {
	var in dto.UpdateContractStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.contracts.UpdateStatus(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteShelf DELETE /api/shelves/:id
func (h *RentalHandler) DeleteShelf(c *fiber.Ctx) error {
	if err := h.contracts.DeleteShelf(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
