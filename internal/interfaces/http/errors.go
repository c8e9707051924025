package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warenwelt-api/internal/application/dto"
	"github.com/jhoicas/warenwelt-api/internal/application/ports"
	"github.com/jhoicas/warenwelt-api/internal/domain"
	"github.com/jhoicas/warenwelt-api/internal/domain/rental"
)

// respondError traduce errores de dominio a HTTP. El mensaje conserva el contexto añadido por
// el caso de uso (qué campo, qué estado).
func respondError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrConflict), errors.Is(err, ports.ErrLockNotObtained):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrPrecondition):
		status, code = fiber.StatusUnprocessableEntity, "PRECONDITION_FAILED"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// queryDate lee un parámetro YYYY-MM-DD obligatorio.
func queryDate(c *fiber.Ctx, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, errors.New(name + " requerido (YYYY-MM-DD)")
	}
	d, err := rental.ParseDate(raw)
	if err != nil {
		return time.Time{}, errors.New(name + " inválido, formato YYYY-MM-DD")
	}
	return d, nil
}

// queryInt lee un entero obligatorio.
func queryInt(c *fiber.Ctx, name string) (int, error) {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0, errors.New(name + " debe ser un entero")
	}
	return n, nil
}

// dateRange lee start_date y end_date; el orden lo valida el caso de uso.
func dateRange(c *fiber.Ctx) (start, end time.Time, err error) {
	if start, err = queryDate(c, "start_date"); err != nil {
		return
	}
	end, err = queryDate(c, "end_date")
	return
}
