package api

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/wisewolf/educore-backend/internal/closing"
	"github.com/wisewolf/educore-backend/internal/db"
	"github.com/wisewolf/educore-backend/internal/observability"
	"github.com/wisewolf/educore-backend/internal/whatsapp"
)

// errorHandler maps domain errors to statuses. Unknown errors are logged,
// captured and returned as opaque 500s.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	var ve validator.ValidationErrors
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ve.Error()})
	case errors.Is(err, db.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "não encontrado"})
	case errors.Is(err, closing.ErrBadTransition),
		errors.Is(err, closing.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, closing.ErrReasonRequired),
		errors.Is(err, closing.ErrNoteRequired),
		errors.Is(err, closing.ErrNotPDF),
		errors.Is(err, closing.ErrInvoiceTooLarge),
		errors.Is(err, closing.ErrNoHourlyRate):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, closing.ErrInvoiceRequired),
		errors.Is(err, closing.ErrInvoiceNotAllowed):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, whatsapp.ErrNotConfigured):
		return c.Status(fiber.StatusPreconditionFailed).JSON(fiber.Map{"error": err.Error()})
	case db.IsUniqueViolation(err):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "registro duplicado"})
	}

	s.Log.Errorw("unhandled error", "path", c.Path(), "err", err)
	observability.CaptureErr(err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "erro interno"})
}
