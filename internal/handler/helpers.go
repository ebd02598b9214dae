package handler

import (
	"errors"

	"go-bizkeeper/internal/launcher"
	"go-bizkeeper/internal/receipt"
	"go-bizkeeper/internal/service"
	"go-bizkeeper/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// getUserEmail reads the signed-in email set by RequireAuth.
func getUserEmail(c *fiber.Ctx) string {
	userEmail := c.Locals("user_email")
	if userEmail == nil {
		return ""
	}
	return userEmail.(string)
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(param))
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, store.ErrInvalidTransition),
		errors.Is(err, store.ErrEmailExists),
		errors.Is(err, service.ErrOutOfStock):
		return fiber.StatusConflict
	case errors.Is(err, store.ErrInvalidCredentials),
		errors.Is(err, store.ErrNotAuthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, receipt.ErrPrint),
		errors.Is(err, receipt.ErrShare),
		errors.Is(err, launcher.ErrLaunch):
		return fiber.StatusBadGateway
	case errors.Is(err, store.ErrValidation),
		errors.Is(err, store.ErrNegativeStock),
		errors.Is(err, store.ErrInvalidStatus),
		errors.Is(err, store.ErrTotalMismatch),
		errors.Is(err, store.ErrMissingContact),
		errors.Is(err, store.ErrPasswordMismatch),
		errors.Is(err, store.ErrInvalidTheme),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, receipt.ErrEmptyReceipt),
		errors.Is(err, launcher.ErrInvalidPhone):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError maps err to a status code. Unknown errors are logged and
// hidden from the client.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(status).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
