package serverutils

import (
	"errors"

	"research-chat-be/pkg/assembly"
	"research-chat-be/pkg/citation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ErrorHandlerMiddleware converts the error taxonomy into HTTP statuses.
// Assembly failures come back as 422 so the client knows the message was not
// sent and can offer a retry with the text intact.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
		}

		switch {
		case errors.Is(err, assembly.ErrAssemblyFailed):
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "Context could not be prepared. The message was not sent.",
			})
		case errors.Is(err, assembly.ErrStaleSuperseded):
			// A superseded assembly is discarded internally; reaching here
			// means the caller should simply retry.
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Context changed while processing, please retry.",
			})
		case errors.Is(err, citation.ErrEntityNotFound), errors.Is(err, gorm.ErrRecordNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Not found"})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
}
