package controller

import (
	"research-chat-be/internal/dto"
	"research-chat-be/internal/pkg/serverutils"
	"research-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISourceController interface {
	RegisterRoutes(r fiber.Router)
	Reembed(ctx *fiber.Ctx) error
}

type sourceController struct {
	reembedService service.IReembedService
}

func NewSourceController(reembedService service.IReembedService) ISourceController {
	return &sourceController{
		reembedService: reembedService,
	}
}

func (c *sourceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/source")
	h.Post("/:id/reembed", c.Reembed)
}

// Reembed queues a rebuild of the source's embedding chunks. The work runs
// on the event bus; the endpoint only confirms the request was queued.
func (c *sourceController) Reembed(ctx *fiber.Ctx) error {
	sourceId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid source id")
	}

	if err := c.reembedService.RequestReembed(ctx.Context(), sourceId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Reembed queued", dto.ReembedResponse{Queued: true}))
}
