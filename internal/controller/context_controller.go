package controller

import (
	"research-chat-be/internal/dto"
	"research-chat-be/internal/pkg/serverutils"
	"research-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IContextController interface {
	RegisterRoutes(r fiber.Router)
	SetMode(ctx *fiber.Ctx) error
	GetState(ctx *fiber.Ctx) error
	GetItems(ctx *fiber.Ctx) error
	ResolveReference(ctx *fiber.Ctx) error
}

type contextController struct {
	contextService service.IContextService
}

func NewContextController(contextService service.IContextService) IContextController {
	return &contextController{
		contextService: contextService,
	}
}

func (c *contextController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/context")
	h.Put("/config", c.SetMode)
	h.Get("/config/:sessionId", c.GetState)
	h.Get("/items/:sessionId", c.GetItems)

	// Reference clicks resolve outside the /context group so the path reads
	// like the anchors themselves: /api/reference/source/<id>
	r.Get("/reference/:kind/:id", c.ResolveReference)
}

func (c *contextController) SetMode(ctx *fiber.Ctx) error {
	var req dto.SetContextModeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.contextService.SetMode(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set context mode", res))
}

func (c *contextController) GetState(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("sessionId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	res, err := c.contextService.GetState(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get context state", res))
}

func (c *contextController) GetItems(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("sessionId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	res, err := c.contextService.GetItems(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get context items", res))
}

func (c *contextController) ResolveReference(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Query("session_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing or invalid session_id")
	}

	res, err := c.contextService.ResolveReference(ctx.Context(), sessionId, ctx.Params("kind"), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success resolve reference", res))
}
