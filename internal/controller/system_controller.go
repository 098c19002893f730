package controller

import (
	"research-chat-be/internal/pkg/serverutils"
	"research-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISystemController interface {
	RegisterRoutes(r fiber.Router)
	GetConfig(ctx *fiber.Ctx) error
}

type systemController struct {
	systemService service.ISystemService
}

func NewSystemController(systemService service.ISystemService) ISystemController {
	return &systemController{
		systemService: systemService,
	}
}

func (c *systemController) RegisterRoutes(r fiber.Router) {
	r.Get("/config", c.GetConfig)
}

func (c *systemController) GetConfig(ctx *fiber.Ctx) error {
	res, err := c.systemService.GetConfig(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get config", res))
}
