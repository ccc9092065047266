package api

import (
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
)

func listMessage(c *fiber.Ctx) error {
	actor, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}
	key := c.Params("conversationKey")
	if err := services.EnsureParticipant(actor, key); err != nil {
		return exts.ServiceError(err)
	}

	items, err := services.ListConversationWindow(key, services.ConversationWindow)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(lo.Map(items, func(item models.Message, _ int) aurakitm.Message {
		return services.MessageDocument(item)
	}))
}

func sendMessage(c *fiber.Ctx) error {
	actor, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}

	var data struct {
		Text string `json:"text" validate:"required,max=4096"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	message, err := services.SendMessage(actor, c.Params("conversationKey"), data.Text)
	if err != nil {
		return exts.ServiceError(err)
	}
	return c.JSON(services.MessageDocument(message))
}
