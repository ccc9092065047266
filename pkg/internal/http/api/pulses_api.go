package api

import (
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/database"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
)

func listPulse(c *fiber.Ctx) error {
	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)

	tx := database.C
	if author := c.Query("author"); len(author) > 0 {
		tx = tx.Where("account_id = ?", author)
	}

	items, err := services.ListPulse(tx, take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(lo.Map(items, func(item models.Pulse, _ int) aurakitm.Pulse {
		return services.PulseDocument(item)
	}))
}

func createPulse(c *fiber.Ctx) error {
	actor, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}

	var data struct {
		Content string `json:"content" validate:"required,max=4096"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.NewPulse(actor, data.Content)
	if err != nil {
		return exts.ServiceError(err)
	}
	return c.JSON(services.PulseDocument(item))
}

func heartPulse(c *fiber.Ctx) error {
	actor, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}

	active, err := services.ToggleHeart(actor, models.HeartTargetPulse, c.Params("pulseId"))
	if err != nil {
		return exts.ServiceError(err)
	}
	return c.JSON(aurakitm.ToggleResult{Active: active})
}
