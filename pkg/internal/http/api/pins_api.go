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

func pinDocuments(items []models.Pin) []aurakitm.Pin {
	return lo.Map(items, func(item models.Pin, _ int) aurakitm.Pin {
		return services.PinDocument(item)
	})
}

func listPin(c *fiber.Ctx) error {
	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)

	tx := database.C
	tx = services.FilterPinWithAuthor(tx, c.Query("author"))
	tx = services.FilterPinWithFuzzySearch(tx, c.Query("probe"))

	count, err := services.CountPin(tx)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	items, err := services.ListPin(tx, take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  pinDocuments(items),
	})
}

func listTrendingPin(c *fiber.Ctx) error {
	take := c.QueryInt("take", 10)
	if take <= 0 || take > 100 {
		take = 10
	}

	items, err := services.GetTrendingPins(take)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(pinDocuments(items))
}

func getPin(c *fiber.Ctx) error {
	item, err := services.GetPin(c.Params("pinId"))
	if err != nil {
		return exts.ServiceError(err)
	}
	return c.JSON(services.PinDocument(item))
}

func createPin(c *fiber.Ctx) error {
	actor, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}

	var data struct {
		Image       string `json:"image" validate:"required"`
		Title       string `json:"title" validate:"max=256"`
		Description string `json:"description" validate:"max=4096"`
		Tags        string `json:"tags"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.NewPin(actor, models.Pin{
		Image:       data.Image,
		Title:       data.Title,
		Description: data.Description,
		Tags:        services.SplitTags(data.Tags),
	})
	if err != nil {
		return exts.ServiceError(err)
	}
	return c.JSON(services.PinDocument(item))
}

func heartPin(c *fiber.Ctx) error {
	actor, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}

	active, err := services.ToggleHeart(actor, models.HeartTargetPin, c.Params("pinId"))
	if err != nil {
		return exts.ServiceError(err)
	}
	return c.JSON(aurakitm.ToggleResult{Active: active})
}
