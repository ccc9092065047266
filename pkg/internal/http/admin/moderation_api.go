package admin

import (
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
)

func listReports(c *fiber.Ctx) error {
	actor, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}

	reports, err := services.ListReports(actor)
	if err != nil {
		return exts.ServiceError(err)
	}
	return c.JSON(lo.Map(reports, func(item models.Report, _ int) aurakitm.Report {
		return services.ReportDocument(item)
	}))
}

func toggleBadge(c *fiber.Ctx) error {
	actor, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}

	var data struct {
		Badge string `json:"badge" validate:"required,max=32"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	active, err := services.ToggleBadge(actor, c.Params("profileId"), data.Badge)
	if err != nil {
		return exts.ServiceError(err)
	}
	return c.JSON(aurakitm.ToggleResult{Active: active})
}

func toggleBan(c *fiber.Ctx) error {
	actor, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}

	active, err := services.ToggleBan(actor, c.Params("profileId"))
	if err != nil {
		return exts.ServiceError(err)
	}
	return c.JSON(aurakitm.ToggleResult{Active: active})
}

func deleteContent(c *fiber.Ctx) error {
	actor, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}

	if err := services.DeleteContent(actor, c.Params("collection"), c.Params("id")); err != nil {
		return exts.ServiceError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}
