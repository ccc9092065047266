package api

import (
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func createReport(c *fiber.Ctx) error {
	actor, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}

	var data struct {
		TargetType string `json:"target_type" validate:"required,oneof=pins pulses profiles"`
		TargetID   string `json:"target_id" validate:"required"`
		Reason     string `json:"reason" validate:"max=1024"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	report, err := services.NewReport(actor, data.TargetType, data.TargetID, data.Reason)
	if err != nil {
		return exts.ServiceError(err)
	}
	return c.JSON(services.ReportDocument(report))
}

func listCategories(c *fiber.Ctx) error {
	categories, err := services.ListCategory()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(categories)
}
