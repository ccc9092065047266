package api

import (
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
)

func listProfiles(c *fiber.Ctx) error {
	items, err := services.ListProfiles()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(lo.Map(items, func(item models.Profile, _ int) aurakitm.Profile {
		return services.ProfileDocument(item)
	}))
}

func getProfile(c *fiber.Ctx) error {
	profile, err := services.GetProfile(c.Params("profileId"))
	if err != nil {
		return exts.ServiceError(err)
	}
	items := []models.Profile{profile}
	if err := services.AttachFollows(items); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(services.ProfileDocument(items[0]))
}

func editMyProfile(c *fiber.Ctx) error {
	actor, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}

	var data struct {
		Username  *string  `json:"username" validate:"omitempty,min=1,max=64"`
		Bio       *string  `json:"bio" validate:"omitempty,max=512"`
		PhotoURL  *string  `json:"photo_url" validate:"omitempty,url"`
		CoverURL  *string  `json:"cover_url" validate:"omitempty,url"`
		Interests []string `json:"interests"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	profile, err := services.EditProfile(actor, services.ProfileEdit{
		Username:  data.Username,
		Bio:       data.Bio,
		PhotoURL:  data.PhotoURL,
		CoverURL:  data.CoverURL,
		Interests: data.Interests,
	})
	if err != nil {
		return exts.ServiceError(err)
	}
	return c.JSON(services.ProfileDocument(profile))
}

func toggleFollow(c *fiber.Ctx) error {
	actor, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}

	active, err := services.ToggleFollow(actor, c.Params("profileId"))
	if err != nil {
		return exts.ServiceError(err)
	}
	return c.JSON(aurakitm.ToggleResult{Active: active})
}
