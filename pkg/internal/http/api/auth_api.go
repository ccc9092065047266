package api

import (
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// establishSession answers a sign-in. The session the caller signed in over,
// an anonymous one usually, is revoked since its token gets replaced.
func establishSession(c *fiber.Ctx, account models.Account) error {
	session, err := services.EstablishSession(account)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if previous := exts.GetActor(c); previous != nil {
		if err := services.RevokeSession(*previous); err != nil {
			log.Warn().Err(err).Str("session", previous.SessionID).Msg("An error occurred when revoking replaced session...")
		}
	}
	return c.JSON(session)
}

func signInAnonymously(c *fiber.Ctx) error {
	account, err := services.SignInAnonymously()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return establishSession(c, account)
}

func signInWithCustomToken(c *fiber.Ctx) error {
	var data struct {
		Token string `json:"token" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, err := services.SignInWithCustomToken(data.Token)
	if err != nil {
		log.Warn().Err(err).Msg("An error occurred when signing in with custom token...")
		return exts.ServiceError(err)
	}
	return establishSession(c, account)
}

func registerWithPassword(c *fiber.Ctx) error {
	var data struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, err := services.RegisterWithPassword(data.Email, data.Password)
	if err != nil {
		return exts.ServiceError(err)
	}
	return establishSession(c, account)
}

func signInWithPassword(c *fiber.Ctx) error {
	var data struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, err := services.SignInWithPassword(data.Email, data.Password)
	if err != nil {
		return exts.ServiceError(err)
	}
	return establishSession(c, account)
}

func getSession(c *fiber.Ctx) error {
	actor, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}

	session, err := services.GetSession(*actor)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(session)
}

func signOut(c *fiber.Ctx) error {
	actor, err := exts.EnsureAuthenticated(c)
	if err != nil {
		return err
	}

	if err := services.RevokeSession(*actor); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.SendStatus(fiber.StatusOK)
}
