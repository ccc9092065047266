package exts

import (
	"errors"
	"strings"

	"git.solsynth.dev/hypernet/auraheart/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

const AppHeader = "X-Aura-App"

// ContextMiddleware checks the application namespace of the caller and
// resolves the session token, when one is presented, into the actor. A token
// that does not resolve counts as no token, so signing in again still works;
// routes that need an actor report it through EnsureAuthenticated.
func ContextMiddleware(c *fiber.Ctx) error {
	if app := c.Get(AppHeader); len(app) > 0 && app != viper.GetString("app_id") {
		return fiber.NewError(fiber.StatusBadRequest, "application id mismatch")
	}

	token := strings.TrimSpace(strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer "))
	if len(token) == 0 {
		token = c.Query("tk")
	}
	if len(token) == 0 {
		return c.Next()
	}

	actor, err := services.ParseSessionToken(token)
	if err != nil {
		log.Debug().Err(err).Msg("Unable to resolve session token.")
		c.Locals("token_error", err)
		c.Set(fiber.HeaderWWWAuthenticate, `Bearer error="invalid_token"`)
		return c.Next()
	}
	c.Locals("actor", &actor)

	return c.Next()
}

func GetActor(c *fiber.Ctx) *services.Actor {
	if actor, ok := c.Locals("actor").(*services.Actor); ok {
		return actor
	}
	return nil
}

func EnsureAuthenticated(c *fiber.Ctx) (*services.Actor, error) {
	actor := GetActor(c)
	if actor == nil {
		if err, ok := c.Locals("token_error").(error); ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		return nil, fiber.NewError(fiber.StatusUnauthorized, services.ErrUnauthenticated.Error())
	}
	return actor, nil
}

// ErrorStatus picks the response status of a service error.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrUnauthenticated),
		errors.Is(err, services.ErrSessionExpired),
		errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrAnonymous),
		errors.Is(err, services.ErrBanned),
		errors.Is(err, services.ErrEmailReserved),
		errors.Is(err, services.ErrNotAdmin),
		errors.Is(err, services.ErrNotParticipant):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrSelfFollow),
		errors.Is(err, services.ErrFollowLocked),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrAlreadyReported):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrEmptyContent):
		return fiber.StatusBadRequest
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound
	}
	return fiber.StatusBadRequest
}

func ServiceError(err error) error {
	return fiber.NewError(ErrorStatus(err), err.Error())
}
