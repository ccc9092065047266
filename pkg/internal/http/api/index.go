package api

import (
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/http/exts"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func MapAPIs(app *fiber.App, baseURL string) {
	api := app.Group(baseURL).Name("API")
	{
		auth := api.Group("/auth").Name("Auth API")
		{
			auth.Post("/anonymous", signInAnonymously)
			auth.Post("/token", signInWithCustomToken)
			auth.Post("/register", registerWithPassword)
			auth.Post("/login", signInWithPassword)
			auth.Get("/session", getSession)
			auth.Delete("/session", signOut)
		}

		profiles := api.Group("/profiles").Name("Profiles API")
		{
			profiles.Get("/", listProfiles)
			profiles.Put("/me", editMyProfile)
			profiles.Get("/:profileId", getProfile)
			profiles.Post("/:profileId/follow", toggleFollow)
		}

		pins := api.Group("/pins").Name("Pins API")
		{
			pins.Get("/", listPin)
			pins.Get("/trending", listTrendingPin)
			pins.Get("/:pinId", getPin)
			pins.Post("/", createPin)
			pins.Post("/:pinId/heart", heartPin)
		}

		pulses := api.Group("/pulses").Name("Pulses API")
		{
			pulses.Get("/", listPulse)
			pulses.Post("/", createPulse)
			pulses.Post("/:pulseId/heart", heartPulse)
		}

		conversations := api.Group("/conversations/:conversationKey").Name("Conversations API")
		{
			conversations.Get("/messages", listMessage)
			conversations.Post("/messages", sendMessage)
		}

		api.Post("/reports", createReport)
		api.Get("/categories", listCategories)

		api.Use("/realtime", func(c *fiber.Ctx) error {
			if !websocket.IsWebSocketUpgrade(c) {
				return fiber.ErrUpgradeRequired
			}
			if _, err := exts.EnsureAuthenticated(c); err != nil {
				return err
			}
			return c.Next()
		})
		api.Get("/realtime", websocket.New(listenRealtime))
	}
}
