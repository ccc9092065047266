package admin

import "github.com/gofiber/fiber/v2"

func MapControllers(app *fiber.App, baseURL string) {
	admin := app.Group(baseURL).Name("Admin API")
	{
		admin.Get("/reports", listReports)
		admin.Post("/profiles/:profileId/badges", toggleBadge)
		admin.Post("/profiles/:profileId/ban", toggleBan)
		admin.Delete("/:collection/:id", deleteContent)
	}
}
