package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/stopservices/pkg/api/routes"
)

func NewApp(index *Index) *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)
	group.Get("stats", routes.Stats(index))

	routes.StopsRouter(group.Group("/stops"), index)

	return webApp
}

func SetupServer(listen string, index *Index) error {
	return NewApp(index).Listen(listen)
}
