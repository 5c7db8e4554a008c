package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type StatsSource interface {
	StopCount() int
	ServiceCount() int
	Loaded() time.Time
}

func Stats(source StatsSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"stops":        source.StopCount(),
			"associations": source.ServiceCount(),
			"loaded":       source.Loaded(),
		})
	}
}
