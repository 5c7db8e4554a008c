package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/travigo/stopservices/pkg/consolidator"
)

type StopServicesLookup interface {
	Services(stopID string) ([]consolidator.ResolvedService, bool)
}

func StopsRouter(router fiber.Router, lookup StopServicesLookup) {
	router.Get("/:identifier/services", getStopServices(lookup))
}

func getStopServices(lookup StopServicesLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stopIdentifier := c.Params("identifier")

		services, exists := lookup.Services(stopIdentifier)
		if !exists {
			c.SendStatus(fiber.StatusNotFound)
			return c.JSON(fiber.Map{
				"error": "Could not find stop matching Stop Identifier",
			})
		}

		if operatorCode := c.Query("operator"); operatorCode != "" {
			filtered := []consolidator.ResolvedService{}
			for _, service := range services {
				if service.OperatorCode == operatorCode {
					filtered = append(filtered, service)
				}
			}
			services = filtered
		}

		servicesReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: []string{"basic"},
		}, services)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce Services",
			})
		}

		return c.JSON(fiber.Map{
			"stop":     stopIdentifier,
			"services": servicesReduced,
		})
	}
}
