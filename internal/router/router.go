package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/proof-of-love/pol-api/internal/config"
	"github.com/proof-of-love/pol-api/internal/handler"
)

// Dependencies groups router dependencies for registration. Optional
// handlers may be nil and their routes are simply not mounted.
type Dependencies struct {
	JudgeHandler        *handler.JudgeHandler
	ContributionHandler *handler.ContributionHandler
	GovernanceHandler   *handler.GovernanceHandler
	EvidenceHandler     *handler.EvidenceHandler
	FeedHandler         *handler.FeedHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	contributions := api.Group("/contributions")
	if deps.JudgeHandler != nil {
		deps.JudgeHandler.Register(contributions)
	}
	if deps.FeedHandler != nil {
		deps.FeedHandler.Register(contributions)
	}
	if deps.ContributionHandler != nil {
		deps.ContributionHandler.Register(contributions)
	}

	if deps.GovernanceHandler != nil {
		governance := api.Group("/governance", jwtMiddleware)
		deps.GovernanceHandler.Register(governance)
	}

	if deps.EvidenceHandler != nil {
		evidence := api.Group("/evidence")
		deps.EvidenceHandler.Register(evidence)
	}
}
