package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/proof-of-love/pol-api/internal/config"
	"github.com/proof-of-love/pol-api/internal/utils"
)

// HealthResponse reports service identity plus which optional backends are
// wired, so a misconfigured deployment is visible before the first 503.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	Registry    bool      `json:"registry_configured"`
	Judge       bool      `json:"judge_configured"`
	Database    bool      `json:"database_configured"`
	Broker      bool      `json:"broker_configured"`
}

// HealthCheck returns a handler that reports application health information.
func HealthCheck(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Registry:    cfg.RegistryConfigured(),
			Judge:       cfg.DeepSeekAPIKey != "",
			Database:    cfg.DatabaseURL != "",
			Broker:      cfg.NATSURL != "",
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
