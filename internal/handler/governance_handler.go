package handler

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/proof-of-love/pol-api/internal/dto"
	"github.com/proof-of-love/pol-api/internal/service"
	"github.com/proof-of-love/pol-api/internal/utils"
)

// GovernanceHandler serves the review-side routes: actor inspection,
// resolution, and executor administration.
type GovernanceHandler struct {
	service   service.GovernanceService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewGovernanceHandler constructs a governance handler.
func NewGovernanceHandler(svc service.GovernanceService, validate *validator.Validate, logger zerolog.Logger) *GovernanceHandler {
	return &GovernanceHandler{
		service:   svc,
		validator: validate,
		logger:    logger.With().Str("component", "governance_handler").Logger(),
	}
}

// Register wires governance routes.
func (h *GovernanceHandler) Register(router fiber.Router) {
	router.Get("/actor", h.actor)
	router.Post("/contributions/:id/resolve", h.resolve)
	router.Post("/executor", h.setExecutor)
}

func (h *GovernanceHandler) actor(c *fiber.Ctx) error {
	actor, err := h.service.Actor(c.Context())
	if err != nil {
		if errors.Is(err, service.ErrRegistryNotConfigured) {
			return utils.SendError(c, fiber.StatusServiceUnavailable, "contribution registry not configured")
		}
		h.logger.Error().Err(err).Msg("failed to read governance actor")
		return utils.SendError(c, fiber.StatusBadGateway, "failed to read contribution registry")
	}

	return utils.SendSuccess(c, "governance actor retrieved", actor)
}

func (h *GovernanceHandler) resolve(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "contribution id must be a non-negative integer")
	}

	var decision dto.DecisionRequest
	if err := c.BodyParser(&decision); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validator.StructCtx(c.Context(), decision); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "verdict must be accept, needs_review or reject")
	}

	response, err := h.service.Resolve(c.Context(), id, decision)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRegistryNotConfigured):
			return utils.SendError(c, fiber.StatusServiceUnavailable, "contribution registry not configured")
		case errors.Is(err, service.ErrInvalidVerdict):
			return utils.SendError(c, fiber.StatusBadRequest, "verdict must be accept, needs_review or reject")
		case errors.Is(err, service.ErrMalformedProposalID):
			return utils.SendError(c, fiber.StatusBadRequest, "proposal id must be a decimal unsigned integer")
		case errors.Is(err, service.ErrNotAuthorized):
			return utils.SendError(c, fiber.StatusForbidden, "operator may not resolve contributions")
		case errors.Is(err, service.ErrDecisionInFlight):
			return utils.SendError(c, fiber.StatusConflict, "a resolution is already in flight")
		case errors.Is(err, service.ErrTransactionFailed):
			return utils.SendError(c, fiber.StatusBadGateway, "registry transaction reverted")
		default:
			h.logger.Error().Err(err).Uint64("contribution_id", id).Msg("resolution failed")
			return utils.SendError(c, fiber.StatusBadGateway, "resolution failed")
		}
	}

	return utils.SendSuccess(c, "contribution resolved", response)
}

func (h *GovernanceHandler) setExecutor(c *fiber.Ctx) error {
	var payload dto.ExecutorRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validator.StructCtx(c.Context(), payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "executor must be a valid address")
	}

	response, err := h.service.SetExecutor(c.Context(), payload.Executor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRegistryNotConfigured):
			return utils.SendError(c, fiber.StatusServiceUnavailable, "contribution registry not configured")
		case errors.Is(err, service.ErrNotAuthorized):
			return utils.SendError(c, fiber.StatusForbidden, "only the owner may set the executor")
		case errors.Is(err, service.ErrTransactionFailed):
			return utils.SendError(c, fiber.StatusBadGateway, "registry transaction reverted")
		default:
			h.logger.Error().Err(err).Msg("executor update failed")
			return utils.SendError(c, fiber.StatusBadGateway, "executor update failed")
		}
	}

	return utils.SendSuccess(c, "governance executor updated", response)
}
