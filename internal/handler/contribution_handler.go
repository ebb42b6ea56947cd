package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/proof-of-love/pol-api/internal/dto"
	"github.com/proof-of-love/pol-api/internal/service"
	"github.com/proof-of-love/pol-api/internal/utils"
)

// ContributionHandler serves the contribution listing and settlement routes.
type ContributionHandler struct {
	governance service.GovernanceService
	settlement service.SettlementService
	logger     zerolog.Logger
}

// NewContributionHandler constructs a contribution handler.
func NewContributionHandler(governance service.GovernanceService, settlement service.SettlementService, logger zerolog.Logger) *ContributionHandler {
	return &ContributionHandler{
		governance: governance,
		settlement: settlement,
		logger:     logger.With().Str("component", "contribution_handler").Logger(),
	}
}

// Register wires contribution routes.
func (h *ContributionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.settle)
	router.Get("/records", h.records)
	router.Get("/:id", h.get)
}

func (h *ContributionHandler) list(c *fiber.Ctx) error {
	offset, err := parseUintQuery(c, "offset", 0)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "offset must be a non-negative integer")
	}
	limit, err := parseUintQuery(c, "limit", 0)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "limit must be a non-negative integer")
	}

	page, err := h.governance.List(c.Context(), offset, limit)
	if err != nil {
		if errors.Is(err, service.ErrRegistryNotConfigured) {
			return utils.SendError(c, fiber.StatusServiceUnavailable, "contribution registry not configured")
		}
		h.logger.Error().Err(err).Msg("failed to list contributions")
		return utils.SendError(c, fiber.StatusBadGateway, "failed to read contribution registry")
	}

	return utils.SendPage(c, "contributions retrieved", page.Contributions, utils.PageMeta{
		Total:  page.Total,
		Offset: page.Offset,
		Limit:  page.Limit,
	})
}

func (h *ContributionHandler) get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "contribution id must be a non-negative integer")
	}

	view, err := h.governance.Get(c.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRegistryNotConfigured):
			return utils.SendError(c, fiber.StatusServiceUnavailable, "contribution registry not configured")
		case errors.Is(err, service.ErrContributionNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "contribution not found")
		default:
			h.logger.Error().Err(err).Uint64("contribution_id", id).Msg("failed to read contribution")
			return utils.SendError(c, fiber.StatusBadGateway, "failed to read contribution registry")
		}
	}

	return utils.SendSuccess(c, "contribution retrieved", view)
}

func (h *ContributionHandler) settle(c *fiber.Ctx) error {
	var draft dto.DraftRequest
	if err := c.BodyParser(&draft); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.settlement.Settle(c.Context(), draft)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSummaryRequired):
			return utils.SendError(c, fiber.StatusBadRequest, "summary is required")
		case errors.Is(err, service.ErrRegistryNotConfigured):
			return utils.SendError(c, fiber.StatusServiceUnavailable, "contribution registry not configured")
		case errors.Is(err, service.ErrSubmissionInFlight):
			return utils.SendError(c, fiber.StatusConflict, "a settlement is already in flight")
		case errors.Is(err, service.ErrJudgeUnavailable):
			return utils.SendError(c, fiber.StatusServiceUnavailable, "evaluation backend not configured")
		case errors.Is(err, service.ErrTransactionFailed):
			return utils.SendError(c, fiber.StatusBadGateway, "registry transaction reverted")
		case errors.Is(err, service.ErrUpstream):
			return utils.SendError(c, fiber.StatusBadGateway, "evaluation provider failed")
		default:
			h.logger.Error().Err(err).Msg("settlement failed")
			return utils.SendError(c, fiber.StatusBadGateway, "settlement failed")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "contribution settled", response)
}

func (h *ContributionHandler) records(c *fiber.Ctx) error {
	limit, err := parseUintQuery(c, "limit", 20)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "limit must be a non-negative integer")
	}

	records, err := h.settlement.RecentRecords(c.Context(), int(limit))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list settlement records")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list settlement records")
	}

	return utils.SendSuccess(c, "settlement records retrieved", records)
}

func parseUintQuery(c *fiber.Ctx, name string, fallback uint64) (uint64, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseUint(raw, 10, 64)
}
