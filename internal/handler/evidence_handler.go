package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/proof-of-love/pol-api/internal/service"
	"github.com/proof-of-love/pol-api/internal/utils"
)

// EvidenceHandler serves evidence file uploads.
type EvidenceHandler struct {
	service service.EvidenceService
	logger  zerolog.Logger
}

// NewEvidenceHandler constructs an evidence handler.
func NewEvidenceHandler(svc service.EvidenceService, logger zerolog.Logger) *EvidenceHandler {
	return &EvidenceHandler{
		service: svc,
		logger:  logger.With().Str("component", "evidence_handler").Logger(),
	}
}

// Register wires evidence routes.
func (h *EvidenceHandler) Register(router fiber.Router) {
	router.Post("", h.upload)
}

func (h *EvidenceHandler) upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "evidence file is required")
	}

	response, err := h.service.Upload(c.Context(), file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEvidenceRequired):
			return utils.SendError(c, fiber.StatusBadRequest, "evidence file is required")
		case errors.Is(err, service.ErrEvidenceTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "evidence file exceeds maximum allowed size")
		case errors.Is(err, service.ErrEvidenceTypeNotAllowed):
			return utils.SendError(c, fiber.StatusUnsupportedMediaType, "evidence file type not allowed")
		case errors.Is(err, service.ErrEvidenceStorageUnavailable):
			return utils.SendError(c, fiber.StatusServiceUnavailable, "evidence storage not configured")
		default:
			h.logger.Error().Err(err).Msg("evidence upload failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "evidence upload failed")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "evidence uploaded", response)
}
