package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/proof-of-love/pol-api/internal/dto"
	"github.com/proof-of-love/pol-api/internal/service"
	"github.com/proof-of-love/pol-api/pkg/ai"
)

// JudgeHandler serves standalone AI evaluations. The wire format here is
// frozen for existing frontend clients: success returns {ok, content,
// structured}, errors return {error, details?} with the original messages.
type JudgeHandler struct {
	service service.JudgeService
	logger  zerolog.Logger
}

// NewJudgeHandler constructs a judge handler.
func NewJudgeHandler(service service.JudgeService, logger zerolog.Logger) *JudgeHandler {
	return &JudgeHandler{
		service: service,
		logger:  logger.With().Str("component", "judge_handler").Logger(),
	}
}

// Register wires judge routes.
func (h *JudgeHandler) Register(router fiber.Router) {
	router.Post("/judge", h.judge)
}

func (h *JudgeHandler) judge(c *fiber.Ctx) error {
	var draft dto.DraftRequest
	if err := c.BodyParser(&draft); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.JudgeError{Error: "缺少必要字段：summary"})
	}

	evaluation, err := h.service.Evaluate(c.Context(), draft)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSummaryRequired):
			return c.Status(fiber.StatusBadRequest).JSON(dto.JudgeError{Error: "缺少必要字段：summary"})
		case errors.Is(err, service.ErrJudgeUnavailable):
			return c.Status(fiber.StatusInternalServerError).JSON(dto.JudgeError{Error: "服务器未配置 DeepSeek API 密钥"})
		case errors.Is(err, ai.ErrNoUsableContent):
			return c.Status(fiber.StatusBadGateway).JSON(dto.JudgeError{Error: "DeepSeek 未返回有效内容"})
		case errors.Is(err, service.ErrUpstream):
			return c.Status(fiber.StatusBadGateway).JSON(dto.JudgeError{
				Error:   "DeepSeek API 调用失败",
				Details: err.Error(),
			})
		default:
			h.logger.Error().Err(err).Msg("judge request failed")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.JudgeError{Error: "服务器内部错误"})
		}
	}

	return c.JSON(dto.JudgeResponse{
		OK:         true,
		Content:    evaluation.Content,
		Structured: evaluation.Structured,
	})
}
