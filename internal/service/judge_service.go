package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/proof-of-love/pol-api/internal/dto"
	"github.com/proof-of-love/pol-api/pkg/ai"
)

var (
	// ErrSummaryRequired indicates the draft is missing its summary.
	ErrSummaryRequired = errors.New("summary is required")
	// ErrJudgeUnavailable indicates no evaluation backend is configured.
	ErrJudgeUnavailable = errors.New("judge backend not configured")
	// ErrUpstream wraps failures returned by the evaluation provider.
	ErrUpstream = errors.New("evaluation provider failed")
)

// JudgeService runs AI evaluations over contribution drafts.
type JudgeService interface {
	Evaluate(ctx context.Context, draft dto.DraftRequest) (ai.Evaluation, error)
}

type judgeService struct {
	judge     ai.Judge
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewJudgeService wires the evaluation workflow. judge may be nil when no
// provider key is configured; Evaluate then fails fast with
// ErrJudgeUnavailable.
func NewJudgeService(judge ai.Judge, validate *validator.Validate, logger zerolog.Logger) JudgeService {
	return &judgeService{
		judge:     judge,
		validator: validate,
		logger:    logger.With().Str("component", "judge_service").Logger(),
		tracer:    otel.Tracer("github.com/proof-of-love/pol-api/internal/service/judge"),
	}
}

func (s *judgeService) Evaluate(ctx context.Context, draft dto.DraftRequest) (ai.Evaluation, error) {
	ctx, span := s.tracer.Start(ctx, "judge.evaluate")
	defer span.End()

	if err := s.validator.StructCtx(ctx, draft); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid draft")
		return ai.Evaluation{}, ErrSummaryRequired
	}
	if s.judge == nil {
		return ai.Evaluation{}, ErrJudgeUnavailable
	}

	input := ai.ContributionInput{
		Title:            draft.Title,
		Contributor:      draft.Contributor,
		ContributionType: draft.ContributionType,
		Summary:          draft.Summary,
		Impact:           draft.Impact,
		EvidenceLinks:    draft.Links(),
	}

	evaluation, err := s.judge.Evaluate(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "evaluation failed")
		s.logger.Error().Err(err).Str("title", draft.Title).Msg("evaluation provider failed")
		if errors.Is(err, ai.ErrNoUsableContent) {
			return ai.Evaluation{}, err
		}
		return ai.Evaluation{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	span.SetAttributes(
		attribute.Bool("judge.structured", evaluation.Structured != nil),
		attribute.Int("judge.content_length", len(evaluation.Content)),
	)
	s.logger.Info().
		Str("title", draft.Title).
		Bool("structured", evaluation.Structured != nil).
		Msg("draft evaluated")
	return evaluation, nil
}
