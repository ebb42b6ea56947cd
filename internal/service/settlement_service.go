package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/proof-of-love/pol-api/internal/dto"
	"github.com/proof-of-love/pol-api/internal/models"
	"github.com/proof-of-love/pol-api/internal/observability"
	"github.com/proof-of-love/pol-api/internal/repository"
	"github.com/proof-of-love/pol-api/pkg/ai"
	"github.com/proof-of-love/pol-api/pkg/registry"
)

var (
	// ErrSubmissionInFlight indicates another settlement is already running.
	ErrSubmissionInFlight = errors.New("a settlement is already in flight")
	// ErrRegistryNotConfigured indicates no registry address or RPC endpoint
	// is configured.
	ErrRegistryNotConfigured = errors.New("contribution registry not configured")
	// ErrTransactionFailed indicates the submission transaction mined but
	// reverted.
	ErrTransactionFailed = errors.New("registry transaction reverted")
)

// ListInvalidator drops cached contribution listings after a write lands.
type ListInvalidator interface {
	InvalidateList(ctx context.Context)
}

// SettlementService runs the full draft-to-chain workflow: evaluate the
// draft, normalize the report, pin it with submitContribution, and track the
// transaction to a terminal state.
type SettlementService interface {
	Settle(ctx context.Context, draft dto.DraftRequest) (dto.SettlementResponse, error)
	RecentRecords(ctx context.Context, limit int) ([]models.EvaluationRecord, error)
}

type settlementService struct {
	judge        JudgeService
	ledger       Ledger
	repo         repository.EvaluationRepository
	events       *EventPublisher
	invalidator  ListInvalidator
	sanitizer    *bluemonday.Policy
	watchTimeout time.Duration
	logger       zerolog.Logger
	tracer       trace.Tracer

	mu       sync.Mutex
	inFlight bool
}

// NewSettlementService wires the settlement workflow. ledger may be nil when
// the registry is unconfigured, repo may be nil when no database is
// attached, and both degrade explicitly rather than panicking.
func NewSettlementService(
	judge JudgeService,
	ledger Ledger,
	repo repository.EvaluationRepository,
	events *EventPublisher,
	invalidator ListInvalidator,
	watchTimeout time.Duration,
	logger zerolog.Logger,
) SettlementService {
	if watchTimeout <= 0 {
		watchTimeout = 3 * time.Minute
	}
	return &settlementService{
		judge:        judge,
		ledger:       ledger,
		repo:         repo,
		events:       events,
		invalidator:  invalidator,
		sanitizer:    bluemonday.StrictPolicy(),
		watchTimeout: watchTimeout,
		logger:       logger.With().Str("component", "settlement_service").Logger(),
		tracer:       otel.Tracer("github.com/proof-of-love/pol-api/internal/service/settlement"),
	}
}

// acquire claims the single settlement slot. The contract assigns
// identifiers sequentially, so running one settlement at a time keeps the
// anticipated identifier honest and stops double-submits from retried
// requests.
func (s *settlementService) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return false
	}
	s.inFlight = true
	return true
}

func (s *settlementService) release() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

func (s *settlementService) Settle(ctx context.Context, draft dto.DraftRequest) (dto.SettlementResponse, error) {
	ctx, span := s.tracer.Start(ctx, "settlement.settle")
	defer span.End()

	if s.ledger == nil {
		return dto.SettlementResponse{}, ErrRegistryNotConfigured
	}
	if !s.acquire() {
		return dto.SettlementResponse{}, ErrSubmissionInFlight
	}
	defer s.release()

	evaluation, err := s.judge.Evaluate(ctx, draft)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "evaluation failed")
		return dto.SettlementResponse{}, err
	}

	verdict := mapVerdict(evaluation.Structured)
	var score registry.Score
	if evaluation.Structured != nil {
		score = normalizeScores(evaluation.Structured.Score)
	}

	record := s.startRecord(ctx, draft, evaluation, verdict, score)

	anticipated := s.anticipatedID(ctx)
	params, err := s.buildParams(draft, evaluation, verdict, score)
	if err != nil {
		s.markFailed(ctx, record, err)
		return dto.SettlementResponse{}, err
	}

	handle, err := s.ledger.SubmitContribution(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submit failed")
		observability.RegistryTx().WithLabelValues("submitContribution", "send_error").Inc()
		s.markFailed(ctx, record, err)
		return dto.SettlementResponse{}, fmt.Errorf("submit contribution: %w", err)
	}
	s.markSubmitted(ctx, record, handle)
	span.SetAttributes(attribute.String("registry.tx", string(handle)))

	status, err := s.watch(ctx, "submitContribution", handle)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "watch failed")
		s.markFailed(ctx, record, err)
		return dto.SettlementResponse{}, fmt.Errorf("watch contribution tx: %w", err)
	}
	if !status.Confirmed {
		observability.RegistryTx().WithLabelValues("submitContribution", "reverted").Inc()
		s.markFailed(ctx, record, ErrTransactionFailed)
		return dto.SettlementResponse{}, ErrTransactionFailed
	}
	observability.RegistryTx().WithLabelValues("submitContribution", "confirmed").Inc()

	// The event-carried identifier is authoritative; the pre-read counter
	// only covers nodes that trim receipt logs.
	assigned := status.AssignedID
	if assigned == nil {
		assigned = anticipated
	}
	s.markConfirmed(ctx, record, handle, assigned)
	s.publish(draft, verdict, handle, assigned)
	if s.invalidator != nil {
		s.invalidator.InvalidateList(ctx)
	}

	s.logger.Info().
		Str("tx", string(handle)).
		Uint8("verdict", uint8(verdict)).
		Msg("contribution settled")

	return dto.SettlementResponse{
		ContributionID: assigned,
		AnticipatedID:  anticipated,
		TxHash:         string(handle),
		State:          models.SettlementStateConfirmed,
		Evaluation: dto.JudgeResponse{
			OK:         true,
			Content:    evaluation.Content,
			Structured: evaluation.Structured,
		},
	}, nil
}

// RecentRecords returns the newest local audit rows, empty when no database
// is attached.
func (s *settlementService) RecentRecords(ctx context.Context, limit int) ([]models.EvaluationRecord, error) {
	if s.repo == nil {
		return []models.EvaluationRecord{}, nil
	}
	return s.repo.ListRecent(ctx, limit)
}

// anticipatedID pre-reads the contract counter so the response can name the
// likely identifier even when the receipt carries no usable event.
func (s *settlementService) anticipatedID(ctx context.Context) *uint64 {
	next, err := s.ledger.NextContributionID(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("read next contribution id")
		return nil
	}
	return &next
}

func (s *settlementService) buildParams(draft dto.DraftRequest, evaluation ai.Evaluation, verdict registry.Verdict, score registry.Score) (registry.SubmitParams, error) {
	title := s.sanitizer.Sanitize(draft.Title)
	if title == "" {
		title = "未命名贡献"
	}

	metadata := dto.ContributionMetadata{
		Title:            title,
		ContributionType: draft.ContributionType,
		Summary:          s.sanitizer.Sanitize(draft.Summary),
		Impact:           s.sanitizer.Sanitize(draft.Impact),
		EvidenceLinks:    draft.Links(),
		Submitter:        s.sanitizer.Sanitize(draft.Contributor),
		AIGeneratedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return registry.SubmitParams{}, fmt.Errorf("encode metadata: %w", err)
	}

	report := evaluation.Content
	if evaluation.Structured != nil {
		if encoded, err := json.Marshal(evaluation.Structured); err == nil {
			report = string(encoded)
		}
	}

	return registry.SubmitParams{
		Title:       title,
		MetadataURI: string(metadataJSON),
		AIReport:    report,
		AIVerdict:   verdict,
		Score:       score,
	}, nil
}

func (s *settlementService) watch(ctx context.Context, method string, handle registry.TxHandle) (registry.TxStatus, error) {
	watchCtx, cancel := context.WithTimeout(ctx, s.watchTimeout)
	defer cancel()

	timer := prometheus.NewTimer(observability.RegistryWatch().WithLabelValues(method))
	defer timer.ObserveDuration()

	return s.ledger.Watch(watchCtx, handle)
}

func (s *settlementService) startRecord(ctx context.Context, draft dto.DraftRequest, evaluation ai.Evaluation, verdict registry.Verdict, score registry.Score) *models.EvaluationRecord {
	if s.repo == nil {
		return nil
	}

	links, _ := json.Marshal(draft.Links())
	record := &models.EvaluationRecord{
		Title:            draft.Title,
		Contributor:      draft.Contributor,
		ContributionType: draft.ContributionType,
		Summary:          draft.Summary,
		Impact:           draft.Impact,
		EvidenceLinks:    datatypes.JSON(links),
		Content:          evaluation.Content,
		AIVerdict:        uint8(verdict),
		TechnicalScore:   score.Technical,
		CommunityScore:   score.Community,
		GovernanceScore:  score.Governance,
		OverallScore:     score.Overall,
		State:            models.SettlementStateAwaitingSignature,
	}
	if evaluation.Structured != nil {
		if encoded, err := json.Marshal(evaluation.Structured); err == nil {
			record.Structured = datatypes.JSON(encoded)
		}
	}

	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Warn().Err(err).Msg("create settlement audit record")
		return nil
	}
	return record
}

func (s *settlementService) markSubmitted(ctx context.Context, record *models.EvaluationRecord, handle registry.TxHandle) {
	if record == nil {
		return
	}
	if err := s.repo.MarkSubmitted(ctx, record.ID, string(handle)); err != nil {
		s.logger.Warn().Err(err).Msg("mark settlement submitted")
	}
}

func (s *settlementService) markConfirmed(ctx context.Context, record *models.EvaluationRecord, handle registry.TxHandle, contributionID *uint64) {
	if record == nil {
		return
	}
	if err := s.repo.MarkConfirmed(ctx, record.ID, string(handle), contributionID); err != nil {
		s.logger.Warn().Err(err).Msg("mark settlement confirmed")
	}
}

func (s *settlementService) markFailed(ctx context.Context, record *models.EvaluationRecord, cause error) {
	if record == nil {
		return
	}
	if err := s.repo.MarkFailed(ctx, record.ID, cause.Error()); err != nil {
		s.logger.Warn().Err(err).Msg("mark settlement failed")
	}
}

func (s *settlementService) publish(draft dto.DraftRequest, verdict registry.Verdict, handle registry.TxHandle, assigned *uint64) {
	if s.events == nil {
		return
	}
	s.events.Publish(ContributionEvent{
		Kind:           eventKindSubmitted,
		ContributionID: assigned,
		TxHash:         string(handle),
		Confirmed:      true,
		Verdict:        uint8(verdict),
		Title:          draft.Title,
	})
}
