package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/proof-of-love/pol-api/internal/dto"
	"github.com/proof-of-love/pol-api/internal/observability"
	"github.com/proof-of-love/pol-api/pkg/registry"
)

var (
	// ErrInvalidVerdict indicates the requested final verdict is outside the
	// resolvable range.
	ErrInvalidVerdict = errors.New("verdict must be accept, needs_review or reject")
	// ErrMalformedProposalID indicates the proposal id is not a decimal
	// unsigned integer.
	ErrMalformedProposalID = errors.New("proposal id must be a decimal unsigned integer")
	// ErrNotAuthorized indicates the operator is neither owner nor
	// governance executor.
	ErrNotAuthorized = errors.New("operator may not resolve contributions")
	// ErrDecisionInFlight indicates another resolution is already running.
	ErrDecisionInFlight = errors.New("a resolution is already in flight")
	// ErrContributionNotFound indicates the identifier has no stored record.
	ErrContributionNotFound = errors.New("contribution not found")
)

const (
	listCacheGenKey = "pol:contributions:gen"
	listCachePrefix = "pol:contributions:list"
)

// ContributionPage is one page of decoded contributions, newest first.
type ContributionPage struct {
	Total         uint64                 `json:"total"`
	Offset        uint64                 `json:"offset"`
	Limit         uint64                 `json:"limit"`
	Contributions []dto.ContributionView `json:"contributions"`
}

// GovernanceService drives the review side: listing and decoding stored
// contributions, checking who may decide, and issuing resolutions.
type GovernanceService interface {
	List(ctx context.Context, offset, limit uint64) (ContributionPage, error)
	Get(ctx context.Context, id uint64) (dto.ContributionView, error)
	Actor(ctx context.Context) (dto.ActorResponse, error)
	Resolve(ctx context.Context, id uint64, decision dto.DecisionRequest) (dto.DecisionResponse, error)
	SetExecutor(ctx context.Context, executor string) (dto.ExecutorResponse, error)
	InvalidateList(ctx context.Context)
}

type governanceService struct {
	ledger       Ledger
	redis        *redis.Client
	events       *EventPublisher
	cacheTTL     time.Duration
	pageSize     uint64
	watchTimeout time.Duration
	logger       zerolog.Logger
	tracer       trace.Tracer

	mu       sync.Mutex
	deciding bool
}

// NewGovernanceService wires the review workflow. redisClient may be nil;
// listing then always reads the chain directly.
func NewGovernanceService(
	ledger Ledger,
	redisClient *redis.Client,
	events *EventPublisher,
	cacheTTL time.Duration,
	pageSize uint64,
	watchTimeout time.Duration,
	logger zerolog.Logger,
) GovernanceService {
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Second
	}
	if pageSize == 0 {
		pageSize = 50
	}
	if watchTimeout <= 0 {
		watchTimeout = 3 * time.Minute
	}
	return &governanceService{
		ledger:       ledger,
		redis:        redisClient,
		events:       events,
		cacheTTL:     cacheTTL,
		pageSize:     pageSize,
		watchTimeout: watchTimeout,
		logger:       logger.With().Str("component", "governance_service").Logger(),
		tracer:       otel.Tracer("github.com/proof-of-love/pol-api/internal/service/governance"),
	}
}

func (s *governanceService) List(ctx context.Context, offset, limit uint64) (ContributionPage, error) {
	ctx, span := s.tracer.Start(ctx, "governance.list")
	defer span.End()

	if s.ledger == nil {
		return ContributionPage{}, ErrRegistryNotConfigured
	}
	if limit == 0 || limit > s.pageSize {
		limit = s.pageSize
	}

	if page, ok := s.cachedPage(ctx, offset, limit); ok {
		observability.ListCache().WithLabelValues("hit").Inc()
		return page, nil
	}
	observability.ListCache().WithLabelValues("miss").Inc()

	total, err := s.ledger.ContributionCount(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return ContributionPage{}, err
	}

	page := ContributionPage{
		Total:         total,
		Offset:        offset,
		Limit:         limit,
		Contributions: []dto.ContributionView{},
	}
	if offset >= total {
		s.storePage(ctx, offset, limit, page)
		return page, nil
	}

	// Newest first: position i counts back from the end of storage order.
	window := limit
	if remaining := total - offset; remaining < window {
		window = remaining
	}
	storageOffset := total - offset - window

	raw, err := s.ledger.GetContributions(ctx, storageOffset, window)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return ContributionPage{}, err
	}

	for i := len(raw) - 1; i >= 0; i-- {
		page.Contributions = append(page.Contributions, dto.NewContributionView(raw[i]))
	}

	span.SetAttributes(
		attribute.Int64("contributions.total", int64(total)),
		attribute.Int("contributions.page", len(page.Contributions)),
	)
	s.storePage(ctx, offset, limit, page)
	return page, nil
}

func (s *governanceService) Get(ctx context.Context, id uint64) (dto.ContributionView, error) {
	ctx, span := s.tracer.Start(ctx, "governance.get")
	defer span.End()

	if s.ledger == nil {
		return dto.ContributionView{}, ErrRegistryNotConfigured
	}

	contribution, err := s.ledger.GetContribution(ctx, id)
	if err != nil {
		span.RecordError(err)
		// The contract reverts on unknown identifiers.
		if strings.Contains(strings.ToLower(err.Error()), "revert") {
			return dto.ContributionView{}, ErrContributionNotFound
		}
		return dto.ContributionView{}, err
	}
	return dto.NewContributionView(contribution), nil
}

func (s *governanceService) Actor(ctx context.Context) (dto.ActorResponse, error) {
	ctx, span := s.tracer.Start(ctx, "governance.actor")
	defer span.End()

	if s.ledger == nil {
		return dto.ActorResponse{}, ErrRegistryNotConfigured
	}

	owner, err := s.ledger.Owner(ctx)
	if err != nil {
		span.RecordError(err)
		return dto.ActorResponse{}, err
	}
	executor, err := s.ledger.GovernanceExecutor(ctx)
	if err != nil {
		span.RecordError(err)
		return dto.ActorResponse{}, err
	}

	operator := s.ledger.Operator()
	return dto.ActorResponse{
		Operator:  operator,
		Owner:     owner,
		Executor:  executor,
		CanDecide: canDecide(operator, owner, executor),
	}, nil
}

// canDecide matches addresses case-insensitively: checksummed and lowercase
// forms of the same address must agree.
func canDecide(operator, owner, executor string) bool {
	if operator == "" {
		return false
	}
	return strings.EqualFold(operator, owner) || strings.EqualFold(operator, executor)
}

func (s *governanceService) Resolve(ctx context.Context, id uint64, decision dto.DecisionRequest) (dto.DecisionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "governance.resolve")
	defer span.End()

	if s.ledger == nil {
		return dto.DecisionResponse{}, ErrRegistryNotConfigured
	}

	verdict := registry.Verdict(decision.Verdict)
	if !verdict.Valid() {
		return dto.DecisionResponse{}, ErrInvalidVerdict
	}

	proposalID := uint64(0)
	if trimmed := strings.TrimSpace(decision.ProposalID); trimmed != "" {
		parsed, err := strconv.ParseUint(trimmed, 10, 64)
		if err != nil {
			return dto.DecisionResponse{}, ErrMalformedProposalID
		}
		proposalID = parsed
	}

	actor, err := s.Actor(ctx)
	if err != nil {
		return dto.DecisionResponse{}, err
	}
	if !actor.CanDecide {
		return dto.DecisionResponse{}, ErrNotAuthorized
	}

	if !s.acquire() {
		return dto.DecisionResponse{}, ErrDecisionInFlight
	}
	defer s.release()

	handle, err := s.ledger.ResolveContribution(ctx, id, verdict, proposalID, decision.Notes)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve failed")
		observability.RegistryTx().WithLabelValues("resolveContribution", "send_error").Inc()
		return dto.DecisionResponse{}, fmt.Errorf("resolve contribution: %w", err)
	}

	status, err := s.watch(ctx, "resolveContribution", handle)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "watch failed")
		return dto.DecisionResponse{}, fmt.Errorf("watch resolution tx: %w", err)
	}
	if !status.Confirmed {
		observability.RegistryTx().WithLabelValues("resolveContribution", "reverted").Inc()
		return dto.DecisionResponse{}, ErrTransactionFailed
	}
	observability.RegistryTx().WithLabelValues("resolveContribution", "confirmed").Inc()

	s.InvalidateList(ctx)
	if s.events != nil {
		s.events.Publish(ContributionEvent{
			Kind:           eventKindResolved,
			ContributionID: &id,
			TxHash:         string(handle),
			Confirmed:      true,
			Verdict:        decision.Verdict,
		})
	}

	s.logger.Info().
		Uint64("contribution_id", id).
		Uint8("verdict", decision.Verdict).
		Str("tx", string(handle)).
		Msg("contribution resolved")

	return dto.DecisionResponse{
		ContributionID: id,
		TxHash:         string(handle),
		Confirmed:      true,
	}, nil
}

func (s *governanceService) SetExecutor(ctx context.Context, executor string) (dto.ExecutorResponse, error) {
	ctx, span := s.tracer.Start(ctx, "governance.set_executor")
	defer span.End()

	if s.ledger == nil {
		return dto.ExecutorResponse{}, ErrRegistryNotConfigured
	}

	owner, err := s.ledger.Owner(ctx)
	if err != nil {
		return dto.ExecutorResponse{}, err
	}
	if !strings.EqualFold(s.ledger.Operator(), owner) {
		return dto.ExecutorResponse{}, ErrNotAuthorized
	}

	handle, err := s.ledger.SetGovernanceExecutor(ctx, executor)
	if err != nil {
		span.RecordError(err)
		observability.RegistryTx().WithLabelValues("setGovernanceExecutor", "send_error").Inc()
		return dto.ExecutorResponse{}, fmt.Errorf("set governance executor: %w", err)
	}

	status, err := s.watch(ctx, "setGovernanceExecutor", handle)
	if err != nil {
		span.RecordError(err)
		return dto.ExecutorResponse{}, fmt.Errorf("watch executor tx: %w", err)
	}
	if !status.Confirmed {
		observability.RegistryTx().WithLabelValues("setGovernanceExecutor", "reverted").Inc()
		return dto.ExecutorResponse{}, ErrTransactionFailed
	}
	observability.RegistryTx().WithLabelValues("setGovernanceExecutor", "confirmed").Inc()

	return dto.ExecutorResponse{
		Executor:  executor,
		TxHash:    string(handle),
		Confirmed: true,
	}, nil
}

// InvalidateList bumps the cache generation so subsequent listings bypass
// stale pages without scanning keys.
func (s *governanceService) InvalidateList(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Incr(ctx, listCacheGenKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("bump list cache generation")
	}
}

func (s *governanceService) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deciding {
		return false
	}
	s.deciding = true
	return true
}

func (s *governanceService) release() {
	s.mu.Lock()
	s.deciding = false
	s.mu.Unlock()
}

func (s *governanceService) watch(ctx context.Context, method string, handle registry.TxHandle) (registry.TxStatus, error) {
	watchCtx, cancel := context.WithTimeout(ctx, s.watchTimeout)
	defer cancel()

	timer := prometheus.NewTimer(observability.RegistryWatch().WithLabelValues(method))
	defer timer.ObserveDuration()

	return s.ledger.Watch(watchCtx, handle)
}

func (s *governanceService) cacheKey(ctx context.Context, offset, limit uint64) string {
	generation, err := s.redis.Get(ctx, listCacheGenKey).Result()
	if err != nil {
		generation = "0"
	}
	return fmt.Sprintf("%s:%s:%d:%d", listCachePrefix, generation, offset, limit)
}

func (s *governanceService) cachedPage(ctx context.Context, offset, limit uint64) (ContributionPage, bool) {
	if s.redis == nil {
		return ContributionPage{}, false
	}

	payload, err := s.redis.Get(ctx, s.cacheKey(ctx, offset, limit)).Bytes()
	if err != nil {
		return ContributionPage{}, false
	}

	var page ContributionPage
	if err := json.Unmarshal(payload, &page); err != nil {
		return ContributionPage{}, false
	}
	return page, true
}

func (s *governanceService) storePage(ctx context.Context, offset, limit uint64, page ContributionPage) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, s.cacheKey(ctx, offset, limit), payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("store list cache page")
	}
}
