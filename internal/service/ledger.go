package service

import (
	"context"

	"github.com/proof-of-love/pol-api/pkg/registry"
)

// Ledger is the workflow-facing view of the contribution registry. The
// workflows never see transaction objects; writes return opaque handles and
// Watch resolves them to terminal outcomes, so a different settlement
// backend can replace the EVM client without touching the services.
type Ledger interface {
	NextContributionID(ctx context.Context) (uint64, error)
	ContributionCount(ctx context.Context) (uint64, error)
	Owner(ctx context.Context) (string, error)
	GovernanceExecutor(ctx context.Context) (string, error)
	GetContribution(ctx context.Context, id uint64) (registry.Contribution, error)
	GetContributions(ctx context.Context, offset, limit uint64) ([]registry.Contribution, error)
	SubmitContribution(ctx context.Context, params registry.SubmitParams) (registry.TxHandle, error)
	ResolveContribution(ctx context.Context, id uint64, verdict registry.Verdict, proposalID uint64, notes string) (registry.TxHandle, error)
	SetGovernanceExecutor(ctx context.Context, executor string) (registry.TxHandle, error)
	Watch(ctx context.Context, handle registry.TxHandle) (registry.TxStatus, error)
	Operator() string
}
