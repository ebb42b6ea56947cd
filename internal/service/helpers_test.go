package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/proof-of-love/pol-api/pkg/ai"
	"github.com/proof-of-love/pol-api/pkg/registry"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// ledgerStub is an in-memory Ledger for workflow tests.
type ledgerStub struct {
	operator string
	owner    string
	executor string
	next     uint64
	stored   []registry.Contribution

	submitCalls  int
	submitted    registry.SubmitParams
	submitErr    error
	resolveCalls int
	resolvedID   uint64
	resolved     registry.Verdict
	proposalID   uint64
	notes        string
	listCalls    int
	watchStatus  registry.TxStatus
	watchErr     error
}

func (l *ledgerStub) NextContributionID(ctx context.Context) (uint64, error) {
	return l.next, nil
}

func (l *ledgerStub) ContributionCount(ctx context.Context) (uint64, error) {
	return uint64(len(l.stored)), nil
}

func (l *ledgerStub) Owner(ctx context.Context) (string, error) {
	return l.owner, nil
}

func (l *ledgerStub) GovernanceExecutor(ctx context.Context) (string, error) {
	return l.executor, nil
}

func (l *ledgerStub) GetContribution(ctx context.Context, id uint64) (registry.Contribution, error) {
	for _, c := range l.stored {
		if c.ID == id {
			return c, nil
		}
	}
	return registry.Contribution{}, errors.New("execution reverted: contribution does not exist")
}

func (l *ledgerStub) GetContributions(ctx context.Context, offset, limit uint64) ([]registry.Contribution, error) {
	l.listCalls++
	if offset >= uint64(len(l.stored)) {
		return nil, nil
	}
	end := offset + limit
	if end > uint64(len(l.stored)) {
		end = uint64(len(l.stored))
	}
	return l.stored[offset:end], nil
}

func (l *ledgerStub) SubmitContribution(ctx context.Context, params registry.SubmitParams) (registry.TxHandle, error) {
	l.submitCalls++
	if l.submitErr != nil {
		return "", l.submitErr
	}
	l.submitted = params
	return "0xsubmit", nil
}

func (l *ledgerStub) ResolveContribution(ctx context.Context, id uint64, verdict registry.Verdict, proposalID uint64, notes string) (registry.TxHandle, error) {
	l.resolveCalls++
	l.resolvedID = id
	l.resolved = verdict
	l.proposalID = proposalID
	l.notes = notes
	return "0xresolve", nil
}

func (l *ledgerStub) SetGovernanceExecutor(ctx context.Context, executor string) (registry.TxHandle, error) {
	l.executor = executor
	return "0xexecutor", nil
}

func (l *ledgerStub) Watch(ctx context.Context, handle registry.TxHandle) (registry.TxStatus, error) {
	if l.watchErr != nil {
		return registry.TxStatus{}, l.watchErr
	}
	status := l.watchStatus
	if status.Hash == "" {
		status.Hash = handle
	}
	return status, nil
}

func (l *ledgerStub) Operator() string {
	return l.operator
}

// judgeStub returns a canned evaluation, optionally blocking until released
// so in-flight behaviour can be observed.
type judgeStub struct {
	evaluation ai.Evaluation
	err        error
	block      chan struct{}
}

func (j *judgeStub) Evaluate(ctx context.Context, input ai.ContributionInput) (ai.Evaluation, error) {
	if j.block != nil {
		<-j.block
	}
	if j.err != nil {
		return ai.Evaluation{}, j.err
	}
	return j.evaluation, nil
}
