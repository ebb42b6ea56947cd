package registry

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/stretchr/testify/require"
)

func TestVerdictValid(t *testing.T) {
	require.False(t, VerdictUndetermined.Valid())
	require.True(t, VerdictAccept.Valid())
	require.True(t, VerdictNeedsReview.Valid())
	require.True(t, VerdictReject.Valid())
	require.False(t, Verdict(4).Valid())
}

func TestVerdictString(t *testing.T) {
	require.Equal(t, "accept", VerdictAccept.String())
	require.Equal(t, "needs_review", VerdictNeedsReview.String())
	require.Equal(t, "reject", VerdictReject.String())
	require.Equal(t, "undetermined", VerdictUndetermined.String())
	require.Equal(t, "undetermined", Verdict(9).String())
}

func TestPoints(t *testing.T) {
	require.InDelta(t, 87.6, Points(876), 0.001)
	require.InDelta(t, 0.0, Points(0), 0.001)
	require.InDelta(t, 100.0, Points(1000), 0.001)
}

func TestResolved(t *testing.T) {
	require.False(t, Contribution{}.Resolved())
	require.True(t, Contribution{FinalVerdict: VerdictReject}.Resolved())
}

func TestContributionRegistryABIParses(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(ContributionRegistryABI))
	require.NoError(t, err)

	for _, method := range []string{
		"submitContribution",
		"resolveContribution",
		"setGovernanceExecutor",
		"getContribution",
		"getContributions",
		"getContributionIds",
		"contributionCount",
		"nextContributionId",
		"governanceExecutor",
		"owner",
	} {
		_, ok := parsed.Methods[method]
		require.True(t, ok, "missing method %s", method)
	}

	for _, event := range []string{
		"ContributionSubmitted",
		"ContributionResolved",
		"GovernanceExecutorUpdated",
	} {
		_, ok := parsed.Events[event]
		require.True(t, ok, "missing event %s", event)
	}
}
