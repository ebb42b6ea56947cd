package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/proof-of-love/pol-api/pkg/ai"
	"github.com/proof-of-love/pol-api/pkg/registry"
)

func TestNormalizeScore(t *testing.T) {
	cases := []struct {
		name  string
		input float64
		want  uint16
	}{
		{"one decimal kept", 87.6, 876},
		{"negative clamps to zero", -5, 0},
		{"above range clamps to max", 150, 1000},
		{"zero", 0, 0},
		{"max", 100, 1000},
		{"rounds half up", 87.65, 877},
		{"nan degrades to zero", math.NaN(), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, normalizeScore(tc.input))
		})
	}
}

func TestNormalizeScoresDerivesOverall(t *testing.T) {
	technical := 80.0
	community := 60.0
	scores := normalizeScores(&ai.Score{Technical: &technical, Community: &community})
	require.Equal(t, uint16(800), scores.Technical)
	require.Equal(t, uint16(600), scores.Community)
	require.Equal(t, uint16(0), scores.Governance)
	require.Equal(t, uint16(700), scores.Overall)
}

func TestNormalizeScoresNil(t *testing.T) {
	require.Equal(t, registry.Score{}, normalizeScores(nil))
}

func TestMapVerdict(t *testing.T) {
	cases := []struct {
		verdict string
		want    registry.Verdict
	}{
		{"accept", registry.VerdictAccept},
		{"Accept", registry.VerdictAccept},
		{"reject", registry.VerdictReject},
		{"needs_review", registry.VerdictNeedsReview},
		{"needs-review", registry.VerdictNeedsReview},
		{"Needs Review", registry.VerdictNeedsReview},
		{"  accept  ", registry.VerdictAccept},
		// Unrecognised verdicts from a structured reply route to review.
		{"banana", registry.VerdictNeedsReview},
		{"", registry.VerdictNeedsReview},
	}

	for _, tc := range cases {
		got := mapVerdict(&ai.StructuredEvaluation{Verdict: tc.verdict})
		require.Equal(t, tc.want, got, "verdict %q", tc.verdict)
	}
}

func TestMapVerdictUnstructured(t *testing.T) {
	require.Equal(t, registry.VerdictUndetermined, mapVerdict(nil))
}
