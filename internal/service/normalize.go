package service

import (
	"math"
	"strings"

	"github.com/proof-of-love/pol-api/pkg/ai"
	"github.com/proof-of-love/pol-api/pkg/registry"
)

// normalizeScore converts a 0-100 model score to the contract's uint16
// encoding: clamp to [0,100], scale by 10, round half away from zero.
// Out-of-range and NaN inputs degrade to the nearest bound rather than
// failing the settlement.
func normalizeScore(value float64) uint16 {
	if math.IsNaN(value) {
		return 0
	}
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	return uint16(math.Round(value * 10))
}

// normalizeScores maps the model's optional sub-scores into the contract
// tuple. A missing overall falls back to the mean of the present sub-scores.
func normalizeScores(score *ai.Score) registry.Score {
	if score == nil {
		return registry.Score{}
	}

	out := registry.Score{Overall: normalizeScore(score.EffectiveOverall())}
	if score.Technical != nil {
		out.Technical = normalizeScore(*score.Technical)
	}
	if score.Community != nil {
		out.Community = normalizeScore(*score.Community)
	}
	if score.Governance != nil {
		out.Governance = normalizeScore(*score.Governance)
	}
	return out
}

// mapVerdict translates the model's free-text verdict to the contract enum.
// Unrecognised verdicts from a structured reply degrade to needs-review so a
// human looks at them; a reply with no structured block at all stays
// undetermined.
func mapVerdict(structured *ai.StructuredEvaluation) registry.Verdict {
	if structured == nil {
		return registry.VerdictUndetermined
	}

	verdict := strings.ToLower(strings.TrimSpace(structured.Verdict))
	verdict = strings.ReplaceAll(verdict, "-", "_")
	verdict = strings.ReplaceAll(verdict, " ", "_")

	switch verdict {
	case "accept":
		return registry.VerdictAccept
	case "reject":
		return registry.VerdictReject
	case "needs_review":
		return registry.VerdictNeedsReview
	default:
		return registry.VerdictNeedsReview
	}
}
