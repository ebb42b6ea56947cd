package ai

import "context"

// ContributionInput carries the draft fields submitted for judging.
type ContributionInput struct {
	Title            string
	Contributor      string
	ContributionType string
	Summary          string
	Impact           string
	EvidenceLinks    []string
}

// Score groups the four judging dimensions. Pointer fields distinguish a
// dimension the model omitted from an explicit zero.
type Score struct {
	Technical  *float64 `json:"technical,omitempty"`
	Community  *float64 `json:"community,omitempty"`
	Governance *float64 `json:"governance,omitempty"`
	Overall    *float64 `json:"overall,omitempty"`
}

// EffectiveOverall returns the overall score, deriving it as the mean of the
// present sub-scores when the model did not provide one. No sub-scores at
// all yields zero.
func (s *Score) EffectiveOverall() float64 {
	if s == nil {
		return 0
	}
	if s.Overall != nil {
		return *s.Overall
	}

	sum := 0.0
	count := 0
	for _, v := range []*float64{s.Technical, s.Community, s.Governance} {
		if v != nil {
			sum += *v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// StructuredEvaluation is the JSON shape the judging model is asked to return.
type StructuredEvaluation struct {
	Verdict         string   `json:"verdict,omitempty"`
	Score           *Score   `json:"score,omitempty"`
	Confidence      string   `json:"confidence,omitempty"`
	Summary         string   `json:"summary,omitempty"`
	Strengths       []string `json:"strengths,omitempty"`
	Risks           []string `json:"risks,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Evaluation is the outcome of a judging call. Content always carries the raw
// reply text; Structured is nil when the reply could not be interpreted as
// the expected JSON shape. A nil Structured with non-empty Content is a valid
// partial success, not an error.
type Evaluation struct {
	Content    string
	Structured *StructuredEvaluation
}

// Judge describes a model capable of reviewing a contribution draft.
type Judge interface {
	Evaluate(ctx context.Context, input ContributionInput) (Evaluation, error)
}
