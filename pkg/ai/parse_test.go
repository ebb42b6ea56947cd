package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseContentStrictJSON(t *testing.T) {
	structured := ParseContent(`{"verdict":"accept","score":{"overall":88.5},"summary":"solid work"}`)
	require.NotNil(t, structured)
	require.Equal(t, "accept", structured.Verdict)
	require.NotNil(t, structured.Score)
	require.NotNil(t, structured.Score.Overall)
	require.InDelta(t, 88.5, *structured.Score.Overall, 0.001)
}

func TestParseContentTrailingBlock(t *testing.T) {
	content := "这是评审意见的前言。\n\n{\"verdict\":\"needs_review\",\"confidence\":\"medium\"}"
	structured := ParseContent(content)
	require.NotNil(t, structured)
	require.Equal(t, "needs_review", structured.Verdict)
	require.Equal(t, "medium", structured.Confidence)
}

func TestParseContentProseOnly(t *testing.T) {
	require.Nil(t, ParseContent("纯文本评审，没有任何 JSON。"))
	require.Nil(t, ParseContent(""))
}

func TestParseContentRejectsWrongShape(t *testing.T) {
	// verdict must be a string per the schema.
	require.Nil(t, ParseContent(`{"verdict": 42}`))
	// A JSON array is not an evaluation object.
	require.Nil(t, ParseContent(`["accept"]`))
}

func TestEffectiveOverallPrefersExplicit(t *testing.T) {
	overall := 91.0
	technical := 10.0
	score := &Score{Overall: &overall, Technical: &technical}
	require.InDelta(t, 91.0, score.EffectiveOverall(), 0.001)
}

func TestEffectiveOverallMeansSubScores(t *testing.T) {
	technical := 80.0
	community := 60.0
	score := &Score{Technical: &technical, Community: &community}
	require.InDelta(t, 70.0, score.EffectiveOverall(), 0.001)
}

func TestEffectiveOverallEmpty(t *testing.T) {
	require.Zero(t, (&Score{}).EffectiveOverall())
	var score *Score
	require.Zero(t, score.EffectiveOverall())
}
