package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/proof-of-love/pol-api/pkg/registry"
)

func TestDraftLinksMergesSources(t *testing.T) {
	draft := DraftRequest{
		EvidenceLinks: []string{" https://a.example ", "", "https://b.example"},
		Evidence:      "https://c.example\n\n  https://d.example  ",
	}
	require.Equal(t, []string{
		"https://a.example",
		"https://b.example",
		"https://c.example",
		"https://d.example",
	}, draft.Links())
}

func TestStringListAcceptsArrayAndString(t *testing.T) {
	var list StringList
	require.NoError(t, json.Unmarshal([]byte(`["a","b"]`), &list))
	require.Equal(t, StringList{"a", "b"}, list)

	require.NoError(t, json.Unmarshal([]byte(`"single"`), &list))
	require.Equal(t, StringList{"single"}, list)

	require.Error(t, json.Unmarshal([]byte(`42`), &list))
}

func TestNewContributionViewDecodesBlobs(t *testing.T) {
	view := NewContributionView(registry.Contribution{
		ID:          4,
		Title:       "Parachain tutorial",
		MetadataURI: `{"summary":"wrote a tutorial","evidenceLinks":"https://a.example"}`,
		AIReport:    `{"verdict":"accept","summary":"好"}`,
		AIVerdict:   registry.VerdictAccept,
		Score:       registry.Score{Overall: 880, Technical: 900},
	})

	require.Equal(t, "accept", view.AIVerdictName)
	require.InDelta(t, 88.0, view.Score.Overall, 0.001)
	require.InDelta(t, 90.0, view.Score.Technical, 0.001)
	require.NotNil(t, view.Metadata)
	require.Equal(t, []string{"https://a.example"}, []string(view.Metadata.EvidenceLinks))
	require.NotNil(t, view.AIReport)
	require.Equal(t, "accept", view.AIReport.Verdict)
	require.Equal(t, `{"verdict":"accept","summary":"好"}`, view.AIReportRaw)
}

func TestNewContributionViewTolerantOfOpaqueBlobs(t *testing.T) {
	view := NewContributionView(registry.Contribution{
		ID:          5,
		MetadataURI: "ipfs://QmNotJSON",
		AIReport:    "纯文本评审",
	})

	require.Nil(t, view.Metadata)
	require.Nil(t, view.AIReport)
	require.Equal(t, "纯文本评审", view.AIReportRaw)
	require.Equal(t, "未命名贡献", view.Title)
}

func TestNewContributionViewTitleFromMetadata(t *testing.T) {
	view := NewContributionView(registry.Contribution{
		MetadataURI: `{"title":"来自元数据的标题"}`,
	})
	require.Equal(t, "来自元数据的标题", view.Title)
}
