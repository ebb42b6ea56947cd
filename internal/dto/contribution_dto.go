package dto

import (
	"encoding/json"
	"strings"

	"github.com/proof-of-love/pol-api/pkg/ai"
	"github.com/proof-of-love/pol-api/pkg/registry"
)

// DraftRequest is the client-side contribution draft. Field names match the
// original frontend payload. Evidence may arrive either as a link array or
// as the raw newline-delimited textarea value.
type DraftRequest struct {
	Title            string   `json:"title"`
	Contributor      string   `json:"contributor"`
	ContributionType string   `json:"contributionType" validate:"omitempty,oneof=code education governance community other"`
	Summary          string   `json:"summary" validate:"required"`
	Impact           string   `json:"impact"`
	EvidenceLinks    []string `json:"evidenceLinks"`
	Evidence         string   `json:"evidence"`
}

// Links merges the explicit link list with the raw textarea value, trimming
// blanks, preserving order.
func (d DraftRequest) Links() []string {
	links := make([]string, 0, len(d.EvidenceLinks))
	for _, link := range d.EvidenceLinks {
		if trimmed := strings.TrimSpace(link); trimmed != "" {
			links = append(links, trimmed)
		}
	}
	for _, line := range strings.Split(d.Evidence, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			links = append(links, trimmed)
		}
	}
	return links
}

// JudgeResponse is the judge endpoint's wire contract, byte-compatible with
// the original API route: raw content always present, structured only when
// the reply parsed.
type JudgeResponse struct {
	OK         bool                     `json:"ok"`
	Content    string                   `json:"content"`
	Structured *ai.StructuredEvaluation `json:"structured"`
}

// JudgeError is the error shape of the judge endpoint.
type JudgeError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SettlementResponse reports the outcome of a settlement run.
type SettlementResponse struct {
	ContributionID *uint64       `json:"contribution_id"`
	AnticipatedID  *uint64       `json:"anticipated_id"`
	TxHash         string        `json:"tx_hash"`
	State          string        `json:"state"`
	Evaluation     JudgeResponse `json:"evaluation"`
}

// StringList tolerates metadata blobs where evidenceLinks was written as a
// single string rather than an array; the ledger is append-only, so old
// shapes must stay readable.
type StringList []string

// UnmarshalJSON accepts either a JSON array of strings or a bare string.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*l = []string{single}
	return nil
}

// ContributionMetadata is the JSON object pinned in the registry's
// metadataURI field.
type ContributionMetadata struct {
	Title            string     `json:"title,omitempty"`
	ContributionType string     `json:"contributionType,omitempty"`
	Summary          string     `json:"summary,omitempty"`
	Impact           string     `json:"impact,omitempty"`
	EvidenceLinks    StringList `json:"evidenceLinks,omitempty"`
	Submitter        string     `json:"submitter,omitempty"`
	AIGeneratedAt    string     `json:"aiGeneratedAt,omitempty"`
}

// ScoreView is the decoded 0-100 representation of the stored uint16 scores.
type ScoreView struct {
	Technical  float64 `json:"technical"`
	Community  float64 `json:"community"`
	Governance float64 `json:"governance"`
	Overall    float64 `json:"overall"`
}

// ContributionView is a registry record decoded for API consumers: opaque
// blobs parsed best-effort, raw AI report preserved alongside.
type ContributionView struct {
	ID            uint64                   `json:"id"`
	Submitter     string                   `json:"submitter"`
	Title         string                   `json:"title"`
	AIVerdict     uint8                    `json:"ai_verdict"`
	AIVerdictName string                   `json:"ai_verdict_name"`
	FinalVerdict  uint8                    `json:"final_verdict"`
	Score         ScoreView                `json:"score"`
	SubmittedAt   int64                    `json:"submitted_at"`
	FinalizedAt   int64                    `json:"finalized_at"`
	FinalApprover string                   `json:"final_approver"`
	ProposalID    uint64                   `json:"proposal_id"`
	Notes         string                   `json:"notes"`
	Metadata      *ContributionMetadata    `json:"metadata"`
	AIReport      *ai.StructuredEvaluation `json:"ai_report"`
	AIReportRaw   string                   `json:"ai_report_raw"`
}

// NewContributionView decodes a registry record. Metadata and AI report
// blobs that fail to parse yield nil views without dropping the raw string.
func NewContributionView(c registry.Contribution) ContributionView {
	var metadata *ContributionMetadata
	if c.MetadataURI != "" {
		var decoded ContributionMetadata
		if err := json.Unmarshal([]byte(c.MetadataURI), &decoded); err == nil {
			metadata = &decoded
		}
	}

	var report *ai.StructuredEvaluation
	if c.AIReport != "" {
		var decoded ai.StructuredEvaluation
		if err := json.Unmarshal([]byte(c.AIReport), &decoded); err == nil {
			report = &decoded
		}
	}

	title := strings.TrimSpace(c.Title)
	if title == "" && metadata != nil {
		title = strings.TrimSpace(metadata.Title)
	}
	if title == "" {
		title = "未命名贡献"
	}

	return ContributionView{
		ID:            c.ID,
		Submitter:     c.Submitter,
		Title:         title,
		AIVerdict:     uint8(c.AIVerdict),
		AIVerdictName: c.AIVerdict.String(),
		FinalVerdict:  uint8(c.FinalVerdict),
		Score: ScoreView{
			Technical:  registry.Points(c.Score.Technical),
			Community:  registry.Points(c.Score.Community),
			Governance: registry.Points(c.Score.Governance),
			Overall:    registry.Points(c.Score.Overall),
		},
		SubmittedAt:   c.SubmittedAt,
		FinalizedAt:   c.FinalizedAt,
		FinalApprover: c.FinalApprover,
		ProposalID:    c.ProposalID,
		Notes:         c.Notes,
		Metadata:      metadata,
		AIReport:      report,
		AIReportRaw:   c.AIReport,
	}
}
