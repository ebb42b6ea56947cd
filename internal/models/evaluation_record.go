package models

import (
	"time"

	"gorm.io/datatypes"
)

// Settlement states persisted with each evaluation record. They mirror the
// workflow's state machine so the audit trail shows where an attempt ended.
const (
	SettlementStateEvaluating          = "evaluating"
	SettlementStateAwaitingSignature   = "awaiting_signature"
	SettlementStatePendingConfirmation = "pending_confirmation"
	SettlementStateConfirmed           = "confirmed"
	SettlementStateFailed              = "failed"
)

// EvaluationRecord is the local audit row for one settlement attempt: the
// draft as submitted, the raw and structured AI report, and the on-chain
// outcome. The registry stays authoritative; this table exists so operators
// can trace what was sent and why.
type EvaluationRecord struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Title            string         `gorm:"size:255" json:"title"`
	Contributor      string         `gorm:"size:255" json:"contributor"`
	ContributionType string         `gorm:"size:32" json:"contribution_type"`
	Summary          string         `gorm:"type:text" json:"summary"`
	Impact           string         `gorm:"type:text" json:"impact"`
	EvidenceLinks    datatypes.JSON `json:"evidence_links"`
	Content          string         `gorm:"type:text" json:"content"`
	Structured       datatypes.JSON `json:"structured"`
	AIVerdict        uint8          `gorm:"default:0" json:"ai_verdict"`
	TechnicalScore   uint16         `gorm:"default:0" json:"technical_score"`
	CommunityScore   uint16         `gorm:"default:0" json:"community_score"`
	GovernanceScore  uint16         `gorm:"default:0" json:"governance_score"`
	OverallScore     uint16         `gorm:"default:0" json:"overall_score"`
	State            string         `gorm:"size:32;not null" json:"state"`
	TxHash           string         `gorm:"size:66" json:"tx_hash"`
	ContributionID   *uint64        `json:"contribution_id"`
	FailureReason    string         `gorm:"type:text" json:"failure_reason"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}
