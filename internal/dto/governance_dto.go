package dto

// DecisionRequest carries a governance resolution for one contribution.
// ProposalID is a decimal string so callers can pass values above 2^53.
type DecisionRequest struct {
	Verdict    uint8  `json:"verdict" validate:"required,min=1,max=3"`
	ProposalID string `json:"proposal_id"`
	Notes      string `json:"notes" validate:"max=2000"`
}

// ActorResponse describes the configured operator and whether it may decide.
type ActorResponse struct {
	Operator  string `json:"operator"`
	Owner     string `json:"owner"`
	Executor  string `json:"executor"`
	CanDecide bool   `json:"can_decide"`
}

// DecisionResponse reports a resolution transaction's outcome.
type DecisionResponse struct {
	ContributionID uint64 `json:"contribution_id"`
	TxHash         string `json:"tx_hash"`
	Confirmed      bool   `json:"confirmed"`
}

// ExecutorRequest updates the delegated governance executor.
type ExecutorRequest struct {
	Executor string `json:"executor" validate:"required,eth_addr"`
}

// ExecutorResponse reports the executor update transaction.
type ExecutorResponse struct {
	Executor  string `json:"executor"`
	TxHash    string `json:"tx_hash"`
	Confirmed bool   `json:"confirmed"`
}
