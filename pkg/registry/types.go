package registry

// Verdict is the 4-value enum shared by the AI verdict and the governance
// final verdict. Zero means undetermined for the AI and pending for
// governance.
type Verdict uint8

const (
	VerdictUndetermined Verdict = 0
	VerdictAccept       Verdict = 1
	VerdictNeedsReview  Verdict = 2
	VerdictReject       Verdict = 3
)

// Valid reports whether v is a resolvable verdict (pending excluded).
func (v Verdict) Valid() bool {
	return v >= VerdictAccept && v <= VerdictReject
}

func (v Verdict) String() string {
	switch v {
	case VerdictAccept:
		return "accept"
	case VerdictNeedsReview:
		return "needs_review"
	case VerdictReject:
		return "reject"
	default:
		return "undetermined"
	}
}

// Score holds the contract's uint16 encoding: value x 10, clamped to
// [0,1000], i.e. 0.0-100.0 with one decimal of precision.
type Score struct {
	Technical  uint16 `json:"technical"`
	Community  uint16 `json:"community"`
	Governance uint16 `json:"governance"`
	Overall    uint16 `json:"overall"`
}

// Points converts a stored uint16 score back to its 0-100 value.
func Points(stored uint16) float64 {
	return float64(stored) / 10
}

// Contribution mirrors the registry's Contribution tuple with Go-native
// types. Metadata and AI report stay opaque strings here; decoding them is
// the governance workflow's concern.
type Contribution struct {
	ID            uint64  `json:"id"`
	Submitter     string  `json:"submitter"`
	Title         string  `json:"title"`
	MetadataURI   string  `json:"metadataURI"`
	AIReport      string  `json:"aiReport"`
	AIVerdict     Verdict `json:"aiVerdict"`
	Score         Score   `json:"score"`
	SubmittedAt   int64   `json:"submittedAt"`
	FinalVerdict  Verdict `json:"finalVerdict"`
	FinalApprover string  `json:"finalApprover"`
	FinalizedAt   int64   `json:"finalizedAt"`
	ProposalID    uint64  `json:"proposalId"`
	Notes         string  `json:"notes"`
}

// Resolved reports whether governance has issued a final verdict.
func (c Contribution) Resolved() bool {
	return c.FinalVerdict != VerdictUndetermined
}

// SubmitParams carries the arguments for a submitContribution write.
type SubmitParams struct {
	Title       string
	MetadataURI string
	AIReport    string
	AIVerdict   Verdict
	Score       Score
}

// TxHandle identifies an in-flight registry transaction by hash.
type TxHandle string

// TxStatus is the terminal outcome of watching a transaction. AssignedID is
// populated from the ContributionSubmitted event when the transaction
// created a contribution.
type TxStatus struct {
	Hash       TxHandle
	Confirmed  bool
	AssignedID *uint64
}
