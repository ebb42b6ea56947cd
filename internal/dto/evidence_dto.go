package dto

// EvidenceUploadResponse returns the hosted location of an uploaded
// evidence file, ready to paste into a draft's evidence links.
type EvidenceUploadResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Bytes    int64  `json:"bytes"`
	Format   string `json:"format"`
}
