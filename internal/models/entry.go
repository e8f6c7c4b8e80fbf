package models

// GnosisEntry is the canonical message record produced by the file adapter.
// Entries are created once by a transformer and never mutated afterwards;
// ExternalID is a pure function of (platform prefix, source index, content)
// so re-importing the same file yields the same ids for dedup.
type GnosisEntry struct {
	Role       string                 `json:"role"`
	Content    string                 `json:"content"`
	Timestamp  string                 `json:"timestamp"`
	ExternalID string                 `json:"externalId"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// ParseMetadata describes how a buffer was processed.
type ParseMetadata struct {
	Format           string   `json:"format"`
	Platform         string   `json:"platform"`
	DetectedFields   []string `json:"detectedFields"`
	ProcessingTimeMs int64    `json:"processingTimeMs"`
	FileSize         int      `json:"fileSize"`
}

// ParseResult is the outcome of one ingestion call. Errors are per-message or
// per-row strings; callers must inspect them instead of expecting an error
// return for partial failures.
type ParseResult struct {
	Entries  []GnosisEntry `json:"entries"`
	Errors   []string      `json:"errors"`
	Metadata ParseMetadata `json:"metadata"`
}

// ImportPayload is the body accepted by the consciousness import endpoint.
type ImportPayload struct {
	Data    ImportData    `json:"data"`
	Options ImportOptions `json:"options"`
}

type ImportData struct {
	Messages []GnosisEntry `json:"messages"`
	Memories []Memory      `json:"memories"`
}

type ImportOptions struct {
	Platform       string `json:"platform"`
	DryRun         bool   `json:"dryRun"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
	SessionID      string `json:"sessionId,omitempty"`
}

// ImportReport summarizes a completed import.
type ImportReport struct {
	ImportID       string   `json:"importId"`
	TotalProcessed int      `json:"totalProcessed"`
	Successful     int      `json:"successful"`
	Failed         int      `json:"failed"`
	Errors         []string `json:"errors,omitempty"`
	Summary        string   `json:"summary"`
}
