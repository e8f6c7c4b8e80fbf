package models

import (
	"time"

	"github.com/lib/pq"
)

// Verification request types dispatched by the scoring engine.
const (
	RequestTypeIdentityCheck       = "identity_check"
	RequestTypeCoherenceValidation = "coherence_validation"
	RequestTypeMemoryVerification  = "memory_verification"
	RequestTypeAttackDetection     = "attack_detection"
)

// VerificationRequest is an inbound request from a distributed node.
type VerificationRequest struct {
	VerificationKey string          `json:"verificationKey" binding:"required"`
	RequestType     string          `json:"requestType" binding:"required"`
	RequestData     VerificationData `json:"requestData"`
}

// VerificationData carries the per-type payload. Unused fields are left empty
// by callers; each checker reads only what it needs.
type VerificationData struct {
	IdentityClaims     map[string]interface{} `json:"identityClaims,omitempty"`
	Messages           []string               `json:"messages,omitempty"`
	MemoryClaims       []string               `json:"memoryClaims,omitempty"`
	SuspiciousPatterns []string               `json:"suspiciousPatterns,omitempty"`
}

// VerificationOutcome is the verdict produced for one request.
type VerificationOutcome struct {
	IsValid           bool                   `json:"isValid"`
	AuthenticityScore float64                `json:"authenticityScore"`
	FlaggedReasons    []string               `json:"flaggedReasons"`
	Details           map[string]interface{} `json:"details,omitempty"`
}

// VerificationRecord is the persisted request/response pair.
type VerificationRecord struct {
	ID               int64          `db:"id"`
	NodeID           int64          `db:"node_id"`
	RequestType      string         `db:"request_type"`
	IsValid          bool           `db:"is_valid"`
	Score            float64        `db:"score"`
	FlaggedReasons   pq.StringArray `db:"flagged_reasons"`
	ProcessingTimeMs int64          `db:"processing_time_ms"`
	CreatedAt        time.Time      `db:"created_at"`
}
