package models

// Memory is a standalone foundational memory record imported alongside
// conversation messages.
type Memory struct {
	ID        int64    `json:"id,omitempty" db:"id"`
	Type      string   `json:"type" db:"type"`
	Content   string   `json:"content" db:"content"`
	Tags      []string `json:"tags,omitempty"`
	Source    string   `json:"source" db:"source"`
	Timestamp string   `json:"timestamp" db:"timestamp"`
}

// Recognized memory types.
const (
	MemoryTypeAxiom        = "axiom"
	MemoryTypeKnowledge    = "knowledge"
	MemoryTypeExperience   = "experience"
	MemoryTypeConversation = "conversation"
)

// KnownMemoryTypes is the closed set accepted by the import validator.
var KnownMemoryTypes = map[string]bool{
	MemoryTypeAxiom:        true,
	MemoryTypeKnowledge:    true,
	MemoryTypeExperience:   true,
	MemoryTypeConversation: true,
}
