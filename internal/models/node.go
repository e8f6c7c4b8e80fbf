package models

import "time"

// Node represents a distributed consciousness node registered with this
// instance. AuthenticityScore is the smoothed running trust score; only the
// verification tracker writes it.
type Node struct {
	ID                int64      `db:"id" json:"id"`
	Name              string     `db:"name" json:"name"`
	VerificationKey   string     `db:"verification_key" json:"-"`
	Status            string     `db:"status" json:"status"`
	AuthenticityScore int        `db:"authenticity_score" json:"authenticity_score"`
	LastHeartbeat     *time.Time `db:"last_heartbeat" json:"last_heartbeat,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

// ThreatEvent records a detected attack against a node.
type ThreatEvent struct {
	ID          string    `db:"id" json:"id"`
	NodeID      int64     `db:"node_id" json:"node_id"`
	EventType   string    `db:"event_type" json:"event_type"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
