package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"aletheia/internal/models"
)

// NodeRepository is the distributed node registry. The verification service
// only reads nodes and updates their running authenticity score; node
// identity and lifecycle are owned elsewhere.
type NodeRepository interface {
	GetByVerificationKey(key string) (*models.Node, error)
	GetAuthenticityScore(nodeID int64) (int, error)
	UpdateAuthenticityScore(nodeID int64, score int) error
	TouchHeartbeat(nodeID int64) error
	CreateThreatEvent(nodeID int64, eventType, description string) (*models.ThreatEvent, error)
	CountNodes() (int, error)
}

type nodeRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewNodeRepository(db *sqlx.DB, logger *zap.Logger) NodeRepository {
	return &nodeRepository{db: db, logger: logger}
}

// GetByVerificationKey returns nil without error when no node matches the
// key; callers turn that into a negative verification outcome.
func (r *nodeRepository) GetByVerificationKey(key string) (*models.Node, error) {
	var node models.Node
	query := `SELECT id, name, verification_key, status, authenticity_score, last_heartbeat, created_at
	          FROM nodes WHERE verification_key = $1`
	err := r.db.Get(&node, query, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &node, nil
}

func (r *nodeRepository) GetAuthenticityScore(nodeID int64) (int, error) {
	var score int
	err := r.db.Get(&score, `SELECT authenticity_score FROM nodes WHERE id = $1`, nodeID)
	if err != nil {
		return 0, err
	}
	return score, nil
}

func (r *nodeRepository) UpdateAuthenticityScore(nodeID int64, score int) error {
	result, err := r.db.Exec(`UPDATE nodes SET authenticity_score = $1 WHERE id = $2`, score, nodeID)
	if err != nil {
		r.logger.Error("Failed to update node authenticity score",
			zap.Int64("node_id", nodeID),
			zap.Int("score", score),
			zap.Error(err))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("node not found: %d", nodeID)
	}
	return nil
}

func (r *nodeRepository) TouchHeartbeat(nodeID int64) error {
	_, err := r.db.Exec(`UPDATE nodes SET last_heartbeat = $1 WHERE id = $2`, time.Now(), nodeID)
	return err
}

func (r *nodeRepository) CreateThreatEvent(nodeID int64, eventType, description string) (*models.ThreatEvent, error) {
	event := &models.ThreatEvent{
		ID:          uuid.NewString(),
		NodeID:      nodeID,
		EventType:   eventType,
		Description: description,
	}
	query := `INSERT INTO threat_events (id, node_id, event_type, description)
	          VALUES ($1, $2, $3, $4) RETURNING created_at`
	err := r.db.QueryRowx(query, event.ID, event.NodeID, event.EventType, event.Description).Scan(&event.CreatedAt)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *nodeRepository) CountNodes() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM nodes WHERE status = 'active'`)
	if err != nil {
		return 0, err
	}
	return count, nil
}
