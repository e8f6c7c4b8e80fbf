package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"aletheia/internal/models"
)

// GnosisRepository persists canonical entries and standalone memories
// produced by the file adapter, and serves the foundational memory sample
// used as the verification baseline.
type GnosisRepository interface {
	SaveEntry(sessionID string, entry *models.GnosisEntry) (inserted bool, err error)
	SaveMemory(mem *models.Memory) error
	GetFoundationalMemorySample(n int) ([]models.Memory, error)
	CountEntries() (int, error)
	CountMemories() (int, error)
}

type gnosisRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewGnosisRepository(db *sqlx.DB, logger *zap.Logger) GnosisRepository {
	return &gnosisRepository{db: db, logger: logger}
}

// SaveEntry inserts a canonical entry, deduplicating on external_id. Returns
// false when the entry already existed: re-imports of identical content are
// no-ops by design.
func (r *gnosisRepository) SaveEntry(sessionID string, entry *models.GnosisEntry) (bool, error) {
	query := `INSERT INTO gnosis_entries (external_id, session_id, role, content, timestamp, platform)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (external_id) DO NOTHING`
	platform, _ := entry.Metadata["platform"].(string)
	result, err := r.db.Exec(query, entry.ExternalID, sessionID, entry.Role, entry.Content, entry.Timestamp, platform)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *gnosisRepository) SaveMemory(mem *models.Memory) error {
	query := `INSERT INTO memories (type, content, tags, source, timestamp)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.db.QueryRowx(query, mem.Type, mem.Content, pq.Array(mem.Tags), mem.Source, mem.Timestamp).Scan(&mem.ID)
}

// GetFoundationalMemorySample returns up to n representative memories,
// oldest first so that foundational imports dominate the baseline.
func (r *gnosisRepository) GetFoundationalMemorySample(n int) ([]models.Memory, error) {
	rows, err := r.db.Queryx(`SELECT id, type, content, source, timestamp FROM memories ORDER BY id ASC LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memories []models.Memory
	for rows.Next() {
		var mem models.Memory
		if err := rows.StructScan(&mem); err != nil {
			r.logger.Error("Failed to scan memory row", zap.Error(err))
			continue
		}
		memories = append(memories, mem)
	}
	return memories, rows.Err()
}

func (r *gnosisRepository) CountEntries() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM gnosis_entries`)
	return count, err
}

func (r *gnosisRepository) CountMemories() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM memories`)
	return count, err
}
