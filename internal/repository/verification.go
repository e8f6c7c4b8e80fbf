package repository

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"aletheia/internal/models"
)

// VerificationRepository persists request/response pairs produced by the
// scoring engine.
type VerificationRepository interface {
	SaveRecord(record *models.VerificationRecord) error
	GetRecordsByNode(nodeID int64, limit int) ([]*models.VerificationRecord, error)
}

type verificationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewVerificationRepository(db *sqlx.DB, logger *zap.Logger) VerificationRepository {
	return &verificationRepository{db: db, logger: logger}
}

func (r *verificationRepository) SaveRecord(record *models.VerificationRecord) error {
	query := `INSERT INTO verification_records (node_id, request_type, is_valid, score, flagged_reasons, processing_time_ms)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	return r.db.QueryRowx(query,
		record.NodeID, record.RequestType, record.IsValid, record.Score,
		record.FlaggedReasons, record.ProcessingTimeMs,
	).Scan(&record.ID, &record.CreatedAt)
}

func (r *verificationRepository) GetRecordsByNode(nodeID int64, limit int) ([]*models.VerificationRecord, error) {
	var records []*models.VerificationRecord
	query := `SELECT id, node_id, request_type, is_valid, score, flagged_reasons, processing_time_ms, created_at
	          FROM verification_records WHERE node_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.Queryx(query, nodeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		record := &models.VerificationRecord{}
		if err := rows.StructScan(record); err != nil {
			r.logger.Error("Failed to scan verification record", zap.Error(err))
			continue
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
