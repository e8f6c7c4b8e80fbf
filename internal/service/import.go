package service

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aletheia/internal/fileadapter"
	"aletheia/internal/models"
	"aletheia/internal/repository"
)

// ImportService runs the ingestion pipeline end to end: adapter transform,
// validation, then persistence with dedup on external id.
type ImportService struct {
	adapter    *fileadapter.Adapter
	gnosisRepo repository.GnosisRepository
	logger     *zap.Logger
}

func NewImportService(adapter *fileadapter.Adapter, gnosisRepo repository.GnosisRepository, logger *zap.Logger) *ImportService {
	return &ImportService{adapter: adapter, gnosisRepo: gnosisRepo, logger: logger}
}

// ImportPayload ingests an already-canonical payload of messages and
// memories. Validation failures abort the whole batch; persistence failures
// are per-entry.
func (s *ImportService) ImportPayload(payload *models.ImportPayload) *models.ImportReport {
	total := len(payload.Data.Messages) + len(payload.Data.Memories)
	report := &models.ImportReport{
		ImportID:       uuid.NewString(),
		TotalProcessed: total,
	}

	result := models.ParseResult{Entries: payload.Data.Messages}
	validation := s.adapter.ValidateImport(&result, payload.Data.Memories)
	if !validation.Valid {
		report.Failed = total
		report.Errors = validation.Errors
		report.Summary = "validation failed, nothing imported"
		return report
	}

	if payload.Options.DryRun {
		report.Successful = total
		report.Summary = fmt.Sprintf("dry run: %d messages and %d memories would be imported",
			len(payload.Data.Messages), len(payload.Data.Memories))
		return report
	}

	s.persist(report, payload.Data.Messages, payload.Data.Memories, payload.Options.SessionID)
	return report
}

// ImportFile ingests a raw export buffer: detect, transform, validate,
// persist. The parse result is returned alongside the report so callers can
// surface per-message errors.
func (s *ImportService) ImportFile(data []byte, filename, sessionID string, dryRun bool) (*models.ImportReport, models.ParseResult) {
	result := s.adapter.Process(data, filename)

	report := &models.ImportReport{
		ImportID:       uuid.NewString(),
		TotalProcessed: len(result.Entries),
		Errors:         append([]string{}, result.Errors...),
	}

	validation := s.adapter.ValidateImport(&result, nil)
	if !validation.Valid {
		report.Failed = len(result.Entries)
		report.Errors = append(report.Errors, validation.Errors...)
		report.Summary = "validation failed, nothing imported"
		return report, result
	}

	if dryRun {
		report.Successful = len(result.Entries)
		report.Summary = fmt.Sprintf("dry run: %d entries would be imported", len(result.Entries))
		return report, result
	}

	s.persist(report, result.Entries, nil, sessionID)
	return report, result
}

// ImportTranscript segments an unlabeled transcript into alternating turns
// and imports the result. Segment warnings are advisory and do not block
// the import unless segmentation produced nothing.
func (s *ImportService) ImportTranscript(text, sessionID string, dryRun bool) (*models.ImportReport, fileadapter.SegmentReport, []models.GnosisEntry) {
	entries := s.adapter.SegmentTranscript(text)
	segments := s.adapter.ValidateSegments(entries)

	report := &models.ImportReport{
		ImportID:       uuid.NewString(),
		TotalProcessed: len(entries),
	}
	if !segments.Valid {
		report.Failed = len(entries)
		report.Errors = segments.Warnings
		report.Summary = "transcript segmentation produced no usable messages"
		return report, segments, entries
	}

	if dryRun {
		report.Successful = len(entries)
		report.Summary = fmt.Sprintf("dry run: %d transcript turns would be imported", len(entries))
		return report, segments, entries
	}

	s.persist(report, entries, nil, sessionID)
	return report, segments, entries
}

func (s *ImportService) persist(report *models.ImportReport, entries []models.GnosisEntry, memories []models.Memory, sessionID string) {
	inserted := 0
	duplicates := 0
	for i := range entries {
		ok, err := s.gnosisRepo.SaveEntry(sessionID, &entries[i])
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("entry %d: %v", i, err))
			s.logger.Error("Failed to save gnosis entry",
				zap.String("external_id", entries[i].ExternalID),
				zap.Error(err))
			continue
		}
		report.Successful++
		if ok {
			inserted++
		} else {
			duplicates++
		}
	}

	for i := range memories {
		if err := s.gnosisRepo.SaveMemory(&memories[i]); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("memory %d: %v", i, err))
			s.logger.Error("Failed to save memory", zap.Error(err))
			continue
		}
		report.Successful++
	}

	report.Summary = fmt.Sprintf("imported %d entries (%d new, %d duplicates skipped), %d memories, %d failed",
		len(entries), inserted, duplicates, len(memories), report.Failed)

	s.logger.Info("Import completed",
		zap.String("import_id", report.ImportID),
		zap.Int("successful", report.Successful),
		zap.Int("failed", report.Failed),
		zap.Int("duplicates", duplicates))
}
