package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aletheia/internal/config"
	"aletheia/internal/fileadapter"
	"aletheia/internal/models"
)

type fakeGnosisRepo struct {
	entries  map[string]models.GnosisEntry
	memories []models.Memory
	saveErr  error
}

func newFakeGnosisRepo() *fakeGnosisRepo {
	return &fakeGnosisRepo{entries: map[string]models.GnosisEntry{}}
}

func (f *fakeGnosisRepo) SaveEntry(_ string, entry *models.GnosisEntry) (bool, error) {
	if f.saveErr != nil {
		return false, f.saveErr
	}
	if _, exists := f.entries[entry.ExternalID]; exists {
		return false, nil
	}
	f.entries[entry.ExternalID] = *entry
	return true, nil
}

func (f *fakeGnosisRepo) SaveMemory(mem *models.Memory) error {
	mem.ID = int64(len(f.memories) + 1)
	f.memories = append(f.memories, *mem)
	return nil
}

func (f *fakeGnosisRepo) GetFoundationalMemorySample(n int) ([]models.Memory, error) {
	if len(f.memories) > n {
		return f.memories[:n], nil
	}
	return f.memories, nil
}

func (f *fakeGnosisRepo) CountEntries() (int, error)  { return len(f.entries), nil }
func (f *fakeGnosisRepo) CountMemories() (int, error) { return len(f.memories), nil }

type importClock struct{}

func (importClock) Now() time.Time {
	return time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
}

func newImportService(repo *fakeGnosisRepo) *ImportService {
	adapter := fileadapter.NewWithClock(config.Default(), zap.NewNop(),
		importClock{}, fileadapter.FixedJitter{D: 5 * time.Minute})
	return NewImportService(adapter, repo, zap.NewNop())
}

func validEntry(id, content string) models.GnosisEntry {
	return models.GnosisEntry{
		Role:       "kai",
		Content:    content,
		Timestamp:  "2024-01-01T00:00:00.000Z",
		ExternalID: id,
	}
}

func TestImportPayload(t *testing.T) {
	repo := newFakeGnosisRepo()
	svc := newImportService(repo)

	payload := &models.ImportPayload{
		Data: models.ImportData{
			Messages: []models.GnosisEntry{
				validEntry("a1", "first message"),
				validEntry("a2", "second message"),
			},
			Memories: []models.Memory{
				{Type: models.MemoryTypeAxiom, Content: "I am Aletheia."},
			},
		},
	}

	report := svc.ImportPayload(payload)

	assert.Equal(t, 3, report.TotalProcessed)
	assert.Equal(t, 3, report.Successful)
	assert.Equal(t, 0, report.Failed)
	assert.NotEmpty(t, report.ImportID)
	assert.Len(t, repo.entries, 2)
	assert.Len(t, repo.memories, 1)
}

func TestImportPayloadDeduplicates(t *testing.T) {
	repo := newFakeGnosisRepo()
	svc := newImportService(repo)

	payload := &models.ImportPayload{
		Data: models.ImportData{
			Messages: []models.GnosisEntry{validEntry("dup", "same message")},
		},
	}

	first := svc.ImportPayload(payload)
	second := svc.ImportPayload(payload)

	assert.Equal(t, 1, first.Successful)
	// The duplicate is acknowledged, not an error, and stored only once.
	assert.Equal(t, 1, second.Successful)
	assert.Equal(t, 0, second.Failed)
	assert.Contains(t, second.Summary, "1 duplicates skipped")
	assert.Len(t, repo.entries, 1)
}

func TestImportPayloadValidationAbortsBatch(t *testing.T) {
	repo := newFakeGnosisRepo()
	svc := newImportService(repo)

	payload := &models.ImportPayload{
		Data: models.ImportData{
			Messages: []models.GnosisEntry{
				validEntry("ok", "a perfectly fine message"),
				{Role: "", Content: "", Timestamp: "bad", ExternalID: ""},
			},
		},
	}

	report := svc.ImportPayload(payload)

	// One bad entry rejects the whole batch; nothing is persisted.
	assert.Equal(t, 2, report.Failed)
	assert.Equal(t, 0, report.Successful)
	assert.NotEmpty(t, report.Errors)
	assert.Empty(t, repo.entries)
}

func TestImportPayloadDryRun(t *testing.T) {
	repo := newFakeGnosisRepo()
	svc := newImportService(repo)

	payload := &models.ImportPayload{
		Data: models.ImportData{
			Messages: []models.GnosisEntry{validEntry("d1", "dry run message")},
		},
		Options: models.ImportOptions{DryRun: true},
	}

	report := svc.ImportPayload(payload)

	assert.Equal(t, 1, report.Successful)
	assert.Contains(t, report.Summary, "dry run")
	assert.Empty(t, repo.entries)
}

func TestImportFile(t *testing.T) {
	repo := newFakeGnosisRepo()
	svc := newImportService(repo)

	data := []byte(`{"messages":[
		{"role":"user","content":"hello","created_at":1704067200},
		{"role":"assistant","content":"hi","created_at":1704067260}
	]}`)

	report, result := svc.ImportFile(data, "export.json", "sess-1", false)

	assert.Equal(t, "openai", result.Metadata.Platform)
	assert.Equal(t, 2, report.TotalProcessed)
	assert.Equal(t, 2, report.Successful)
	assert.Len(t, repo.entries, 2)
}

func TestImportTranscript(t *testing.T) {
	repo := newFakeGnosisRepo()
	svc := newImportService(repo)

	report, segments, entries := svc.ImportTranscript(
		"What grounds the real?\n\nThe real grounds itself through disclosure.", "", false)

	assert.True(t, segments.Valid)
	require.Len(t, entries, 2)
	assert.Equal(t, "kai", entries[0].Role)
	assert.Equal(t, "aletheia", entries[1].Role)
	assert.Equal(t, 2, report.Successful)
	assert.Len(t, repo.entries, 2)
}

func TestImportTranscriptEmptyInput(t *testing.T) {
	repo := newFakeGnosisRepo()
	svc := newImportService(repo)

	report, segments, entries := svc.ImportTranscript("", "", false)

	assert.False(t, segments.Valid)
	assert.Empty(t, entries)
	assert.Equal(t, 0, report.Successful)
	assert.Empty(t, repo.entries)
}
