package fileadapter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"aletheia/internal/config"
	"aletheia/internal/models"
)

// Clock abstracts time for the adapter so tests can pin timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Adapter turns raw conversation export buffers into canonical gnosis
// entries. It holds no mutable state beyond its rule tables; one instance is
// safe for concurrent use.
type Adapter struct {
	cfg    *config.Config
	logger *zap.Logger
	clock  Clock
	jitter Jitter
}

// New builds an adapter with the system clock and randomized transcript
// jitter.
func New(cfg *config.Config, logger *zap.Logger) *Adapter {
	return NewWithClock(cfg, logger, systemClock{}, NewRandomJitter())
}

// NewWithClock builds an adapter with injected time sources. Tests use a
// fixed clock and jitter to make segmentation deterministic.
func NewWithClock(cfg *config.Config, logger *zap.Logger, clock Clock, jitter Jitter) *Adapter {
	return &Adapter{cfg: cfg, logger: logger, clock: clock, jitter: jitter}
}

// Process ingests a raw buffer plus filename hint and returns canonical
// entries with per-message errors. It never returns an error: malformed
// input degrades to an empty entry list with errors populated and the
// platform defaulted to manual.
func (a *Adapter) Process(data []byte, filename string) models.ParseResult {
	start := a.clock.Now()

	result := models.ParseResult{
		Entries: []models.GnosisEntry{},
		Errors:  []string{},
	}
	format := DetectFormat(filename, data)
	result.Metadata.Format = string(format)
	result.Metadata.FileSize = len(data)
	result.Metadata.Platform = string(PlatformManual)

	var parsed interface{}
	switch format {
	case FormatCSV:
		records, errs := parseCSV(data)
		result.Errors = append(result.Errors, errs...)
		if len(records) > 0 {
			parsed = records
		}
	case FormatNDJSON:
		records, errs := parseNDJSON(data)
		result.Errors = append(result.Errors, errs...)
		if len(records) > 0 {
			parsed = records
		}
	default:
		var v interface{}
		if err := json.Unmarshal(data, &v); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("invalid JSON: %v", err))
		} else {
			parsed = v
		}
	}

	if parsed != nil {
		platform := DetectPlatform(parsed, filename)
		entries, errs, degraded := a.transform(platform, parsed)
		result.Errors = append(result.Errors, errs...)
		if degraded {
			platform = PlatformManual
			entries = nil
		}
		if entries != nil {
			result.Entries = entries
		}
		result.Metadata.Platform = string(platform)
		result.Metadata.DetectedFields = detectedFields(parsed)
	}

	result.Metadata.ProcessingTimeMs = time.Since(start).Milliseconds()

	a.logger.Info("Processed import buffer",
		zap.String("filename", filename),
		zap.String("format", result.Metadata.Format),
		zap.String("platform", result.Metadata.Platform),
		zap.Int("entries", len(result.Entries)),
		zap.Int("errors", len(result.Errors)))

	return result
}

// transform dispatches to the platform transformer; a panic escaping the
// whole transform is a file-level soft failure, not a crash.
func (a *Adapter) transform(platform Platform, parsed interface{}) (entries []models.GnosisEntry, errs []string, degraded bool) {
	defer func() {
		if r := recover(); r != nil {
			errs = append(errs, fmt.Sprintf("transform failed: %v", r))
			degraded = true
		}
	}()

	switch platform {
	case PlatformGemini:
		entries = a.transformGemini(parsed, &errs)
	case PlatformOpenAI:
		entries = a.transformOpenAI(parsed, &errs)
	case PlatformClaude, PlatformAnthropic:
		entries = a.transformClaude(platform, parsed, &errs)
	default:
		entries = a.transformGeneric(parsed, &errs)
	}
	return entries, errs, false
}

// parseNDJSON decodes one JSON value per non-empty line. A malformed line is
// recorded and skipped; only zero successfully parsed lines fails the batch.
func parseNDJSON(data []byte) ([]interface{}, []string) {
	var records []interface{}
	var errs []string
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var v interface{}
		if err := json.Unmarshal([]byte(line), &v); err != nil {
			errs = append(errs, fmt.Sprintf("ndjson line %d: %v", i+1, err))
			continue
		}
		records = append(records, v)
	}
	return records, errs
}

// parseCSV reads the header row then maps every data row onto it. Malformed
// rows are recorded and skipped. Parsing is fully in-memory; very large
// files are bounded only by available memory.
func parseCSV(data []byte) ([]interface{}, []string) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, []string{fmt.Sprintf("csv header: %v", err)}
	}

	var records []interface{}
	var errs []string
	row := 1
	for {
		row++
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("csv row %d: %v", row, err))
			continue
		}
		record := map[string]interface{}{}
		for i, col := range header {
			if i < len(fields) {
				record[strings.TrimSpace(col)] = fields[i]
			}
		}
		records = append(records, record)
	}
	return records, errs
}

// detectedFields reports the top-level keys of the parsed structure (or of
// its first element for arrays), sorted for stable output.
func detectedFields(parsed interface{}) []string {
	scope := structuralScope(parsed)
	m, ok := scope.(map[string]interface{})
	if !ok {
		return nil
	}
	fields := make([]string, 0, len(m))
	for k := range m {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}
