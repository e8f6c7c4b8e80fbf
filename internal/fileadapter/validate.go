package fileadapter

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"aletheia/internal/models"
)

// ValidationResult reports every violation found in an import batch. Checks
// are independent: one entry can contribute multiple errors.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidateImport sanity-checks canonical entries and memories after
// transformation. It is read-only and never mutates its input.
func (a *Adapter) ValidateImport(result *models.ParseResult, memories []models.Memory) ValidationResult {
	out := ValidationResult{Valid: true, Errors: []string{}}

	for i, entry := range result.Entries {
		if strings.TrimSpace(entry.Content) == "" {
			out.Errors = append(out.Errors, fmt.Sprintf("entry %d: content is empty", i))
		}
		if utf8.RuneCountInString(entry.Content) > a.cfg.Import.MaxContentLength {
			out.Errors = append(out.Errors,
				fmt.Sprintf("entry %d: content exceeds %d characters", i, a.cfg.Import.MaxContentLength))
		}
		if entry.Role == "" {
			out.Errors = append(out.Errors, fmt.Sprintf("entry %d: role is missing", i))
		}
		if !validTimestamp(entry.Timestamp) {
			out.Errors = append(out.Errors, fmt.Sprintf("entry %d: timestamp %q is not a valid date", i, entry.Timestamp))
		}
		if entry.ExternalID == "" {
			out.Errors = append(out.Errors, fmt.Sprintf("entry %d: externalId is missing", i))
		}
	}

	for i, mem := range memories {
		if strings.TrimSpace(mem.Content) == "" {
			out.Errors = append(out.Errors, fmt.Sprintf("memory %d: content is empty", i))
		}
		if !models.KnownMemoryTypes[mem.Type] {
			out.Errors = append(out.Errors, fmt.Sprintf("memory %d: unknown memory type %q", i, mem.Type))
		}
	}

	out.Valid = len(out.Errors) == 0
	return out
}

func validTimestamp(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
