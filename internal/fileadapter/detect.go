package fileadapter

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// Format is the detected wire format of an import buffer.
type Format string

const (
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatCSV    Format = "csv"
)

const sniffLimit = 1000

// DetectFormat classifies raw bytes as json, ndjson or csv. The file
// extension wins when present; otherwise the first 1000 bytes are sniffed.
// It never fails and always returns a value.
func DetectFormat(filename string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	case ".json":
		return FormatJSON
	}

	head := data
	if len(head) > sniffLimit {
		head = head[:sniffLimit]
	}
	content := string(head)
	trimmed := strings.TrimSpace(content)

	if strings.Contains(content, ",") && strings.Contains(content, "\n") && !strings.HasPrefix(trimmed, "{") {
		return FormatCSV
	}

	lines := nonEmptyLines(content)
	if len(lines) >= 2 {
		allJSON := true
		for _, line := range lines {
			if !json.Valid([]byte(line)) {
				allJSON = false
				break
			}
		}
		if allJSON {
			return FormatNDJSON
		}
	}

	return FormatJSON
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, strings.TrimSpace(line))
		}
	}
	return out
}
