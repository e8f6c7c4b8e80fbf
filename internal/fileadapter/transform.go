package fileadapter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"aletheia/internal/models"
)

const isoMillis = "2006-01-02T15:04:05.000Z"

var errNoContent = errors.New("No content found")

func (a *Adapter) transformGemini(parsed interface{}, errs *[]string) []models.GnosisEntry {
	msgs := locateMessages(parsed, "turns", "chunks")
	if msgs == nil {
		*errs = append(*errs, "no message array found in gemini export")
		return []models.GnosisEntry{}
	}

	out := make([]models.GnosisEntry, 0, len(msgs))
	for i, raw := range msgs {
		idx := i
		entry, err := buildEntry(idx, raw, func(m map[string]interface{}) (models.GnosisEntry, error) {
			content := extractContent(m, "parts", "text", "content")
			if content == "" {
				return models.GnosisEntry{}, errNoContent
			}
			role := firstString(m, "role", "author")
			if role == "" {
				role = "user"
			}
			meta := map[string]interface{}{
				"platform":     string(PlatformGemini),
				"source_index": idx,
			}
			if parts, ok := m["parts"]; ok {
				meta["raw_parts"] = parts
			}
			return models.GnosisEntry{
				Role:       role,
				Content:    content,
				Timestamp:  a.timestampFrom(m, "create_time", "timestamp"),
				ExternalID: externalID(m, "gemini", idx, content),
				Metadata:   meta,
			}, nil
		})
		if err != nil {
			*errs = append(*errs, err.Error())
			continue
		}
		out = append(out, entry)
	}
	return out
}

func (a *Adapter) transformOpenAI(parsed interface{}, errs *[]string) []models.GnosisEntry {
	msgs := locateMessages(parsed, "mapping")
	if msgs == nil {
		*errs = append(*errs, "no message array found in openai export")
		return []models.GnosisEntry{}
	}

	out := make([]models.GnosisEntry, 0, len(msgs))
	for i, raw := range msgs {
		idx := i
		entry, err := buildEntry(idx, raw, func(m map[string]interface{}) (models.GnosisEntry, error) {
			content := extractContent(m, "content", "text", "message")
			if content == "" {
				return models.GnosisEntry{}, errNoContent
			}
			role := firstString(m, "role", "author")
			if role == "" {
				role = "user"
			}
			return models.GnosisEntry{
				Role:       role,
				Content:    content,
				Timestamp:  a.timestampFrom(m, "created_at", "create_time", "timestamp"),
				ExternalID: externalID(m, "openai", idx, content),
				Metadata: map[string]interface{}{
					"platform":     string(PlatformOpenAI),
					"source_index": idx,
				},
			}, nil
		})
		if err != nil {
			*errs = append(*errs, err.Error())
			continue
		}
		out = append(out, entry)
	}
	return out
}

// transformClaude handles both the claude and anthropic export shapes, which
// differ only in wrapper keys and id prefix.
func (a *Adapter) transformClaude(platform Platform, parsed interface{}, errs *[]string) []models.GnosisEntry {
	msgs := locateMessages(parsed, "chat_messages")
	if msgs == nil {
		*errs = append(*errs, fmt.Sprintf("no message array found in %s export", platform))
		return []models.GnosisEntry{}
	}

	prefix := string(platform)
	out := make([]models.GnosisEntry, 0, len(msgs))
	for i, raw := range msgs {
		idx := i
		entry, err := buildEntry(idx, raw, func(m map[string]interface{}) (models.GnosisEntry, error) {
			content := extractContent(m, "text", "content")
			if content == "" {
				return models.GnosisEntry{}, errNoContent
			}
			role := firstString(m, "role", "sender", "type")
			if role == "" {
				role = "user"
			}
			return models.GnosisEntry{
				Role:       role,
				Content:    content,
				Timestamp:  a.timestampFrom(m, "created_at", "timestamp"),
				ExternalID: externalID(m, prefix, idx, content),
				Metadata: map[string]interface{}{
					"platform":     prefix,
					"source_index": idx,
				},
			}, nil
		})
		if err != nil {
			*errs = append(*errs, err.Error())
			continue
		}
		out = append(out, entry)
	}
	return out
}

// transformGeneric is the manual fallback for structures no platform
// matcher claimed, including parsed CSV and NDJSON row sets.
func (a *Adapter) transformGeneric(parsed interface{}, errs *[]string) []models.GnosisEntry {
	msgs := locateMessages(parsed, "entries", "items", "records")
	if msgs == nil {
		*errs = append(*errs, "no message array found")
		return []models.GnosisEntry{}
	}

	out := make([]models.GnosisEntry, 0, len(msgs))
	for i, raw := range msgs {
		idx := i
		entry, err := buildEntry(idx, raw, func(m map[string]interface{}) (models.GnosisEntry, error) {
			content := extractContent(m, "content", "text", "message", "body", "value")
			if content == "" {
				return models.GnosisEntry{}, errNoContent
			}
			role := firstString(m, "role", "speaker", "sender", "author")
			if role == "" {
				role = "user"
			}
			return models.GnosisEntry{
				Role:       role,
				Content:    content,
				Timestamp:  a.timestampFrom(m, "timestamp", "created_at", "create_time", "date", "time"),
				ExternalID: externalID(m, "manual", idx, content),
				Metadata: map[string]interface{}{
					"platform":     string(PlatformManual),
					"source_index": idx,
				},
			}, nil
		})
		if err != nil {
			*errs = append(*errs, err.Error())
			continue
		}
		out = append(out, entry)
	}
	return out
}

// buildEntry runs a single-message builder with panic isolation: a fault in
// one message becomes an error string and the batch continues.
func buildEntry(idx int, raw interface{}, build func(m map[string]interface{}) (models.GnosisEntry, error)) (entry models.GnosisEntry, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("message %d: %v", idx, r)
		}
	}()

	m, ok := raw.(map[string]interface{})
	if !ok {
		return entry, fmt.Errorf("message %d: not an object", idx)
	}
	entry, err = build(m)
	if err != nil {
		err = fmt.Errorf("message %d: %w", idx, err)
	}
	return entry, err
}

// locateMessages finds the message array across the known nesting shapes:
// top-level array, {messages:[...]}, {conversations:[{messages:[...]}]}, or
// a platform wrapper key.
func locateMessages(parsed interface{}, wrapperKeys ...string) []interface{} {
	switch x := parsed.(type) {
	case []interface{}:
		return x
	case map[string]interface{}:
		keys := append([]string{"messages"}, wrapperKeys...)
		for _, k := range keys {
			if arr, ok := x[k].([]interface{}); ok {
				return arr
			}
		}
		if convs, ok := x["conversations"].([]interface{}); ok {
			var out []interface{}
			for _, c := range convs {
				if cm, ok := c.(map[string]interface{}); ok {
					if arr, ok := cm["messages"].([]interface{}); ok {
						out = append(out, arr...)
					}
				}
			}
			if out != nil {
				return out
			}
		}
	}
	return nil
}

// extractContent prefers a direct string field; an array of parts or
// segments is joined with newlines. Returns "" when nothing textual is
// found.
func extractContent(m map[string]interface{}, fields ...string) string {
	for _, f := range fields {
		v, ok := m[f]
		if !ok {
			continue
		}
		if s := textOf(v); s != "" {
			return s
		}
	}
	return ""
}

func textOf(v interface{}) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case []interface{}:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if t := textOf(item); t != "" {
				parts = append(parts, t)
			}
		}
		return strings.Join(parts, "\n")
	case map[string]interface{}:
		if parts, ok := x["parts"].([]interface{}); ok {
			return textOf(parts)
		}
		for _, k := range []string{"text", "content", "value"} {
			if s, ok := x[k].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// timestampFrom parses the first usable time field into ISO-8601 with
// millisecond precision, falling back to the current time.
func (a *Adapter) timestampFrom(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if ts, ok := normalizeTimestamp(v); ok {
				return ts
			}
		}
	}
	return a.clock.Now().UTC().Format(isoMillis)
}

func normalizeTimestamp(v interface{}) (string, bool) {
	switch x := v.(type) {
	case float64:
		if x <= 0 {
			return "", false
		}
		sec := int64(x)
		nsec := int64((x - float64(sec)) * 1e9)
		return time.Unix(sec, nsec).UTC().Format(isoMillis), true
	case string:
		s := strings.TrimSpace(x)
		layouts := []string{
			time.RFC3339Nano,
			time.RFC3339,
			"2006-01-02T15:04:05",
			"2006-01-02 15:04:05",
			"2006-01-02",
		}
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC().Format(isoMillis), true
			}
		}
	}
	return "", false
}

// externalID prefers an explicit source id, otherwise synthesizes a
// deterministic one from platform prefix, source index and content digest.
func externalID(m map[string]interface{}, prefix string, idx int, content string) string {
	if id := firstString(m, "id", "message_id", "external_id", "uuid"); id != "" {
		return id
	}
	return fmt.Sprintf("%s_msg_%d_%s", prefix, idx, contentHash(content))
}
