package fileadapter

import "strings"

// Platform identifies the originating chat export vendor.
type Platform string

const (
	PlatformGemini    Platform = "gemini"
	PlatformOpenAI    Platform = "openai"
	PlatformClaude    Platform = "claude"
	PlatformAnthropic Platform = "anthropic"
	PlatformManual    Platform = "manual"
)

// Filename markers checked first, before any structural inspection.
var platformFilenameMarkers = []struct {
	platform Platform
	names    []string
}{
	{PlatformGemini, []string{"gemini", "bard", "google"}},
	{PlatformOpenAI, []string{"openai", "chatgpt", "gpt"}},
	{PlatformClaude, []string{"claude"}},
	{PlatformAnthropic, []string{"anthropic"}},
}

// DetectPlatform classifies a parsed structure plus filename as a source
// platform. Filename substring matches win; structural markers are then
// checked in fixed precedence order, first match taking it. Unrecognized
// structures fall back to manual.
func DetectPlatform(parsed interface{}, filename string) Platform {
	name := strings.ToLower(filename)
	for _, marker := range platformFilenameMarkers {
		for _, n := range marker.names {
			if strings.Contains(name, n) {
				return marker.platform
			}
		}
	}

	scope := structuralScope(parsed)
	roles := roleValues(scope)

	if (hasField(scope, "parts") && hasField(scope, "create_time")) ||
		(roles["user"] && roles["model"]) {
		return PlatformGemini
	}

	if (hasField(scope, "messages") && hasField(scope, "created_at")) ||
		hasField(scope, "conversations") ||
		strings.Contains(name, "chat") {
		return PlatformOpenAI
	}

	if (hasField(scope, "type") && hasField(scope, "assistant")) ||
		(roles["user"] && roles["assistant"] && len(roles) == 2 && !hasField(scope, "model")) {
		return PlatformClaude
	}

	if hasField(scope, "content") && hasField(scope, "role") &&
		roles["human"] && roles["assistant"] {
		return PlatformAnthropic
	}

	return PlatformManual
}

// structuralScope narrows detection to the first array element when the top
// level is an array, otherwise the object itself.
func structuralScope(parsed interface{}) interface{} {
	if arr, ok := parsed.([]interface{}); ok {
		if len(arr) == 0 {
			return nil
		}
		return arr[0]
	}
	return parsed
}

// hasField reports whether key appears as a map key anywhere in the nested
// structure.
func hasField(v interface{}, key string) bool {
	switch x := v.(type) {
	case map[string]interface{}:
		for k, child := range x {
			if k == key {
				return true
			}
			if hasField(child, key) {
				return true
			}
		}
	case []interface{}:
		for _, child := range x {
			if hasField(child, key) {
				return true
			}
		}
	}
	return false
}

// roleValues collects every string value stored under a "role" key in the
// nested structure, lowercased.
func roleValues(v interface{}) map[string]bool {
	roles := map[string]bool{}
	collectRoles(v, roles)
	return roles
}

func collectRoles(v interface{}, roles map[string]bool) {
	switch x := v.(type) {
	case map[string]interface{}:
		if role, ok := x["role"].(string); ok {
			roles[strings.ToLower(role)] = true
		}
		for _, child := range x {
			collectRoles(child, roles)
		}
	case []interface{}:
		for _, child := range x {
			collectRoles(child, roles)
		}
	}
}
