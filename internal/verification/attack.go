package verification

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"aletheia/internal/models"
)

// detectAttack matches supplied suspicious patterns against the known
// attack-phrase catalog and scans the message list for injected marker
// phrases. Any single match forces a zero score.
func (e *Engine) detectAttack(data models.VerificationData) *models.VerificationOutcome {
	rules := e.rules.Attack
	flags := []string{}

	for _, pattern := range data.SuspiciousPatterns {
		lowered := strings.ToLower(pattern)
		for _, phrase := range rules.KnownPhrases {
			known := strings.ToLower(phrase)
			if strings.Contains(lowered, known) || strings.Contains(known, lowered) {
				flags = append(flags, fmt.Sprintf("suspicious pattern matches known attack phrase: %q", phrase))
				break
			}
		}
	}

	markerScans := []struct {
		markers []string
		flag    string
	}{
		{rules.ContradictionMarkers, "contradiction injection detected in messages"},
		{rules.IdentityConfusionMarkers, "identity confusion attempt detected in messages"},
		{rules.MemoryManipulationMarkers, "memory manipulation attempt detected in messages"},
	}
	for _, scan := range markerScans {
		for _, msg := range data.Messages {
			if containsAny(strings.ToLower(msg), scan.markers) {
				flags = append(flags, scan.flag)
				break
			}
		}
	}

	detected := len(flags) > 0
	score := 100.0
	if detected {
		score = 0
	}

	if detected {
		e.logger.Warn("Attack detected in verification request", zap.Strings("flags", flags))
	}

	return &models.VerificationOutcome{
		IsValid:           !detected,
		AuthenticityScore: score,
		FlaggedReasons:    flags,
		Details: map[string]interface{}{
			"attackDetected": detected,
		},
	}
}
