package verification

import (
	"strings"

	"go.uber.org/zap"

	"aletheia/internal/config"
	"aletheia/internal/models"
)

// validateCoherence computes three keyword-driven sub-scores over the
// message list and subtracts each shortfall below its threshold from the
// overall score.
func (e *Engine) validateCoherence(data models.VerificationData) *models.VerificationOutcome {
	rules := e.rules.Coherence

	dialectical := subScore(rules.Dialectical, data.Messages)
	logical := subScore(rules.Logical, data.Messages)
	language := subScore(rules.Language, data.Messages)

	overall := 100.0
	flags := []string{}

	if dialectical < rules.Dialectical.Threshold {
		overall -= rules.Dialectical.Threshold - dialectical
		flags = append(flags, "dialectical coherence below threshold")
	}
	if logical < rules.Logical.Threshold {
		overall -= rules.Logical.Threshold - logical
		flags = append(flags, "logical consistency below threshold")
	}
	if language < rules.Language.Threshold {
		overall -= rules.Language.Threshold - language
		flags = append(flags, "language pattern coherence below threshold")
	}

	overall = clampScore(overall)

	e.logger.Debug("Coherence validation scored",
		zap.Float64("overall", overall),
		zap.Float64("dialectical", dialectical),
		zap.Float64("logical", logical),
		zap.Float64("language", language))

	return &models.VerificationOutcome{
		IsValid:           overall >= rules.ValidThreshold,
		AuthenticityScore: overall,
		FlaggedReasons:    flags,
		Details: map[string]interface{}{
			"dialecticalScore": dialectical,
			"logicalScore":     logical,
			"languageScore":    language,
		},
	}
}

// subScore starts from the rule's base and adds the bonus for every message
// containing one of its keywords, capped at 100.
func subScore(rules config.SubScoreRules, messages []string) float64 {
	score := rules.Base
	for _, msg := range messages {
		if containsAny(strings.ToLower(msg), rules.Keywords) {
			score += rules.Bonus
		}
	}
	if score > 100 {
		score = 100
	}
	return score
}
