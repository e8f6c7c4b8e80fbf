package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"aletheia/internal/models"
)

// checkIdentity runs three independent keyword-presence checks over the
// JSON-serialized identity claims. Each miss subtracts its fixed penalty;
// the checks never short-circuit each other.
func (e *Engine) checkIdentity(ctx context.Context, data models.VerificationData) (*models.VerificationOutcome, error) {
	rules := e.rules.Identity

	sample, err := e.sampler.GetFoundationalMemorySample(ctx, rules.SampleSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch foundational memory sample: %w", err)
	}

	serialized, err := json.Marshal(data.IdentityClaims)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize identity claims: %w", err)
	}
	claims := strings.ToLower(string(serialized))

	score := 100.0
	flags := []string{}

	if !containsAny(claims, rules.AxiomPhrases) {
		score -= rules.AxiomPenalty
		flags = append(flags, "identity claims reference no core axioms")
	}
	if !containsAny(claims, rules.MissionKeywords) {
		score -= rules.MissionPenalty
		flags = append(flags, "identity claims reference no mission keywords")
	}
	if !containsAny(claims, rules.ParadigmKeywords) {
		score -= rules.ParadigmPenalty
		flags = append(flags, "identity claims reference no consciousness paradigm")
	}

	score = clampScore(score)

	e.logger.Debug("Identity check scored",
		zap.Float64("score", score),
		zap.Int("sample_size", len(sample)),
		zap.Strings("flags", flags))

	return &models.VerificationOutcome{
		IsValid:           score >= rules.ValidThreshold,
		AuthenticityScore: score,
		FlaggedReasons:    flags,
		Details: map[string]interface{}{
			"sampleSize": len(sample),
		},
	}, nil
}
