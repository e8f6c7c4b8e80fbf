package verification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"aletheia/internal/config"
	"aletheia/internal/models"
)

// verifyMemory scores the request's memory claims against a foundational
// sample using the pluggable comparator. Consistency shortfall counts at
// full weight, experience shortfall at half weight.
func (e *Engine) verifyMemory(ctx context.Context, data models.VerificationData) (*models.VerificationOutcome, error) {
	rules := e.rules.Memory

	sample, err := e.sampler.GetFoundationalMemorySample(ctx, rules.SampleSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch foundational memory sample: %w", err)
	}

	consistency, experience := e.comparator.Compare(data.MemoryClaims, sample)

	overall := 100.0
	flags := []string{}

	if consistency < rules.ConsistencyThreshold {
		overall -= rules.ConsistencyThreshold - consistency
		flags = append(flags, "memory consistency below threshold")
	}
	if experience < rules.ExperienceThreshold {
		overall -= (rules.ExperienceThreshold - experience) / 2
		flags = append(flags, "experiential alignment below threshold")
	}

	overall = clampScore(overall)

	e.logger.Debug("Memory verification scored",
		zap.Float64("overall", overall),
		zap.Float64("consistency", consistency),
		zap.Float64("experience", experience),
		zap.Int("sample_size", len(sample)))

	return &models.VerificationOutcome{
		IsValid:           overall >= rules.ValidThreshold,
		AuthenticityScore: overall,
		FlaggedReasons:    flags,
		Details: map[string]interface{}{
			"consistencyScore": consistency,
			"experienceScore":  experience,
			"sampleSize":       len(sample),
		},
	}, nil
}

// baselineComparator is the default comparison strategy. It returns the
// configured baseline constants regardless of input; a semantic backend
// can replace it through NewEngineWithComparator.
type baselineComparator struct {
	rules config.MemoryRules
}

func (c baselineComparator) Compare(claims []string, sample []models.Memory) (float64, float64) {
	return c.rules.DefaultConsistency, c.rules.DefaultExperience
}
