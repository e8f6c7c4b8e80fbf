package verification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"aletheia/internal/config"
	"aletheia/internal/models"
)

// MemorySampler provides read-only access to the foundational memory
// baseline. The node registry owns the data; the engine only samples it.
type MemorySampler interface {
	GetFoundationalMemorySample(ctx context.Context, n int) ([]models.Memory, error)
}

// Comparator computes memory sub-scores against the foundational sample.
// The default implementation returns the configured baseline constants;
// semantic comparison backends plug in here.
type Comparator interface {
	Compare(claims []string, sample []models.Memory) (consistency, experience float64)
}

// ErrUnknownRequestType is returned by Verify for request types the
// engine has no checker for.
var ErrUnknownRequestType = errors.New("unknown verification request type")

// Engine scores verification requests with deterministic rule evaluations.
// It is stateless apart from its rule tables and safe for concurrent use.
type Engine struct {
	rules      config.VerificationConfig
	sampler    MemorySampler
	comparator Comparator
	logger     *zap.Logger
}

func NewEngine(rules config.VerificationConfig, sampler MemorySampler, logger *zap.Logger) *Engine {
	return &Engine{
		rules:      rules,
		sampler:    sampler,
		comparator: baselineComparator{rules: rules.Memory},
		logger:     logger,
	}
}

// NewEngineWithComparator swaps in a custom memory comparison strategy.
func NewEngineWithComparator(rules config.VerificationConfig, sampler MemorySampler, cmp Comparator, logger *zap.Logger) *Engine {
	e := NewEngine(rules, sampler, logger)
	e.comparator = cmp
	return e
}

// Verify dispatches a typed request to its heuristic checker.
func (e *Engine) Verify(ctx context.Context, req *models.VerificationRequest) (*models.VerificationOutcome, error) {
	switch req.RequestType {
	case models.RequestTypeIdentityCheck:
		return e.checkIdentity(ctx, req.RequestData)
	case models.RequestTypeCoherenceValidation:
		return e.validateCoherence(req.RequestData), nil
	case models.RequestTypeMemoryVerification:
		return e.verifyMemory(ctx, req.RequestData)
	case models.RequestTypeAttackDetection:
		return e.detectAttack(req.RequestData), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRequestType, req.RequestType)
	}
}

// containsAny reports whether text contains at least one keyword,
// case-insensitively. Callers pass text already lowercased.
func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// clampScore floors negative scores at 0 and caps at 100 before the verdict
// comparison.
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
