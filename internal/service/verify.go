package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"aletheia/internal/models"
	"aletheia/internal/repository"
	"aletheia/internal/verification"
)

// ThreatNotifier pushes detected attacks to an external channel. Delivery is
// fire-and-forget; retry policy belongs to the collaborator.
type ThreatNotifier interface {
	NotifyThreat(node *models.Node, event *models.ThreatEvent)
}

// VerificationService authenticates the request key against the node
// registry, runs the scoring engine, persists the record and folds the
// verdict into the node's running authenticity score.
type VerificationService struct {
	engine           *verification.Engine
	tracker          *verification.Tracker
	nodeRepo         repository.NodeRepository
	verificationRepo repository.VerificationRepository
	notifier         ThreatNotifier
	logger           *zap.Logger
}

func NewVerificationService(
	engine *verification.Engine,
	tracker *verification.Tracker,
	nodeRepo repository.NodeRepository,
	verificationRepo repository.VerificationRepository,
	notifier ThreatNotifier,
	logger *zap.Logger,
) *VerificationService {
	return &VerificationService{
		engine:           engine,
		tracker:          tracker,
		nodeRepo:         nodeRepo,
		verificationRepo: verificationRepo,
		notifier:         notifier,
		logger:           logger,
	}
}

// HandleRequest processes one verification request. An unknown key is a
// negative outcome, not an error; only infrastructure faults surface as
// errors.
func (s *VerificationService) HandleRequest(ctx context.Context, req *models.VerificationRequest) (*models.VerificationOutcome, error) {
	start := time.Now()

	node, err := s.nodeRepo.GetByVerificationKey(req.VerificationKey)
	if err != nil {
		return nil, fmt.Errorf("node lookup failed: %w", err)
	}
	if node == nil {
		s.logger.Warn("Verification request with unknown key", zap.String("request_type", req.RequestType))
		return &models.VerificationOutcome{
			IsValid:           false,
			AuthenticityScore: 0,
			FlaggedReasons:    []string{"unknown verification key"},
		}, nil
	}

	outcome, err := s.engine.Verify(ctx, req)
	if err != nil {
		return nil, err
	}

	record := &models.VerificationRecord{
		NodeID:           node.ID,
		RequestType:      req.RequestType,
		IsValid:          outcome.IsValid,
		Score:            outcome.AuthenticityScore,
		FlaggedReasons:   outcome.FlaggedReasons,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}
	if err := s.verificationRepo.SaveRecord(record); err != nil {
		s.logger.Error("Failed to save verification record",
			zap.Int64("node_id", node.ID),
			zap.Error(err))
	}

	updated, err := s.tracker.Apply(s.nodeRepo, node.ID, outcome.AuthenticityScore)
	if err != nil {
		s.logger.Error("Failed to update node authenticity score",
			zap.Int64("node_id", node.ID),
			zap.Error(err))
	} else {
		if outcome.Details == nil {
			outcome.Details = map[string]interface{}{}
		}
		outcome.Details["runningScore"] = updated
	}

	if err := s.nodeRepo.TouchHeartbeat(node.ID); err != nil {
		s.logger.Error("Failed to touch node heartbeat", zap.Int64("node_id", node.ID), zap.Error(err))
	}

	if detected, _ := outcome.Details["attackDetected"].(bool); detected {
		event, err := s.nodeRepo.CreateThreatEvent(node.ID, models.RequestTypeAttackDetection,
			strings.Join(outcome.FlaggedReasons, "; "))
		if err != nil {
			s.logger.Error("Failed to create threat event", zap.Int64("node_id", node.ID), zap.Error(err))
		} else if s.notifier != nil {
			s.notifier.NotifyThreat(node, event)
		}
	}

	return outcome, nil
}

// MemorySamplerFromRepo adapts the gnosis repository to the engine's
// sampler contract.
func MemorySamplerFromRepo(repo repository.GnosisRepository) verification.MemorySampler {
	return repoSampler{repo: repo}
}

type repoSampler struct {
	repo repository.GnosisRepository
}

func (r repoSampler) GetFoundationalMemorySample(_ context.Context, n int) ([]models.Memory, error) {
	return r.repo.GetFoundationalMemorySample(n)
}
