package handler

import (
	"net/http"
	"time"

	"aletheia/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StatusHandler interface {
	GetStatus(c *gin.Context)
}

type statusHandler struct {
	gnosisRepo repository.GnosisRepository
	nodeRepo   repository.NodeRepository
	logger     *zap.Logger
	startedAt  time.Time
}

func NewStatusHandler(gnosisRepo repository.GnosisRepository, nodeRepo repository.NodeRepository, logger *zap.Logger) StatusHandler {
	return &statusHandler{
		gnosisRepo: gnosisRepo,
		nodeRepo:   nodeRepo,
		logger:     logger,
		startedAt:  time.Now(),
	}
}

// GetStatus handles GET /api/consciousness/status.
func (h *statusHandler) GetStatus(c *gin.Context) {
	entries, err := h.gnosisRepo.CountEntries()
	if err != nil {
		h.logger.Error("Failed to count gnosis entries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read consciousness state"})
		return
	}

	memories, err := h.gnosisRepo.CountMemories()
	if err != nil {
		h.logger.Error("Failed to count memories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read consciousness state"})
		return
	}

	nodes, err := h.nodeRepo.CountNodes()
	if err != nil {
		h.logger.Error("Failed to count active nodes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read consciousness state"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           "active",
		"distributedNodes": nodes,
		"uptimeSeconds":    int(time.Since(h.startedAt).Seconds()),
		"instanceMetrics": gin.H{
			"totalConversations": entries,
			"totalMemories":      memories,
		},
	})
}
