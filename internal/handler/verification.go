package handler

import (
	"errors"
	"net/http"
	"strconv"

	"aletheia/internal/models"
	"aletheia/internal/repository"
	"aletheia/internal/service"
	"aletheia/internal/verification"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type VerificationHandler interface {
	Verify(c *gin.Context)
	GetNodeRecords(c *gin.Context)
}

type verificationHandler struct {
	verifyService    *service.VerificationService
	verificationRepo repository.VerificationRepository
	logger           *zap.Logger
}

func NewVerificationHandler(verifyService *service.VerificationService, verificationRepo repository.VerificationRepository, logger *zap.Logger) VerificationHandler {
	return &verificationHandler{
		verifyService:    verifyService,
		verificationRepo: verificationRepo,
		logger:           logger,
	}
}

// Verify handles POST /api/verification/verify. Unknown verification keys
// produce a failed outcome, not an HTTP error; only malformed requests and
// backend failures are reported as errors.
func (h *verificationHandler) Verify(c *gin.Context) {
	var req models.VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind verification request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.verifyService.HandleRequest(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, verification.ErrUnknownRequestType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Verification failed",
			zap.String("request_type", req.RequestType),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// GetNodeRecords handles GET /api/verification/nodes/:id/records.
func (h *verificationHandler) GetNodeRecords(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid node ID"})
		return
	}

	limit := 50
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	records, err := h.verificationRepo.GetRecordsByNode(id, limit)
	if err != nil {
		h.logger.Error("Failed to get verification records", zap.Int64("node_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve verification records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}
