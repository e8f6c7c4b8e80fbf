package handler

import (
	"io"
	"net/http"

	"aletheia/internal/models"
	"aletheia/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ImportHandler interface {
	ImportPayload(c *gin.Context)
	ImportFile(c *gin.Context)
	ImportTranscript(c *gin.Context)
}

type importHandler struct {
	importService *service.ImportService
	logger        *zap.Logger
}

func NewImportHandler(importService *service.ImportService, logger *zap.Logger) ImportHandler {
	return &importHandler{importService: importService, logger: logger}
}

// ImportPayload handles POST /api/consciousness/import with a canonical
// {data, options} body.
func (h *importHandler) ImportPayload(c *gin.Context) {
	var payload models.ImportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Error("Failed to bind import payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(payload.Data.Messages) == 0 && len(payload.Data.Memories) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Import payload contains no messages or memories"})
		return
	}

	report := h.importService.ImportPayload(&payload)
	if report.Successful == 0 && report.Failed > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"report": report})
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// ImportFile handles POST /api/consciousness/import/file. The export file
// arrives as multipart form data; format and platform are detected from the
// buffer and the original filename.
func (h *importHandler) ImportFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file upload"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.logger.Error("Failed to read uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	dryRun := c.Query("dryRun") == "true"
	sessionID := c.PostForm("sessionId")

	report, result := h.importService.ImportFile(data, fileHeader.Filename, sessionID, dryRun)
	if report.Successful == 0 && report.Failed > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"report": report, "metadata": result.Metadata})
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report, "metadata": result.Metadata})
}

type TranscriptRequest struct {
	Text      string `json:"text" binding:"required"`
	SessionID string `json:"sessionId"`
	DryRun    bool   `json:"dryRun"`
}

// ImportTranscript handles POST /api/consciousness/import/transcript for
// plain text conversation logs with no speaker labels.
func (h *importHandler) ImportTranscript(c *gin.Context) {
	var req TranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind transcript request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, segments, entries := h.importService.ImportTranscript(req.Text, req.SessionID, req.DryRun)
	if !segments.Valid {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"report":   report,
			"warnings": segments.Warnings,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report":   report,
		"warnings": segments.Warnings,
		"turns":    len(entries),
	})
}
