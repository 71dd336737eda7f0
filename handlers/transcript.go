package handlers

import (
	"net/http"
	"path/filepath"
	"strings"
	"transcript-sentiment/subscriber"
	"transcript-sentiment/utils"
	valkeystore "transcript-sentiment/valkey"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleTranscriptUpload stores an uploaded transcript and queues it for analysis
func HandleTranscriptUpload(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sugar := logger.Sugar()
		if utils.S3Client == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "transcript storage is not configured"})
			return
		}

		job := strings.TrimSpace(c.PostForm("job"))
		if job == "" {
			job = uuid.NewString()
		}

		file, err := c.FormFile("transcript")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "transcript file is required"})
			return
		}
		if filepath.Ext(file.Filename) != ".txt" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only .txt files are allowed"})
			return
		}

		src, err := file.Open()
		if err != nil {
			sugar.Errorw("File processing failed",
				"error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process transcript file"})
			return
		}
		defer src.Close()

		payload := subscriber.NewPayload(job)
		if err := utils.UploadFile(c.Request.Context(), src, payload.Bucket, payload.TranscriptFile); err != nil {
			sugar.Errorw("File upload failed",
				"job", job,
				"error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload transcript file"})
			return
		}

		queued := false
		if valkeystore.Client != nil {
			if err := subscriber.Publish(c.Request.Context(), payload); err != nil {
				sugar.Errorw("Message publishing failed",
					"job", job,
					"error", err)
			} else {
				queued = true
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Transcript uploaded successfully",
			"job":     job,
			"file":    payload.TranscriptFile,
			"queued":  queued,
		})
	}
}

// HandleTriggerAnalysis queues the analysis of an already stored transcript
func HandleTriggerAnalysis(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		job := strings.TrimSpace(c.Param("job"))
		if job == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "job is required"})
			return
		}
		if valkeystore.Client == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "message broker is not configured"})
			return
		}

		if err := subscriber.Publish(c.Request.Context(), subscriber.NewPayload(job)); err != nil {
			logger.Error("Message publishing failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to trigger analysis"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Analysis triggered successfully",
			"job":     job,
		})
	}
}
