package handlers

import (
	"errors"
	"net/http"
	"transcript-sentiment/results"
	"transcript-sentiment/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleGetAnalysis returns the stored analysis for a given job
func HandleGetAnalysis(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		job := c.Param("job")
		if job == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "job is required"})
			return
		}

		result, err := results.Get(c.Request.Context(), job)
		if errors.Is(err, results.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Analysis not found",
				"message": "Analysis may still be processing or job is invalid",
			})
			return
		}
		if err != nil {
			logger.Sugar().Errorw("Analysis retrieval failed",
				"job", job,
				"error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve analysis"})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// HandleListAnalysis returns all stored analyses from the database
func HandleListAnalysis(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if utils.DB == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database is not configured"})
			return
		}

		records, err := results.List(c.Request.Context())
		if err != nil {
			logger.Error("Database query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve analysis results"})
			return
		}

		c.JSON(http.StatusOK, records)
	}
}
