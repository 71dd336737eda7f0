package handlers

import (
	"net/http"
	"transcript-sentiment/analyzer"
	"transcript-sentiment/results"
	"transcript-sentiment/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JobHeader carries the job an inline analysis was stored under
const JobHeader = "X-Analysis-Job"

// HandleAnalyze analyzes the transcript in the JSON body and returns the breakdown
func HandleAnalyze(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req analyzer.AnalysisRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.AnalyzeFailures.Add(1)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		result, job := results.Analyze(c.Request.Context(), logger, req.Transcript)

		logger.Info("Transcript analyzed",
			zap.String("job", job),
			zap.Int("utterances", len(result.UtteranceAnalyses)))

		c.Header(JobHeader, job)
		c.JSON(http.StatusOK, result)
	}
}
