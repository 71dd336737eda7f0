package handlers

import (
	"net/http"
	"transcript-sentiment/utils"

	"github.com/gin-gonic/gin"
)

func HandleMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"analyze_requests_total":   utils.AnalyzeRequestsTotal.Value(),
			"analyze_cache_hits":       utils.AnalyzeCacheHits.Value(),
			"analyze_failures_total":   utils.AnalyzeFailures.Value(),
			"async_jobs_total":         utils.AsyncJobsTotal.Value(),
			"async_job_failures_total": utils.AsyncJobFailures.Value(),
		})
	}
}
