package utils

import (
	"expvar"
)

var AnalyzeRequestsTotal = expvar.NewInt("analyze_requests_total")
var AnalyzeCacheHits = expvar.NewInt("analyze_cache_hits")
var AnalyzeFailures = expvar.NewInt("analyze_failures_total")
var AsyncJobsTotal = expvar.NewInt("async_jobs_total")
var AsyncJobFailures = expvar.NewInt("async_job_failures_total")
