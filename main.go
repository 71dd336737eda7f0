package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	"transcript-sentiment/client"
	"transcript-sentiment/handlers"
	"transcript-sentiment/subscriber"
	"transcript-sentiment/utils"
	"transcript-sentiment/webui"

	valkeystore "transcript-sentiment/valkey"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = ""
	cfg.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder
	logger, err := cfg.Build()
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Backends are optional; /analyze works without any of them
	if utils.HasEnv("VALKEY_HOST") || utils.HasEnv("VALKEY_SENTINEL_ADDRESS") {
		if err := valkeystore.InitValkey(logger); err != nil {
			sugar.Fatalw("failed to init valkey",
				"error", err)
		}
		defer valkeystore.Close()
	}

	if utils.HasEnv("POSTGRES_HOST") {
		if err := utils.InitDB(logger); err != nil {
			sugar.Fatalw("failed to init database",
				"error", err)
		}
		defer utils.CloseDB(logger)

		if err := utils.CreateSchema(logger); err != nil {
			sugar.Fatalw("failed to create database schema",
				"error", err)
		}
	}

	if utils.HasEnv("S3_ACCESS_KEY_ID") {
		if err := utils.InitS3(logger); err != nil {
			sugar.Fatalw("failed to init s3",
				"error", err)
		}
	}

	if valkeystore.RawClient != nil {
		subscriber.StartSubscribers(ctx, logger)
	}

	port := utils.GetEnvOrDefault("APP_PORT", "8080")
	analysisClient := client.NewClient(client.ClientConfig{
		BaseURL: utils.GetEnvOrDefault("ANALYSIS_BASE_URL", "http://127.0.0.1:"+port),
		Timeout: utils.GetEnvSeconds("ANALYSIS_TIMEOUT_SECONDS", client.DefaultTimeout),
	})

	r := gin.New()
	sugar.Info("Creating router")

	r.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(logger, true))

	// Analysis engine
	r.POST(client.AnalyzePath, handlers.HandleAnalyze(logger))

	// Stored analyses
	r.GET("/analysis/:job", handlers.HandleGetAnalysis(logger))
	r.GET("/analysis/list", handlers.HandleListAnalysis(logger))
	r.POST("/analysis/upload", handlers.HandleTranscriptUpload(logger))
	r.POST("/analysis/trigger/:job", handlers.HandleTriggerAnalysis(logger))

	r.GET("/healthcheck", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	r.GET("/db-status", handlers.HandleDBStatus())
	r.GET("/metrics", handlers.HandleMetrics())

	// Analysis page
	webui.RegisterRoutes(r, "/", logger, analysisClient)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: r,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Server shutdown failed",
				"error", err)
		}
	}()

	sugar.Infow("Running on port",
		"port", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("server failed",
			"error", err)
	}
}
