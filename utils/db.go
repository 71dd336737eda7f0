package utils

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

var DB *sql.DB

// InitDB initializes the PostgreSQL database connection
func InitDB(logger *zap.Logger) error {
	host := MustGetEnv("POSTGRES_HOST")
	port := GetEnvOrDefault("POSTGRES_PORT", "5432")
	user := MustGetEnv("POSTGRES_USER")
	password := MustGetEnv("POSTGRES_PASSWORD")
	dbname := MustGetEnv("POSTGRES_DB")
	sslmode := GetEnvOrDefault("POSTGRES_SSLMODE", "disable")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	DB = db
	logger.Info("Database connection established successfully")

	return nil
}

// CreateSchema creates the analysis tables if they don't exist
func CreateSchema(logger *zap.Logger) error {
	if DB == nil {
		return fmt.Errorf("database connection is nil; call InitDB first")
	}

	ctx := context.Background()

	_, err := DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS transcript_analyses (
			id SERIAL PRIMARY KEY,
			job VARCHAR(255) NOT NULL,
			transcript_hash CHAR(64) NOT NULL,
			overall_sentiment TEXT NOT NULL,
			overall_intent TEXT NOT NULL,
			utterance_count INT NOT NULL DEFAULT 0,
			payload JSONB NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(job)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create transcript_analyses table: %w", err)
	}

	_, err = DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS utterance_analyses (
			id SERIAL PRIMARY KEY,
			analysis_id INT NOT NULL REFERENCES transcript_analyses(id) ON DELETE CASCADE,
			position INT NOT NULL,
			utterance TEXT NOT NULL,
			sentiment TEXT NOT NULL,
			intent TEXT NOT NULL,
			UNIQUE(analysis_id, position)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create utterance_analyses table: %w", err)
	}

	_, err = DB.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_analyses_hash ON transcript_analyses(transcript_hash);
		CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON transcript_analyses(created_at);
		CREATE INDEX IF NOT EXISTS idx_utterances_analysis ON utterance_analyses(analysis_id);
	`)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logger.Info("Database schema created successfully")
	return nil
}

// CloseDB closes the database connection
func CloseDB(logger *zap.Logger) error {
	if DB != nil {
		logger.Info("Closing database connection")
		return DB.Close()
	}
	return nil
}
