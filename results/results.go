// Package results runs transcript analyses and keeps their outcome in the
// cache and the database. Both backends are optional; an unconfigured one is skipped.
package results

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"transcript-sentiment/analyzer"
	"transcript-sentiment/utils"
	valkeystore "transcript-sentiment/valkey"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	cachePrefix = "analysis"
	cacheTTL    = 24 * time.Hour
)

var ErrNotFound = errors.New("analysis not found")

var group singleflight.Group

// Record is one stored analysis as listed from the database
type Record struct {
	ID               int       `json:"id"`
	Job              string    `json:"job"`
	OverallSentiment string    `json:"overall_sentiment"`
	OverallIntent    string    `json:"overall_intent"`
	UtteranceCount   int       `json:"utterance_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Hash is the content key of a transcript
func Hash(transcript string) string {
	sum := sha256.Sum256([]byte(transcript))
	return hex.EncodeToString(sum[:])
}

// InlineJob names the job of a synchronous analysis; identical transcripts share it
func InlineJob(transcript string) string {
	return "inline-" + Hash(transcript)[:16]
}

// Analyze returns the analysis of transcript and the job it is stored under.
// Concurrent calls for the same transcript share one computation.
func Analyze(ctx context.Context, logger *zap.Logger, transcript string) (*analyzer.AnalysisResponse, string) {
	job := InlineJob(transcript)
	utils.AnalyzeRequestsTotal.Add(1)

	if cached, err := getCached(ctx, job); err == nil {
		utils.AnalyzeCacheHits.Add(1)
		return cached, job
	} else if !errors.Is(err, ErrNotFound) {
		logger.Warn("Cache lookup failed", zap.Error(err))
	}

	v, _, shared := group.Do(job, func() (any, error) {
		result := analyzer.AnalyzeConversation(transcript)
		if err := Store(context.WithoutCancel(ctx), logger, job, transcript, &result); err != nil {
			// the analysis itself succeeded; storage is best effort here
			logger.Error("Result storage failed", zap.String("job", job), zap.Error(err))
		}
		return &result, nil
	})
	if shared {
		logger.Debug("Shared in-flight analysis", zap.String("job", job))
	}

	return v.(*analyzer.AnalysisResponse), job
}

// Store upserts an analysis in the database and caches it
func Store(ctx context.Context, logger *zap.Logger, job, transcript string, result *analyzer.AnalysisResponse) error {
	sugar := logger.Sugar()

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	if utils.DB != nil {
		if err := storeRows(ctx, job, Hash(transcript), payload, result); err != nil {
			sugar.Errorw("Database storage failed",
				"job", job,
				"error", err)
			return err
		}
	}

	if valkeystore.Client != nil {
		key := cacheKey(job)
		if err := valkeystore.Client.Set(ctx, key, string(payload), cacheTTL).Err(); err != nil {
			sugar.Errorw("Cache storage failed",
				"job", job,
				"error", err)
			return err
		}
	}

	return nil
}

func storeRows(ctx context.Context, job, hash string, payload []byte, result *analyzer.AnalysisResponse) error {
	tx, err := utils.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	var id int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO transcript_analyses (job, transcript_hash, overall_sentiment, overall_intent, utterance_count, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (job) DO UPDATE SET
			transcript_hash = EXCLUDED.transcript_hash,
			overall_sentiment = EXCLUDED.overall_sentiment,
			overall_intent = EXCLUDED.overall_intent,
			utterance_count = EXCLUDED.utterance_count,
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`, job, hash, result.OverallAnalysis.Sentiment, result.OverallAnalysis.Intent,
		len(result.UtteranceAnalyses), string(payload), now).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to upsert analysis: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM utterance_analyses WHERE analysis_id = $1`, id); err != nil {
		return fmt.Errorf("failed to clear utterances: %w", err)
	}
	for i, u := range result.UtteranceAnalyses {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO utterance_analyses (analysis_id, position, utterance, sentiment, intent)
			VALUES ($1, $2, $3, $4, $5)
		`, id, i+1, u.Utterance, u.Analysis.Sentiment, u.Analysis.Intent)
		if err != nil {
			return fmt.Errorf("failed to insert utterance %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

// Get loads a stored analysis from the cache, falling back to the database
func Get(ctx context.Context, job string) (*analyzer.AnalysisResponse, error) {
	result, err := getCached(ctx, job)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return result, err
	}
	if utils.DB == nil {
		return nil, ErrNotFound
	}

	var payload []byte
	err = utils.DB.QueryRowContext(ctx, `SELECT payload FROM transcript_analyses WHERE job = $1`, job).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis: %w", err)
	}
	return decode(payload)
}

// List returns the stored analyses, newest first
func List(ctx context.Context) ([]Record, error) {
	if utils.DB == nil {
		return nil, errors.New("database is not configured")
	}

	rows, err := utils.DB.QueryContext(ctx, `
		SELECT id, job, overall_sentiment, overall_intent, utterance_count, created_at, updated_at
		FROM transcript_analyses
		ORDER BY created_at DESC
		LIMIT 200
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Job, &r.OverallSentiment, &r.OverallIntent, &r.UtteranceCount, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func getCached(ctx context.Context, job string) (*analyzer.AnalysisResponse, error) {
	if valkeystore.Client == nil {
		return nil, ErrNotFound
	}
	data, err := valkeystore.Client.Get(ctx, cacheKey(job)).Result()
	if valkeystore.IsMiss(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}
	return decode([]byte(data))
}

func decode(payload []byte) (*analyzer.AnalysisResponse, error) {
	var result analyzer.AnalysisResponse
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to decode stored analysis: %w", err)
	}
	return &result, nil
}

func cacheKey(job string) string {
	return fmt.Sprintf("%s:%s", cachePrefix, job)
}
