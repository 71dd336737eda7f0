package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"transcript-sentiment/analyzer"
	"transcript-sentiment/results"
	"transcript-sentiment/utils"
	valkeystore "transcript-sentiment/valkey"

	"github.com/valkey-io/valkey-go"
	"go.uber.org/zap"
)

const TranscriptUploadedChannel = "transcript_uploaded"

const resubscribeDelay = 5 * time.Second

var ErrEmptyJob = errors.New("empty job in transcript message")

// TranscriptUploadedPayload represents the data structure for transcript_uploaded events
type TranscriptUploadedPayload struct {
	Job            string `json:"job"`
	Bucket         string `json:"bucket,omitempty"`
	TranscriptFile string `json:"transcriptFile,omitempty"`
	// TranscriptURI is an s3://bucket/key location and wins over Bucket and TranscriptFile
	TranscriptURI  string `json:"transcriptUri,omitempty"`
}

// NewPayload describes a job stored at the default location
func NewPayload(job string) TranscriptUploadedPayload {
	return TranscriptUploadedPayload{
		Job:            job,
		Bucket:         utils.TranscriptBucket(),
		TranscriptFile: utils.TranscriptKey(job),
	}
}

// ParsePayload accepts a JSON payload, a quoted job id or a bare job id
func ParsePayload(message string) (TranscriptUploadedPayload, error) {
	var payload TranscriptUploadedPayload
	if err := json.Unmarshal([]byte(message), &payload); err != nil {
		job := strings.TrimSpace(message)
		if unquoted, err := strconv.Unquote(job); err == nil {
			job = strings.TrimSpace(unquoted)
		}
		if job == "" {
			return payload, ErrEmptyJob
		}
		return NewPayload(job), nil
	}

	payload.Job = strings.TrimSpace(payload.Job)
	if payload.Job == "" {
		return payload, ErrEmptyJob
	}
	if payload.TranscriptURI != "" {
		bucket, key, err := utils.ParseS3URI(payload.TranscriptURI)
		if err != nil {
			return payload, err
		}
		payload.Bucket, payload.TranscriptFile = bucket, key
	}
	if payload.Bucket == "" {
		payload.Bucket = utils.TranscriptBucket()
	}
	if payload.TranscriptFile == "" {
		payload.TranscriptFile = utils.TranscriptKey(payload.Job)
	}
	return payload, nil
}

// Publish queues a job for asynchronous analysis
func Publish(ctx context.Context, payload TranscriptUploadedPayload) error {
	if valkeystore.Client == nil {
		return errors.New("valkey is not configured")
	}
	message, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return valkeystore.Client.Publish(ctx, TranscriptUploadedChannel, string(message)).Err()
}

// StartSubscribers listens for uploaded transcripts until ctx is done
func StartSubscribers(ctx context.Context, logger *zap.Logger) {
	go startSubscriber(ctx, logger, TranscriptUploadedChannel, processTranscriptJob)
}

func startSubscriber(ctx context.Context, logger *zap.Logger, channel string, processor func(context.Context, *zap.Logger, string)) {
	sugar := logger.Sugar()
	sugar.Infow("Message subscriber started",
		"channel", channel)

	vk := valkeystore.RawClient
	for {
		err := vk.Receive(ctx, vk.B().Subscribe().Channel(channel).Build(), func(msg valkey.PubSubMessage) {
			if strings.TrimSpace(msg.Message) == "" {
				sugar.Warn("Received empty message from pub/sub")
				return
			}
			go processor(ctx, logger, msg.Message)
		})
		if ctx.Err() != nil {
			sugar.Infow("Message subscriber stopped",
				"channel", channel)
			return
		}
		sugar.Errorw("Subscription interrupted",
			"channel", channel,
			"error", err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(resubscribeDelay):
		}
	}
}

func processTranscriptJob(ctx context.Context, logger *zap.Logger, message string) {
	sugar := logger.Sugar()
	utils.AsyncJobsTotal.Add(1)

	payload, err := ParsePayload(message)
	if err != nil {
		utils.AsyncJobFailures.Add(1)
		sugar.Errorw("Invalid transcript job message",
			"error", err)
		return
	}

	sugar.Infow("Processing transcript analysis request",
		"job", payload.Job)

	result, transcript, err := analyzer.AnalyzeStoredTranscript(ctx, logger, payload.Bucket, payload.TranscriptFile)
	if err != nil {
		utils.AsyncJobFailures.Add(1)
		sugar.Errorw("Analysis process failed",
			"job", payload.Job,
			"error", err)
		return
	}

	if err := results.Store(ctx, logger, payload.Job, transcript, result); err != nil {
		utils.AsyncJobFailures.Add(1)
		sugar.Errorw("Result storage failed",
			"job", payload.Job,
			"error", err)
		return
	}

	sugar.Infow("Transcript analysis completed successfully",
		"job", payload.Job)
}
