package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

var S3Client *s3.Client

func InitS3(logger *zap.Logger) error {
	endpoint := os.Getenv("S3_ENDPOINT_URL")
	accessKeyID := MustGetEnv("S3_ACCESS_KEY_ID")
	secretAccessKey := MustGetEnv("S3_SECRET_ACCESS_KEY")
	region := GetEnvOrDefault("S3_REGION", "us-east-1")

	sugar := logger.Sugar()
	sugar.Info("Initializing transcript storage")

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")),
	)
	if err != nil {
		return fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	s3Options := []func(*s3.Options){
		func(o *s3.Options) {
			o.UsePathStyle = true
		},
	}
	if endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
		sugar.Info("Using custom storage endpoint configuration")
	}

	S3Client = s3.NewFromConfig(cfg, s3Options...)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := S3Client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(TranscriptBucket())}); err != nil {
		return fmt.Errorf("transcript bucket not reachable: %w", err)
	}

	sugar.Infow("Transcript storage initialized successfully",
		"bucket", TranscriptBucket())
	return nil
}

// TranscriptBucket is the bucket uploads go to and jobs default to
func TranscriptBucket() string {
	return GetEnvOrDefault("AWS_BUCKET", "medsum-data")
}

// TranscriptKey is the object key used for a job's transcript
func TranscriptKey(job string) string {
	return fmt.Sprintf("%s/%s_transcript.txt", job, job)
}

// DownloadS3Object downloads an object from S3 and returns the data
func DownloadS3Object(ctx context.Context, bucket, key string) ([]byte, error) {
	if S3Client == nil {
		return nil, errors.New("s3 client is nil; call InitS3 first")
	}

	maxAttempts := getRetryMaxAttempts()
	retryDelay := time.Duration(getRetryDelaySeconds()) * time.Second
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		data, err := getObject(ctx, bucket, key)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	return nil, fmt.Errorf("failed to download object after %d attempts: %w", maxAttempts, lastErr)
}

func getObject(ctx context.Context, bucket, key string) ([]byte, error) {
	result, err := S3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer result.Body.Close()

	return io.ReadAll(result.Body)
}

// getRetryMaxAttempts returns the maximum number of retry attempts from env, default 3
func getRetryMaxAttempts() int {
	maxAttempts, err := strconv.Atoi(GetEnvOrDefault("S3_RETRY_MAX_ATTEMPTS", "3"))
	if err != nil || maxAttempts < 1 {
		return 3
	}
	return maxAttempts
}

// getRetryDelaySeconds returns the retry delay in seconds from env, default 5
func getRetryDelaySeconds() int {
	delay, err := strconv.Atoi(GetEnvOrDefault("S3_RETRY_DELAY_SECONDS", "5"))
	if err != nil || delay < 0 {
		return 5
	}
	return delay
}

// ParseS3URI parses "s3://bucket/key" into bucket + key.
func ParseS3URI(u string) (bucket, key string, _ error) {
	parsed, err := url.Parse(u)
	if err != nil {
		return "", "", fmt.Errorf("parse s3 uri: %w", err)
	}
	if parsed.Scheme != "s3" {
		return "", "", fmt.Errorf("not an s3 uri: %s", u)
	}
	key = strings.TrimPrefix(parsed.Path, "/")
	if parsed.Host == "" || key == "" {
		return "", "", fmt.Errorf("s3 uri needs bucket and key: %s", u)
	}
	return parsed.Host, key, nil
}

func UploadFile(ctx context.Context, src io.Reader, bucket, key string) error {
	if S3Client == nil {
		return errors.New("s3 client is nil; call InitS3 first")
	}
	_, err := S3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        src,
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("put object failed: %w", err)
	}
	return nil
}
