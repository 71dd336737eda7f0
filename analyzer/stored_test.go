package analyzer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"transcript-sentiment/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// objectStore answers path-style S3 requests for one bucket from objects.
type objectStore struct {
	bucket  string
	objects map[string]string
	gets    atomic.Int32
}

func (s *objectStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	if r.Method == http.MethodHead && path == s.bucket {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method == http.MethodGet && strings.HasPrefix(path, s.bucket+"/") {
		s.gets.Add(1)
		if body, ok := s.objects[strings.TrimPrefix(path, s.bucket+"/")]; ok {
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte(body))
			return
		}
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`))
}

func initStore(t *testing.T, objects map[string]string) *objectStore {
	t.Helper()
	store := &objectStore{bucket: "transcripts", objects: objects}
	srv := httptest.NewServer(store)
	t.Cleanup(srv.Close)

	t.Setenv("S3_ENDPOINT_URL", srv.URL)
	t.Setenv("S3_ACCESS_KEY_ID", "test")
	t.Setenv("S3_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_BUCKET", store.bucket)
	t.Setenv("S3_RETRY_MAX_ATTEMPTS", "3")
	t.Setenv("S3_RETRY_DELAY_SECONDS", "0")

	require.NoError(t, utils.InitS3(zap.NewNop()))
	t.Cleanup(func() { utils.S3Client = nil })
	return store
}

func TestAnalyzeStoredTranscript(t *testing.T) {
	initStore(t, map[string]string{"job-1/job-1_transcript.txt": sampleTranscript})

	got, transcript, err := AnalyzeStoredTranscript(context.Background(), zap.NewNop(), "transcripts", "job-1/job-1_transcript.txt")

	require.NoError(t, err)
	assert.Equal(t, sampleTranscript, transcript)
	assert.Len(t, got.UtteranceAnalyses, 3)
	assert.Equal(t, AnalyzeConversation(sampleTranscript), *got)
}

func TestAnalyzeStoredTranscriptRejectsEmptyObject(t *testing.T) {
	initStore(t, map[string]string{"job-2/job-2_transcript.txt": " \n "})

	_, _, err := AnalyzeStoredTranscript(context.Background(), zap.NewNop(), "transcripts", "job-2/job-2_transcript.txt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "is empty")
}

func TestAnalyzeStoredTranscriptRetriesDownload(t *testing.T) {
	store := initStore(t, map[string]string{})

	_, _, err := AnalyzeStoredTranscript(context.Background(), zap.NewNop(), "transcripts", "missing/missing_transcript.txt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, int32(3), store.gets.Load())
}

func TestAnalyzeStoredTranscriptWithoutStorage(t *testing.T) {
	_, _, err := AnalyzeStoredTranscript(context.Background(), zap.NewNop(), "transcripts", "job/job_transcript.txt")
	assert.Error(t, err)
}
