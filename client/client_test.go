package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const cannedResponse = `{
	"Overall_Analysis": {"Sentiment": "Anxious", "Intent": "Seeking reassurance"},
	"Utterance_Analyses": [
		{"Utterance": "Will my back get better?", "Analysis": {"Sentiment": "Anxious", "Intent": "Seeking reassurance"}}
	]
}`

func TestAnalyzePostsJSON(t *testing.T) {
	type seen struct {
		method, path, contentType string
		body                      map[string]string
	}
	requests := make(chan seen, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := seen{method: r.Method, path: r.URL.Path, contentType: r.Header.Get("Content-Type")}
		_ = json.NewDecoder(r.Body).Decode(&s.body)
		requests <- s
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(cannedResponse))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL + "/"})
	got, err := c.Analyze(context.Background(), "Patient: Will my back get better?")
	require.NoError(t, err)

	req := <-requests
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/analyze", req.path)
	assert.Equal(t, "application/json", req.contentType)
	assert.Equal(t, map[string]string{"transcript": "Patient: Will my back get better?"}, req.body)

	assert.Equal(t, "Anxious", got.OverallAnalysis.Sentiment)
	require.Len(t, got.UtteranceAnalyses, 1)
	assert.Equal(t, "Will my back get better?", got.UtteranceAnalyses[0].Utterance)
}

func TestAnalyzeNonOKStatus(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(ClientConfig{BaseURL: srv.URL}).Analyze(context.Background(), "Patient: hi")

	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusInternalServerError))
	assert.Equal(t, int32(1), hits.Load(), "no retries")
}

func TestAnalyzeMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Overall_Analysis": `))
	}))
	defer srv.Close()

	_, err := NewClient(ClientConfig{BaseURL: srv.URL}).Analyze(context.Background(), "Patient: hi")
	assert.ErrorContains(t, err, "decode analysis response")
}

func TestAnalyzeNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(ClientConfig{BaseURL: url}).Analyze(context.Background(), "Patient: hi")
	assert.ErrorContains(t, err, "analysis request failed")
}

func TestAnalyzeTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(ClientConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Analyze(context.Background(), "Patient: hi")
	assert.Error(t, err)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(ClientConfig{BaseURL: "http://localhost:8080"})
	assert.Equal(t, DefaultTimeout, c.client.Timeout)

	custom := &http.Client{Timeout: time.Second}
	assert.Same(t, custom, NewClient(ClientConfig{Client: custom}).client)
}

func TestControllerAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != AnalyzePath {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(cannedResponse))
	}))
	defer srv.Close()

	view := newRecordingView()
	c := NewController(NewClient(ClientConfig{BaseURL: srv.URL}), view, zap.NewNop())
	require.NoError(t, c.Submit(context.Background(), "Patient: Will my back get better?"))

	require.Len(t, view.blocks, 1)
	assert.Equal(t, "Patient Utterance 1", view.blocks[0].Heading)
	assert.Equal(t, "Seeking reassurance", view.intent)
}

func TestControllerServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	view := newRecordingView()
	c := NewController(NewClient(ClientConfig{BaseURL: srv.URL}), view, zap.NewNop())
	err := c.Submit(context.Background(), "Patient: hi")

	assert.ErrorIs(t, err, ErrAnalysisFailed)
	assert.True(t, IsStatus(err, http.StatusInternalServerError))
	assert.False(t, view.loading)
	assert.False(t, view.resultsVisible)
	assert.Equal(t, []string{FailureMessage}, view.notices)
	assert.Empty(t, view.blocks)
}
