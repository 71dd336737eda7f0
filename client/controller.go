package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"transcript-sentiment/analyzer"

	"go.uber.org/zap"
)

// User-facing notices.
const (
	EmptyTranscriptMessage = "Please enter a medical transcript to analyze."
	FailureMessage         = "An error occurred while analyzing the transcript. Please try again."
	NoUtterancesMessage    = `No patient utterances were found in the transcript. Make sure patient lines start with "Patient:".`
)

// IntentTag is the fixed category tag of every intent panel.
const IntentTag = "intent-label"

// Analyzer performs one analysis round trip.
type Analyzer interface {
	Analyze(ctx context.Context, transcript string) (*analyzer.AnalysisResponse, error)
}

// UtteranceBlock is one display-ready utterance entry.
type UtteranceBlock struct {
	Index        int
	Heading      string
	Quote        string
	Sentiment    string
	SentimentTag string
	Intent       string
	IntentTag    string
}

// View is the rendering surface the controller drives. Implementations
// do not need to be safe for concurrent use; the controller serialises
// every call it makes.
type View interface {
	SetLoading(visible bool)
	SetResultsVisible(visible bool)
	SetSubmitEnabled(enabled bool)
	// Notify surfaces a blocking notice to the user.
	Notify(message string)
	SetOverall(sentiment, sentimentTag, intent string)
	ClearUtterances()
	ShowNoUtterances(message string)
	AddUtterance(block UtteranceBlock)
}

// Controller is the transcript analysis form controller: it validates
// input, submits it to an Analyzer and renders the answer into a View.
type Controller struct {
	analyzer Analyzer
	view     View
	logger   *zap.Logger

	mu      sync.Mutex
	pending bool

	viewMu sync.Mutex
}

// NewController binds a controller to its analyzer and view.
func NewController(a Analyzer, v View, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{analyzer: a, view: v, logger: logger}
}

// Pending reports whether a submit is waiting on the analyzer.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Submit validates and analyzes transcriptText, then renders the result.
// The submit control stays disabled while the request is in flight and
// overlapping calls return ErrBusy without reaching the analyzer.
func (c *Controller) Submit(ctx context.Context, transcriptText string) error {
	transcript := strings.TrimSpace(transcriptText)
	if transcript == "" {
		c.withView(func(v View) { v.Notify(EmptyTranscriptMessage) })
		return ErrEmptyTranscript
	}

	if !c.begin() {
		c.logger.Debug("Submit ignored while analysis is pending")
		return ErrBusy
	}
	defer c.end()

	c.withView(func(v View) {
		v.SetResultsVisible(false)
		v.SetLoading(true)
	})

	c.logger.Debug("Submitting transcript for analysis", zap.Int("length", len(transcript)))
	result, err := c.analyzer.Analyze(ctx, transcript)

	if err != nil {
		c.logger.Error("Transcript analysis failed", zap.Error(err))
		c.withView(func(v View) {
			v.SetLoading(false)
			v.Notify(FailureMessage)
		})
		return fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	c.withView(func(v View) {
		v.SetLoading(false)
		v.SetResultsVisible(true)
		render(v, result)
	})
	return nil
}

// Render writes an analysis into the view, replacing whatever was rendered before.
func (c *Controller) Render(result *analyzer.AnalysisResponse) {
	c.withView(func(v View) { render(v, result) })
}

func render(v View, result *analyzer.AnalysisResponse) {
	if result == nil {
		result = &analyzer.AnalysisResponse{}
	}

	overall := result.OverallAnalysis
	v.SetOverall(overall.Sentiment, overall.Sentiment, overall.Intent)

	v.ClearUtterances()

	if len(result.UtteranceAnalyses) == 0 {
		v.ShowNoUtterances(NoUtterancesMessage)
		return
	}

	for i, u := range result.UtteranceAnalyses {
		v.AddUtterance(NewUtteranceBlock(i+1, u))
	}
}

// NewUtteranceBlock formats the entry shown at 1-based position n.
func NewUtteranceBlock(n int, u analyzer.UtteranceAnalysis) UtteranceBlock {
	return UtteranceBlock{
		Index:        n,
		Heading:      fmt.Sprintf("Patient Utterance %d", n),
		Quote:        `"` + u.Utterance + `"`,
		Sentiment:    u.Analysis.Sentiment,
		SentimentTag: u.Analysis.Sentiment,
		Intent:       u.Analysis.Intent,
		IntentTag:    IntentTag,
	}
}

func (c *Controller) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending {
		return false
	}
	c.pending = true
	c.withView(func(v View) { v.SetSubmitEnabled(false) })
	return true
}

func (c *Controller) end() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = false
	c.withView(func(v View) { v.SetSubmitEnabled(true) })
}

func (c *Controller) withView(fn func(View)) {
	c.viewMu.Lock()
	defer c.viewMu.Unlock()
	fn(c.view)
}
