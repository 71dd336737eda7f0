package client

import (
	"context"
	"sync"
	"transcript-sentiment/analyzer"
)

// recordingView keeps the current state of every region plus the call log.
type recordingView struct {
	loading        bool
	resultsVisible bool
	submitEnabled  bool
	notices        []string

	sentiment    string
	sentimentTag string
	intent       string
	placeholder  string
	blocks       []UtteranceBlock

	calls []string
}

func newRecordingView() *recordingView {
	return &recordingView{submitEnabled: true}
}

func (v *recordingView) SetLoading(visible bool) {
	v.loading = visible
	v.calls = append(v.calls, "loading")
}

func (v *recordingView) SetResultsVisible(visible bool) {
	v.resultsVisible = visible
	v.calls = append(v.calls, "results")
}

func (v *recordingView) SetSubmitEnabled(enabled bool) {
	v.submitEnabled = enabled
	v.calls = append(v.calls, "submit")
}

func (v *recordingView) Notify(message string) {
	v.notices = append(v.notices, message)
	v.calls = append(v.calls, "notify")
}

func (v *recordingView) SetOverall(sentiment, sentimentTag, intent string) {
	v.sentiment, v.sentimentTag, v.intent = sentiment, sentimentTag, intent
	v.calls = append(v.calls, "overall")
}

func (v *recordingView) ClearUtterances() {
	v.blocks = nil
	v.placeholder = ""
	v.calls = append(v.calls, "clear")
}

func (v *recordingView) ShowNoUtterances(message string) {
	v.placeholder = message
	v.calls = append(v.calls, "placeholder")
}

func (v *recordingView) AddUtterance(block UtteranceBlock) {
	v.blocks = append(v.blocks, block)
	v.calls = append(v.calls, "utterance")
}

// stubAnalyzer answers with a fixed result, optionally blocking until released.
type stubAnalyzer struct {
	mu      sync.Mutex
	calls   []string
	result  *analyzer.AnalysisResponse
	err     error
	started chan struct{}
	release chan struct{}
}

func (s *stubAnalyzer) Analyze(ctx context.Context, transcript string) (*analyzer.AnalysisResponse, error) {
	s.mu.Lock()
	s.calls = append(s.calls, transcript)
	s.mu.Unlock()

	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.result, s.err
}

func (s *stubAnalyzer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}
