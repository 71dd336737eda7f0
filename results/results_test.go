package results

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const transcript = "Physician: How is the shoulder?\nPatient: My shoulder still aches when I lift my arm."

func TestAnalyzeWithoutBackends(t *testing.T) {
	got, job := Analyze(context.Background(), zap.NewNop(), transcript)

	require.NotNil(t, got)
	assert.Equal(t, InlineJob(transcript), job)
	require.Len(t, got.UtteranceAnalyses, 1)
	assert.Equal(t, "Reporting symptoms", got.UtteranceAnalyses[0].Analysis.Intent)
}

func TestAnalyzeConcurrentCallsAgree(t *testing.T) {
	var wg sync.WaitGroup
	jobs := make([]string, 8)
	for i := range jobs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, jobs[i] = Analyze(context.Background(), zap.NewNop(), transcript)
		}(i)
	}
	wg.Wait()

	for _, j := range jobs {
		assert.Equal(t, jobs[0], j)
	}
}

func TestInlineJobIsStable(t *testing.T) {
	assert.Equal(t, InlineJob("a"), InlineJob("a"))
	assert.NotEqual(t, InlineJob("a"), InlineJob("b"))
	assert.Len(t, InlineJob("a"), len("inline-")+16)
	assert.Len(t, Hash("a"), 64)
}

func TestGetWithoutBackends(t *testing.T) {
	_, err := Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListWithoutDatabase(t *testing.T) {
	_, err := List(context.Background())
	assert.Error(t, err)
}

func TestStoreWithoutBackendsIsNoop(t *testing.T) {
	got, job := Analyze(context.Background(), zap.NewNop(), transcript)
	assert.NoError(t, Store(context.Background(), zap.NewNop(), job, transcript, got))
}
