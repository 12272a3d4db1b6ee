package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padelhq/padel-data/internal/domain"
	"github.com/padelhq/padel-data/internal/store/memory"
)

type failAdapter struct{}

func (failAdapter) Analyze(ctx context.Context, video *domain.Video) (map[string]PlayerResult, error) {
	return nil, errors.New("pipeline timeout")
}

func TestRunnerEnqueue_FullQueueDropsJob(t *testing.T) {
	st := memory.New()
	svc := NewService(st, testLogger())
	r := NewRunner(svc, StubAdapter{}, 1, 1, testLogger())

	// No workers running; the buffered queue holds exactly one job.
	assert.True(t, r.Enqueue(Job{VideoID: 1, PlayerID: "p-1"}))
	assert.False(t, r.Enqueue(Job{VideoID: 2, PlayerID: "p-1"}))
}

func TestRunnerProcess_Success(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewService(st, testLogger())
	r := NewRunner(svc, StubAdapter{}, 1, 4, testLogger())
	v := seedVideo(t, st)

	r.process(ctx, Job{VideoID: v.ID, PlayerID: "p-1"})

	got, err := st.Videos().GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAnalyzed, got.Status)

	a, err := st.Analyses().GetByVideoID(ctx, v.ID)
	require.NoError(t, err)
	require.NotNil(t, a.MatchID)

	metricsList, err := st.Metrics().GetAllByMatchID(ctx, *a.MatchID)
	require.NoError(t, err)
	assert.Len(t, metricsList, 4)
}

func TestRunnerProcess_AdapterFailureMarksVideoError(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewService(st, testLogger())
	r := NewRunner(svc, failAdapter{}, 1, 4, testLogger())
	v := seedVideo(t, st)

	r.process(ctx, Job{VideoID: v.ID, PlayerID: "p-1"})

	got, err := st.Videos().GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, got.Status)

	// The chain entities exist but carry no metrics.
	a, err := st.Analyses().GetByVideoID(ctx, v.ID)
	require.NoError(t, err)
	metricsList, err := st.Metrics().GetAllByMatchID(ctx, *a.MatchID)
	require.NoError(t, err)
	assert.Empty(t, metricsList)
}

func TestRunnerProcess_MissingVideo(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewService(st, testLogger())
	r := NewRunner(svc, StubAdapter{}, 1, 4, testLogger())

	// Must not panic or write anything.
	r.process(ctx, Job{VideoID: 99, PlayerID: "p-1"})

	_, err := st.Analyses().GetByVideoID(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrAnalysisNotFound)
}
