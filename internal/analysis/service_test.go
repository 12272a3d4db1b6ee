package analysis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padelhq/padel-data/internal/domain"
	"github.com/padelhq/padel-data/internal/store"
	"github.com/padelhq/padel-data/internal/store/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedVideo(t *testing.T, st store.Store) *domain.Video {
	t.Helper()
	v, err := st.Videos().Create(context.Background(), &domain.Video{
		PlayerID:    "p-1",
		FileName:    "match.mp4",
		StoragePath: "p-1/match.mp4",
		Status:      domain.StatusUploaded,
	})
	require.NoError(t, err)
	return v
}

func TestCreateAnalysisForVideo_MissingVideo(t *testing.T) {
	st := memory.New()
	svc := NewService(st, testLogger())

	_, err := svc.CreateAnalysisForVideo(context.Background(), 42, "p-1")
	require.ErrorIs(t, err, domain.ErrVideoNotFound)

	// Nothing was written.
	_, err = st.Analyses().GetByVideoID(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrAnalysisNotFound)
}

func TestCreateAnalysisForVideo_CreatesFullChain(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewService(st, testLogger())
	v := seedVideo(t, st)

	a, err := svc.CreateAnalysisForVideo(ctx, v.ID, "p-1")
	require.NoError(t, err)
	require.NotNil(t, a.MatchID)
	assert.Equal(t, v.ID, a.VideoID)
	assert.Equal(t, "p-1", a.PlayerID)
	assert.False(t, a.AnalysisTimestamp.IsZero())

	// Match exists and is linked both ways.
	_, err = st.Matches().GetByID(ctx, *a.MatchID)
	require.NoError(t, err)
	linked, err := st.Analyses().GetByMatchID(ctx, *a.MatchID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, linked.ID)

	// Four slots with the fixed labels, in order.
	mps, err := st.MatchPlayers().GetByMatchID(ctx, *a.MatchID)
	require.NoError(t, err)
	require.Len(t, mps, 4)
	for i, mp := range mps {
		assert.Equal(t, domain.SlotLabels[i], mp.PlayerIdentifier)
	}

	// Video moved to PROCESSING.
	got, err := st.Videos().GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, got.Status)
}

// chainFailStore fails MatchPlayers().Create after a set number of calls,
// simulating a mid-chain write failure.
type chainFailStore struct {
	store.Store
	remaining *int
}

func (f *chainFailStore) MatchPlayers() store.MatchPlayerStore {
	return failMatchPlayers{inner: f.Store.MatchPlayers(), remaining: f.remaining}
}

func (f *chainFailStore) InTx(ctx context.Context, fn func(store.Store) error) error {
	return f.Store.InTx(ctx, func(tx store.Store) error {
		return fn(&chainFailStore{Store: tx, remaining: f.remaining})
	})
}

type failMatchPlayers struct {
	inner     store.MatchPlayerStore
	remaining *int
}

func (f failMatchPlayers) Create(ctx context.Context, mp *domain.MatchPlayer) (*domain.MatchPlayer, error) {
	if *f.remaining <= 0 {
		return nil, errors.New("write failed")
	}
	*f.remaining--
	return f.inner.Create(ctx, mp)
}

func (f failMatchPlayers) GetByID(ctx context.Context, id int64) (*domain.MatchPlayer, error) {
	return f.inner.GetByID(ctx, id)
}

func (f failMatchPlayers) GetByMatchID(ctx context.Context, matchID int64) ([]domain.MatchPlayer, error) {
	return f.inner.GetByMatchID(ctx, matchID)
}

func (f failMatchPlayers) GetByIdentifier(ctx context.Context, matchID int64, identifier string) (*domain.MatchPlayer, error) {
	return f.inner.GetByIdentifier(ctx, matchID, identifier)
}

func TestCreateAnalysisForVideo_RollsBackOnMidChainFailure(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	remaining := 2 // third slot write fails
	st := &chainFailStore{Store: mem, remaining: &remaining}
	svc := NewService(st, testLogger())
	v := seedVideo(t, mem)

	_, err := svc.CreateAnalysisForVideo(ctx, v.ID, "p-1")
	require.Error(t, err)

	var aerr *domain.AnalysisError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "create", aerr.Op)

	// Everything rolled back: no analysis, no partial slots.
	_, err = mem.Analyses().GetByVideoID(ctx, v.ID)
	assert.ErrorIs(t, err, domain.ErrAnalysisNotFound)
	mps, err := mem.MatchPlayers().GetByMatchID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, mps)

	// The video itself records the failure.
	got, err := mem.Videos().GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, got.Status)
}

func TestStoreAnalysisResults_PersistsPerSlot(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewService(st, testLogger())
	v := seedVideo(t, st)

	a, err := svc.CreateAnalysisForVideo(ctx, v.ID, "p-1")
	require.NoError(t, err)

	results := map[string]PlayerResult{
		"player_1": {Hits: 245, Rallies: 52},
		"player_2": {Hits: 238, Rallies: 52},
		"player_3": {Hits: 221, Rallies: 52},
		"player_4": {Hits: 215, Rallies: 52},
	}
	require.NoError(t, svc.StoreAnalysisResults(ctx, *a.MatchID, results))

	mps, err := st.MatchPlayers().GetByMatchID(ctx, *a.MatchID)
	require.NoError(t, err)
	for _, mp := range mps {
		sm, err := st.Metrics().GetByMatchPlayerID(ctx, mp.ID)
		require.NoError(t, err)
		assert.Equal(t, results[mp.PlayerIdentifier].Hits, sm.TotalHits)
		assert.Equal(t, results[mp.PlayerIdentifier].Rallies, sm.TotalRallies)
	}
}

func TestStoreAnalysisResults_ZeroFillsMissingSlot(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewService(st, testLogger())
	v := seedVideo(t, st)

	a, err := svc.CreateAnalysisForVideo(ctx, v.ID, "p-1")
	require.NoError(t, err)

	// player_4 missing from the pipeline output.
	results := map[string]PlayerResult{
		"player_1": {Hits: 100, Rallies: 20},
		"player_2": {Hits: 90, Rallies: 20},
		"player_3": {Hits: 80, Rallies: 20},
	}
	require.NoError(t, svc.StoreAnalysisResults(ctx, *a.MatchID, results))

	mp, err := st.MatchPlayers().GetByIdentifier(ctx, *a.MatchID, "player_4")
	require.NoError(t, err)
	sm, err := st.Metrics().GetByMatchPlayerID(ctx, mp.ID)
	require.NoError(t, err)
	assert.Zero(t, sm.TotalHits)
	assert.Zero(t, sm.TotalRallies)
}

func TestCompleteAnalysis(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewService(st, testLogger())

	ok := seedVideo(t, st)
	require.NoError(t, svc.CompleteAnalysis(ctx, ok.ID, true, ""))
	got, err := st.Videos().GetByID(ctx, ok.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAnalyzed, got.Status)

	bad := seedVideo(t, st)
	require.NoError(t, svc.CompleteAnalysis(ctx, bad.ID, false, "pipeline crashed"))
	got, err = st.Videos().GetByID(ctx, bad.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, got.Status)

	assert.ErrorIs(t, svc.CompleteAnalysis(ctx, 999, true, ""), domain.ErrVideoNotFound)
}

func TestGetAnalysisByVideo(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewService(st, testLogger())
	v := seedVideo(t, st)

	_, err := svc.GetAnalysisByVideo(ctx, v.ID)
	assert.ErrorIs(t, err, domain.ErrAnalysisNotFound)

	created, err := svc.CreateAnalysisForVideo(ctx, v.ID, "p-1")
	require.NoError(t, err)

	got, err := svc.GetAnalysisByVideo(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}
