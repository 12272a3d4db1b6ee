package stats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padelhq/padel-data/internal/domain"
	"github.com/padelhq/padel-data/internal/store"
	"github.com/padelhq/padel-data/internal/store/memory"
)

// seedMatch creates a match with the four slots and one metrics row per entry
// in hits. Slots without an entry get no metrics row at all.
func seedMatch(t *testing.T, st store.Store, hits map[string]int) int64 {
	t.Helper()
	ctx := context.Background()

	v, err := st.Videos().Create(ctx, &domain.Video{
		PlayerID: "p-1",
		FileName: "match.mp4",
		Status:   domain.StatusAnalyzed,
	})
	require.NoError(t, err)

	match, err := st.Matches().Create(ctx, &domain.Match{})
	require.NoError(t, err)

	_, err = st.Analyses().Create(ctx, &domain.Analysis{
		PlayerID: "p-1",
		VideoID:  v.ID,
		MatchID:  &match.ID,
	})
	require.NoError(t, err)

	for _, label := range domain.SlotLabels {
		mp, err := st.MatchPlayers().Create(ctx, &domain.MatchPlayer{
			MatchID:          match.ID,
			PlayerIdentifier: label,
		})
		require.NoError(t, err)

		h, ok := hits[label]
		if !ok {
			continue
		}
		_, err = st.Metrics().Create(ctx, &domain.SummaryMetrics{
			MatchPlayerID: mp.ID,
			TotalHits:     h,
			TotalRallies:  52,
		})
		require.NoError(t, err)
	}
	return match.ID
}

func fullHits() map[string]int {
	return map[string]int{
		"player_1": 245,
		"player_2": 238,
		"player_3": 221,
		"player_4": 215,
	}
}

func TestMatchOverview(t *testing.T) {
	st := memory.New()
	svc := NewService(st)
	matchID := seedMatch(t, st, fullHits())

	o, err := svc.MatchOverview(context.Background(), matchID)
	require.NoError(t, err)
	assert.Equal(t, matchID, o.MatchID)
	require.NotNil(t, o.AnalysisID)
	require.Len(t, o.PlayerStatistics, 4)

	byLabel := make(map[string]int, 4)
	for _, p := range o.PlayerStatistics {
		byLabel[p.PlayerIdentifier] = p.TotalHits
	}
	assert.Equal(t, fullHits(), byLabel)
}

func TestMatchOverview_MatchNotFound(t *testing.T) {
	svc := NewService(memory.New())
	_, err := svc.MatchOverview(context.Background(), 77)
	assert.ErrorIs(t, err, domain.ErrMatchNotFound)
}

func TestMatchOverview_NoMetricsYet(t *testing.T) {
	st := memory.New()
	svc := NewService(st)
	matchID := seedMatch(t, st, nil) // slots exist, no metrics

	_, err := svc.MatchOverview(context.Background(), matchID)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestMatchOverview_UnlinkedAnalysisIsAccepted(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewService(st)

	// Match with metrics but no analysis row pointing at it.
	match, err := st.Matches().Create(ctx, &domain.Match{})
	require.NoError(t, err)
	mp, err := st.MatchPlayers().Create(ctx, &domain.MatchPlayer{
		MatchID:          match.ID,
		PlayerIdentifier: "player_1",
	})
	require.NoError(t, err)
	_, err = st.Metrics().Create(ctx, &domain.SummaryMetrics{MatchPlayerID: mp.ID, TotalHits: 10})
	require.NoError(t, err)

	o, err := svc.MatchOverview(ctx, match.ID)
	require.NoError(t, err)
	assert.Nil(t, o.AnalysisID)
}

func TestMatchStatisticsBySet(t *testing.T) {
	st := memory.New()
	svc := NewService(st)
	matchID := seedMatch(t, st, fullHits())

	s, err := svc.MatchStatisticsBySet(context.Background(), matchID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, s.SetNumber)
	assert.Len(t, s.PlayerStatistics, 4)
}

// countingStore records how many times any store accessor is reached.
type countingStore struct {
	store.Store
	calls int
}

func (c *countingStore) Players() store.PlayerStore           { c.calls++; return c.Store.Players() }
func (c *countingStore) Videos() store.VideoStore             { c.calls++; return c.Store.Videos() }
func (c *countingStore) Analyses() store.AnalysisStore        { c.calls++; return c.Store.Analyses() }
func (c *countingStore) Matches() store.MatchStore            { c.calls++; return c.Store.Matches() }
func (c *countingStore) MatchPlayers() store.MatchPlayerStore { c.calls++; return c.Store.MatchPlayers() }
func (c *countingStore) Metrics() store.SummaryMetricsStore   { c.calls++; return c.Store.Metrics() }

func TestMatchStatisticsBySet_InvalidSetNumber(t *testing.T) {
	// Validation must run before any store access.
	st := &countingStore{Store: memory.New()}
	svc := NewService(st)
	for _, n := range []int{0, -1, -100} {
		_, err := svc.MatchStatisticsBySet(context.Background(), 123, n)
		assert.ErrorIs(t, err, domain.ErrInvalidSetNumber, "set %d", n)
		assert.NotErrorIs(t, err, domain.ErrMatchNotFound)
	}
	assert.Zero(t, st.calls)
}

func TestHitComparisonChartData_SortedDescending(t *testing.T) {
	st := memory.New()
	svc := NewService(st)
	// Insertion order deliberately not the ranking order.
	matchID := seedMatch(t, st, map[string]int{
		"player_1": 120,
		"player_2": 300,
		"player_3": 80,
		"player_4": 300,
	})

	c, err := svc.HitComparisonChartData(context.Background(), matchID)
	require.NoError(t, err)
	assert.Equal(t, "bar", c.ChartType)
	require.Len(t, c.Players, 4)
	for i := 1; i < len(c.Players); i++ {
		assert.GreaterOrEqual(t, c.Players[i-1].TotalHits, c.Players[i].TotalHits)
	}
	// Stable sort keeps store order for the tied pair.
	assert.Equal(t, "player_2", c.Players[0].PlayerIdentifier)
	assert.Equal(t, "player_4", c.Players[1].PlayerIdentifier)
}

func TestPlayerHitCount(t *testing.T) {
	st := memory.New()
	svc := NewService(st)
	matchID := seedMatch(t, st, fullHits())

	n, err := svc.PlayerHitCount(context.Background(), matchID, "player_3")
	require.NoError(t, err)
	assert.Equal(t, 221, n)
}

func TestPlayerHitCount_ErrorLadder(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewService(st)
	matchID := seedMatch(t, st, map[string]int{"player_1": 50}) // only one slot has metrics

	_, err := svc.PlayerHitCount(ctx, 999, "player_1")
	assert.ErrorIs(t, err, domain.ErrMatchNotFound)

	_, err = svc.PlayerHitCount(ctx, matchID, "player_9")
	assert.ErrorIs(t, err, domain.ErrPlayerInMatchNotFound)

	_, err = svc.PlayerHitCount(ctx, matchID, "player_2")
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}
