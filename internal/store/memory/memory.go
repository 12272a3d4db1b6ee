// Package memory provides an in-memory Store used by tests and the padelctl
// demo command. Rollback for InTx is implemented by snapshotting state before
// the callback and restoring it on error.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/padelhq/padel-data/internal/domain"
	"github.com/padelhq/padel-data/internal/store"
)

type state struct {
	players      map[string]domain.Player
	videos       map[int64]domain.Video
	analyses     map[int64]domain.Analysis
	matches      map[int64]domain.Match
	matchPlayers map[int64]domain.MatchPlayer
	metrics      map[int64]domain.SummaryMetrics

	nextVideo       int64
	nextAnalysis    int64
	nextMatch       int64
	nextMatchPlayer int64
	nextMetrics     int64
}

func newState() *state {
	return &state{
		players:      make(map[string]domain.Player),
		videos:       make(map[int64]domain.Video),
		analyses:     make(map[int64]domain.Analysis),
		matches:      make(map[int64]domain.Match),
		matchPlayers: make(map[int64]domain.MatchPlayer),
		metrics:      make(map[int64]domain.SummaryMetrics),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.players {
		c.players[k] = v
	}
	for k, v := range s.videos {
		c.videos[k] = v
	}
	for k, v := range s.analyses {
		c.analyses[k] = v
	}
	for k, v := range s.matches {
		c.matches[k] = v
	}
	for k, v := range s.matchPlayers {
		c.matchPlayers[k] = v
	}
	for k, v := range s.metrics {
		c.metrics[k] = v
	}
	c.nextVideo = s.nextVideo
	c.nextAnalysis = s.nextAnalysis
	c.nextMatch = s.nextMatch
	c.nextMatchPlayer = s.nextMatchPlayer
	c.nextMetrics = s.nextMetrics
	return c
}

// Store is the in-memory implementation of store.Store. Safe for concurrent
// use; every operation takes the store-wide mutex.
type Store struct {
	mu sync.Mutex
	st *state
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{st: newState()}
}

func (m *Store) Players() store.PlayerStore           { return (*playerStore)(m) }
func (m *Store) Videos() store.VideoStore             { return (*videoStore)(m) }
func (m *Store) Analyses() store.AnalysisStore        { return (*analysisStore)(m) }
func (m *Store) Matches() store.MatchStore            { return (*matchStore)(m) }
func (m *Store) MatchPlayers() store.MatchPlayerStore { return (*matchPlayerStore)(m) }
func (m *Store) Metrics() store.SummaryMetricsStore   { return (*metricsStore)(m) }

// InTx snapshots state, runs fn against an unlocked view, and restores the
// snapshot if fn fails. The store mutex is held for the whole callback, which
// serializes concurrent writers the way row locking would.
func (m *Store) InTx(ctx context.Context, fn func(store.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := m.st.clone()
	if err := fn(&txStore{st: m.st}); err != nil {
		m.st = snapshot
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Locked accessors (top-level store)
// ---------------------------------------------------------------------------

type playerStore Store

func (p *playerStore) Create(ctx context.Context, pl *domain.Player) (*domain.Player, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.st.createPlayer(pl)
}

func (p *playerStore) GetByID(ctx context.Context, id string) (*domain.Player, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.st.playerByID(id)
}

func (p *playerStore) GetByEmail(ctx context.Context, email string) (*domain.Player, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.st.playerByEmail(email)
}

type videoStore Store

func (v *videoStore) Create(ctx context.Context, vid *domain.Video) (*domain.Video, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.st.createVideo(vid)
}

func (v *videoStore) GetByID(ctx context.Context, id int64) (*domain.Video, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.st.videoByID(id)
}

func (v *videoStore) UpdateStatus(ctx context.Context, id int64, status domain.VideoStatus) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.st.updateVideoStatus(id, status)
}

func (v *videoStore) SoftDelete(ctx context.Context, id int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	vid, ok := v.st.videos[id]
	if !ok {
		return domain.ErrVideoNotFound
	}
	vid.Deleted = true
	vid.UpdatedAt = time.Now()
	v.st.videos[id] = vid
	return nil
}

type analysisStore Store

func (a *analysisStore) Create(ctx context.Context, an *domain.Analysis) (*domain.Analysis, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.st.createAnalysis(an)
}

func (a *analysisStore) Update(ctx context.Context, an *domain.Analysis) (*domain.Analysis, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.st.updateAnalysis(an)
}

func (a *analysisStore) GetByVideoID(ctx context.Context, videoID int64) (*domain.Analysis, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.st.analysisByVideoID(videoID)
}

func (a *analysisStore) GetByMatchID(ctx context.Context, matchID int64) (*domain.Analysis, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.st.analysisByMatchID(matchID)
}

type matchStore Store

func (m *matchStore) Create(ctx context.Context, ma *domain.Match) (*domain.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.createMatch(ma)
}

func (m *matchStore) GetByID(ctx context.Context, id int64) (*domain.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.matchByID(id)
}

type matchPlayerStore Store

func (m *matchPlayerStore) Create(ctx context.Context, mp *domain.MatchPlayer) (*domain.MatchPlayer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.createMatchPlayer(mp)
}

func (m *matchPlayerStore) GetByID(ctx context.Context, id int64) (*domain.MatchPlayer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.matchPlayerByID(id)
}

func (m *matchPlayerStore) GetByMatchID(ctx context.Context, matchID int64) ([]domain.MatchPlayer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.matchPlayersByMatchID(matchID), nil
}

func (m *matchPlayerStore) GetByIdentifier(ctx context.Context, matchID int64, identifier string) (*domain.MatchPlayer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.matchPlayerByIdentifier(matchID, identifier)
}

type metricsStore Store

func (m *metricsStore) Create(ctx context.Context, sm *domain.SummaryMetrics) (*domain.SummaryMetrics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.createMetrics(sm)
}

func (m *metricsStore) GetByMatchPlayerID(ctx context.Context, matchPlayerID int64) (*domain.SummaryMetrics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.metricsByMatchPlayerID(matchPlayerID)
}

func (m *metricsStore) GetAllByMatchID(ctx context.Context, matchID int64) ([]domain.SummaryMetrics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.metricsByMatchID(matchID), nil
}

// ---------------------------------------------------------------------------
// Transactional view: same state, no locking (outer lock held by InTx).
// ---------------------------------------------------------------------------

type txStore struct {
	st *state
}

func (t *txStore) Players() store.PlayerStore           { return txPlayers{t.st} }
func (t *txStore) Videos() store.VideoStore             { return txVideos{t.st} }
func (t *txStore) Analyses() store.AnalysisStore        { return txAnalyses{t.st} }
func (t *txStore) Matches() store.MatchStore            { return txMatches{t.st} }
func (t *txStore) MatchPlayers() store.MatchPlayerStore { return txMatchPlayers{t.st} }
func (t *txStore) Metrics() store.SummaryMetricsStore   { return txMetrics{t.st} }

// Nested transactions just reuse the enclosing scope.
func (t *txStore) InTx(ctx context.Context, fn func(store.Store) error) error {
	return fn(t)
}

type txPlayers struct{ st *state }

func (t txPlayers) Create(ctx context.Context, p *domain.Player) (*domain.Player, error) {
	return t.st.createPlayer(p)
}
func (t txPlayers) GetByID(ctx context.Context, id string) (*domain.Player, error) {
	return t.st.playerByID(id)
}
func (t txPlayers) GetByEmail(ctx context.Context, email string) (*domain.Player, error) {
	return t.st.playerByEmail(email)
}

type txVideos struct{ st *state }

func (t txVideos) Create(ctx context.Context, v *domain.Video) (*domain.Video, error) {
	return t.st.createVideo(v)
}
func (t txVideos) GetByID(ctx context.Context, id int64) (*domain.Video, error) {
	return t.st.videoByID(id)
}
func (t txVideos) UpdateStatus(ctx context.Context, id int64, status domain.VideoStatus) error {
	return t.st.updateVideoStatus(id, status)
}
func (t txVideos) SoftDelete(ctx context.Context, id int64) error {
	v, ok := t.st.videos[id]
	if !ok {
		return domain.ErrVideoNotFound
	}
	v.Deleted = true
	t.st.videos[id] = v
	return nil
}

type txAnalyses struct{ st *state }

func (t txAnalyses) Create(ctx context.Context, a *domain.Analysis) (*domain.Analysis, error) {
	return t.st.createAnalysis(a)
}
func (t txAnalyses) Update(ctx context.Context, a *domain.Analysis) (*domain.Analysis, error) {
	return t.st.updateAnalysis(a)
}
func (t txAnalyses) GetByVideoID(ctx context.Context, videoID int64) (*domain.Analysis, error) {
	return t.st.analysisByVideoID(videoID)
}
func (t txAnalyses) GetByMatchID(ctx context.Context, matchID int64) (*domain.Analysis, error) {
	return t.st.analysisByMatchID(matchID)
}

type txMatches struct{ st *state }

func (t txMatches) Create(ctx context.Context, m *domain.Match) (*domain.Match, error) {
	return t.st.createMatch(m)
}
func (t txMatches) GetByID(ctx context.Context, id int64) (*domain.Match, error) {
	return t.st.matchByID(id)
}

type txMatchPlayers struct{ st *state }

func (t txMatchPlayers) Create(ctx context.Context, mp *domain.MatchPlayer) (*domain.MatchPlayer, error) {
	return t.st.createMatchPlayer(mp)
}
func (t txMatchPlayers) GetByID(ctx context.Context, id int64) (*domain.MatchPlayer, error) {
	return t.st.matchPlayerByID(id)
}
func (t txMatchPlayers) GetByMatchID(ctx context.Context, matchID int64) ([]domain.MatchPlayer, error) {
	return t.st.matchPlayersByMatchID(matchID), nil
}
func (t txMatchPlayers) GetByIdentifier(ctx context.Context, matchID int64, identifier string) (*domain.MatchPlayer, error) {
	return t.st.matchPlayerByIdentifier(matchID, identifier)
}

type txMetrics struct{ st *state }

func (t txMetrics) Create(ctx context.Context, sm *domain.SummaryMetrics) (*domain.SummaryMetrics, error) {
	return t.st.createMetrics(sm)
}
func (t txMetrics) GetByMatchPlayerID(ctx context.Context, matchPlayerID int64) (*domain.SummaryMetrics, error) {
	return t.st.metricsByMatchPlayerID(matchPlayerID)
}
func (t txMetrics) GetAllByMatchID(ctx context.Context, matchID int64) ([]domain.SummaryMetrics, error) {
	return t.st.metricsByMatchID(matchID), nil
}

// ---------------------------------------------------------------------------
// State operations
// ---------------------------------------------------------------------------

func (s *state) createPlayer(p *domain.Player) (*domain.Player, error) {
	if _, ok := s.players[p.ID]; ok {
		return nil, domain.ErrPlayerExists
	}
	for _, existing := range s.players {
		if strings.EqualFold(existing.Email, p.Email) {
			return nil, domain.ErrPlayerExists
		}
	}
	now := time.Now()
	stored := *p
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.players[stored.ID] = stored
	return &stored, nil
}

func (s *state) playerByID(id string) (*domain.Player, error) {
	p, ok := s.players[id]
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}
	return &p, nil
}

func (s *state) playerByEmail(email string) (*domain.Player, error) {
	for _, p := range s.players {
		if strings.EqualFold(p.Email, email) {
			out := p
			return &out, nil
		}
	}
	return nil, domain.ErrPlayerNotFound
}

func (s *state) createVideo(v *domain.Video) (*domain.Video, error) {
	s.nextVideo++
	now := time.Now()
	stored := *v
	stored.ID = s.nextVideo
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.videos[stored.ID] = stored
	return &stored, nil
}

func (s *state) videoByID(id int64) (*domain.Video, error) {
	v, ok := s.videos[id]
	if !ok || v.Deleted {
		return nil, domain.ErrVideoNotFound
	}
	return &v, nil
}

func (s *state) updateVideoStatus(id int64, status domain.VideoStatus) error {
	v, ok := s.videos[id]
	if !ok {
		return domain.ErrVideoNotFound
	}
	v.Status = status
	v.UpdatedAt = time.Now()
	s.videos[id] = v
	return nil
}

func (s *state) createAnalysis(a *domain.Analysis) (*domain.Analysis, error) {
	s.nextAnalysis++
	now := time.Now()
	stored := *a
	stored.ID = s.nextAnalysis
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.analyses[stored.ID] = stored
	return &stored, nil
}

func (s *state) updateAnalysis(a *domain.Analysis) (*domain.Analysis, error) {
	if _, ok := s.analyses[a.ID]; !ok {
		return nil, domain.ErrAnalysisNotFound
	}
	stored := *a
	stored.UpdatedAt = time.Now()
	s.analyses[stored.ID] = stored
	return &stored, nil
}

func (s *state) analysisByVideoID(videoID int64) (*domain.Analysis, error) {
	for _, a := range s.analyses {
		if a.VideoID == videoID {
			out := a
			return &out, nil
		}
	}
	return nil, domain.ErrAnalysisNotFound
}

func (s *state) analysisByMatchID(matchID int64) (*domain.Analysis, error) {
	for _, a := range s.analyses {
		if a.MatchID != nil && *a.MatchID == matchID {
			out := a
			return &out, nil
		}
	}
	return nil, domain.ErrAnalysisNotFound
}

func (s *state) createMatch(m *domain.Match) (*domain.Match, error) {
	s.nextMatch++
	now := time.Now()
	stored := *m
	stored.ID = s.nextMatch
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.matches[stored.ID] = stored
	return &stored, nil
}

func (s *state) matchByID(id int64) (*domain.Match, error) {
	m, ok := s.matches[id]
	if !ok {
		return nil, domain.ErrMatchNotFound
	}
	return &m, nil
}

func (s *state) createMatchPlayer(mp *domain.MatchPlayer) (*domain.MatchPlayer, error) {
	s.nextMatchPlayer++
	now := time.Now()
	stored := *mp
	stored.ID = s.nextMatchPlayer
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.matchPlayers[stored.ID] = stored
	return &stored, nil
}

func (s *state) matchPlayerByID(id int64) (*domain.MatchPlayer, error) {
	mp, ok := s.matchPlayers[id]
	if !ok {
		return nil, domain.ErrPlayerInMatchNotFound
	}
	return &mp, nil
}

func (s *state) matchPlayersByMatchID(matchID int64) []domain.MatchPlayer {
	var out []domain.MatchPlayer
	for _, mp := range s.matchPlayers {
		if mp.MatchID == matchID {
			out = append(out, mp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *state) matchPlayerByIdentifier(matchID int64, identifier string) (*domain.MatchPlayer, error) {
	for _, mp := range s.matchPlayers {
		if mp.MatchID == matchID && mp.PlayerIdentifier == identifier {
			out := mp
			return &out, nil
		}
	}
	return nil, domain.ErrPlayerInMatchNotFound
}

func (s *state) createMetrics(sm *domain.SummaryMetrics) (*domain.SummaryMetrics, error) {
	s.nextMetrics++
	now := time.Now()
	stored := *sm
	stored.ID = s.nextMetrics
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.metrics[stored.ID] = stored
	return &stored, nil
}

func (s *state) metricsByMatchPlayerID(matchPlayerID int64) (*domain.SummaryMetrics, error) {
	for _, sm := range s.metrics {
		if sm.MatchPlayerID == matchPlayerID {
			out := sm
			return &out, nil
		}
	}
	return nil, domain.ErrDataUnavailable
}

// metricsByMatchID returns metrics for all slots of a match in primary-key
// order. Ordering here is incidental, not a contract; the chart layer sorts.
func (s *state) metricsByMatchID(matchID int64) []domain.SummaryMetrics {
	slots := make(map[int64]bool)
	for _, mp := range s.matchPlayers {
		if mp.MatchID == matchID {
			slots[mp.ID] = true
		}
	}
	var out []domain.SummaryMetrics
	for _, sm := range s.metrics {
		if slots[sm.MatchPlayerID] {
			out = append(out, sm)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
