package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padelhq/padel-data/internal/analysis"
	"github.com/padelhq/padel-data/internal/auth"
	"github.com/padelhq/padel-data/internal/config"
	"github.com/padelhq/padel-data/internal/domain"
	"github.com/padelhq/padel-data/internal/player"
	"github.com/padelhq/padel-data/internal/stats"
	"github.com/padelhq/padel-data/internal/store/memory"
	"github.com/padelhq/padel-data/internal/video"
)

type nullFiles struct{}

func (nullFiles) Save(r io.Reader, originalFilename, playerID string) (string, error) {
	io.Copy(io.Discard, r)
	return playerID + "/" + originalFilename, nil
}

type nullQueue struct{}

func (nullQueue) EnqueueAnalysis(videoID int64, playerID string) bool { return true }

type fixture struct {
	h      *Handler
	st     *memory.Store
	router *chi.Mux
	player *domain.Player
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{MaxFileSizeMB: 2000}

	analysisSvc := analysis.NewService(st, logger)
	videoSvc := video.NewService(st, nullFiles{}, nullQueue{}, []string{"mp4", "avi"}, 2000, logger)
	playerSvc := player.NewService(st)
	statsSvc := stats.NewService(st)

	h := New(nil, videoSvc, playerSvc, statsSvc, analysisSvc, cfg)

	r := chi.NewRouter()
	r.Post("/auth/register", h.Register)
	r.Get("/auth/me", h.Me)
	r.Post("/videos/upload", h.UploadVideo)
	r.Get("/videos/config/upload-info", h.GetUploadConfig)
	r.Get("/videos/{videoID}", h.GetVideo)
	r.Get("/videos/{videoID}/analysis", h.GetVideoAnalysis)
	r.Get("/matches/{matchID}/overview", h.GetMatchOverview)
	r.Get("/matches/{matchID}/sets/{setNumber}", h.GetMatchStatisticsBySet)
	r.Get("/matches/{matchID}/chart/hits", h.GetHitComparisonChart)
	r.Get("/matches/{matchID}/players/{playerIdentifier}/hits", h.GetPlayerHitCount)

	p, err := st.Players().Create(context.Background(), &domain.Player{
		ID: "auth0|abc", Name: "Ana", Email: "ana@example.com", Role: "player",
	})
	require.NoError(t, err)

	return &fixture{h: h, st: st, router: r, player: p}
}

// get performs a request with the fixture player in the auth context.
func (f *fixture) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req = req.WithContext(auth.WithPlayer(req.Context(), f.player))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// analyzedMatch runs the full chain for a fresh video and returns the match ID.
func (f *fixture) analyzedMatch(t *testing.T) (int64, int64) {
	t.Helper()
	ctx := context.Background()
	v, err := f.st.Videos().Create(ctx, &domain.Video{
		PlayerID: f.player.ID, FileName: "match.mp4", Status: domain.StatusUploaded,
	})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := analysis.NewService(f.st, logger)
	a, err := svc.CreateAnalysisForVideo(ctx, v.ID, f.player.ID)
	require.NoError(t, err)
	results, err := analysis.StubAdapter{}.Analyze(ctx, v)
	require.NoError(t, err)
	require.NoError(t, svc.StoreAnalysisResults(ctx, *a.MatchID, results))
	require.NoError(t, svc.CompleteAnalysis(ctx, v.ID, true, ""))
	return *a.MatchID, v.ID
}

func TestUploadVideo(t *testing.T) {
	f := newFixture(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "match.mp4")
	require.NoError(t, err)
	fw.Write([]byte("fake video bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/videos/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = req.WithContext(auth.WithPlayer(req.Context(), f.player))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "UPLOADED", resp["status"])
	assert.Equal(t, "match.mp4", resp["file_name"])
}

func TestUploadVideo_BadFormat(t *testing.T) {
	f := newFixture(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "malware.exe")
	require.NoError(t, err)
	fw.Write([]byte("x"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/videos/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = req.WithContext(auth.WithPlayer(req.Context(), f.player))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetVideo_OwnershipHidesOthers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.st.Videos().Create(ctx, &domain.Video{
		PlayerID: "someone-else", FileName: "private.mp4", Status: domain.StatusUploaded,
	})
	require.NoError(t, err)

	// A foreign video answers exactly like a missing one.
	rec := f.get("/videos/1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetVideoAnalysis(t *testing.T) {
	f := newFixture(t)
	matchID, videoID := f.analyzedMatch(t)

	rec := f.get("/videos/1/analysis")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, videoID, resp["video_id"])
	assert.EqualValues(t, matchID, resp["match_id"])

	rec = f.get("/videos/99/analysis")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetMatchOverview(t *testing.T) {
	f := newFixture(t)
	matchID, _ := f.analyzedMatch(t)

	rec := f.get("/matches/1/overview")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var overview stats.Overview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
	assert.Equal(t, matchID, overview.MatchID)
	assert.Len(t, overview.PlayerStatistics, 4)

	rec = f.get("/matches/99/overview")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.get("/matches/abc/overview")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMatchStatisticsBySet(t *testing.T) {
	f := newFixture(t)
	f.analyzedMatch(t)

	rec := f.get("/matches/1/sets/2")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var setStats stats.SetStatistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &setStats))
	assert.Equal(t, 2, setStats.SetNumber)

	rec = f.get("/matches/1/sets/0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.get("/matches/1/sets/x")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetHitComparisonChart(t *testing.T) {
	f := newFixture(t)
	f.analyzedMatch(t)

	rec := f.get("/matches/1/chart/hits")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var chart stats.ChartData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chart))
	assert.Equal(t, "bar", chart.ChartType)
	require.Len(t, chart.Players, 4)
	for i := 1; i < len(chart.Players); i++ {
		assert.GreaterOrEqual(t, chart.Players[i-1].TotalHits, chart.Players[i].TotalHits)
	}
}

func TestGetPlayerHitCount(t *testing.T) {
	f := newFixture(t)
	f.analyzedMatch(t)

	rec := f.get("/matches/1/players/player_1/hits")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "player_1", resp["player_identifier"])

	rec = f.get("/matches/1/players/player_9/hits")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetMatchOverview_PendingAnalysis(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Chain created but no results stored yet.
	v, err := f.st.Videos().Create(ctx, &domain.Video{
		PlayerID: f.player.ID, FileName: "match.mp4", Status: domain.StatusUploaded,
	})
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err = analysis.NewService(f.st, logger).CreateAnalysisForVideo(ctx, v.ID, f.player.ID)
	require.NoError(t, err)

	rec := f.get("/matches/1/overview")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRegister(t *testing.T) {
	f := newFixture(t)

	body := bytes.NewBufferString(`{"name":"Nuevo","email":"nuevo@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	req = req.WithContext(auth.WithIdentity(req.Context(), &auth.Identity{Subject: "auth0|new"}))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "auth0|new", resp["id"])
	assert.Equal(t, "player", resp["role"])
}

func TestRegister_ClaimsFillMissingFields(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), &auth.Identity{
		Subject: "auth0|new", Name: "From Token", Email: "token@example.com",
	}))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "From Token", resp["name"])
}

func TestRegister_Duplicate(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), &auth.Identity{
		Subject: f.player.ID, Name: "Ana", Email: "ana@example.com",
	}))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMe(t *testing.T) {
	f := newFixture(t)

	rec := f.get("/auth/me")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, f.player.ID, resp["id"])

	// No auth context at all.
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUploadConfig(t *testing.T) {
	f := newFixture(t)

	rec := f.get("/videos/config/upload-info")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 2000, resp["max_file_size_mb"])
}
