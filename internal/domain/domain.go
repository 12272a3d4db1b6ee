// Package domain defines the entities shared by the ingest, analysis, and
// statistics layers, plus the video status model and error taxonomy.
package domain

import "time"

// VideoStatus tracks a video through its analysis lifecycle.
// Transitions: UPLOADED -> PROCESSING -> ANALYZED | ERROR.
// ERROR and ANALYZED are terminal.
type VideoStatus string

const (
	StatusUploaded   VideoStatus = "UPLOADED"
	StatusProcessing VideoStatus = "PROCESSING"
	StatusAnalyzed   VideoStatus = "ANALYZED"
	StatusError      VideoStatus = "ERROR"
)

// SlotLabels are the four fixed player identifiers assigned by the ML model.
// They denote positions detected in the video and are unrelated to registered
// Player accounts.
var SlotLabels = [4]string{"player_1", "player_2", "player_3", "player_4"}

// Player is a registered account. The ID is the external identity provider's
// subject string, assigned once at registration.
type Player struct {
	ID        string
	Name      string
	Email     string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Video is an uploaded match recording. Status is mutated only by the
// analysis orchestrator; videos are soft-deleted, never removed.
type Video struct {
	ID              int64
	PlayerID        string
	FileName        string
	StoragePath     string
	Status          VideoStatus
	UploadTimestamp time.Time
	Duration        *float64 // seconds, nil when probing failed
	Deleted         bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Analysis links a Video, the uploading Player, and the Match it produced.
// MatchID is nil between creation and the match-link update; both 1:1
// relations (video<->analysis, match<->analysis) are queryable once set.
type Analysis struct {
	ID                int64
	PlayerID          string
	VideoID           int64
	MatchID           *int64
	AnalysisTimestamp time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Match owns four MatchPlayer slots and their statistics. It carries no
// intrinsic attributes besides its relations.
type Match struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MatchPlayer is one of exactly four slots per match, labeled with a
// SlotLabel unique within the match.
type MatchPlayer struct {
	ID               int64
	MatchID          int64
	PlayerIdentifier string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SummaryMetrics holds per-slot aggregate counts. At most one row per
// MatchPlayer; absence means "data unavailable", not zero.
type SummaryMetrics struct {
	ID            int64
	MatchPlayerID int64
	TotalHits     int
	TotalRallies  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Detail entities below extend SummaryMetrics. They carry no orchestration
// logic; the schema keeps them for the full analysis payload.

type Hits struct {
	ID               int64
	SummaryMetricsID int64
	HitErrors        int
	OverheadHits     int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Rally struct {
	ID               int64
	SummaryMetricsID int64
	Hits             int
	LengthInTime     float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Heatmap struct {
	ID                 int64
	SummaryMetricsID   int64
	OffensiveZoneTime  float64
	DefensiveZoneTime  float64
	TransitionZoneTime float64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type HeatmapCoord struct {
	ID        int64
	HeatmapID int64
	X         float64
	Y         float64
	Intensity float64
	CreatedAt time.Time
	UpdatedAt time.Time
}
