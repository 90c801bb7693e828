package scoring

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/forgelabs/anvil/core"
)

var (
	// ErrNotFound is returned by read paths when the user does not exist.
	// The solve updater swallows it instead (see Service.RecordSolve).
	ErrNotFound = errors.New("user scoring profile not found")
)

const dateKeyLayout = "2006-01-02"

// DateKey returns the calendar-day key used by daily stats, in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateKeyLayout)
}

type (
	// Bucket aggregates solves scoped to one difficulty or category.
	Bucket struct {
		Solved       int `json:"solved"`
		AverageScore int `json:"averageScore"`
		TotalPoints  int `json:"totalPoints"`
	}

	Stats struct {
		TotalPoints    int               `json:"totalPoints"`
		HighestScore   float64           `json:"highestScore"`
		AverageScore   int               `json:"averageScore"`
		ProblemsSolved int               `json:"problemsSolved"`
		ByDifficulty   map[string]Bucket `json:"byDifficulty,omitempty"`
		ByCategory     map[string]Bucket `json:"byCategory,omitempty"`
	}

	// HistoryEntry records one solved/reviewed problem. Append-only.
	HistoryEntry struct {
		ProblemID  string    `json:"problemId"`
		AnalysisID string    `json:"analysisId"`
		Score      float64   `json:"score"`
		Points     int       `json:"points"`
		Difficulty string    `json:"difficulty"`
		Category   string    `json:"category"`
		Tags       []string  `json:"tags,omitempty"`
		SolvedAt   time.Time `json:"solvedAt"`
		Reattempts int       `json:"reattempts"`
	}

	// DailyStat holds the per-calendar-day counters. At most one entry per
	// date key per user.
	DailyStat struct {
		Date           string `json:"date"` // YYYY-MM-DD, UTC
		Points         int    `json:"points"`
		ProblemsSolved int    `json:"problemsSolved"`
	}

	// Tracker holds the aggregate counters shared by skill, tech and topic
	// tracker entries.
	Tracker struct {
		Category       string    `json:"category"`
		ProblemsSolved int       `json:"problemsSolved"`
		TotalPoints    int       `json:"totalPoints"`
		AverageScore   int       `json:"averageScore"`
		LastUsedAt     time.Time `json:"lastUsed"`
	}

	SkillEntry struct {
		Skill string `json:"skill"`
		Tracker
	}

	TechEntry struct {
		Technology string `json:"technology"`
		Tracker
	}

	TopicEntry struct {
		Topic string `json:"topic"`
		Tracker
	}

	SkillTracking struct {
		Skills           []SkillEntry `json:"skills"`
		TechStack        []TechEntry  `json:"techStack"`
		LearningProgress []TopicEntry `json:"learningProgress"`
	}

	// ActivityEntry is an append-only audit record of a scoring-relevant event.
	ActivityEntry struct {
		Type      string                 `json:"type"`
		Points    int                    `json:"points"`
		Category  string                 `json:"category"`
		Timestamp time.Time              `json:"timestamp"`
		Metadata  map[string]interface{} `json:"metadata,omitempty"`
	}

	// LearningPatterns is a derived snapshot, overwritten wholesale on each
	// recompute.
	LearningPatterns struct {
		ByTimeOfDay  map[string]int `json:"byTimeOfDay"` // morning/afternoon/evening/night
		ByDifficulty map[string]int `json:"byDifficulty"`
		ByCategory   map[string]int `json:"byCategory"`
		ComputedAt   time.Time      `json:"computedAt"`
	}

	// RoleMatch is a derived snapshot, overwritten wholesale on each recompute.
	RoleMatch struct {
		TargetRole   string    `json:"targetRole"`
		MatchPercent int       `json:"matchPercent"`
		Gaps         []string  `json:"gaps"`
		ComputedAt   time.Time `json:"lastComputed"`
	}

	// Goal is the user-set target read by the role-match and next-up logic.
	Goal struct {
		Role        string    `json:"role"`
		Title       string    `json:"title"`
		FocusSkills []string  `json:"focusSkills,omitempty"`
		StartDate   time.Time `json:"startDate"`
		TargetDate  time.Time `json:"targetDate"`
	}

	// Profile is the whole scoring aggregate of one user. It is persisted as
	// a single document: all mutations of one solve event are applied in
	// memory and saved once.
	Profile struct {
		UserID           string            `json:"userId"`
		Stats            Stats             `json:"stats"`
		ProblemHistory   []HistoryEntry    `json:"problemHistory,omitempty"`
		DailyStats       []DailyStat       `json:"dailyStats,omitempty"`
		SkillTracking    SkillTracking     `json:"skillTracking"`
		ActivityLog      []ActivityEntry   `json:"activityLog,omitempty"`
		LearningPatterns *LearningPatterns `json:"learningPatterns,omitempty"`
		RoleMatch        *RoleMatch        `json:"roleMatch,omitempty"`
		ActiveGoal       *Goal             `json:"activeGoal,omitempty"`
		Comparisons      json.RawMessage   `json:"comparisons,omitempty"`
		UpdatedAt        time.Time         `json:"updatedAt"`
	}

	// SolveEvent is the input of the scoring updater, emitted by the
	// solution-review workflow.
	SolveEvent struct {
		UserID     string    `json:"user_id" validate:"required"`
		ProblemID  string    `json:"problem_id" validate:"required"`
		AnalysisID string    `json:"analysis_id"`
		Score      float64   `json:"score"`
		Difficulty string    `json:"difficulty" validate:"required"`
		Category   string    `json:"category" validate:"required"`
		Tags       []string  `json:"tags"`
		SolvedAt   time.Time `json:"solved_at"`
		Reattempts int       `json:"reattempts"`
	}

	SolveResult struct {
		Points int `json:"points"`
	}

	// Repository persists scoring profiles. GetProfile returns ErrNotFound
	// when the user does not exist; a user without prior scoring activity
	// gets a zero-valued Profile with the UserID set.
	Repository interface {
		GetProfile(ctx context.Context, userID string) (Profile, error)
		SaveProfile(ctx context.Context, profile Profile) error
	}
)

// Validate checks structural fields only. Scores outside [0,100] are not
// rejected; they degrade via clamping in the point calculator.
func (ev *SolveEvent) Validate() error {
	ev.Difficulty = core.CleanString(ev.Difficulty, true /* lower */)
	ev.Category = core.CleanString(ev.Category, true /* lower */)
	return core.Validate.Struct(ev)
}
