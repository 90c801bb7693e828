package scoring

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// Time-of-day bands (UTC hours)
const (
	bandMorning   = "morning"   // [06, 12)
	bandAfternoon = "afternoon" // [12, 18)
	bandEvening   = "evening"   // [18, 24)
	bandNight     = "night"     // [00, 06)
)

type (
	SkillSummaryView struct {
		Stats         Stats         `json:"stats"`
		SkillTracking SkillTracking `json:"skillTracking"`
	}

	DashboardView struct {
		Stats        Stats        `json:"stats"`
		RecentSkills []SkillEntry `json:"recentSkills"` // 5 most recently touched
		DailyStats   []DailyStat  `json:"dailyStats"`   // last 30 entries
		RoleMatch    *RoleMatch   `json:"roleMatch,omitempty"`
		ActiveGoal   *Goal        `json:"activeGoal,omitempty"`
	}

	InsightsView struct {
		Stats            Stats             `json:"stats"`
		DailyStats       []DailyStat       `json:"dailyStats"`
		LearningPatterns *LearningPatterns `json:"learningPatterns,omitempty"`
		RoleMatch        *RoleMatch        `json:"roleMatch,omitempty"`
		Comparisons      json.RawMessage   `json:"comparisons,omitempty"`
		ActiveGoal       *Goal             `json:"activeGoal,omitempty"`
	}

	// Recommendation is one of three fixed next-up shapes.
	Recommendation struct {
		Type       string `json:"type"` // streak-starter | goal-focus | explore
		Difficulty string `json:"difficulty,omitempty"`
		Category   string `json:"category,omitempty"`
		Skill      string `json:"skill,omitempty"`
		Reason     string `json:"reason"`
	}
)

func (svc *service) SkillSummary(ctx context.Context, userID string) (SkillSummaryView, error) {
	profile, err := svc.repo.GetProfile(ctx, userID)
	if err != nil {
		return SkillSummaryView{}, err
	}
	return SkillSummaryView{
		Stats:         profile.Stats,
		SkillTracking: profile.SkillTracking,
	}, nil
}

func (svc *service) Dashboard(ctx context.Context, userID string) (DashboardView, error) {
	profile, err := svc.repo.GetProfile(ctx, userID)
	if err != nil {
		return DashboardView{}, err
	}

	recent := make([]SkillEntry, len(profile.SkillTracking.Skills))
	copy(recent, profile.SkillTracking.Skills)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].LastUsedAt.After(recent[j].LastUsedAt) })
	if len(recent) > 5 {
		recent = recent[:5]
	}

	daily := profile.DailyStats
	if len(daily) > 30 {
		daily = daily[len(daily)-30:]
	}

	return DashboardView{
		Stats:        profile.Stats,
		RecentSkills: recent,
		DailyStats:   daily,
		RoleMatch:    profile.RoleMatch,
		ActiveGoal:   profile.ActiveGoal,
	}, nil
}

func (svc *service) Insights(ctx context.Context, userID string) (InsightsView, error) {
	profile, err := svc.repo.GetProfile(ctx, userID)
	if err != nil {
		return InsightsView{}, err
	}
	return InsightsView{
		Stats:            profile.Stats,
		DailyStats:       profile.DailyStats,
		LearningPatterns: profile.LearningPatterns,
		RoleMatch:        profile.RoleMatch,
		Comparisons:      profile.Comparisons,
		ActiveGoal:       profile.ActiveGoal,
	}, nil
}

// RebuildDailyStats recomputes the whole daily-stats array from problem
// history, discarding the previous one. Idempotent given unchanged history.
func (svc *service) RebuildDailyStats(ctx context.Context, userID string) ([]DailyStat, error) {
	profile, err := svc.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]*DailyStat)
	dates := make([]string, 0)
	for _, entry := range profile.ProblemHistory {
		key := DateKey(entry.SolvedAt)
		stat, ok := byDate[key]
		if !ok {
			stat = &DailyStat{Date: key}
			byDate[key] = stat
			dates = append(dates, key)
		}
		stat.Points += entry.Points
		stat.ProblemsSolved++
	}
	sort.Strings(dates)

	rebuilt := make([]DailyStat, 0, len(dates))
	for _, date := range dates {
		rebuilt = append(rebuilt, *byDate[date])
	}
	profile.DailyStats = rebuilt
	profile.UpdatedAt = time.Now().UTC()

	if err := svc.repo.SaveProfile(ctx, profile); err != nil {
		return nil, errors.Wrap(err, "saving scoring profile")
	}
	return rebuilt, nil
}

func timeBand(t time.Time) string {
	switch hour := t.UTC().Hour(); {
	case hour >= 6 && hour < 12:
		return bandMorning
	case hour >= 12 && hour < 18:
		return bandAfternoon
	case hour >= 18:
		return bandEvening
	default:
		return bandNight
	}
}

// RecomputeLearningPatterns buckets every history entry by UTC time-of-day
// band, difficulty and category, averages scores within each bucket and
// overwrites the snapshot. Idempotent given unchanged history.
func (svc *service) RecomputeLearningPatterns(ctx context.Context, userID string) (LearningPatterns, error) {
	profile, err := svc.repo.GetProfile(ctx, userID)
	if err != nil {
		return LearningPatterns{}, err
	}

	type bucket struct {
		sum   float64
		count int
	}
	byBand := make(map[string]*bucket)
	byDifficulty := make(map[string]*bucket)
	byCategory := make(map[string]*bucket)
	fold := func(m map[string]*bucket, key string, score float64) {
		b, ok := m[key]
		if !ok {
			b = &bucket{}
			m[key] = b
		}
		b.sum += score
		b.count++
	}
	for _, entry := range profile.ProblemHistory {
		fold(byBand, timeBand(entry.SolvedAt), entry.Score)
		fold(byDifficulty, entry.Difficulty, entry.Score)
		fold(byCategory, entry.Category, entry.Score)
	}
	avg := func(m map[string]*bucket) map[string]int {
		out := make(map[string]int, len(m))
		for key, b := range m {
			out[key] = int(math.Round(b.sum / float64(b.count)))
		}
		return out
	}

	patterns := LearningPatterns{
		ByTimeOfDay:  avg(byBand),
		ByDifficulty: avg(byDifficulty),
		ByCategory:   avg(byCategory),
		ComputedAt:   time.Now().UTC(),
	}
	profile.LearningPatterns = &patterns
	profile.UpdatedAt = patterns.ComputedAt

	if err := svc.repo.SaveProfile(ctx, profile); err != nil {
		return LearningPatterns{}, errors.Wrap(err, "saving scoring profile")
	}
	return patterns, nil
}

// RecomputeRoleMatch averages the user's top-5 skills by average score and
// overwrites the snapshot with that value as the match percent. Heuristic
// only; the gap list is not computed.
func (svc *service) RecomputeRoleMatch(ctx context.Context, userID, targetRole string) (RoleMatch, error) {
	profile, err := svc.repo.GetProfile(ctx, userID)
	if err != nil {
		return RoleMatch{}, err
	}

	if targetRole == "" {
		if profile.RoleMatch != nil {
			targetRole = profile.RoleMatch.TargetRole
		} else if profile.ActiveGoal != nil {
			targetRole = profile.ActiveGoal.Role
		}
	}

	top := make([]SkillEntry, len(profile.SkillTracking.Skills))
	copy(top, profile.SkillTracking.Skills)
	sort.SliceStable(top, func(i, j int) bool { return top[i].AverageScore > top[j].AverageScore })
	if len(top) > 5 {
		top = top[:5]
	}

	var percent int
	if len(top) > 0 {
		var sum int
		for _, entry := range top {
			sum += entry.AverageScore
		}
		percent = int(math.Round(float64(sum) / float64(len(top))))
	}

	match := RoleMatch{
		TargetRole:   targetRole,
		MatchPercent: percent,
		Gaps:         []string{},
		ComputedAt:   time.Now().UTC(),
	}
	profile.RoleMatch = &match
	profile.UpdatedAt = match.ComputedAt

	if err := svc.repo.SaveProfile(ctx, profile); err != nil {
		return RoleMatch{}, errors.Wrap(err, "saving scoring profile")
	}
	return match, nil
}

// NextUp suggests what to work on next:
// no activity today -> start a streak with an easy algorithms problem;
// active goal with focus skills -> a medium problem on the first focus skill;
// otherwise -> explore system design.
func (svc *service) NextUp(ctx context.Context, userID string) (Recommendation, error) {
	profile, err := svc.repo.GetProfile(ctx, userID)
	if err != nil {
		return Recommendation{}, err
	}

	today := DateKey(time.Now())
	var solvedToday bool
	for _, stat := range profile.DailyStats {
		if stat.Date == today {
			solvedToday = stat.ProblemsSolved > 0
			break
		}
	}

	switch {
	case !solvedToday:
		return Recommendation{
			Type:       "streak-starter",
			Difficulty: DifficultyEasy,
			Category:   "algorithms",
			Reason:     "No activity today. Solve an easy algorithms problem to keep your streak going.",
		}, nil
	case profile.ActiveGoal != nil && len(profile.ActiveGoal.FocusSkills) > 0:
		return Recommendation{
			Type:       "goal-focus",
			Difficulty: DifficultyMedium,
			Skill:      profile.ActiveGoal.FocusSkills[0],
			Reason:     "Keep working towards your goal: a medium problem on " + profile.ActiveGoal.FocusSkills[0] + ".",
		}, nil
	default:
		return Recommendation{
			Type:     "explore",
			Category: "system-design",
			Reason:   "You are on a roll. Explore a system design problem.",
		}, nil
	}
}
