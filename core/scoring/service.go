package scoring

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
)

type (
	Service interface {
		// RecordSolve applies a solved-problem event to the user's scoring
		// profile and persists it as a single document save. Unknown users
		// are a silent no-op: a zero result and no error.
		RecordSolve(ctx context.Context, ev SolveEvent) (SolveResult, error)
		SetActiveGoal(ctx context.Context, userID string, goal Goal) (Profile, error)

		// derived views, recomputed on demand
		SkillSummary(ctx context.Context, userID string) (SkillSummaryView, error)
		Dashboard(ctx context.Context, userID string) (DashboardView, error)
		Insights(ctx context.Context, userID string) (InsightsView, error)
		RebuildDailyStats(ctx context.Context, userID string) ([]DailyStat, error)
		RecomputeLearningPatterns(ctx context.Context, userID string) (LearningPatterns, error)
		RecomputeRoleMatch(ctx context.Context, userID, targetRole string) (RoleMatch, error)
		NextUp(ctx context.Context, userID string) (Recommendation, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// runningAverage folds one more score into a stored integer average.
// The stored value is rounded; precision is fractional during the fold.
func runningAverage(oldAvg, oldCount int, score float64) int {
	return int(math.Round((float64(oldAvg)*float64(oldCount) + score) / float64(oldCount+1)))
}

func (svc *service) RecordSolve(ctx context.Context, ev SolveEvent) (SolveResult, error) {
	profile, err := svc.repo.GetProfile(ctx, ev.UserID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return SolveResult{}, nil // unknown user: no-op
		}
		return SolveResult{}, err
	}

	solvedAt := ev.SolvedAt
	if solvedAt.IsZero() {
		solvedAt = time.Now().UTC()
	}
	points := CalculatePoints(ev.Difficulty, ev.Score)

	applyStats(&profile.Stats, ev, points)
	profile.ProblemHistory = append(profile.ProblemHistory, HistoryEntry{
		ProblemID:  ev.ProblemID,
		AnalysisID: ev.AnalysisID,
		Score:      ev.Score,
		Points:     points,
		Difficulty: ev.Difficulty,
		Category:   ev.Category,
		Tags:       ev.Tags,
		SolvedAt:   solvedAt,
		Reattempts: ev.Reattempts,
	})
	upsertDailyStat(&profile.DailyStats, DateKey(solvedAt), points, 1)
	applyExtraction(&profile.SkillTracking, ExtractSkills(ev.Category, ev.Tags), ev.Score, points, solvedAt)
	profile.ActivityLog = append(profile.ActivityLog, ActivityEntry{
		Type:      "problem_solved",
		Points:    points,
		Category:  ev.Category,
		Timestamp: solvedAt,
		Metadata: map[string]interface{}{
			"problemId":  ev.ProblemID,
			"difficulty": ev.Difficulty,
		},
	})
	profile.UpdatedAt = time.Now().UTC()

	if err := svc.repo.SaveProfile(ctx, profile); err != nil {
		return SolveResult{}, errors.Wrap(err, "saving scoring profile")
	}
	return SolveResult{Points: points}, nil
}

func applyStats(stats *Stats, ev SolveEvent, points int) {
	stats.TotalPoints += points
	if ev.Score > stats.HighestScore {
		stats.HighestScore = ev.Score
	}
	stats.AverageScore = runningAverage(stats.AverageScore, stats.ProblemsSolved, ev.Score)
	stats.ProblemsSolved++

	if stats.ByDifficulty == nil {
		stats.ByDifficulty = make(map[string]Bucket)
	}
	applyBucket(stats.ByDifficulty, ev.Difficulty, ev.Score, points)

	if stats.ByCategory == nil {
		stats.ByCategory = make(map[string]Bucket)
	}
	applyBucket(stats.ByCategory, ev.Category, ev.Score, points)
}

func applyBucket(buckets map[string]Bucket, key string, score float64, points int) {
	b := buckets[key]
	b.AverageScore = runningAverage(b.AverageScore, b.Solved, score)
	b.Solved++
	b.TotalPoints += points
	buckets[key] = b
}

// upsertDailyStat increments the entry for the date key, appending a fresh
// one if absent. At most one entry per date key.
func upsertDailyStat(stats *[]DailyStat, date string, points, solved int) {
	for i := range *stats {
		if (*stats)[i].Date == date {
			(*stats)[i].Points += points
			(*stats)[i].ProblemsSolved += solved
			return
		}
	}
	*stats = append(*stats, DailyStat{Date: date, Points: points, ProblemsSolved: solved})
}

func applyExtraction(tracking *SkillTracking, ext Extraction, score float64, points int, usedAt time.Time) {
	for _, item := range ext.Skills {
		idx := -1
		for i := range tracking.Skills {
			if tracking.Skills[i].Skill == item.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			tracking.Skills = append(tracking.Skills, SkillEntry{Skill: item.Name, Tracker: Tracker{Category: item.Category}})
			idx = len(tracking.Skills) - 1
		}
		applyTracker(&tracking.Skills[idx].Tracker, score, points, usedAt)
	}
	for _, item := range ext.Tech {
		idx := -1
		for i := range tracking.TechStack {
			if tracking.TechStack[i].Technology == item.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			tracking.TechStack = append(tracking.TechStack, TechEntry{Technology: item.Name, Tracker: Tracker{Category: item.Category}})
			idx = len(tracking.TechStack) - 1
		}
		applyTracker(&tracking.TechStack[idx].Tracker, score, points, usedAt)
	}
	for _, item := range ext.Topics {
		idx := -1
		for i := range tracking.LearningProgress {
			if tracking.LearningProgress[i].Topic == item.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			tracking.LearningProgress = append(tracking.LearningProgress, TopicEntry{Topic: item.Name, Tracker: Tracker{Category: item.Category}})
			idx = len(tracking.LearningProgress) - 1
		}
		applyTracker(&tracking.LearningProgress[idx].Tracker, score, points, usedAt)
	}
}

func applyTracker(tr *Tracker, score float64, points int, usedAt time.Time) {
	tr.AverageScore = runningAverage(tr.AverageScore, tr.ProblemsSolved, score)
	tr.ProblemsSolved++
	tr.TotalPoints += points
	tr.LastUsedAt = usedAt
}

func (svc *service) SetActiveGoal(ctx context.Context, userID string, goal Goal) (Profile, error) {
	profile, err := svc.repo.GetProfile(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	if goal.StartDate.IsZero() {
		goal.StartDate = time.Now().UTC()
	}
	profile.ActiveGoal = &goal
	profile.UpdatedAt = time.Now().UTC()
	if err := svc.repo.SaveProfile(ctx, profile); err != nil {
		return Profile{}, errors.Wrap(err, "saving scoring profile")
	}
	return profile, nil
}
