package dashboard

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/forgelabs/anvil/core/channel"
	"github.com/forgelabs/anvil/core/notification"
	"github.com/forgelabs/anvil/core/problem"
	"github.com/forgelabs/anvil/core/resource"
	"github.com/forgelabs/anvil/core/user"
)

const latestCount = 5

type (
	UserStats struct {
		Total  int            `json:"total"`
		Active int            `json:"active"`
		ByRole map[string]int `json:"by_role"` // admin / mentor / student buckets
	}

	ProblemStats struct {
		Total        int            `json:"total"`
		ByDifficulty map[string]int `json:"by_difficulty"`
		ByStatus     map[string]int `json:"by_status"`
	}

	ResourceStats struct {
		Total  int            `json:"total"`
		ByType map[string]int `json:"by_type"`
	}

	// Stats is the admin dashboard read model.
	Stats struct {
		Users           UserStats           `json:"users"`
		Problems        ProblemStats        `json:"problems"`
		Resources       ResourceStats       `json:"resources"`
		Channels        int                 `json:"channels"`
		Notifications   int                 `json:"notifications"`
		LatestProblems  []problem.Problem   `json:"latest_problems"`
		LatestResources []resource.Resource `json:"latest_resources"`
	}

	Service interface {
		Stats(ctx context.Context) (Stats, error)
	}

	service struct {
		userSvc     user.Service
		problemSvc  problem.Service
		resourceSvc resource.Service
		channelSvc  channel.Service
		notifSvc    notification.Service
	}
)

var _ Service = (*service)(nil)

func NewService(
	userSvc user.Service,
	problemSvc problem.Service,
	resourceSvc resource.Service,
	channelSvc channel.Service,
	notifSvc notification.Service,
) Service {
	return &service{
		userSvc:     userSvc,
		problemSvc:  problemSvc,
		resourceSvc: resourceSvc,
		channelSvc:  channelSvc,
		notifSvc:    notifSvc,
	}
}

func (svc *service) Stats(ctx context.Context) (Stats, error) {
	var stats Stats

	users, err := svc.userSvc.QueryAll(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying users")
	}
	stats.Users = userStats(users)

	problems, err := svc.problemSvc.QueryAll(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying problems")
	}
	stats.Problems = problemStats(problems)
	stats.LatestProblems = latestProblems(problems)

	resources, err := svc.resourceSvc.QueryAll(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying resources")
	}
	stats.Resources = resourceStats(resources)
	stats.LatestResources = latestResources(resources)

	channels, err := svc.channelSvc.QueryAll(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying channels")
	}
	stats.Channels = len(channels)

	stats.Notifications, err = svc.notifSvc.CountAll(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting notifications")
	}
	return stats, nil
}

func userStats(users []user.User) UserStats {
	stats := UserStats{Total: len(users), ByRole: map[string]int{"admin": 0, "mentor": 0, "student": 0}}
	for _, usr := range users {
		if usr.Active() {
			stats.Active++
		}
		switch {
		case usr.IsAdmin():
			stats.ByRole["admin"]++
		case usr.IsMentor():
			stats.ByRole["mentor"]++
		case usr.IsStudent():
			stats.ByRole["student"]++
		}
	}
	return stats
}

func problemStats(problems []problem.Problem) ProblemStats {
	stats := ProblemStats{
		Total:        len(problems),
		ByDifficulty: make(map[string]int),
		ByStatus:     make(map[string]int),
	}
	for _, prob := range problems {
		stats.ByDifficulty[prob.Difficulty]++
		stats.ByStatus[prob.Status]++
	}
	return stats
}

func resourceStats(resources []resource.Resource) ResourceStats {
	stats := ResourceStats{Total: len(resources), ByType: make(map[string]int)}
	for _, res := range resources {
		stats.ByType[res.Type]++
	}
	return stats
}

func latestProblems(problems []problem.Problem) []problem.Problem {
	latest := make([]problem.Problem, len(problems))
	copy(latest, problems)
	sort.SliceStable(latest, func(i, j int) bool { return latest[i].CreatedAt.After(latest[j].CreatedAt) })
	if len(latest) > latestCount {
		latest = latest[:latestCount]
	}
	return latest
}

func latestResources(resources []resource.Resource) []resource.Resource {
	latest := make([]resource.Resource, len(resources))
	copy(latest, resources)
	sort.SliceStable(latest, func(i, j int) bool { return latest[i].CreatedAt.After(latest[j].CreatedAt) })
	if len(latest) > latestCount {
		latest = latest[:latestCount]
	}
	return latest
}
