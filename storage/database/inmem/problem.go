package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/forgelabs/anvil/core/problem"
)

type problemRepository struct {
	db *problemTable
}

var _ problem.Repository = (*problemRepository)(nil)

func NewProblemRepository(db *DB) problem.Repository {
	return &problemRepository{db: db.problem}
}

func (repo *problemRepository) query() []problem.Problem {
	problems := make([]problem.Problem, 0, len(repo.db.table))
	for _, p := range repo.db.table {
		problems = append(problems, *p)
	}
	sort.Slice(problems, func(i, j int) bool { return problems[i].CreatedAt.After(problems[j].CreatedAt) })
	return problems
}

func (repo *problemRepository) CreateProblem(_ context.Context, prob problem.Problem) (problem.Problem, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if prob.ID == "" {
		prob.ID = uuid.New().String()
	}
	repo.db.table[prob.ID] = &prob
	return prob, nil
}

func (repo *problemRepository) QueryAllProblems(_ context.Context) ([]problem.Problem, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *problemRepository) GetProblemByID(_ context.Context, id string) (problem.Problem, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if prob, ok := repo.db.table[id]; ok {
		return *prob, nil
	}
	return problem.Problem{}, problem.ErrNotFound
}

func (repo *problemRepository) GetProblemBySlug(_ context.Context, slug string) (problem.Problem, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, prob := range repo.query() {
		if prob.Slug == slug {
			return prob, nil
		}
	}
	return problem.Problem{}, problem.ErrNotFound
}

func (repo *problemRepository) FilterProblems(_ context.Context, filter problem.QueryFilter) ([]problem.Problem, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	matches := make([]problem.Problem, 0)
	search := strings.ToLower(filter.Search)
	for _, prob := range repo.query() {
		if search != "" &&
			!strings.Contains(strings.ToLower(prob.Title), search) &&
			!strings.Contains(strings.ToLower(prob.Description), search) {
			continue
		}
		if filter.Difficulty != "" && prob.Difficulty != filter.Difficulty {
			continue
		}
		if filter.Category != "" && prob.Category != filter.Category {
			continue
		}
		if filter.Tag != "" && !containsString(prob.Tags, filter.Tag) {
			continue
		}
		if filter.Status != "" && prob.Status != filter.Status {
			continue
		}
		matches = append(matches, prob)
	}
	return matches, nil
}

func containsString(items []string, s string) bool {
	for _, item := range items {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

func (repo *problemRepository) UpdateProblem(_ context.Context, prob problem.Problem) (problem.Problem, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[prob.ID]; !ok {
		return problem.Problem{}, problem.ErrNotFound
	}
	repo.db.table[prob.ID] = &prob
	return prob, nil
}

func (repo *problemRepository) DeleteProblemsByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
