package problem

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/forgelabs/anvil/core"
)

var (
	// errors
	ErrNotFound         = errors.New("problem not found")
	ErrAlreadyPublished = errors.New("problem is already published")
	ErrAlreadyArchived  = errors.New("problem is already archived")
)

type (
	Repository interface {
		CreateProblem(ctx context.Context, prob Problem) (Problem, error)
		QueryAllProblems(ctx context.Context) ([]Problem, error)
		GetProblemByID(ctx context.Context, id string) (Problem, error)
		GetProblemBySlug(ctx context.Context, slug string) (Problem, error)
		// FilterProblems applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Problem.Title or Problem.Description.
		FilterProblems(ctx context.Context, filter QueryFilter) ([]Problem, error)
		UpdateProblem(ctx context.Context, prob Problem) (Problem, error)
		DeleteProblemsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Create(ctx context.Context, np NewProblem) (Problem, error)
		QueryAll(ctx context.Context) ([]Problem, error)
		GetByID(ctx context.Context, id string) (Problem, error)
		GetBySlug(ctx context.Context, slug string) (Problem, error)
		Filter(ctx context.Context, filter QueryFilter) ([]Problem, error)
		Update(ctx context.Context, id string, up UpdateProblem) (Problem, error)
		Publish(ctx context.Context, id string) (Problem, error)
		Archive(ctx context.Context, id string) (Problem, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, np NewProblem) (Problem, error) {
	now := time.Now().UTC()
	prob := Problem{
		Title:            np.Title,
		Slug:             core.Slugify(np.Title),
		Description:      np.Description,
		Difficulty:       np.Difficulty,
		Category:         np.Category,
		Tags:             np.Tags,
		Companies:        np.Companies,
		Constraints:      np.Constraints,
		Hints:            np.Hints,
		EstimatedMinutes: np.EstimatedMinutes,
		ImageURL:         np.ImageURL,
		Status:           StatusDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return svc.repo.CreateProblem(ctx, prob)
}

func (svc *service) QueryAll(ctx context.Context) ([]Problem, error) {
	return svc.repo.QueryAllProblems(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Problem, error) {
	return svc.repo.GetProblemByID(ctx, id)
}

func (svc *service) GetBySlug(ctx context.Context, slug string) (Problem, error) {
	return svc.repo.GetProblemBySlug(ctx, core.CleanString(slug, true /* lower */))
}

func (svc *service) Filter(ctx context.Context, filter QueryFilter) ([]Problem, error) {
	filter.Clean()
	return svc.repo.FilterProblems(ctx, filter)
}

func (svc *service) Update(ctx context.Context, id string, up UpdateProblem) (Problem, error) {
	orig, err := svc.repo.GetProblemByID(ctx, id)
	if err != nil {
		return Problem{}, err
	}

	orig.Title = up.Title
	orig.Slug = core.Slugify(up.Title)
	orig.Description = up.Description
	orig.Difficulty = up.Difficulty
	orig.Category = up.Category
	if up.Tags != nil {
		orig.Tags = up.Tags
	}
	if up.Companies != nil {
		orig.Companies = up.Companies
	}
	if up.Constraints != nil {
		orig.Constraints = up.Constraints
	}
	if up.Hints != nil {
		orig.Hints = up.Hints
	}
	if up.EstimatedMinutes != nil {
		orig.EstimatedMinutes = *up.EstimatedMinutes
	}
	if up.ImageURL != nil {
		orig.ImageURL = *up.ImageURL
	}
	orig.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateProblem(ctx, orig)
}

func (svc *service) Publish(ctx context.Context, id string) (Problem, error) {
	return svc.transition(ctx, id, StatusPublished)
}

func (svc *service) Archive(ctx context.Context, id string) (Problem, error) {
	return svc.transition(ctx, id, StatusArchived)
}

func (svc *service) transition(ctx context.Context, id, status string) (Problem, error) {
	prob, err := svc.repo.GetProblemByID(ctx, id)
	if err != nil {
		return Problem{}, err
	}
	if prob.Status == status {
		switch status {
		case StatusPublished:
			return Problem{}, core.NewValidationError(ErrAlreadyPublished,
				core.FieldError{Field: "status", Error: ErrAlreadyPublished.Error()})
		case StatusArchived:
			return Problem{}, core.NewValidationError(ErrAlreadyArchived,
				core.FieldError{Field: "status", Error: ErrAlreadyArchived.Error()})
		}
	}
	prob.Status = status
	prob.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateProblem(ctx, prob)
}

// Delete removes problems only. Scoring history referencing a deleted
// problem is append-only and is left untouched.
func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteProblemsByID(ctx, ids...)
}
