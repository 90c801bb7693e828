package curriculum

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrPhaseNotFound  = errors.New("phase not found")
	ErrWeekNotFound   = errors.New("week not found")
	ErrLessonNotFound = errors.New("lesson not found")
)

type (
	Repository interface {
		CreatePhase(ctx context.Context, ph Phase) (Phase, error)
		// QueryAllPhases returns phases ordered by position.
		QueryAllPhases(ctx context.Context) ([]Phase, error)
		GetPhaseByID(ctx context.Context, id string) (Phase, error)
		UpdatePhase(ctx context.Context, ph Phase) (Phase, error)
		// DeletePhase cascades: its weeks and their lessons go with it.
		DeletePhase(ctx context.Context, id string) error
		NextPhasePosition(ctx context.Context) (int, error)

		CreateWeek(ctx context.Context, wk Week) (Week, error)
		// QueryWeeksByPhase returns the phase's weeks ordered by position.
		QueryWeeksByPhase(ctx context.Context, phaseID string) ([]Week, error)
		GetWeekByID(ctx context.Context, id string) (Week, error)
		UpdateWeek(ctx context.Context, wk Week) (Week, error)
		// DeleteWeek cascades to its lessons.
		DeleteWeek(ctx context.Context, id string) error
		NextWeekPosition(ctx context.Context, phaseID string) (int, error)

		CreateLesson(ctx context.Context, ls Lesson) (Lesson, error)
		// QueryLessonsByWeek returns the week's lessons ordered by position.
		QueryLessonsByWeek(ctx context.Context, weekID string) ([]Lesson, error)
		GetLessonByID(ctx context.Context, id string) (Lesson, error)
		UpdateLesson(ctx context.Context, ls Lesson) (Lesson, error)
		DeleteLesson(ctx context.Context, id string) error
		NextLessonPosition(ctx context.Context, weekID string) (int, error)
	}

	Service interface {
		CreatePhase(ctx context.Context, np NewPhase) (Phase, error)
		QueryAllPhases(ctx context.Context) ([]Phase, error)
		GetPhaseByID(ctx context.Context, id string) (Phase, error)
		UpdatePhase(ctx context.Context, id string, up UpdatePhase) (Phase, error)
		// ReorderPhases swaps the positions of two phases.
		ReorderPhases(ctx context.Context, idA, idB string) error
		DeletePhase(ctx context.Context, id string) error

		CreateWeek(ctx context.Context, nw NewWeek) (Week, error)
		QueryWeeksByPhase(ctx context.Context, phaseID string) ([]Week, error)
		GetWeekByID(ctx context.Context, id string) (Week, error)
		UpdateWeek(ctx context.Context, id string, uw UpdateWeek) (Week, error)
		ReorderWeeks(ctx context.Context, idA, idB string) error
		DeleteWeek(ctx context.Context, id string) error

		CreateLesson(ctx context.Context, nl NewLesson) (Lesson, error)
		QueryLessonsByWeek(ctx context.Context, weekID string) ([]Lesson, error)
		GetLessonByID(ctx context.Context, id string) (Lesson, error)
		UpdateLesson(ctx context.Context, id string, ul UpdateLesson) (Lesson, error)
		ReorderLessons(ctx context.Context, idA, idB string) error
		DeleteLesson(ctx context.Context, id string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CreatePhase(ctx context.Context, np NewPhase) (Phase, error) {
	pos, err := svc.repo.NextPhasePosition(ctx)
	if err != nil {
		return Phase{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreatePhase(ctx, Phase{
		Title:       np.Title,
		Description: np.Description,
		Position:    pos,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *service) QueryAllPhases(ctx context.Context) ([]Phase, error) {
	return svc.repo.QueryAllPhases(ctx)
}

func (svc *service) GetPhaseByID(ctx context.Context, id string) (Phase, error) {
	return svc.repo.GetPhaseByID(ctx, id)
}

func (svc *service) UpdatePhase(ctx context.Context, id string, up UpdatePhase) (Phase, error) {
	orig, err := svc.repo.GetPhaseByID(ctx, id)
	if err != nil {
		return Phase{}, err
	}
	orig.Title = up.Title
	if up.Description != nil {
		orig.Description = *up.Description
	}
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdatePhase(ctx, orig)
}

func (svc *service) ReorderPhases(ctx context.Context, idA, idB string) error {
	phA, err := svc.repo.GetPhaseByID(ctx, idA)
	if err != nil {
		return err
	}
	phB, err := svc.repo.GetPhaseByID(ctx, idB)
	if err != nil {
		return err
	}
	phA.Position, phB.Position = phB.Position, phA.Position
	now := time.Now().UTC()
	phA.UpdatedAt, phB.UpdatedAt = now, now
	if _, err = svc.repo.UpdatePhase(ctx, phA); err != nil {
		return err
	}
	_, err = svc.repo.UpdatePhase(ctx, phB)
	return err
}

func (svc *service) DeletePhase(ctx context.Context, id string) error {
	return svc.repo.DeletePhase(ctx, id)
}

func (svc *service) CreateWeek(ctx context.Context, nw NewWeek) (Week, error) {
	if _, err := svc.repo.GetPhaseByID(ctx, nw.PhaseID); err != nil {
		return Week{}, err
	}
	pos, err := svc.repo.NextWeekPosition(ctx, nw.PhaseID)
	if err != nil {
		return Week{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateWeek(ctx, Week{
		PhaseID:    nw.PhaseID,
		Title:      nw.Title,
		Position:   pos,
		Objectives: nw.Objectives,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

func (svc *service) QueryWeeksByPhase(ctx context.Context, phaseID string) ([]Week, error) {
	return svc.repo.QueryWeeksByPhase(ctx, phaseID)
}

func (svc *service) GetWeekByID(ctx context.Context, id string) (Week, error) {
	return svc.repo.GetWeekByID(ctx, id)
}

func (svc *service) UpdateWeek(ctx context.Context, id string, uw UpdateWeek) (Week, error) {
	orig, err := svc.repo.GetWeekByID(ctx, id)
	if err != nil {
		return Week{}, err
	}
	orig.Title = uw.Title
	if uw.Objectives != nil {
		orig.Objectives = uw.Objectives
	}
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateWeek(ctx, orig)
}

func (svc *service) ReorderWeeks(ctx context.Context, idA, idB string) error {
	wkA, err := svc.repo.GetWeekByID(ctx, idA)
	if err != nil {
		return err
	}
	wkB, err := svc.repo.GetWeekByID(ctx, idB)
	if err != nil {
		return err
	}
	wkA.Position, wkB.Position = wkB.Position, wkA.Position
	now := time.Now().UTC()
	wkA.UpdatedAt, wkB.UpdatedAt = now, now
	if _, err = svc.repo.UpdateWeek(ctx, wkA); err != nil {
		return err
	}
	_, err = svc.repo.UpdateWeek(ctx, wkB)
	return err
}

func (svc *service) DeleteWeek(ctx context.Context, id string) error {
	return svc.repo.DeleteWeek(ctx, id)
}

func (svc *service) CreateLesson(ctx context.Context, nl NewLesson) (Lesson, error) {
	if _, err := svc.repo.GetWeekByID(ctx, nl.WeekID); err != nil {
		return Lesson{}, err
	}
	pos, err := svc.repo.NextLessonPosition(ctx, nl.WeekID)
	if err != nil {
		return Lesson{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateLesson(ctx, Lesson{
		WeekID:      nl.WeekID,
		Title:       nl.Title,
		Content:     nl.Content,
		Duration:    nl.Duration,
		Position:    pos,
		ResourceIDs: nl.ResourceIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *service) QueryLessonsByWeek(ctx context.Context, weekID string) ([]Lesson, error) {
	return svc.repo.QueryLessonsByWeek(ctx, weekID)
}

func (svc *service) GetLessonByID(ctx context.Context, id string) (Lesson, error) {
	return svc.repo.GetLessonByID(ctx, id)
}

func (svc *service) UpdateLesson(ctx context.Context, id string, ul UpdateLesson) (Lesson, error) {
	orig, err := svc.repo.GetLessonByID(ctx, id)
	if err != nil {
		return Lesson{}, err
	}
	orig.Title = ul.Title
	if ul.Content != nil {
		orig.Content = *ul.Content
	}
	if ul.Duration != nil {
		orig.Duration = *ul.Duration
	}
	if ul.ResourceIDs != nil {
		orig.ResourceIDs = ul.ResourceIDs
	}
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateLesson(ctx, orig)
}

func (svc *service) ReorderLessons(ctx context.Context, idA, idB string) error {
	lsA, err := svc.repo.GetLessonByID(ctx, idA)
	if err != nil {
		return err
	}
	lsB, err := svc.repo.GetLessonByID(ctx, idB)
	if err != nil {
		return err
	}
	lsA.Position, lsB.Position = lsB.Position, lsA.Position
	now := time.Now().UTC()
	lsA.UpdatedAt, lsB.UpdatedAt = now, now
	if _, err = svc.repo.UpdateLesson(ctx, lsA); err != nil {
		return err
	}
	_, err = svc.repo.UpdateLesson(ctx, lsB)
	return err
}

func (svc *service) DeleteLesson(ctx context.Context, id string) error {
	return svc.repo.DeleteLesson(ctx, id)
}
