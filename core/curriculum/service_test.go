package curriculum

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	phases  map[string]Phase
	weeks   map[string]Week
	lessons map[string]Lesson
}

var _ Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		phases:  make(map[string]Phase),
		weeks:   make(map[string]Week),
		lessons: make(map[string]Lesson),
	}
}

func (r *fakeRepo) CreatePhase(_ context.Context, ph Phase) (Phase, error) {
	ph.ID = uuid.New().String()
	r.phases[ph.ID] = ph
	return ph, nil
}

func (r *fakeRepo) QueryAllPhases(_ context.Context) ([]Phase, error) {
	all := make([]Phase, 0, len(r.phases))
	for _, ph := range r.phases {
		all = append(all, ph)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Position < all[j].Position })
	return all, nil
}

func (r *fakeRepo) GetPhaseByID(_ context.Context, id string) (Phase, error) {
	ph, ok := r.phases[id]
	if !ok {
		return Phase{}, ErrPhaseNotFound
	}
	return ph, nil
}

func (r *fakeRepo) UpdatePhase(_ context.Context, ph Phase) (Phase, error) {
	if _, ok := r.phases[ph.ID]; !ok {
		return Phase{}, ErrPhaseNotFound
	}
	r.phases[ph.ID] = ph
	return ph, nil
}

func (r *fakeRepo) DeletePhase(_ context.Context, id string) error {
	if _, ok := r.phases[id]; !ok {
		return ErrPhaseNotFound
	}
	delete(r.phases, id)
	for wkID, wk := range r.weeks {
		if wk.PhaseID != id {
			continue
		}
		delete(r.weeks, wkID)
		for lsID, ls := range r.lessons {
			if ls.WeekID == wkID {
				delete(r.lessons, lsID)
			}
		}
	}
	return nil
}

func (r *fakeRepo) NextPhasePosition(_ context.Context) (int, error) {
	max := 0
	for _, ph := range r.phases {
		if ph.Position > max {
			max = ph.Position
		}
	}
	return max + 1, nil
}

func (r *fakeRepo) CreateWeek(_ context.Context, wk Week) (Week, error) {
	wk.ID = uuid.New().String()
	r.weeks[wk.ID] = wk
	return wk, nil
}

func (r *fakeRepo) QueryWeeksByPhase(_ context.Context, phaseID string) ([]Week, error) {
	matches := make([]Week, 0)
	for _, wk := range r.weeks {
		if wk.PhaseID == phaseID {
			matches = append(matches, wk)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Position < matches[j].Position })
	return matches, nil
}

func (r *fakeRepo) GetWeekByID(_ context.Context, id string) (Week, error) {
	wk, ok := r.weeks[id]
	if !ok {
		return Week{}, ErrWeekNotFound
	}
	return wk, nil
}

func (r *fakeRepo) UpdateWeek(_ context.Context, wk Week) (Week, error) {
	if _, ok := r.weeks[wk.ID]; !ok {
		return Week{}, ErrWeekNotFound
	}
	r.weeks[wk.ID] = wk
	return wk, nil
}

func (r *fakeRepo) DeleteWeek(_ context.Context, id string) error {
	if _, ok := r.weeks[id]; !ok {
		return ErrWeekNotFound
	}
	delete(r.weeks, id)
	for lsID, ls := range r.lessons {
		if ls.WeekID == id {
			delete(r.lessons, lsID)
		}
	}
	return nil
}

func (r *fakeRepo) NextWeekPosition(_ context.Context, phaseID string) (int, error) {
	max := 0
	for _, wk := range r.weeks {
		if wk.PhaseID == phaseID && wk.Position > max {
			max = wk.Position
		}
	}
	return max + 1, nil
}

func (r *fakeRepo) CreateLesson(_ context.Context, ls Lesson) (Lesson, error) {
	ls.ID = uuid.New().String()
	r.lessons[ls.ID] = ls
	return ls, nil
}

func (r *fakeRepo) QueryLessonsByWeek(_ context.Context, weekID string) ([]Lesson, error) {
	matches := make([]Lesson, 0)
	for _, ls := range r.lessons {
		if ls.WeekID == weekID {
			matches = append(matches, ls)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Position < matches[j].Position })
	return matches, nil
}

func (r *fakeRepo) GetLessonByID(_ context.Context, id string) (Lesson, error) {
	ls, ok := r.lessons[id]
	if !ok {
		return Lesson{}, ErrLessonNotFound
	}
	return ls, nil
}

func (r *fakeRepo) UpdateLesson(_ context.Context, ls Lesson) (Lesson, error) {
	if _, ok := r.lessons[ls.ID]; !ok {
		return Lesson{}, ErrLessonNotFound
	}
	r.lessons[ls.ID] = ls
	return ls, nil
}

func (r *fakeRepo) DeleteLesson(_ context.Context, id string) error {
	if _, ok := r.lessons[id]; !ok {
		return ErrLessonNotFound
	}
	delete(r.lessons, id)
	return nil
}

func (r *fakeRepo) NextLessonPosition(_ context.Context, weekID string) (int, error) {
	max := 0
	for _, ls := range r.lessons {
		if ls.WeekID == weekID && ls.Position > max {
			max = ls.Position
		}
	}
	return max + 1, nil
}

func TestPhasePositions(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	for i, title := range []string{"Foundations", "Core", "Capstone"} {
		ph, err := svc.CreatePhase(ctx, NewPhase{Title: title})
		if err != nil {
			t.Fatalf("CreatePhase(): %v", err)
		}
		assert.Equal(t, i+1, ph.Position)
	}

	phases, err := svc.QueryAllPhases(ctx)
	if err != nil {
		t.Fatalf("QueryAllPhases(): %v", err)
	}
	if assert.Len(t, phases, 3) {
		assert.Equal(t, "Foundations", phases[0].Title)
		assert.Equal(t, "Capstone", phases[2].Title)
	}
}

func TestReorderPhases(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	first, err := svc.CreatePhase(ctx, NewPhase{Title: "Foundations"})
	if err != nil {
		t.Fatalf("CreatePhase(): %v", err)
	}
	second, err := svc.CreatePhase(ctx, NewPhase{Title: "Core"})
	if err != nil {
		t.Fatalf("CreatePhase(): %v", err)
	}

	if err = svc.ReorderPhases(ctx, first.ID, second.ID); err != nil {
		t.Fatalf("ReorderPhases(): %v", err)
	}
	phases, err := svc.QueryAllPhases(ctx)
	if err != nil {
		t.Fatalf("QueryAllPhases(): %v", err)
	}
	if assert.Len(t, phases, 2) {
		assert.Equal(t, "Core", phases[0].Title)
		assert.Equal(t, "Foundations", phases[1].Title)
	}

	err = svc.ReorderPhases(ctx, first.ID, "nope")
	assert.Equal(t, ErrPhaseNotFound, errors.Cause(err))
}

func TestWeeksAndLessons(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	ph, err := svc.CreatePhase(ctx, NewPhase{Title: "Foundations"})
	if err != nil {
		t.Fatalf("CreatePhase(): %v", err)
	}

	// weeks are scoped to a known phase
	_, err = svc.CreateWeek(ctx, NewWeek{PhaseID: "nope", Title: "Week 1"})
	assert.Equal(t, ErrPhaseNotFound, errors.Cause(err))

	wk, err := svc.CreateWeek(ctx, NewWeek{PhaseID: ph.ID, Title: "Week 1", Objectives: []string{"variables"}})
	if err != nil {
		t.Fatalf("CreateWeek(): %v", err)
	}
	assert.Equal(t, 1, wk.Position)

	_, err = svc.CreateLesson(ctx, NewLesson{WeekID: "nope", Title: "Loops"})
	assert.Equal(t, ErrWeekNotFound, errors.Cause(err))

	ls, err := svc.CreateLesson(ctx, NewLesson{WeekID: wk.ID, Title: "Loops", Content: "intro", Duration: 45})
	if err != nil {
		t.Fatalf("CreateLesson(): %v", err)
	}
	assert.Equal(t, 1, ls.Position)
	assert.Equal(t, 45, ls.Duration)

	// partial update keeps unset fields
	updated, err := svc.UpdateLesson(ctx, ls.ID, UpdateLesson{Title: "Loops and Ranges"})
	if err != nil {
		t.Fatalf("UpdateLesson(): %v", err)
	}
	assert.Equal(t, "Loops and Ranges", updated.Title)
	assert.Equal(t, ls.Content, updated.Content)
	assert.Equal(t, ls.Duration, updated.Duration)
}

func TestDeletePhaseCascades(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	ph, err := svc.CreatePhase(ctx, NewPhase{Title: "Foundations"})
	if err != nil {
		t.Fatalf("CreatePhase(): %v", err)
	}
	wk, err := svc.CreateWeek(ctx, NewWeek{PhaseID: ph.ID, Title: "Week 1"})
	if err != nil {
		t.Fatalf("CreateWeek(): %v", err)
	}
	ls, err := svc.CreateLesson(ctx, NewLesson{WeekID: wk.ID, Title: "Loops"})
	if err != nil {
		t.Fatalf("CreateLesson(): %v", err)
	}

	if err = svc.DeletePhase(ctx, ph.ID); err != nil {
		t.Fatalf("DeletePhase(): %v", err)
	}
	_, err = svc.GetWeekByID(ctx, wk.ID)
	assert.Equal(t, ErrWeekNotFound, errors.Cause(err))
	_, err = svc.GetLessonByID(ctx, ls.ID)
	assert.Equal(t, ErrLessonNotFound, errors.Cause(err))
}
