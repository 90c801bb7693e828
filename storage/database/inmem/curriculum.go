package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/forgelabs/anvil/core/curriculum"
)

type curriculumRepository struct {
	db *curriculumTables
}

var _ curriculum.Repository = (*curriculumRepository)(nil)

func NewCurriculumRepository(db *DB) curriculum.Repository {
	return &curriculumRepository{db: db.curriculum}
}

// ------------------------------------------------------------------ phases

func (repo *curriculumRepository) CreatePhase(_ context.Context, ph curriculum.Phase) (curriculum.Phase, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if ph.ID == "" {
		ph.ID = uuid.New().String()
	}
	repo.db.phases[ph.ID] = &ph
	return ph, nil
}

func (repo *curriculumRepository) QueryAllPhases(_ context.Context) ([]curriculum.Phase, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	phases := make([]curriculum.Phase, 0, len(repo.db.phases))
	for _, ph := range repo.db.phases {
		phases = append(phases, *ph)
	}
	sort.Slice(phases, func(i, j int) bool { return phases[i].Position < phases[j].Position })
	return phases, nil
}

func (repo *curriculumRepository) GetPhaseByID(_ context.Context, id string) (curriculum.Phase, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if ph, ok := repo.db.phases[id]; ok {
		return *ph, nil
	}
	return curriculum.Phase{}, curriculum.ErrPhaseNotFound
}

func (repo *curriculumRepository) UpdatePhase(_ context.Context, ph curriculum.Phase) (curriculum.Phase, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.phases[ph.ID]; !ok {
		return curriculum.Phase{}, curriculum.ErrPhaseNotFound
	}
	repo.db.phases[ph.ID] = &ph
	return ph, nil
}

func (repo *curriculumRepository) DeletePhase(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.phases[id]; !ok {
		return curriculum.ErrPhaseNotFound
	}
	delete(repo.db.phases, id)
	for wkID, wk := range repo.db.weeks {
		if wk.PhaseID != id {
			continue
		}
		delete(repo.db.weeks, wkID)
		for lsID, ls := range repo.db.lessons {
			if ls.WeekID == wkID {
				delete(repo.db.lessons, lsID)
			}
		}
	}
	return nil
}

func (repo *curriculumRepository) NextPhasePosition(_ context.Context) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	max := 0
	for _, ph := range repo.db.phases {
		if ph.Position > max {
			max = ph.Position
		}
	}
	return max + 1, nil
}

// ------------------------------------------------------------------- weeks

func (repo *curriculumRepository) CreateWeek(_ context.Context, wk curriculum.Week) (curriculum.Week, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if wk.ID == "" {
		wk.ID = uuid.New().String()
	}
	repo.db.weeks[wk.ID] = &wk
	return wk, nil
}

func (repo *curriculumRepository) QueryWeeksByPhase(_ context.Context, phaseID string) ([]curriculum.Week, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	weeks := make([]curriculum.Week, 0)
	for _, wk := range repo.db.weeks {
		if wk.PhaseID == phaseID {
			weeks = append(weeks, *wk)
		}
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Position < weeks[j].Position })
	return weeks, nil
}

func (repo *curriculumRepository) GetWeekByID(_ context.Context, id string) (curriculum.Week, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if wk, ok := repo.db.weeks[id]; ok {
		return *wk, nil
	}
	return curriculum.Week{}, curriculum.ErrWeekNotFound
}

func (repo *curriculumRepository) UpdateWeek(_ context.Context, wk curriculum.Week) (curriculum.Week, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.weeks[wk.ID]; !ok {
		return curriculum.Week{}, curriculum.ErrWeekNotFound
	}
	repo.db.weeks[wk.ID] = &wk
	return wk, nil
}

func (repo *curriculumRepository) DeleteWeek(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.weeks[id]; !ok {
		return curriculum.ErrWeekNotFound
	}
	delete(repo.db.weeks, id)
	for lsID, ls := range repo.db.lessons {
		if ls.WeekID == id {
			delete(repo.db.lessons, lsID)
		}
	}
	return nil
}

func (repo *curriculumRepository) NextWeekPosition(_ context.Context, phaseID string) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	max := 0
	for _, wk := range repo.db.weeks {
		if wk.PhaseID == phaseID && wk.Position > max {
			max = wk.Position
		}
	}
	return max + 1, nil
}

// ----------------------------------------------------------------- lessons

func (repo *curriculumRepository) CreateLesson(_ context.Context, ls curriculum.Lesson) (curriculum.Lesson, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if ls.ID == "" {
		ls.ID = uuid.New().String()
	}
	repo.db.lessons[ls.ID] = &ls
	return ls, nil
}

func (repo *curriculumRepository) QueryLessonsByWeek(_ context.Context, weekID string) ([]curriculum.Lesson, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	lessons := make([]curriculum.Lesson, 0)
	for _, ls := range repo.db.lessons {
		if ls.WeekID == weekID {
			lessons = append(lessons, *ls)
		}
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].Position < lessons[j].Position })
	return lessons, nil
}

func (repo *curriculumRepository) GetLessonByID(_ context.Context, id string) (curriculum.Lesson, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if ls, ok := repo.db.lessons[id]; ok {
		return *ls, nil
	}
	return curriculum.Lesson{}, curriculum.ErrLessonNotFound
}

func (repo *curriculumRepository) UpdateLesson(_ context.Context, ls curriculum.Lesson) (curriculum.Lesson, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.lessons[ls.ID]; !ok {
		return curriculum.Lesson{}, curriculum.ErrLessonNotFound
	}
	repo.db.lessons[ls.ID] = &ls
	return ls, nil
}

func (repo *curriculumRepository) DeleteLesson(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.lessons[id]; !ok {
		return curriculum.ErrLessonNotFound
	}
	delete(repo.db.lessons, id)
	return nil
}

func (repo *curriculumRepository) NextLessonPosition(_ context.Context, weekID string) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	max := 0
	for _, ls := range repo.db.lessons {
		if ls.WeekID == weekID && ls.Position > max {
			max = ls.Position
		}
	}
	return max + 1, nil
}
