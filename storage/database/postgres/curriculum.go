package pgrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/forgelabs/anvil/core/curriculum"
)

type (
	phaseRow struct {
		ID          string    `db:"id"`
		Title       string    `db:"title"`
		Description string    `db:"description"`
		Position    int       `db:"position"`
		CreatedAt   time.Time `db:"created_at"`
		UpdatedAt   time.Time `db:"updated_at"`
	}

	weekRow struct {
		ID         string         `db:"id"`
		PhaseID    string         `db:"phase_id"`
		Title      string         `db:"title"`
		Position   int            `db:"position"`
		Objectives pq.StringArray `db:"objectives"`
		CreatedAt  time.Time      `db:"created_at"`
		UpdatedAt  time.Time      `db:"updated_at"`
	}

	lessonRow struct {
		ID          string         `db:"id"`
		WeekID      string         `db:"week_id"`
		Title       string         `db:"title"`
		Content     string         `db:"content"`
		Duration    int            `db:"duration"`
		Position    int            `db:"position"`
		ResourceIDs pq.StringArray `db:"resource_ids"`
		CreatedAt   time.Time      `db:"created_at"`
		UpdatedAt   time.Time      `db:"updated_at"`
	}
)

func (r weekRow) toWeek() curriculum.Week {
	return curriculum.Week{
		ID:         r.ID,
		PhaseID:    r.PhaseID,
		Title:      r.Title,
		Position:   r.Position,
		Objectives: r.Objectives,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func newWeekRow(wk curriculum.Week) weekRow {
	return weekRow{
		ID:         wk.ID,
		PhaseID:    wk.PhaseID,
		Title:      wk.Title,
		Position:   wk.Position,
		Objectives: wk.Objectives,
		CreatedAt:  wk.CreatedAt,
		UpdatedAt:  wk.UpdatedAt,
	}
}

func (r lessonRow) toLesson() curriculum.Lesson {
	return curriculum.Lesson{
		ID:          r.ID,
		WeekID:      r.WeekID,
		Title:       r.Title,
		Content:     r.Content,
		Duration:    r.Duration,
		Position:    r.Position,
		ResourceIDs: r.ResourceIDs,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func newLessonRow(ls curriculum.Lesson) lessonRow {
	return lessonRow{
		ID:          ls.ID,
		WeekID:      ls.WeekID,
		Title:       ls.Title,
		Content:     ls.Content,
		Duration:    ls.Duration,
		Position:    ls.Position,
		ResourceIDs: ls.ResourceIDs,
		CreatedAt:   ls.CreatedAt,
		UpdatedAt:   ls.UpdatedAt,
	}
}

type curriculumRepository struct {
	db *sqlx.DB
}

var _ curriculum.Repository = (*curriculumRepository)(nil)

func NewCurriculumRepository(db *sqlx.DB) curriculum.Repository {
	return &curriculumRepository{db: db}
}

// --- phases ---

func (repo *curriculumRepository) CreatePhase(ctx context.Context, ph curriculum.Phase) (curriculum.Phase, error) {
	if ph.ID == "" {
		ph.ID = uuid.New().String()
	}
	q := `INSERT INTO phase (id, title, description, position, created_at, updated_at)
	      VALUES (:id, :title, :description, :position, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, phaseRow(ph)); err != nil {
		return curriculum.Phase{}, errors.Wrap(err, "creating phase")
	}
	return ph, nil
}

func (repo *curriculumRepository) QueryAllPhases(ctx context.Context) ([]curriculum.Phase, error) {
	var rows []phaseRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM phase ORDER BY position`); err != nil {
		return nil, errors.Wrap(err, "querying phases")
	}
	phases := make([]curriculum.Phase, 0, len(rows))
	for _, row := range rows {
		phases = append(phases, curriculum.Phase(row))
	}
	return phases, nil
}

func (repo *curriculumRepository) GetPhaseByID(ctx context.Context, id string) (curriculum.Phase, error) {
	var row phaseRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM phase WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return curriculum.Phase{}, curriculum.ErrPhaseNotFound
		}
		return curriculum.Phase{}, errors.Wrap(err, "getting phase")
	}
	return curriculum.Phase(row), nil
}

func (repo *curriculumRepository) UpdatePhase(ctx context.Context, ph curriculum.Phase) (curriculum.Phase, error) {
	q := `UPDATE phase
	      SET title = :title, description = :description, position = :position, updated_at = :updated_at
	      WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, phaseRow(ph))
	if err != nil {
		return curriculum.Phase{}, errors.Wrap(err, "updating phase")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return curriculum.Phase{}, curriculum.ErrPhaseNotFound
	}
	return ph, nil
}

// DeletePhase relies on ON DELETE CASCADE for the phase's weeks and lessons.
func (repo *curriculumRepository) DeletePhase(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM phase WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting phase")
	}
	return nil
}

func (repo *curriculumRepository) NextPhasePosition(ctx context.Context) (int, error) {
	var pos int
	if err := repo.db.GetContext(ctx, &pos, `SELECT COALESCE(MAX(position), 0) + 1 FROM phase`); err != nil {
		return 0, errors.Wrap(err, "getting next phase position")
	}
	return pos, nil
}

// --- weeks ---

func (repo *curriculumRepository) CreateWeek(ctx context.Context, wk curriculum.Week) (curriculum.Week, error) {
	if wk.ID == "" {
		wk.ID = uuid.New().String()
	}
	q := `INSERT INTO week (id, phase_id, title, position, objectives, created_at, updated_at)
	      VALUES (:id, :phase_id, :title, :position, :objectives, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, newWeekRow(wk)); err != nil {
		return curriculum.Week{}, errors.Wrap(err, "creating week")
	}
	return wk, nil
}

func (repo *curriculumRepository) QueryWeeksByPhase(ctx context.Context, phaseID string) ([]curriculum.Week, error) {
	var rows []weekRow
	q := `SELECT * FROM week WHERE phase_id = $1 ORDER BY position`
	if err := repo.db.SelectContext(ctx, &rows, q, phaseID); err != nil {
		return nil, errors.Wrap(err, "querying weeks")
	}
	weeks := make([]curriculum.Week, 0, len(rows))
	for _, row := range rows {
		weeks = append(weeks, row.toWeek())
	}
	return weeks, nil
}

func (repo *curriculumRepository) GetWeekByID(ctx context.Context, id string) (curriculum.Week, error) {
	var row weekRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM week WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return curriculum.Week{}, curriculum.ErrWeekNotFound
		}
		return curriculum.Week{}, errors.Wrap(err, "getting week")
	}
	return row.toWeek(), nil
}

func (repo *curriculumRepository) UpdateWeek(ctx context.Context, wk curriculum.Week) (curriculum.Week, error) {
	q := `UPDATE week
	      SET title = :title, position = :position, objectives = :objectives, updated_at = :updated_at
	      WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, newWeekRow(wk))
	if err != nil {
		return curriculum.Week{}, errors.Wrap(err, "updating week")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return curriculum.Week{}, curriculum.ErrWeekNotFound
	}
	return wk, nil
}

func (repo *curriculumRepository) DeleteWeek(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM week WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting week")
	}
	return nil
}

func (repo *curriculumRepository) NextWeekPosition(ctx context.Context, phaseID string) (int, error) {
	var pos int
	q := `SELECT COALESCE(MAX(position), 0) + 1 FROM week WHERE phase_id = $1`
	if err := repo.db.GetContext(ctx, &pos, q, phaseID); err != nil {
		return 0, errors.Wrap(err, "getting next week position")
	}
	return pos, nil
}

// --- lessons ---

func (repo *curriculumRepository) CreateLesson(ctx context.Context, ls curriculum.Lesson) (curriculum.Lesson, error) {
	if ls.ID == "" {
		ls.ID = uuid.New().String()
	}
	q := `INSERT INTO lesson (id, week_id, title, content, duration, position, resource_ids, created_at, updated_at)
	      VALUES (:id, :week_id, :title, :content, :duration, :position, :resource_ids, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, newLessonRow(ls)); err != nil {
		return curriculum.Lesson{}, errors.Wrap(err, "creating lesson")
	}
	return ls, nil
}

func (repo *curriculumRepository) QueryLessonsByWeek(ctx context.Context, weekID string) ([]curriculum.Lesson, error) {
	var rows []lessonRow
	q := `SELECT * FROM lesson WHERE week_id = $1 ORDER BY position`
	if err := repo.db.SelectContext(ctx, &rows, q, weekID); err != nil {
		return nil, errors.Wrap(err, "querying lessons")
	}
	lessons := make([]curriculum.Lesson, 0, len(rows))
	for _, row := range rows {
		lessons = append(lessons, row.toLesson())
	}
	return lessons, nil
}

func (repo *curriculumRepository) GetLessonByID(ctx context.Context, id string) (curriculum.Lesson, error) {
	var row lessonRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM lesson WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return curriculum.Lesson{}, curriculum.ErrLessonNotFound
		}
		return curriculum.Lesson{}, errors.Wrap(err, "getting lesson")
	}
	return row.toLesson(), nil
}

func (repo *curriculumRepository) UpdateLesson(ctx context.Context, ls curriculum.Lesson) (curriculum.Lesson, error) {
	q := `UPDATE lesson
	      SET title = :title, content = :content, duration = :duration, position = :position,
	          resource_ids = :resource_ids, updated_at = :updated_at
	      WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, newLessonRow(ls))
	if err != nil {
		return curriculum.Lesson{}, errors.Wrap(err, "updating lesson")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return curriculum.Lesson{}, curriculum.ErrLessonNotFound
	}
	return ls, nil
}

func (repo *curriculumRepository) DeleteLesson(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM lesson WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting lesson")
	}
	return nil
}

func (repo *curriculumRepository) NextLessonPosition(ctx context.Context, weekID string) (int, error) {
	var pos int
	q := `SELECT COALESCE(MAX(position), 0) + 1 FROM lesson WHERE week_id = $1`
	if err := repo.db.GetContext(ctx, &pos, q, weekID); err != nil {
		return 0, errors.Wrap(err, "getting next lesson position")
	}
	return pos, nil
}
