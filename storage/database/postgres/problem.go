package pgrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/forgelabs/anvil/core/problem"
)

type problemRow struct {
	ID               string         `db:"id"`
	Title            string         `db:"title"`
	Slug             string         `db:"slug"`
	Description      string         `db:"description"`
	Difficulty       string         `db:"difficulty"`
	Category         string         `db:"category"`
	Tags             pq.StringArray `db:"tags"`
	Companies        pq.StringArray `db:"companies"`
	Constraints      pq.StringArray `db:"constraints"`
	Hints            pq.StringArray `db:"hints"`
	EstimatedMinutes int            `db:"estimated_minutes"`
	ImageURL         string         `db:"image_url"`
	Status           string         `db:"status"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func (r problemRow) toProblem() problem.Problem {
	return problem.Problem{
		ID:               r.ID,
		Title:            r.Title,
		Slug:             r.Slug,
		Description:      r.Description,
		Difficulty:       r.Difficulty,
		Category:         r.Category,
		Tags:             r.Tags,
		Companies:        r.Companies,
		Constraints:      r.Constraints,
		Hints:            r.Hints,
		EstimatedMinutes: r.EstimatedMinutes,
		ImageURL:         r.ImageURL,
		Status:           r.Status,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func newProblemRow(prob problem.Problem) problemRow {
	return problemRow{
		ID:               prob.ID,
		Title:            prob.Title,
		Slug:             prob.Slug,
		Description:      prob.Description,
		Difficulty:       prob.Difficulty,
		Category:         prob.Category,
		Tags:             prob.Tags,
		Companies:        prob.Companies,
		Constraints:      prob.Constraints,
		Hints:            prob.Hints,
		EstimatedMinutes: prob.EstimatedMinutes,
		ImageURL:         prob.ImageURL,
		Status:           prob.Status,
		CreatedAt:        prob.CreatedAt,
		UpdatedAt:        prob.UpdatedAt,
	}
}

type problemRepository struct {
	db *sqlx.DB
}

var _ problem.Repository = (*problemRepository)(nil)

func NewProblemRepository(db *sqlx.DB) problem.Repository {
	return &problemRepository{db: db}
}

func (repo *problemRepository) CreateProblem(ctx context.Context, prob problem.Problem) (problem.Problem, error) {
	if prob.ID == "" {
		prob.ID = uuid.New().String()
	}
	row := newProblemRow(prob)
	q := `INSERT INTO problem (id, title, slug, description, difficulty, category, tags, companies, constraints,
	                           hints, estimated_minutes, image_url, status, created_at, updated_at)
	      VALUES (:id, :title, :slug, :description, :difficulty, :category, :tags, :companies, :constraints,
	              :hints, :estimated_minutes, :image_url, :status, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return problem.Problem{}, errors.Wrap(err, "creating problem")
	}
	return prob, nil
}

func (repo *problemRepository) QueryAllProblems(ctx context.Context) ([]problem.Problem, error) {
	var rows []problemRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM problem ORDER BY created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "querying problems")
	}
	return toProblems(rows), nil
}

func toProblems(rows []problemRow) []problem.Problem {
	problems := make([]problem.Problem, 0, len(rows))
	for _, row := range rows {
		problems = append(problems, row.toProblem())
	}
	return problems
}

func (repo *problemRepository) getProblem(ctx context.Context, q string, args ...interface{}) (problem.Problem, error) {
	var row problemRow
	if err := repo.db.GetContext(ctx, &row, q, args...); err != nil {
		if err == sql.ErrNoRows {
			return problem.Problem{}, problem.ErrNotFound
		}
		return problem.Problem{}, errors.Wrap(err, "getting problem")
	}
	return row.toProblem(), nil
}

func (repo *problemRepository) GetProblemByID(ctx context.Context, id string) (problem.Problem, error) {
	return repo.getProblem(ctx, `SELECT * FROM problem WHERE id = $1`, id)
}

func (repo *problemRepository) GetProblemBySlug(ctx context.Context, slug string) (problem.Problem, error) {
	return repo.getProblem(ctx, `SELECT * FROM problem WHERE slug = $1`, slug)
}

func (repo *problemRepository) FilterProblems(ctx context.Context, filter problem.QueryFilter) ([]problem.Problem, error) {
	q := new(strings.Builder)
	q.WriteString(`SELECT * FROM problem WHERE 1=1`)
	args := make([]interface{}, 0, 5)

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		q.WriteString(` AND (title ILIKE $` + itoa(len(args)) + ` OR description ILIKE $` + itoa(len(args)) + `)`)
	}
	if filter.Difficulty != "" {
		args = append(args, filter.Difficulty)
		q.WriteString(` AND difficulty = $` + itoa(len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		q.WriteString(` AND category = $` + itoa(len(args)))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		q.WriteString(` AND $` + itoa(len(args)) + ` = ANY(tags)`)
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		q.WriteString(` AND status = $` + itoa(len(args)))
	}
	q.WriteString(` ORDER BY created_at DESC`)

	var rows []problemRow
	if err := repo.db.SelectContext(ctx, &rows, q.String(), args...); err != nil {
		return nil, errors.Wrap(err, "filtering problems")
	}
	return toProblems(rows), nil
}

func (repo *problemRepository) UpdateProblem(ctx context.Context, prob problem.Problem) (problem.Problem, error) {
	row := newProblemRow(prob)
	q := `UPDATE problem
	      SET title = :title, slug = :slug, description = :description, difficulty = :difficulty,
	          category = :category, tags = :tags, companies = :companies, constraints = :constraints,
	          hints = :hints, estimated_minutes = :estimated_minutes, image_url = :image_url,
	          status = :status, updated_at = :updated_at
	      WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, row)
	if err != nil {
		return problem.Problem{}, errors.Wrap(err, "updating problem")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return problem.Problem{}, problem.ErrNotFound
	}
	return prob, nil
}

func (repo *problemRepository) DeleteProblemsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM problem WHERE id = ANY($1)`, pq.StringArray(ids)); err != nil {
		return errors.Wrap(err, "deleting problems")
	}
	return nil
}
