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

	"github.com/forgelabs/anvil/core/resource"
)

type resourceRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Type        string         `db:"type"`
	URL         string         `db:"url"`
	Tags        pq.StringArray `db:"tags"`
	Difficulty  string         `db:"difficulty"`
	ImageURL    string         `db:"image_url"`
	Status      string         `db:"status"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r resourceRow) toResource() resource.Resource {
	return resource.Resource{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Type:        r.Type,
		URL:         r.URL,
		Tags:        r.Tags,
		Difficulty:  r.Difficulty,
		ImageURL:    r.ImageURL,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func newResourceRow(res resource.Resource) resourceRow {
	return resourceRow{
		ID:          res.ID,
		Title:       res.Title,
		Description: res.Description,
		Type:        res.Type,
		URL:         res.URL,
		Tags:        res.Tags,
		Difficulty:  res.Difficulty,
		ImageURL:    res.ImageURL,
		Status:      res.Status,
		CreatedAt:   res.CreatedAt,
		UpdatedAt:   res.UpdatedAt,
	}
}

type resourceRepository struct {
	db *sqlx.DB
}

var _ resource.Repository = (*resourceRepository)(nil)

func NewResourceRepository(db *sqlx.DB) resource.Repository {
	return &resourceRepository{db: db}
}

func (repo *resourceRepository) CreateResource(ctx context.Context, res resource.Resource) (resource.Resource, error) {
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	row := newResourceRow(res)
	q := `INSERT INTO resource (id, title, description, type, url, tags, difficulty, image_url, status, created_at, updated_at)
	      VALUES (:id, :title, :description, :type, :url, :tags, :difficulty, :image_url, :status, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return resource.Resource{}, errors.Wrap(err, "creating resource")
	}
	return res, nil
}

func (repo *resourceRepository) QueryAllResources(ctx context.Context) ([]resource.Resource, error) {
	var rows []resourceRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM resource ORDER BY created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "querying resources")
	}
	return toResources(rows), nil
}

func toResources(rows []resourceRow) []resource.Resource {
	resources := make([]resource.Resource, 0, len(rows))
	for _, row := range rows {
		resources = append(resources, row.toResource())
	}
	return resources
}

func (repo *resourceRepository) GetResourceByID(ctx context.Context, id string) (resource.Resource, error) {
	var row resourceRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM resource WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return resource.Resource{}, resource.ErrNotFound
		}
		return resource.Resource{}, errors.Wrap(err, "getting resource")
	}
	return row.toResource(), nil
}

func (repo *resourceRepository) FilterResources(ctx context.Context, filter resource.QueryFilter) ([]resource.Resource, error) {
	q := new(strings.Builder)
	q.WriteString(`SELECT * FROM resource WHERE 1=1`)
	args := make([]interface{}, 0, 5)

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		q.WriteString(` AND (title ILIKE $` + itoa(len(args)) + ` OR description ILIKE $` + itoa(len(args)) + `)`)
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		q.WriteString(` AND type = $` + itoa(len(args)))
	}
	if filter.Difficulty != "" {
		args = append(args, filter.Difficulty)
		q.WriteString(` AND difficulty = $` + itoa(len(args)))
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

	var rows []resourceRow
	if err := repo.db.SelectContext(ctx, &rows, q.String(), args...); err != nil {
		return nil, errors.Wrap(err, "filtering resources")
	}
	return toResources(rows), nil
}

func (repo *resourceRepository) UpdateResource(ctx context.Context, res resource.Resource) (resource.Resource, error) {
	row := newResourceRow(res)
	q := `UPDATE resource
	      SET title = :title, description = :description, type = :type, url = :url, tags = :tags,
	          difficulty = :difficulty, image_url = :image_url, status = :status, updated_at = :updated_at
	      WHERE id = :id`
	result, err := repo.db.NamedExecContext(ctx, q, row)
	if err != nil {
		return resource.Resource{}, errors.Wrap(err, "updating resource")
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return resource.Resource{}, resource.ErrNotFound
	}
	return res, nil
}

func (repo *resourceRepository) DeleteResourcesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM resource WHERE id = ANY($1)`, pq.StringArray(ids)); err != nil {
		return errors.Wrap(err, "deleting resources")
	}
	return nil
}
