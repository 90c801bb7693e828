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

	"github.com/forgelabs/anvil/core/channel"
)

type channelRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Slug        string    `db:"slug"`
	Description string    `db:"description"`
	Type        string    `db:"type"`
	Status      string    `db:"status"`
	CreatedBy   string    `db:"created_by"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r channelRow) toChannel() channel.Channel {
	return channel.Channel{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Type:        r.Type,
		Status:      r.Status,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type channelRepository struct {
	db *sqlx.DB
}

var _ channel.Repository = (*channelRepository)(nil)

func NewChannelRepository(db *sqlx.DB) channel.Repository {
	return &channelRepository{db: db}
}

func (repo *channelRepository) CheckChannelNameUniqueness(ctx context.Context, name string, excludedChannels ...channel.Channel) error {
	exclIDs := make([]string, 0, len(excludedChannels))
	for _, ch := range excludedChannels {
		exclIDs = append(exclIDs, ch.ID)
	}

	var exists bool
	q := `SELECT EXISTS(SELECT 1 FROM channel WHERE LOWER(name) = LOWER($1) AND id != ALL($2))`
	if err := repo.db.GetContext(ctx, &exists, q, name, pq.StringArray(exclIDs)); err != nil {
		return errors.Wrap(err, "checking channel name uniqueness")
	}
	if exists {
		return channel.ErrNameExists
	}
	return nil
}

func (repo *channelRepository) CreateChannel(ctx context.Context, ch channel.Channel) (channel.Channel, error) {
	if ch.ID == "" {
		ch.ID = uuid.New().String()
	}
	q := `INSERT INTO channel (id, name, slug, description, type, status, created_by, created_at, updated_at)
	      VALUES (:id, :name, :slug, :description, :type, :status, :created_by, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, channelRow(ch)); err != nil {
		return channel.Channel{}, errors.Wrap(err, "creating channel")
	}
	return ch, nil
}

func (repo *channelRepository) QueryAllChannels(ctx context.Context) ([]channel.Channel, error) {
	var rows []channelRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM channel ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying channels")
	}
	return toChannels(rows), nil
}

func toChannels(rows []channelRow) []channel.Channel {
	channels := make([]channel.Channel, 0, len(rows))
	for _, row := range rows {
		channels = append(channels, row.toChannel())
	}
	return channels
}

func (repo *channelRepository) getChannel(ctx context.Context, q string, args ...interface{}) (channel.Channel, error) {
	var row channelRow
	if err := repo.db.GetContext(ctx, &row, q, args...); err != nil {
		if err == sql.ErrNoRows {
			return channel.Channel{}, channel.ErrNotFound
		}
		return channel.Channel{}, errors.Wrap(err, "getting channel")
	}
	return row.toChannel(), nil
}

func (repo *channelRepository) GetChannelByID(ctx context.Context, id string) (channel.Channel, error) {
	return repo.getChannel(ctx, `SELECT * FROM channel WHERE id = $1`, id)
}

func (repo *channelRepository) GetChannelBySlug(ctx context.Context, slug string) (channel.Channel, error) {
	return repo.getChannel(ctx, `SELECT * FROM channel WHERE slug = $1`, slug)
}

func (repo *channelRepository) FilterChannels(ctx context.Context, filter channel.QueryFilter) ([]channel.Channel, error) {
	q := new(strings.Builder)
	q.WriteString(`SELECT * FROM channel WHERE 1=1`)
	args := make([]interface{}, 0, 3)

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		q.WriteString(` AND (name ILIKE $` + itoa(len(args)) + ` OR description ILIKE $` + itoa(len(args)) + `)`)
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		q.WriteString(` AND type = $` + itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		q.WriteString(` AND status = $` + itoa(len(args)))
	}
	q.WriteString(` ORDER BY created_at`)

	var rows []channelRow
	if err := repo.db.SelectContext(ctx, &rows, q.String(), args...); err != nil {
		return nil, errors.Wrap(err, "filtering channels")
	}
	return toChannels(rows), nil
}

func (repo *channelRepository) UpdateChannel(ctx context.Context, ch channel.Channel) (channel.Channel, error) {
	q := `UPDATE channel
	      SET name = :name, slug = :slug, description = :description, type = :type,
	          status = :status, updated_at = :updated_at
	      WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, channelRow(ch))
	if err != nil {
		return channel.Channel{}, errors.Wrap(err, "updating channel")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return channel.Channel{}, channel.ErrNotFound
	}
	return ch, nil
}

func (repo *channelRepository) DeleteChannelsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM channel WHERE id = ANY($1)`, pq.StringArray(ids)); err != nil {
		return errors.Wrap(err, "deleting channels")
	}
	return nil
}
