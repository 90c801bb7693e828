package pgrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/forgelabs/anvil/core/notification"
)

type notificationRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Type      string    `db:"type"`
	Title     string    `db:"title"`
	Body      string    `db:"body"`
	Link      string    `db:"link"`
	Read      bool      `db:"read"`
	CreatedAt time.Time `db:"created_at"`
}

type notificationRepository struct {
	db *sqlx.DB
}

var _ notification.Repository = (*notificationRepository)(nil)

func NewNotificationRepository(db *sqlx.DB) notification.Repository {
	return &notificationRepository{db: db}
}

func (repo *notificationRepository) CreateNotifications(ctx context.Context, notifs []notification.Notification) error {
	if len(notifs) == 0 {
		return nil
	}
	rows := make([]notificationRow, 0, len(notifs))
	for _, n := range notifs {
		if n.ID == "" {
			n.ID = uuid.New().String()
		}
		rows = append(rows, notificationRow(n))
	}
	q := `INSERT INTO notification (id, user_id, type, title, body, link, read, created_at)
	      VALUES (:id, :user_id, :type, :title, :body, :link, :read, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, rows); err != nil {
		return errors.Wrap(err, "creating notifications")
	}
	return nil
}

func (repo *notificationRepository) QueryNotificationsByUser(ctx context.Context, userID string) ([]notification.Notification, error) {
	var rows []notificationRow
	q := `SELECT * FROM notification WHERE user_id = $1 ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, errors.Wrap(err, "querying notifications")
	}
	notifs := make([]notification.Notification, 0, len(rows))
	for _, row := range rows {
		notifs = append(notifs, notification.Notification(row))
	}
	return notifs, nil
}

func (repo *notificationRepository) CountUnreadNotifications(ctx context.Context, userID string) (int, error) {
	var count int
	q := `SELECT COUNT(*) FROM notification WHERE user_id = $1 AND read = FALSE`
	if err := repo.db.GetContext(ctx, &count, q, userID); err != nil {
		return 0, errors.Wrap(err, "counting unread notifications")
	}
	return count, nil
}

func (repo *notificationRepository) CountAllNotifications(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM notification`); err != nil {
		return 0, errors.Wrap(err, "counting notifications")
	}
	return count, nil
}

func (repo *notificationRepository) MarkNotificationsRead(ctx context.Context, userID string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q := `UPDATE notification SET read = TRUE WHERE user_id = $1 AND id = ANY($2)`
	if _, err := repo.db.ExecContext(ctx, q, userID, pq.StringArray(ids)); err != nil {
		return errors.Wrap(err, "marking notifications read")
	}
	return nil
}

func (repo *notificationRepository) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	q := `UPDATE notification SET read = TRUE WHERE user_id = $1`
	if _, err := repo.db.ExecContext(ctx, q, userID); err != nil {
		return errors.Wrap(err, "marking all notifications read")
	}
	return nil
}

func (repo *notificationRepository) DeleteNotificationsByID(ctx context.Context, userID string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q := `DELETE FROM notification WHERE user_id = $1 AND id = ANY($2)`
	if _, err := repo.db.ExecContext(ctx, q, userID, pq.StringArray(ids)); err != nil {
		return errors.Wrap(err, "deleting notifications")
	}
	return nil
}
