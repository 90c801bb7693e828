package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/forgelabs/anvil/core/notification"
)

type notificationRepository struct {
	db *notificationTable
}

var _ notification.Repository = (*notificationRepository)(nil)

func NewNotificationRepository(db *DB) notification.Repository {
	return &notificationRepository{db: db.notification}
}

// queryByUser returns the user's notifications, newest first.
func (repo *notificationRepository) queryByUser(userID string) []notification.Notification {
	notifs := make([]notification.Notification, 0)
	for _, notif := range repo.db.table {
		if notif.UserID == userID {
			notifs = append(notifs, *notif)
		}
	}
	sort.Slice(notifs, func(i, j int) bool { return notifs[i].CreatedAt.After(notifs[j].CreatedAt) })
	return notifs
}

func (repo *notificationRepository) CreateNotifications(_ context.Context, notifs []notification.Notification) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i := range notifs {
		notif := notifs[i]
		if notif.ID == "" {
			notif.ID = uuid.New().String()
		}
		repo.db.table[notif.ID] = &notif
	}
	return nil
}

func (repo *notificationRepository) QueryNotificationsByUser(_ context.Context, userID string) ([]notification.Notification, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.queryByUser(userID), nil
}

func (repo *notificationRepository) CountUnreadNotifications(_ context.Context, userID string) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	count := 0
	for _, notif := range repo.db.table {
		if notif.UserID == userID && !notif.Read {
			count++
		}
	}
	return count, nil
}

func (repo *notificationRepository) CountAllNotifications(_ context.Context) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.db.table), nil
}

func (repo *notificationRepository) MarkNotificationsRead(_ context.Context, userID string, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		if notif, ok := repo.db.table[id]; ok && notif.UserID == userID {
			notif.Read = true
		}
	}
	return nil
}

func (repo *notificationRepository) MarkAllNotificationsRead(_ context.Context, userID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, notif := range repo.db.table {
		if notif.UserID == userID {
			notif.Read = true
		}
	}
	return nil
}

func (repo *notificationRepository) DeleteNotificationsByID(_ context.Context, userID string, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		if notif, ok := repo.db.table[id]; ok && notif.UserID == userID {
			delete(repo.db.table, id)
		}
	}
	return nil
}
