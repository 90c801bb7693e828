package notification

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/forgelabs/anvil/core"
	"github.com/forgelabs/anvil/core/user"
)

var ErrNotFound = errors.New("notification not found")

type (
	Repository interface {
		CreateNotifications(ctx context.Context, notifs []Notification) error
		QueryNotificationsByUser(ctx context.Context, userID string) ([]Notification, error)
		CountUnreadNotifications(ctx context.Context, userID string) (int, error)
		CountAllNotifications(ctx context.Context) (int, error)
		// MarkNotificationsRead marks the given notifications read; they must belong to userID.
		MarkNotificationsRead(ctx context.Context, userID string, ids ...string) error
		MarkAllNotificationsRead(ctx context.Context, userID string) error
		DeleteNotificationsByID(ctx context.Context, userID string, ids ...string) error
	}

	Service interface {
		// Broadcast fans one notification out to every user in the audience
		// and returns the recipient count.
		Broadcast(ctx context.Context, nb NewBroadcast) (int, error)
		ListForUser(ctx context.Context, userID string) ([]Notification, error)
		UnreadCount(ctx context.Context, userID string) (int, error)
		CountAll(ctx context.Context) (int, error)
		MarkRead(ctx context.Context, userID string, ids ...string) error
		MarkAllRead(ctx context.Context, userID string) error
		Delete(ctx context.Context, userID string, ids ...string) error
	}

	service struct {
		repo    Repository
		userSvc user.Service
		mailSvc core.EmailService
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, userSvc user.Service, mailSvc core.EmailService) Service {
	return &service{repo: repo, userSvc: userSvc, mailSvc: mailSvc}
}

func (svc *service) Broadcast(ctx context.Context, nb NewBroadcast) (int, error) {
	users, err := svc.userSvc.QueryAll(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "resolving broadcast audience")
	}

	now := time.Now().UTC()
	recipients := make([]user.User, 0, len(users))
	notifs := make([]Notification, 0, len(users))
	for _, usr := range users {
		if !nb.Targets(usr) {
			continue
		}
		recipients = append(recipients, usr)
		notifs = append(notifs, Notification{
			UserID:    usr.ID,
			Type:      nb.Type,
			Title:     nb.Title,
			Body:      nb.Body,
			Link:      nb.Link,
			CreatedAt: now,
		})
	}
	if len(notifs) == 0 {
		return 0, nil
	}

	if err = svc.repo.CreateNotifications(ctx, notifs); err != nil {
		return 0, errors.Wrap(err, "creating notifications")
	}
	if nb.SendEmail {
		go svc.sendAnnouncementMail(nb, recipients)
	}
	return len(notifs), nil
}

func (svc *service) sendAnnouncementMail(nb NewBroadcast, recipients []user.User) {
	msgs := make([]*core.EmailMessage, 0, len(recipients))
	for _, usr := range recipients {
		if usr.Email == "" {
			continue
		}
		msgs = append(msgs, &core.EmailMessage{
			To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
			Subject:      nb.Title,
			TemplateName: "announcement",
			TemplateData: struct {
				Name  string
				Title string
				Body  string
				Link  string
			}{usr.Name, nb.Title, nb.Body, nb.Link},
		})
	}
	svc.mailSvc.SendMessages(msgs...)
}

func (svc *service) ListForUser(ctx context.Context, userID string) ([]Notification, error) {
	return svc.repo.QueryNotificationsByUser(ctx, userID)
}

func (svc *service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return svc.repo.CountUnreadNotifications(ctx, userID)
}

func (svc *service) CountAll(ctx context.Context) (int, error) {
	return svc.repo.CountAllNotifications(ctx)
}

func (svc *service) MarkRead(ctx context.Context, userID string, ids ...string) error {
	return svc.repo.MarkNotificationsRead(ctx, userID, ids...)
}

func (svc *service) MarkAllRead(ctx context.Context, userID string) error {
	return svc.repo.MarkAllNotificationsRead(ctx, userID)
}

func (svc *service) Delete(ctx context.Context, userID string, ids ...string) error {
	return svc.repo.DeleteNotificationsByID(ctx, userID, ids...)
}
