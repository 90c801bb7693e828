package channel

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/forgelabs/anvil/core"
)

type fakeRepo struct {
	channels map[string]Channel
}

var _ Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo { return &fakeRepo{channels: make(map[string]Channel)} }

func (r *fakeRepo) CheckChannelNameUniqueness(_ context.Context, name string, excluded ...Channel) error {
	for _, ch := range r.channels {
		if !strings.EqualFold(ch.Name, name) {
			continue
		}
		var excl bool
		for _, ex := range excluded {
			if ex.ID == ch.ID {
				excl = true
				break
			}
		}
		if !excl {
			return ErrNameExists
		}
	}
	return nil
}

func (r *fakeRepo) CreateChannel(_ context.Context, ch Channel) (Channel, error) {
	ch.ID = uuid.New().String()
	r.channels[ch.ID] = ch
	return ch, nil
}

func (r *fakeRepo) QueryAllChannels(_ context.Context) ([]Channel, error) {
	all := make([]Channel, 0, len(r.channels))
	for _, ch := range r.channels {
		all = append(all, ch)
	}
	return all, nil
}

func (r *fakeRepo) GetChannelByID(_ context.Context, id string) (Channel, error) {
	ch, ok := r.channels[id]
	if !ok {
		return Channel{}, ErrNotFound
	}
	return ch, nil
}

func (r *fakeRepo) GetChannelBySlug(_ context.Context, slug string) (Channel, error) {
	for _, ch := range r.channels {
		if ch.Slug == slug {
			return ch, nil
		}
	}
	return Channel{}, ErrNotFound
}

func (r *fakeRepo) FilterChannels(_ context.Context, filter QueryFilter) ([]Channel, error) {
	matches := make([]Channel, 0)
	for _, ch := range r.channels {
		if filter.Type != "" && ch.Type != filter.Type {
			continue
		}
		if filter.Status != "" && ch.Status != filter.Status {
			continue
		}
		matches = append(matches, ch)
	}
	return matches, nil
}

func (r *fakeRepo) UpdateChannel(_ context.Context, ch Channel) (Channel, error) {
	if _, ok := r.channels[ch.ID]; !ok {
		return Channel{}, ErrNotFound
	}
	r.channels[ch.ID] = ch
	return ch, nil
}

func (r *fakeRepo) DeleteChannelsByID(_ context.Context, ids ...string) error {
	for _, id := range ids {
		delete(r.channels, id)
	}
	return nil
}

func TestCreateChannel(t *testing.T) {
	svc := NewService(newFakeRepo())

	ch, err := svc.Create(context.Background(), NewChannel{Name: "General Chat", Type: TypeChat}, "admin-1")
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	assert.Equal(t, "general-chat", ch.Slug)
	assert.Equal(t, StatusActive, ch.Status)
	assert.Equal(t, "admin-1", ch.CreatedBy)
	assert.True(t, ch.Active())
}

func TestChannelNameUniqueness(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	nc := NewChannel{Name: "Announcements", Type: TypeAnnouncement}
	if err := nc.Validate(svc); err != nil {
		t.Fatalf("Validate(): %v", err)
	}
	ch, err := svc.Create(ctx, nc, "admin-1")
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}

	// same name, case-insensitive, rejected
	dup := NewChannel{Name: "announcements", Type: TypeForum}
	err = dup.Validate(svc)
	var vErr *core.ValidationError
	if assert.ErrorAs(t, err, &vErr) {
		assert.Equal(t, "name", vErr.Fields[0].Field)
	}

	// updating a channel keeping its own name is fine
	uc := UpdateChannel{Name: "Announcements"}
	if err = uc.Validate(ch, svc); err != nil {
		t.Errorf("Validate() against own name: %v", err)
	}
}

func TestArchiveChannel(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	ch, err := svc.Create(ctx, NewChannel{Name: "Old Forum", Type: TypeForum}, "admin-1")
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	ch, err = svc.Archive(ctx, ch.ID)
	if err != nil {
		t.Fatalf("Archive(): %v", err)
	}
	assert.Equal(t, StatusArchived, ch.Status)
	assert.False(t, ch.Active())
}
