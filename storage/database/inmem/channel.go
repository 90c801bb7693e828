package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/forgelabs/anvil/core/channel"
)

type channelRepository struct {
	db *channelTable
}

var _ channel.Repository = (*channelRepository)(nil)

func NewChannelRepository(db *DB) channel.Repository {
	return &channelRepository{db: db.channel}
}

func (repo *channelRepository) query() []channel.Channel {
	channels := make([]channel.Channel, 0, len(repo.db.table))
	for _, ch := range repo.db.table {
		channels = append(channels, *ch)
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i].CreatedAt.Before(channels[j].CreatedAt) })
	return channels
}

func (repo *channelRepository) CheckChannelNameUniqueness(_ context.Context, name string, excludedChannels ...channel.Channel) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, ch := range repo.query() {
		if !strings.EqualFold(ch.Name, name) {
			continue
		}
		var excluded bool
		for _, ex := range excludedChannels {
			if ex.ID == ch.ID {
				excluded = true
				break
			}
		}
		if !excluded {
			return channel.ErrNameExists
		}
	}
	return nil
}

func (repo *channelRepository) CreateChannel(_ context.Context, ch channel.Channel) (channel.Channel, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if ch.ID == "" {
		ch.ID = uuid.New().String()
	}
	repo.db.table[ch.ID] = &ch
	return ch, nil
}

func (repo *channelRepository) QueryAllChannels(_ context.Context) ([]channel.Channel, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *channelRepository) GetChannelByID(_ context.Context, id string) (channel.Channel, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if ch, ok := repo.db.table[id]; ok {
		return *ch, nil
	}
	return channel.Channel{}, channel.ErrNotFound
}

func (repo *channelRepository) GetChannelBySlug(_ context.Context, slug string) (channel.Channel, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, ch := range repo.query() {
		if ch.Slug == slug {
			return ch, nil
		}
	}
	return channel.Channel{}, channel.ErrNotFound
}

func (repo *channelRepository) FilterChannels(_ context.Context, filter channel.QueryFilter) ([]channel.Channel, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	matches := make([]channel.Channel, 0)
	search := strings.ToLower(filter.Search)
	for _, ch := range repo.query() {
		if search != "" &&
			!strings.Contains(strings.ToLower(ch.Name), search) &&
			!strings.Contains(strings.ToLower(ch.Description), search) {
			continue
		}
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

func (repo *channelRepository) UpdateChannel(_ context.Context, ch channel.Channel) (channel.Channel, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[ch.ID]; !ok {
		return channel.Channel{}, channel.ErrNotFound
	}
	repo.db.table[ch.ID] = &ch
	return ch, nil
}

func (repo *channelRepository) DeleteChannelsByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
