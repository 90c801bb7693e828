package channel

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/forgelabs/anvil/core"
)

var (
	// errors
	ErrNotFound   = errors.New("channel not found")
	ErrNameExists = errors.New("a channel with this name already exists")
)

type (
	Repository interface {
		CheckChannelNameUniqueness(ctx context.Context, name string, excludedChannels ...Channel) error
		CreateChannel(ctx context.Context, ch Channel) (Channel, error)
		QueryAllChannels(ctx context.Context) ([]Channel, error)
		GetChannelByID(ctx context.Context, id string) (Channel, error)
		GetChannelBySlug(ctx context.Context, slug string) (Channel, error)
		// FilterChannels applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Channel.Name or Channel.Description.
		FilterChannels(ctx context.Context, filter QueryFilter) ([]Channel, error)
		UpdateChannel(ctx context.Context, ch Channel) (Channel, error)
		DeleteChannelsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		CheckUniqueness(name string, exclChans ...Channel) error
		Create(ctx context.Context, nc NewChannel, createdBy string) (Channel, error)
		QueryAll(ctx context.Context) ([]Channel, error)
		GetByID(ctx context.Context, id string) (Channel, error)
		GetBySlug(ctx context.Context, slug string) (Channel, error)
		Filter(ctx context.Context, filter QueryFilter) ([]Channel, error)
		Update(ctx context.Context, id string, uc UpdateChannel) (Channel, error)
		Archive(ctx context.Context, id string) (Channel, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CheckUniqueness(name string, exclChans ...Channel) error {
	if err := svc.repo.CheckChannelNameUniqueness(context.Background(), name, exclChans...); err != nil {
		if errors.Cause(err) == ErrNameExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nc NewChannel, createdBy string) (Channel, error) {
	now := time.Now().UTC()
	ch := Channel{
		Name:        nc.Name,
		Slug:        core.Slugify(nc.Name),
		Description: nc.Description,
		Type:        nc.Type,
		Status:      StatusActive,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateChannel(ctx, ch)
}

func (svc *service) QueryAll(ctx context.Context) ([]Channel, error) {
	return svc.repo.QueryAllChannels(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Channel, error) {
	return svc.repo.GetChannelByID(ctx, id)
}

func (svc *service) GetBySlug(ctx context.Context, slug string) (Channel, error) {
	return svc.repo.GetChannelBySlug(ctx, core.CleanString(slug, true /* lower */))
}

func (svc *service) Filter(ctx context.Context, filter QueryFilter) ([]Channel, error) {
	filter.Clean()
	return svc.repo.FilterChannels(ctx, filter)
}

func (svc *service) Update(ctx context.Context, id string, uc UpdateChannel) (Channel, error) {
	orig, err := svc.repo.GetChannelByID(ctx, id)
	if err != nil {
		return Channel{}, err
	}

	orig.Name = uc.Name
	orig.Slug = core.Slugify(uc.Name)
	if uc.Description != nil {
		orig.Description = core.CleanString(*uc.Description)
	}
	orig.Type = uc.Type
	orig.Status = uc.Status
	orig.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateChannel(ctx, orig)
}

func (svc *service) Archive(ctx context.Context, id string) (Channel, error) {
	ch, err := svc.repo.GetChannelByID(ctx, id)
	if err != nil {
		return Channel{}, err
	}
	ch.Status = StatusArchived
	ch.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateChannel(ctx, ch)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteChannelsByID(ctx, ids...)
}
