package resource

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/forgelabs/anvil/core"
)

var ErrNotFound = errors.New("resource not found")

type (
	Repository interface {
		CreateResource(ctx context.Context, res Resource) (Resource, error)
		QueryAllResources(ctx context.Context) ([]Resource, error)
		GetResourceByID(ctx context.Context, id string) (Resource, error)
		// FilterResources applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Resource.Title or Resource.Description.
		FilterResources(ctx context.Context, filter QueryFilter) ([]Resource, error)
		UpdateResource(ctx context.Context, res Resource) (Resource, error)
		DeleteResourcesByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Create(ctx context.Context, nr NewResource) (Resource, error)
		QueryAll(ctx context.Context) ([]Resource, error)
		GetByID(ctx context.Context, id string) (Resource, error)
		Filter(ctx context.Context, filter QueryFilter) ([]Resource, error)
		Update(ctx context.Context, id string, ur UpdateResource) (Resource, error)
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

func (svc *service) Create(ctx context.Context, nr NewResource) (Resource, error) {
	now := time.Now().UTC()
	res := Resource{
		Title:       nr.Title,
		Description: nr.Description,
		Type:        nr.Type,
		URL:         nr.URL,
		Tags:        nr.Tags,
		Difficulty:  nr.Difficulty,
		ImageURL:    nr.ImageURL,
		Status:      StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateResource(ctx, res)
}

func (svc *service) QueryAll(ctx context.Context) ([]Resource, error) {
	return svc.repo.QueryAllResources(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Resource, error) {
	return svc.repo.GetResourceByID(ctx, id)
}

func (svc *service) Filter(ctx context.Context, filter QueryFilter) ([]Resource, error) {
	filter.Clean()
	return svc.repo.FilterResources(ctx, filter)
}

func (svc *service) Update(ctx context.Context, id string, ur UpdateResource) (Resource, error) {
	orig, err := svc.repo.GetResourceByID(ctx, id)
	if err != nil {
		return Resource{}, err
	}

	orig.Title = ur.Title
	if ur.Description != nil {
		orig.Description = core.CleanString(*ur.Description)
	}
	orig.Type = ur.Type
	orig.URL = ur.URL
	if ur.Tags != nil {
		orig.Tags = ur.Tags
	}
	orig.Difficulty = ur.Difficulty
	if ur.ImageURL != nil {
		orig.ImageURL = *ur.ImageURL
	}
	orig.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateResource(ctx, orig)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteResourcesByID(ctx, ids...)
}
