package resource

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	resources map[string]Resource
}

var _ Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo { return &fakeRepo{resources: make(map[string]Resource)} }

func (r *fakeRepo) CreateResource(_ context.Context, res Resource) (Resource, error) {
	res.ID = uuid.New().String()
	r.resources[res.ID] = res
	return res, nil
}

func (r *fakeRepo) QueryAllResources(_ context.Context) ([]Resource, error) {
	all := make([]Resource, 0, len(r.resources))
	for _, res := range r.resources {
		all = append(all, res)
	}
	return all, nil
}

func (r *fakeRepo) GetResourceByID(_ context.Context, id string) (Resource, error) {
	res, ok := r.resources[id]
	if !ok {
		return Resource{}, ErrNotFound
	}
	return res, nil
}

func (r *fakeRepo) FilterResources(_ context.Context, filter QueryFilter) ([]Resource, error) {
	matches := make([]Resource, 0)
	for _, res := range r.resources {
		if filter.Type != "" && res.Type != filter.Type {
			continue
		}
		matches = append(matches, res)
	}
	return matches, nil
}

func (r *fakeRepo) UpdateResource(_ context.Context, res Resource) (Resource, error) {
	if _, ok := r.resources[res.ID]; !ok {
		return Resource{}, ErrNotFound
	}
	r.resources[res.ID] = res
	return res, nil
}

func (r *fakeRepo) DeleteResourcesByID(_ context.Context, ids ...string) error {
	for _, id := range ids {
		delete(r.resources, id)
	}
	return nil
}

func TestCreateAndUpdateResource(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	res, err := svc.Create(ctx, NewResource{
		Title: "A Tour of Go",
		Type:  TypeCourse,
		URL:   "https://go.dev/tour",
		Tags:  []string{"go"},
	})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	assert.Equal(t, StatusDraft, res.Status)

	up := UpdateResource{Title: "The Go Tour"}
	if err = up.Validate(res); err != nil {
		t.Fatalf("Validate(): %v", err)
	}
	updated, err := svc.Update(ctx, res.ID, up)
	if err != nil {
		t.Fatalf("Update(): %v", err)
	}
	assert.Equal(t, "The Go Tour", updated.Title)
	// untouched fields carry over
	assert.Equal(t, res.Type, updated.Type)
	assert.Equal(t, res.URL, updated.URL)
	assert.Equal(t, res.Tags, updated.Tags)
}

func TestFilterResourcesByType(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	for _, typ := range []string{TypeArticle, TypeVideo, TypeArticle} {
		if _, err := svc.Create(ctx, NewResource{Title: "r", Type: typ, URL: "https://example.com"}); err != nil {
			t.Fatalf("Create(): %v", err)
		}
	}

	matches, err := svc.Filter(ctx, QueryFilter{Type: "Article"}) // cleaned to lower
	if err != nil {
		t.Fatalf("Filter(): %v", err)
	}
	assert.Len(t, matches, 2)
}
