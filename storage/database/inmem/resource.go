package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/forgelabs/anvil/core/resource"
)

type resourceRepository struct {
	db *resourceTable
}

var _ resource.Repository = (*resourceRepository)(nil)

func NewResourceRepository(db *DB) resource.Repository {
	return &resourceRepository{db: db.resource}
}

func (repo *resourceRepository) query() []resource.Resource {
	resources := make([]resource.Resource, 0, len(repo.db.table))
	for _, r := range repo.db.table {
		resources = append(resources, *r)
	}
	sort.Slice(resources, func(i, j int) bool { return resources[i].CreatedAt.After(resources[j].CreatedAt) })
	return resources
}

func (repo *resourceRepository) CreateResource(_ context.Context, res resource.Resource) (resource.Resource, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	repo.db.table[res.ID] = &res
	return res, nil
}

func (repo *resourceRepository) QueryAllResources(_ context.Context) ([]resource.Resource, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *resourceRepository) GetResourceByID(_ context.Context, id string) (resource.Resource, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if res, ok := repo.db.table[id]; ok {
		return *res, nil
	}
	return resource.Resource{}, resource.ErrNotFound
}

func (repo *resourceRepository) FilterResources(_ context.Context, filter resource.QueryFilter) ([]resource.Resource, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	matches := make([]resource.Resource, 0)
	search := strings.ToLower(filter.Search)
	for _, res := range repo.query() {
		if search != "" &&
			!strings.Contains(strings.ToLower(res.Title), search) &&
			!strings.Contains(strings.ToLower(res.Description), search) {
			continue
		}
		if filter.Type != "" && res.Type != filter.Type {
			continue
		}
		if filter.Difficulty != "" && res.Difficulty != filter.Difficulty {
			continue
		}
		if filter.Tag != "" && !containsString(res.Tags, filter.Tag) {
			continue
		}
		if filter.Status != "" && res.Status != filter.Status {
			continue
		}
		matches = append(matches, res)
	}
	return matches, nil
}

func (repo *resourceRepository) UpdateResource(_ context.Context, res resource.Resource) (resource.Resource, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[res.ID]; !ok {
		return resource.Resource{}, resource.ErrNotFound
	}
	repo.db.table[res.ID] = &res
	return res, nil
}

func (repo *resourceRepository) DeleteResourcesByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
