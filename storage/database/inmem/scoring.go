package inmemdb

import (
	"context"

	"github.com/forgelabs/anvil/core/scoring"
)

type scoringRepository struct {
	db *DB
}

var _ scoring.Repository = (*scoringRepository)(nil)

func NewScoringRepository(db *DB) scoring.Repository {
	return &scoringRepository{db: db}
}

// GetProfile returns a zeroed profile for a known user without one yet;
// unknown users get ErrNotFound.
func (repo *scoringRepository) GetProfile(_ context.Context, userID string) (scoring.Profile, error) {
	repo.db.scoring.mutex.RLock()
	defer repo.db.scoring.mutex.RUnlock()

	if profile, ok := repo.db.scoring.table[userID]; ok {
		return *profile, nil
	}

	repo.db.user.mutex.RLock()
	_, exists := repo.db.user.table[userID]
	repo.db.user.mutex.RUnlock()
	if !exists {
		return scoring.Profile{}, scoring.ErrNotFound
	}
	return scoring.Profile{UserID: userID}, nil
}

func (repo *scoringRepository) SaveProfile(_ context.Context, profile scoring.Profile) error {
	repo.db.scoring.mutex.Lock()
	defer repo.db.scoring.mutex.Unlock()

	repo.db.scoring.table[profile.UserID] = &profile
	return nil
}
