package pgrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/forgelabs/anvil/core/scoring"
)

// scoringRepository stores each user's whole scoring profile as one JSONB
// document so a solve event's mutations land in a single row write.
type scoringRepository struct {
	db *sqlx.DB
}

var _ scoring.Repository = (*scoringRepository)(nil)

func NewScoringRepository(db *sqlx.DB) scoring.Repository {
	return &scoringRepository{db: db}
}

func (repo *scoringRepository) GetProfile(ctx context.Context, userID string) (scoring.Profile, error) {
	var doc []byte
	q := `SELECT profile FROM user_scoring WHERE user_id = $1`
	if err := repo.db.GetContext(ctx, &doc, q, userID); err != nil {
		if err == sql.ErrNoRows {
			// a registered user may not have a profile row yet
			return repo.initProfile(ctx, userID)
		}
		return scoring.Profile{}, errors.Wrap(err, "getting scoring profile")
	}

	var profile scoring.Profile
	if err := json.Unmarshal(doc, &profile); err != nil {
		return scoring.Profile{}, errors.Wrap(err, "decoding scoring profile")
	}
	profile.UserID = userID
	return profile, nil
}

// initProfile returns a zeroed profile for an existing user, or
// scoring.ErrNotFound when the user does not exist at all.
func (repo *scoringRepository) initProfile(ctx context.Context, userID string) (scoring.Profile, error) {
	var exists bool
	q := `SELECT EXISTS(SELECT 1 FROM "user" WHERE id = $1)`
	if err := repo.db.GetContext(ctx, &exists, q, userID); err != nil {
		return scoring.Profile{}, errors.Wrap(err, "checking user")
	}
	if !exists {
		return scoring.Profile{}, scoring.ErrNotFound
	}
	return scoring.Profile{UserID: userID}, nil
}

func (repo *scoringRepository) SaveProfile(ctx context.Context, profile scoring.Profile) error {
	doc, err := json.Marshal(profile)
	if err != nil {
		return errors.Wrap(err, "encoding scoring profile")
	}
	q := `INSERT INTO user_scoring (user_id, profile, updated_at)
	      VALUES ($1, $2, $3)
	      ON CONFLICT (user_id) DO UPDATE SET profile = EXCLUDED.profile, updated_at = EXCLUDED.updated_at`
	if _, err := repo.db.ExecContext(ctx, q, profile.UserID, doc, time.Now().UTC()); err != nil {
		return errors.Wrap(err, "saving scoring profile")
	}
	return nil
}
