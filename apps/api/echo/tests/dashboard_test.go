package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/forgelabs/anvil/core/dashboard"
	"github.com/forgelabs/anvil/core/problem"
	"github.com/forgelabs/anvil/core/resource"
	"github.com/forgelabs/anvil/core/user"
	inmemdb "github.com/forgelabs/anvil/storage/database/inmem"
)

func Test_dashboardApi_stats(t *testing.T) {
	resetDB(t)

	student := createUser(t, "Hero", "hero01", "hero@test.cd", "", []string{user.RoleStudent}, true)
	admin := createUser(t, "Admin", "admin01", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	createUser(t, "N Dog", "ndog01", "ndog@test.cd", "", []string{user.RoleStudent}, false) // 😂

	now := time.Now()
	createProblem(t, "Two Sum", problem.DifficultyEasy, "arrays", problem.StatusPublished, nil, now.Add(1*time.Hour))
	createProblem(t, "LRU Cache", problem.DifficultyHard, "design", problem.StatusDraft, nil, now.Add(2*time.Hour))

	resRepo := inmemdb.NewResourceRepository(db)
	if _, err := resRepo.CreateResource(context.Background(), resource.Resource{
		Title: "Go Tour", Type: resource.TypeCourse, Status: resource.StatusPublished,
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("CreateResource(): %v", err)
	}

	t.Run("Auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/dashboard")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("Admin required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/dashboard", getToken(t, student))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("Aggregates", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/dashboard", getToken(t, admin))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %v", rec.Code, rec.Body.String())
		}
		var stats dashboard.Stats
		if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}

		if stats.Users.Total != 3 {
			t.Errorf("failed! users.total = %d; want 3", stats.Users.Total)
		}
		if stats.Users.Active != 2 {
			t.Errorf("failed! users.active = %d; want 2", stats.Users.Active)
		}
		if stats.Problems.Total != 2 {
			t.Errorf("failed! problems.total = %d; want 2", stats.Problems.Total)
		}
		if stats.Problems.ByDifficulty["easy"] != 1 || stats.Problems.ByDifficulty["hard"] != 1 {
			t.Errorf("failed! problems.by_difficulty = %+v", stats.Problems.ByDifficulty)
		}
		if stats.Problems.ByStatus["published"] != 1 || stats.Problems.ByStatus["draft"] != 1 {
			t.Errorf("failed! problems.by_status = %+v", stats.Problems.ByStatus)
		}
		if stats.Resources.Total != 1 {
			t.Errorf("failed! resources.total = %d; want 1", stats.Resources.Total)
		}
		if len(stats.LatestProblems) != 2 {
			t.Errorf("failed! len(latest_problems) = %d; want 2", len(stats.LatestProblems))
		}
	})
}
