package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/forgelabs/anvil/core"
	"github.com/forgelabs/anvil/core/problem"
	"github.com/forgelabs/anvil/core/user"
	inmemdb "github.com/forgelabs/anvil/storage/database/inmem"
)

func createProblem(t *testing.T, title, difficulty, category, status string, tags []string, createdAt time.Time) problem.Problem {
	t.Helper()

	repo := inmemdb.NewProblemRepository(db)
	prob, err := repo.CreateProblem(context.Background(), problem.Problem{
		Title:       title,
		Slug:        core.Slugify(title),
		Description: "about " + title,
		Difficulty:  difficulty,
		Category:    category,
		Tags:        tags,
		Status:      status,
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   createdAt.UTC(),
	})
	if err != nil {
		t.Fatalf("CreateProblem(): %v", err)
	}
	return prob
}

func Test_problemApi_problemCrud(t *testing.T) {
	resetDB(t)

	student := createUser(t, "Hero", "hero01", "hero@test.cd", "", []string{user.RoleStudent}, true)
	admin := createUser(t, "Admin", "admin01", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	studentToken := getToken(t, student)
	adminToken := getToken(t, admin)

	newProb := problem.NewProblem{
		Title:       "Two Sum",
		Description: "Find two numbers adding up to a target.",
		Difficulty:  problem.DifficultyEasy,
		Category:    "arrays",
		Tags:        []string{"arrays", "hashmap"},
	}
	var created problem.Problem

	t.Run("Auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/problems", marchallObj(t, newProb))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("Admin required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/problems", studentToken, marchallObj(t, newProb))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("Required fields", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/problems", adminToken, marchallObj(t, problem.NewProblem{}))
		app.ServeHTTP(rec, req)
		reqMsg := "this field is required"
		want := map[string]string{
			"title":       reqMsg,
			"description": reqMsg,
			"difficulty":  reqMsg,
			"category":    reqMsg,
		}
		checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, want)}, rec)
	})

	t.Run("Invalid difficulty", func(t *testing.T) {
		bad := newProb
		bad.Difficulty = "insane"
		req, rec := newAuthRequest(http.MethodPost, "/v1/problems", adminToken, marchallObj(t, bad))
		app.ServeHTTP(rec, req)
		want := map[string]string{"difficulty": "must be one of: easy, medium, hard, expert"}
		checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, want)}, rec)
	})

	t.Run("Created as draft", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/problems", adminToken, marchallObj(t, newProb))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v; body %v", rec.Code, http.StatusCreated, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if created.ID == "" {
			t.Error("failed! empty ID")
		}
		if created.Slug != "two-sum" {
			t.Errorf("failed! slug = %v; want two-sum", created.Slug)
		}
		if created.Status != problem.StatusDraft {
			t.Errorf("failed! status = %v; want %v", created.Status, problem.StatusDraft)
		}
	})

	t.Run("Students can list", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/problems", studentToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, created)}, rec)
	})

	t.Run("Retrieve by slug", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/problems/slug/two-sum", studentToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, created)}, rec)
	})

	t.Run("Unknown slug", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/problems/slug/lol", studentToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})

	t.Run("Partial update keeps other fields", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{"difficulty": problem.DifficultyMedium})
		req, rec := newAuthRequest(http.MethodPut, "/v1/problems/"+created.ID, adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v; body %v", rec.Code, http.StatusOK, rec.Body.String())
		}
		var updated problem.Problem
		if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if updated.Difficulty != problem.DifficultyMedium {
			t.Errorf("failed! difficulty = %v; want %v", updated.Difficulty, problem.DifficultyMedium)
		}
		if updated.Title != created.Title {
			t.Errorf("failed! title = %v; want %v", updated.Title, created.Title)
		}
	})

	t.Run("Publish", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/problems/"+created.ID+"/publish", adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v; body %v", rec.Code, http.StatusOK, rec.Body.String())
		}
		var pub problem.Problem
		if err := json.Unmarshal(rec.Body.Bytes(), &pub); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if pub.Status != problem.StatusPublished {
			t.Errorf("failed! status = %v; want %v", pub.Status, problem.StatusPublished)
		}
	})

	t.Run("Publish twice", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/problems/"+created.ID+"/publish", adminToken)
		app.ServeHTTP(rec, req)
		want := map[string]string{"status": "problem is already published"}
		checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, want)}, rec)
	})

	t.Run("Archive", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/problems/"+created.ID+"/archive", adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v; body %v", rec.Code, http.StatusOK, rec.Body.String())
		}
	})

	t.Run("Destroy", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/problems/"+created.ID, adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusNoContent)
		}
		req, rec = newAuthRequest(http.MethodGet, "/v1/problems/"+created.ID, adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})
}

func Test_problemApi_problemQuery(t *testing.T) {
	resetDB(t)

	student := createUser(t, "Hero", "hero01", "hero@test.cd", "", []string{user.RoleStudent}, true)
	token := getToken(t, student)

	path := func(params map[string]string) string {
		v := make(url.Values)
		for k, val := range params {
			v.Add(k, val)
		}
		return "/v1/problems?" + v.Encode()
	}

	now := time.Now()
	twoSum := createProblem(t, "Two Sum", problem.DifficultyEasy, "arrays", problem.StatusPublished, []string{"arrays", "hashmap"}, now.Add(1*time.Hour))
	lru := createProblem(t, "LRU Cache", problem.DifficultyHard, "design", problem.StatusPublished, []string{"design", "hashmap"}, now.Add(2*time.Hour))
	graph := createProblem(t, "Clone Graph", problem.DifficultyMedium, "graphs", problem.StatusDraft, []string{"graphs"}, now.Add(3*time.Hour))

	empty := marchallList(t, []interface{}{}...)

	tests := []httpTest{
		{name: "Get all", path: "/v1/problems", wantData: marchallList(t, twoSum, lru, graph)},
		{name: "search (unknown)", path: path(map[string]string{"search": "lol"}), wantData: empty},
		{name: "search=cache", path: path(map[string]string{"search": "cache"}), wantData: marchallList(t, lru)},
		{name: "difficulty=easy", path: path(map[string]string{"difficulty": "easy"}), wantData: marchallList(t, twoSum)},
		{name: "category=graphs", path: path(map[string]string{"category": "graphs"}), wantData: marchallList(t, graph)},
		{name: "tag=hashmap", path: path(map[string]string{"tag": "hashmap"}), wantData: marchallList(t, twoSum, lru)},
		{name: "status=draft", path: path(map[string]string{"status": "draft"}), wantData: marchallList(t, graph)},
		{
			name: "combo", path: path(map[string]string{"tag": "hashmap", "status": "published", "difficulty": "hard"}),
			wantData: marchallList(t, lru),
		},
		{
			name: "order by -created_at", path: path(map[string]string{"ordering": "-created_at"}),
			wantData: marchallList(t, graph, lru, twoSum),
		},
		{
			name: "order by title", path: path(map[string]string{"ordering": "title"}),
			wantData: marchallList(t, graph, lru, twoSum),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
