package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/forgelabs/anvil/core/scoring"
	"github.com/forgelabs/anvil/core/user"
)

func Test_scoringApi_recordSolve(t *testing.T) {
	resetDB(t)

	student := createUser(t, "Hero", "hero01", "hero@test.cd", "", []string{user.RoleStudent}, true)
	admin := createUser(t, "Admin", "admin01", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	adminToken := getToken(t, admin)

	event := scoring.SolveEvent{
		UserID:     student.ID,
		ProblemID:  "prob-1",
		AnalysisID: "an-1",
		Score:      100,
		Difficulty: scoring.DifficultyMedium,
		Category:   "arrays",
		Tags:       []string{"arrays"},
		SolvedAt:   time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
	}

	tests := []httpTest{
		{name: "Auth required", body: marchallObj(t, event), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", body: marchallObj(t, event), token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "required fields", body: marchallObj(t, scoring.SolveEvent{}), token: adminToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"user_id":    "this field is required",
				"problem_id": "this field is required",
				"difficulty": "this field is required",
				"category":   "this field is required",
			}),
		},
		{
			name: "full-score medium solve", body: marchallObj(t, event), token: adminToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, scoring.SolveResult{Points: 20}),
		},
		{
			name: "unknown user is a no-op", token: adminToken, wantCode: http.StatusOK,
			body: marchallObj(t, scoring.SolveEvent{
				UserID: "ghost", ProblemID: "prob-1", Score: 100,
				Difficulty: scoring.DifficultyMedium, Category: "arrays",
			}),
			wantData: marchallObj(t, scoring.SolveResult{}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/scoring"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("profile reflects the solve", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/scoring/"+student.ID+"/dashboard", getToken(t, student))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %v", rec.Code, rec.Body.String())
		}
		var view scoring.DashboardView
		if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if view.Stats.TotalPoints != 20 {
			t.Errorf("failed! totalPoints = %d; want 20", view.Stats.TotalPoints)
		}
		if view.Stats.ProblemsSolved != 1 {
			t.Errorf("failed! problemsSolved = %d; want 1", view.Stats.ProblemsSolved)
		}
		if len(view.DailyStats) != 1 || view.DailyStats[0].Date != "2026-03-02" {
			t.Errorf("failed! dailyStats = %+v; want one entry for 2026-03-02", view.DailyStats)
		}
	})
}

func Test_scoringApi_permissions(t *testing.T) {
	resetDB(t)

	student := createUser(t, "Hero", "hero01", "hero@test.cd", "", []string{user.RoleStudent}, true)
	other := createUser(t, "Other", "other01", "other@test.cd", "", []string{user.RoleStudent}, true)
	admin := createUser(t, "Admin", "admin01", "admin@test.cd", "", []string{user.RoleAdmin}, true)

	tests := []httpTest{
		{
			name: "Owner can view", path: "/v1/scoring/" + student.ID + "/skills",
			token: getToken(t, student), wantCode: http.StatusOK,
		},
		{
			name: "Admin can view", path: "/v1/scoring/" + student.ID + "/skills",
			token: getToken(t, admin), wantCode: http.StatusOK,
		},
		{
			name: "Others cannot view", path: "/v1/scoring/" + student.ID + "/skills",
			token: getToken(t, other), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "Unknown user", path: "/v1/scoring/ghost/skills",
			token: getToken(t, admin), wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v; body %v", rec.Code, tt.wantCode, rec.Body.String())
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_scoringApi_goalAndViews(t *testing.T) {
	resetDB(t)

	student := createUser(t, "Hero", "hero01", "hero@test.cd", "", []string{user.RoleStudent}, true)
	admin := createUser(t, "Admin", "admin01", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	studentToken := getToken(t, student)
	adminToken := getToken(t, admin)

	// two solves across different bands and categories
	solves := []scoring.SolveEvent{
		{
			UserID: student.ID, ProblemID: "p1", Score: 90, Difficulty: scoring.DifficultyEasy,
			Category: "arrays", Tags: []string{"arrays"}, SolvedAt: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		},
		{
			UserID: student.ID, ProblemID: "p2", Score: 80, Difficulty: scoring.DifficultyHard,
			Category: "react", Tags: []string{"react"}, SolvedAt: time.Date(2026, 3, 3, 20, 0, 0, 0, time.UTC),
		},
	}
	for _, ev := range solves {
		req, rec := newAuthRequest(http.MethodPost, "/v1/scoring", adminToken, marchallObj(t, ev))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("solve ingest failed! code = %v; body %v", rec.Code, rec.Body.String())
		}
	}

	t.Run("set active goal", func(t *testing.T) {
		goal := scoring.Goal{Role: "frontend-developer", Title: "Frontend Developer"}
		req, rec := newAuthRequest(http.MethodPost, "/v1/scoring/"+student.ID+"/goal", studentToken, marchallObj(t, goal))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %v", rec.Code, rec.Body.String())
		}
		var profile scoring.Profile
		if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if profile.ActiveGoal == nil || profile.ActiveGoal.Role != "frontend-developer" {
			t.Errorf("failed! activeGoal = %+v", profile.ActiveGoal)
		}
	})

	t.Run("learning patterns", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/scoring/"+student.ID+"/patterns", studentToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %v", rec.Code, rec.Body.String())
		}
		var patterns scoring.LearningPatterns
		if err := json.Unmarshal(rec.Body.Bytes(), &patterns); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if patterns.ByTimeOfDay["morning"] != 90 || patterns.ByTimeOfDay["evening"] != 80 {
			t.Errorf("failed! byTimeOfDay = %+v", patterns.ByTimeOfDay)
		}
		if patterns.ByDifficulty["easy"] != 90 || patterns.ByDifficulty["hard"] != 80 {
			t.Errorf("failed! byDifficulty = %+v", patterns.ByDifficulty)
		}
	})

	t.Run("role match", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/scoring/"+student.ID+"/role-match?role=frontend-developer", studentToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %v", rec.Code, rec.Body.String())
		}
		var match scoring.RoleMatch
		if err := json.Unmarshal(rec.Body.Bytes(), &match); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if match.TargetRole != "frontend-developer" {
			t.Errorf("failed! targetRole = %v", match.TargetRole)
		}
	})

	t.Run("next up", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/scoring/"+student.ID+"/next-up", studentToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %v", rec.Code, rec.Body.String())
		}
		var rec2 scoring.Recommendation
		if err := json.Unmarshal(rec.Body.Bytes(), &rec2); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if rec2.Type == "" || rec2.Reason == "" {
			t.Errorf("failed! recommendation = %+v", rec2)
		}
	})

	t.Run("rebuild daily stats", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/scoring/"+student.ID+"/rebuild-daily-stats", studentToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %v", rec.Code, rec.Body.String())
		}
		var daily []scoring.DailyStat
		if err := json.Unmarshal(rec.Body.Bytes(), &daily); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if len(daily) != 2 {
			t.Errorf("failed! len(daily) = %d; want 2", len(daily))
		}
	})

	t.Run("insights", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/scoring/"+student.ID+"/insights", studentToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %v", rec.Code, rec.Body.String())
		}
		var view scoring.InsightsView
		if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if view.Stats.ProblemsSolved != 2 {
			t.Errorf("failed! problemsSolved = %d; want 2", view.Stats.ProblemsSolved)
		}
		if view.ActiveGoal == nil {
			t.Error("failed! missing activeGoal")
		}
	})
}
