package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	echoapi "github.com/forgelabs/anvil/apps/api/echo"
	"github.com/forgelabs/anvil/core/notification"
	"github.com/forgelabs/anvil/core/user"
)

func Test_notificationApi_broadcast(t *testing.T) {
	resetDB(t)

	student := createUser(t, "Hero", "hero01", "hero@test.cd", "", []string{user.RoleStudent}, true)
	mentor := createUser(t, "Mentor", "mentor01", "mentor@test.cd", "", []string{user.RoleMentor}, true)
	admin := createUser(t, "Admin", "admin01", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	createUser(t, "N Dog", "ndog01", "ndog@test.cd", "", []string{user.RoleStudent}, false) // 😂
	adminToken := getToken(t, admin)

	broadcast := notification.NewBroadcast{
		Type:  notification.TypeAnnouncement,
		Title: "Welcome",
		Body:  "The new cohort starts Monday.",
	}

	tests := []httpTest{
		{name: "Auth required", body: marchallObj(t, broadcast), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", body: marchallObj(t, broadcast), token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "required fields", body: marchallObj(t, notification.NewBroadcast{}), token: adminToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"type": "this field is required", "title": "this field is required", "body": "this field is required"}),
		},
		{
			name: "invalid type", token: adminToken, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, notification.NewBroadcast{Type: "lol", Title: "T", Body: "B"}),
			wantData: marchallObj(t, map[string]string{"type": "must be one of: announcement, problem, resource, system"}),
		},
		{
			name: "all active users", body: marchallObj(t, broadcast), token: adminToken,
			wantCode: http.StatusCreated, wantData: marchallObj(t, echoapi.BroadcastResponse{Recipients: 3}),
		},
		{
			name: "mentors only", token: adminToken, wantCode: http.StatusCreated,
			body: marchallObj(t, notification.NewBroadcast{
				Type: notification.TypeSystem, Title: "Mentors", Body: "Weekly sync moved.",
				Roles: []string{user.RoleMentor},
			}),
			wantData: marchallObj(t, echoapi.BroadcastResponse{Recipients: 1}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/notifications/broadcast"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("students got the announcement only", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/notifications", getToken(t, student))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var notifs []notification.Notification
		if err := json.Unmarshal(rec.Body.Bytes(), &notifs); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if len(notifs) != 1 {
			t.Fatalf("failed! len(notifs) = %d; want 1", len(notifs))
		}
		if notifs[0].Title != "Welcome" {
			t.Errorf("failed! title = %v; want Welcome", notifs[0].Title)
		}
		if notifs[0].Read {
			t.Error("failed! new notification already read")
		}
	})

	t.Run("mentors got both", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/notifications", getToken(t, mentor))
		app.ServeHTTP(rec, req)
		var notifs []notification.Notification
		if err := json.Unmarshal(rec.Body.Bytes(), &notifs); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if len(notifs) != 2 {
			t.Fatalf("failed! len(notifs) = %d; want 2", len(notifs))
		}
	})
}

func Test_notificationApi_readTracking(t *testing.T) {
	resetDB(t)

	student := createUser(t, "Hero", "hero01", "hero@test.cd", "", []string{user.RoleStudent}, true)
	admin := createUser(t, "Admin", "admin01", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	studentToken := getToken(t, student)
	adminToken := getToken(t, admin)

	for _, title := range []string{"One", "Two", "Three"} {
		body := marchallObj(t, notification.NewBroadcast{Type: notification.TypeSystem, Title: title, Body: "b"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/notifications/broadcast", adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("broadcast failed! code = %v; body %v", rec.Code, rec.Body.String())
		}
	}

	unreadCount := func(t *testing.T, token string) int {
		req, rec := newAuthRequest(http.MethodGet, "/v1/notifications/unread-count", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("unread-count failed! code = %v", rec.Code)
		}
		var resp echoapi.UnreadCountResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		return resp.Unread
	}

	listOwn := func(t *testing.T, token string) []notification.Notification {
		req, rec := newAuthRequest(http.MethodGet, "/v1/notifications", token)
		app.ServeHTTP(rec, req)
		var notifs []notification.Notification
		if err := json.Unmarshal(rec.Body.Bytes(), &notifs); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		return notifs
	}

	if got := unreadCount(t, studentToken); got != 3 {
		t.Fatalf("failed! unread = %d; want 3", got)
	}

	notifs := listOwn(t, studentToken)
	if len(notifs) != 3 {
		t.Fatalf("failed! len(notifs) = %d; want 3", len(notifs))
	}

	t.Run("mark one read", func(t *testing.T) {
		body := marchallObj(t, echoapi.MarkReadRequest{IDs: []string{notifs[0].ID}})
		req, rec := newAuthRequest(http.MethodPost, "/v1/notifications/mark-read", studentToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusNoContent)
		}
		if got := unreadCount(t, studentToken); got != 2 {
			t.Errorf("failed! unread = %d; want 2", got)
		}
	})

	t.Run("foreign notifications are left alone", func(t *testing.T) {
		// admin marking the student's notification is a no-op
		body := marchallObj(t, echoapi.MarkReadRequest{IDs: []string{notifs[1].ID}})
		req, rec := newAuthRequest(http.MethodPost, "/v1/notifications/mark-read", adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusNoContent)
		}
		if got := unreadCount(t, studentToken); got != 2 {
			t.Errorf("failed! unread = %d; want 2", got)
		}
	})

	t.Run("mark all read", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/notifications/mark-all-read", studentToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusNoContent)
		}
		if got := unreadCount(t, studentToken); got != 0 {
			t.Errorf("failed! unread = %d; want 0", got)
		}
	})

	t.Run("delete own", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/notifications?id="+notifs[0].ID, studentToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusNoContent)
		}
		if got := len(listOwn(t, studentToken)); got != 2 {
			t.Errorf("failed! len(notifs) = %d; want 2", got)
		}
	})
}
