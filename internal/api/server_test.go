package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ascend-app/ascend/internal/app/progression"
	"github.com/ascend-app/ascend/internal/domain"
	"github.com/ascend-app/ascend/internal/infra/sqlite"
)

func newTestServer(t *testing.T) (*httptest.Server, *sqlite.DB) {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := progression.NewService(db, db, db, progression.DefaultLimits())
	srv := NewServer(svc, db)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, db
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	var body map[string]string
	if code := doJSON(t, "GET", ts.URL+"/health", nil, &body); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected health body: %v", body)
	}
}

func TestCreateUserAndProgress(t *testing.T) {
	ts, _ := newTestServer(t)

	if code := doJSON(t, "POST", ts.URL+"/api/users/alice/", nil, nil); code != http.StatusOK {
		t.Fatalf("create user: expected 200, got %d", code)
	}

	var resp struct {
		UserID     string `json:"user_id"`
		Categories map[string]struct {
			Level    int     `json:"level"`
			XP       int64   `json:"xp"`
			Progress float64 `json:"progress"`
		} `json:"categories"`
		DailyLimit int64 `json:"daily_limit"`
	}
	if code := doJSON(t, "GET", ts.URL+"/api/users/alice/progress", nil, &resp); code != http.StatusOK {
		t.Fatalf("progress: expected 200, got %d", code)
	}

	if resp.UserID != "alice" {
		t.Errorf("expected user alice, got %q", resp.UserID)
	}
	if len(resp.Categories) != 7 {
		t.Errorf("expected all 7 categories in view, got %d", len(resp.Categories))
	}
	if resp.Categories["physical"].Level != 1 {
		t.Errorf("fresh category should be level 1: %+v", resp.Categories["physical"])
	}
	if resp.DailyLimit != 2000 {
		t.Errorf("expected daily limit 2000, got %d", resp.DailyLimit)
	}
}

func TestProgressUnknownUser(t *testing.T) {
	ts, _ := newTestServer(t)

	if code := doJSON(t, "GET", ts.URL+"/api/users/ghost/progress", nil, nil); code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestAddXPEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	doJSON(t, "POST", ts.URL+"/api/users/alice/", nil, nil)

	var result domain.AwardResult
	code := doJSON(t, "POST", ts.URL+"/api/users/alice/xp", map[string]any{
		"gains":     map[string]int64{"physical": 50},
		"task_type": "normal",
	}, &result)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if result.TotalAwarded != 50 {
		t.Errorf("expected 50 XP, got %d", result.TotalAwarded)
	}
}

func TestAddXPValidation(t *testing.T) {
	ts, _ := newTestServer(t)
	doJSON(t, "POST", ts.URL+"/api/users/alice/", nil, nil)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"unknown category", map[string]any{"gains": map[string]int64{"luck": 10}, "task_type": "normal"}, http.StatusBadRequest},
		{"negative amount", map[string]any{"gains": map[string]int64{"physical": -5}, "task_type": "normal"}, http.StatusBadRequest},
		{"bad task type", map[string]any{"gains": map[string]int64{"physical": 10}, "task_type": "bogus"}, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if code := doJSON(t, "POST", ts.URL+"/api/users/alice/xp", tc.body, nil); code != tc.want {
				t.Errorf("expected %d, got %d", tc.want, code)
			}
		})
	}
}

func TestAddXPUnknownUser(t *testing.T) {
	ts, _ := newTestServer(t)

	code := doJSON(t, "POST", ts.URL+"/api/users/ghost/xp", map[string]any{
		"gains":     map[string]int64{"physical": 10},
		"task_type": "normal",
	}, nil)
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestStreakEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)
	doJSON(t, "POST", ts.URL+"/api/users/alice/", nil, nil)

	var rec map[string]int
	code := doJSON(t, "POST", ts.URL+"/api/users/alice/streaks/routine/workout/", nil, &rec)
	if code != http.StatusOK {
		t.Fatalf("record: expected 200, got %d", code)
	}
	if rec["streak"] != 1 {
		t.Errorf("expected streak 1, got %d", rec["streak"])
	}

	var got map[string]any
	if code := doJSON(t, "GET", ts.URL+"/api/users/alice/streaks/routine/workout/", nil, &got); code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", code)
	}
	if got["streak"].(float64) != 1 {
		t.Errorf("expected streak 1, got %v", got["streak"])
	}
}

func TestHabitStreakIncludesFormation(t *testing.T) {
	ts, _ := newTestServer(t)
	doJSON(t, "POST", ts.URL+"/api/users/alice/", nil, nil)
	doJSON(t, "POST", ts.URL+"/api/users/alice/streaks/habit/meditate/", nil, nil)

	var got map[string]any
	if code := doJSON(t, "GET", ts.URL+"/api/users/alice/streaks/habit/meditate/", nil, &got); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if _, ok := got["formation"]; !ok {
		t.Error("habit streak response should include formation progress")
	}
}

func TestPrestigeEndpoint(t *testing.T) {
	ts, db := newTestServer(t)
	doJSON(t, "POST", ts.URL+"/api/users/alice/", nil, nil)

	var resp map[string]bool
	if code := doJSON(t, "POST", ts.URL+"/api/users/alice/prestige", nil, &resp); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if resp["prestiged"] {
		t.Error("prestige below level 100 should report false")
	}

	err := db.MutateUser(context.Background(), "alice", func(rec *domain.UserRecord) error {
		for _, c := range domain.AllCategories() {
			rec.SetCategory(c, domain.CategoryProgress{Level: 100, XP: 99000})
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if code := doJSON(t, "POST", ts.URL+"/api/users/alice/prestige", nil, &resp); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if !resp["prestiged"] {
		t.Error("prestige at level 100 should succeed")
	}
}

func TestSnapshotAndNotificationEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)
	doJSON(t, "POST", ts.URL+"/api/users/alice/", nil, nil)
	doJSON(t, "POST", ts.URL+"/api/users/alice/xp", map[string]any{
		"gains":     map[string]int64{"physical": 50},
		"task_type": "normal",
	}, nil)

	var snaps []domain.Snapshot
	if code := doJSON(t, "GET", ts.URL+"/api/users/alice/snapshots", nil, &snaps); code != http.StatusOK {
		t.Fatalf("snapshots: expected 200, got %d", code)
	}
	if len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snaps))
	}

	var notifs []domain.Notification
	if code := doJSON(t, "GET", ts.URL+"/api/users/alice/notifications", nil, &notifs); code != http.StatusOK {
		t.Fatalf("notifications: expected 200, got %d", code)
	}
	if len(notifs) == 0 {
		t.Fatal("expected at least one notification")
	}

	url := fmt.Sprintf("%s/api/users/alice/notifications/%d/shown", ts.URL, notifs[0].ID)
	if code := doJSON(t, "POST", url, nil, nil); code != http.StatusOK {
		t.Fatalf("mark shown: expected %d, got %d", http.StatusOK, code)
	}
	markedID := notifs[0].ID
	if code := doJSON(t, "GET", ts.URL+"/api/users/alice/notifications", nil, &notifs); code != http.StatusOK {
		t.Fatalf("notifications after mark: expected 200, got %d", code)
	}
	for _, n := range notifs {
		if n.ID == markedID {
			t.Errorf("shown notification still listed as pending: %+v", n)
		}
	}
}

func TestMetricsGated(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("metrics should be disabled by default, got %d", resp.StatusCode)
	}
}
