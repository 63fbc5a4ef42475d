package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ascend-app/ascend/internal/app/progression"
	"github.com/ascend-app/ascend/internal/domain"
)

// ─── Requests ───────────────────────────────────────────────────────────────

type addXPRequest struct {
	Gains      map[string]int64 `json:"gains"`
	TaskType   string           `json:"task_type"`
	ActivityID string           `json:"activity_id"`
	TaskName   string           `json:"task_name"`
}

// ─── Handlers ───────────────────────────────────────────────────────────────

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	rec, err := s.db.EnsureUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	rec, err := s.svc.Progress(r.Context(), userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	// Full category view: absent categories surface with their defaults.
	categories := make(map[domain.Category]categoryView, len(domain.AllCategories()))
	for _, c := range domain.AllCategories() {
		cp := rec.Category(c)
		categories[c] = categoryView{
			Level:    cp.Level,
			XP:       cp.XP,
			Progress: progression.ProgressWithinLevel(cp.XP, cp.Level),
		}
	}

	writeJSON(w, http.StatusOK, progressResponse{
		UserID:     rec.ID,
		Categories: categories,
		Overall:    rec.Overall,
		TodayXP:    rec.Stats.TodayXP,
		DailyLimit: s.svc.Limits().DailyXPLimit,
	})
}

type categoryView struct {
	Level    int     `json:"level"`
	XP       int64   `json:"xp"`
	Progress float64 `json:"progress"`
}

type progressResponse struct {
	UserID     string                           `json:"user_id"`
	Categories map[domain.Category]categoryView `json:"categories"`
	Overall    domain.OverallProgress           `json:"overall"`
	TodayXP    int64                            `json:"today_xp"`
	DailyLimit int64                            `json:"daily_limit"`
}

func (s *Server) handleAddXP(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req addXPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.svc.AddXP(r.Context(), userID, req.Gains, domain.TaskType(req.TaskType), req.ActivityID, req.TaskName)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePrestige(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	ok, err := s.svc.Prestige(r.Context(), userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"prestiged": ok})
}

func (s *Server) handleGetStreak(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	kind := domain.ActivityKind(chi.URLParam(r, "kind"))
	activityID := chi.URLParam(r, "activityID")

	streak, err := s.svc.Streak(r.Context(), userID, kind, activityID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	resp := map[string]any{"streak": streak}
	if kind == domain.ActivityHabit {
		rec, err := s.svc.Progress(r.Context(), userID)
		if err == nil {
			resp["formation"] = progression.HabitFormation(rec.StreakFor(kind, activityID), time.Now())
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecordCompletion(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	kind := domain.ActivityKind(chi.URLParam(r, "kind"))
	activityID := chi.URLParam(r, "activityID")

	streak, err := s.svc.RecordCompletion(r.Context(), userID, kind, activityID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"streak": streak})
}

func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			limit = n
		}
	}

	snaps, err := s.db.ListSnapshots(r.Context(), userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if snaps == nil {
		snaps = []domain.Snapshot{}
	}
	writeJSON(w, http.StatusOK, snaps)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	notifs, err := s.db.ListPendingNotifications(r.Context(), userID, 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if notifs == nil {
		notifs = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, notifs)
}

func (s *Server) handleNotificationShown(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "notifID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := s.db.MarkNotificationShown(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
