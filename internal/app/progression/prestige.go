package progression

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ascend-app/ascend/internal/domain"
	"github.com/ascend-app/ascend/internal/infra/metrics"
)

// CanPrestige reports whether the overall level has hit the cap.
func CanPrestige(rec *domain.UserRecord) bool {
	return rec.Overall.Level >= MaxLevel
}

// Prestige resets the overall level to 1 in exchange for a permanent XP
// multiplier (+3% per prestige). Category XP and levels are preserved: the
// reset works by advancing the prestige XP offset, not by touching category
// state. Below level 100 it is a no-op returning false.
func (s *Service) Prestige(ctx context.Context, userID string) (bool, error) {
	return s.PrestigeAt(ctx, userID, time.Now())
}

// PrestigeAt is Prestige with an explicit clock.
func (s *Service) PrestigeAt(ctx context.Context, userID string, now time.Time) (bool, error) {
	var ok bool
	var notif domain.Notification

	err := s.store.MutateUser(ctx, userID, func(rec *domain.UserRecord) error {
		rec.Overall = ResolveOverall(rec.Categories, rec.Overall)
		if !CanPrestige(rec) {
			return nil
		}

		all := domain.AllCategories()
		var total int64
		for _, c := range all {
			total += rec.Categories[c].XP
		}
		avg := int64(math.Floor(float64(total) / float64(len(all))))

		rec.Overall.Prestige++
		rec.Overall.PrestigeXP = avg
		rec.Overall = ResolveOverall(rec.Categories, rec.Overall)

		ok = true
		notif = domain.Notification{
			UserID:    rec.ID,
			Type:      domain.NotifyPrestige,
			Title:     "Prestige!",
			Body:      fmt.Sprintf("Prestige %d reached. All XP now earns a permanent +%d%% bonus.", rec.Overall.Prestige, rec.Overall.Prestige*3),
			CreatedAt: now,
		}
		return nil
	})
	if err != nil || !ok {
		return false, err
	}

	metrics.Prestiges.Inc()
	s.send(ctx, []domain.Notification{notif})
	return true, nil
}
