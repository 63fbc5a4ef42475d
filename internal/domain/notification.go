package domain

import "time"

// NotificationType categorizes user-facing messages from the award path.
type NotificationType string

const (
	NotifyXPAwarded     NotificationType = "xp_awarded"
	NotifyLevelUp       NotificationType = "level_up"
	NotifyCapApproached NotificationType = "cap_approached"
	NotifyCapReached    NotificationType = "cap_reached"
	NotifyPrestige      NotificationType = "prestige"
)

// Notification is a fire-and-forget message for the presentation layer.
// Losing one never fails an award.
type Notification struct {
	ID        int64            `json:"id"`
	UserID    string           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	CreatedAt time.Time        `json:"created_at"`
	Shown     bool             `json:"shown"`
}
