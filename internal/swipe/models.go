package swipe

import (
	"time"

	"github.com/sokolgood/duga-backend/internal/location"
)

type Action string

const (
	ActionLike    Action = "like"
	ActionDislike Action = "dislike"
	ActionHide    Action = "hide"
)

// ParseAction reports whether s names a known swipe action.
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionLike, ActionDislike, ActionHide:
		return Action(s), true
	}
	return "", false
}

type Swipe struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	LocationID string    `json:"location_id"`
	Action     Action    `json:"action"`
	CreatedAt  time.Time `json:"created_at"`
}

type HistoryItem struct {
	Swipe
	Location location.Location `json:"location"`
}
