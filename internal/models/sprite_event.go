package models

import "time"

// Sprite event types.
const (
	EventSpriteFetched  = "SPRITE_FETCHED"
	EventSpriteCreated  = "SPRITE_CREATED"
	EventSpriteUpdated  = "SPRITE_UPDATED"
	EventSpriteDeleted  = "SPRITE_DELETED"
	EventSpritesCleared = "SPRITES_CLEARED"
)

// SpriteEvent is a single entry in the sprite history.
type SpriteEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}

// IsEventType reports whether s names a known sprite event type.
func IsEventType(s string) bool {
	switch s {
	case EventSpriteFetched, EventSpriteCreated, EventSpriteUpdated, EventSpriteDeleted, EventSpritesCleared:
		return true
	}
	return false
}
