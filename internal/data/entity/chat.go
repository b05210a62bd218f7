package entity

import "github.com/google/uuid"

// ChatMessage belongs to a match's pre-game chat. Only participants may post.
type ChatMessage struct {
	BaseSimple
	MatchID uuid.UUID `db:"match_id"`
	UserID  uuid.UUID `db:"user_id"`
	Message string    `db:"message"`
}
