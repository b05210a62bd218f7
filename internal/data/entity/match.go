package entity

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchStatusOpen      MatchStatus = "open"
	MatchStatusFull      MatchStatus = "full"
	MatchStatusCancelled MatchStatus = "cancelled"
	MatchStatusCompleted MatchStatus = "completed"
)

// OpenMatch is a pickup match looking for players. PlayersNeeded counts the
// additional players beyond the creator, so capacity is PlayersNeeded+1.
type OpenMatch struct {
	BaseSimple
	CourtID       uuid.UUID   `db:"court_id"`
	CreatorID     uuid.UUID   `db:"creator_id"`
	CategoryID    uuid.UUID   `db:"category_id"`
	StartTime     time.Time   `db:"start_time"`
	EndTime       time.Time   `db:"end_time"`
	PlayersNeeded int         `db:"players_needed"`
	Status        MatchStatus `db:"status"`
}

// Capacity is the total participant limit, creator included.
func (m *OpenMatch) Capacity() int {
	return m.PlayersNeeded + 1
}

// MatchParticipant is one user joined to a match. The (match, user) pair is
// unique; the creator is always a participant from creation.
type MatchParticipant struct {
	MatchID  uuid.UUID `db:"match_id"`
	UserID   uuid.UUID `db:"user_id"`
	JoinedAt time.Time `db:"joined_at"`
}

type MatchCategory struct {
	BaseSimple
	Name string `db:"name"`
}
