package response

import (
	"time"

	"court-booking/internal/data/entity"
)

type MatchResponse struct {
	ID            string                `json:"id"`
	CourtID       string                `json:"court_id"`
	CourtName     string                `json:"court_name,omitempty"`
	CreatorID     string                `json:"creator_id"`
	CategoryID    string                `json:"category_id"`
	CategoryName  string                `json:"category_name,omitempty"`
	StartTime     time.Time             `json:"start_time"`
	EndTime       time.Time             `json:"end_time"`
	PlayersNeeded int                   `json:"players_needed"`
	Capacity      int                   `json:"capacity"`
	PlayersJoined int                   `json:"players_joined"`
	Status        entity.MatchStatus    `json:"status"`
	Participants  []ParticipantResponse `json:"participants,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

type ParticipantResponse struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}

type MatchCategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Helper converters
func MatchToResponse(match *entity.OpenMatch, playersJoined int) MatchResponse {
	return MatchResponse{
		ID:            match.ID.String(),
		CourtID:       match.CourtID.String(),
		CreatorID:     match.CreatorID.String(),
		CategoryID:    match.CategoryID.String(),
		StartTime:     match.StartTime,
		EndTime:       match.EndTime,
		PlayersNeeded: match.PlayersNeeded,
		Capacity:      match.Capacity(),
		PlayersJoined: playersJoined,
		Status:        match.Status,
		CreatedAt:     match.CreatedAt,
	}
}

func ParticipantToResponse(p *entity.MatchParticipant) ParticipantResponse {
	return ParticipantResponse{
		UserID:   p.UserID.String(),
		JoinedAt: p.JoinedAt,
	}
}

func MatchCategoryToResponse(category *entity.MatchCategory) MatchCategoryResponse {
	return MatchCategoryResponse{
		ID:   category.ID.String(),
		Name: category.Name,
	}
}
