package request

type CreateMatchRequest struct {
	CourtID       string `json:"court_id" validate:"required,uuid4"`
	CategoryID    string `json:"category_id" validate:"required,uuid4"`
	StartTime     string `json:"start_time" validate:"required"`
	EndTime       string `json:"end_time" validate:"required"`
	PlayersNeeded int    `json:"players_needed" validate:"required,min=1,max=21"`
}

type UpdateMatchRequest struct {
	CategoryID    *string `json:"category_id,omitempty" validate:"omitempty,uuid4"`
	StartTime     *string `json:"start_time,omitempty"`
	EndTime       *string `json:"end_time,omitempty"`
	PlayersNeeded *int    `json:"players_needed,omitempty" validate:"omitempty,min=1,max=21"`
}

type RemoveParticipantRequest struct {
	UserID string `json:"user_id" validate:"required,uuid4"`
}
