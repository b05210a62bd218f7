package response

import (
	"time"

	"court-booking/internal/data/entity"
)

type ChatMessageResponse struct {
	ID        string    `json:"id"`
	MatchID   string    `json:"match_id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Helper converters
func ChatMessageToResponse(message *entity.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:        message.ID.String(),
		MatchID:   message.MatchID.String(),
		UserID:    message.UserID.String(),
		Message:   message.Message,
		CreatedAt: message.CreatedAt,
	}
}
