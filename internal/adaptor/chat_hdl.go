package adaptor

import (
	"encoding/json"
	"net/http"

	"court-booking/internal/dto/request"
	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ChatHandler struct {
	service usecase.ChatService
	log     *zap.Logger
}

func NewChatHandler(service usecase.ChatService, log *zap.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With(zap.String("handler", "chat")),
	}
}

// Send handles POST /api/matches/{id}/chat (protected, participants)
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	message, err := h.service.Send(r.Context(), userID.String(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "send chat message")
		return
	}

	utils.ResponseCreated(w, "success", message)
}

// GetForMatch handles GET /api/matches/{id}/chat (protected, participants)
func (h *ChatHandler) GetForMatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 50),
	}

	messages, err := h.service.GetForMatch(r.Context(), userID.String(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get chat messages")
		return
	}

	utils.ResponseSuccess(w, "success", messages)
}
