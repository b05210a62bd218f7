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

type MatchHandler struct {
	service usecase.MatchService
	log     *zap.Logger
}

func NewMatchHandler(service usecase.MatchService, log *zap.Logger) *MatchHandler {
	return &MatchHandler{
		service: service,
		log:     log.With(zap.String("handler", "match")),
	}
}

// Create handles POST /api/matches (protected)
func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	match, err := h.service.Create(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create match")
		return
	}

	utils.ResponseCreated(w, "success", match)
}

// GetAllOpen handles GET /api/matches (public)
func (h *MatchHandler) GetAllOpen(w http.ResponseWriter, r *http.Request) {
	matches, err := h.service.GetAllOpen(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get open matches")
		return
	}

	utils.ResponseSuccess(w, "success", matches)
}

// GetByID handles GET /api/matches/{id} (public)
func (h *MatchHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	match, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get match")
		return
	}

	utils.ResponseSuccess(w, "success", match)
}

// GetUpcoming handles GET /api/user/matches (protected)
func (h *MatchHandler) GetUpcoming(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	matches, err := h.service.GetUpcomingForUser(r.Context(), userID.String())
	if err != nil {
		handleServiceError(w, h.log, err, "get upcoming matches")
		return
	}

	utils.ResponseSuccess(w, "success", matches)
}

// GetCategories handles GET /api/matches/categories (public)
func (h *MatchHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetCategories(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get match categories")
		return
	}

	utils.ResponseSuccess(w, "success", categories)
}

// Join handles POST /api/matches/{id}/join (protected)
func (h *MatchHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	match, err := h.service.Join(r.Context(), userID.String(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "join match")
		return
	}

	utils.ResponseSuccess(w, "success", match)
}

// Leave handles POST /api/matches/{id}/leave (protected)
func (h *MatchHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Leave(r.Context(), userID.String(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "leave match")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// RemoveParticipant handles POST /api/matches/{id}/remove (protected, creator)
func (h *MatchHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.RemoveParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.RemoveParticipant(r.Context(), userID.String(), chi.URLParam(r, "id"), &req); err != nil {
		handleServiceError(w, h.log, err, "remove participant")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// Update handles PUT /api/matches/{id} (protected, creator)
func (h *MatchHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	match, err := h.service.Update(r.Context(), userID.String(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update match")
		return
	}

	utils.ResponseSuccess(w, "success", match)
}

// Cancel handles POST /api/matches/{id}/cancel (protected, creator or admin)
func (h *MatchHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Cancel(r.Context(), userID.String(), isAdmin(r), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "cancel match")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
