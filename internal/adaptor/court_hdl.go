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

type CourtHandler struct {
	service usecase.CourtService
	log     *zap.Logger
}

func NewCourtHandler(service usecase.CourtService, log *zap.Logger) *CourtHandler {
	return &CourtHandler{
		service: service,
		log:     log.With(zap.String("handler", "court")),
	}
}

// GetAll handles GET /api/courts (public)
func (h *CourtHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	// Public listings only show active courts; admins can ask for all.
	activeOnly := query.Get("include_inactive") != "true"

	courts, err := h.service.GetAll(r.Context(), query.Get("name"), activeOnly, req)
	if err != nil {
		handleServiceError(w, h.log, err, "get courts")
		return
	}

	utils.ResponseSuccess(w, "success", courts)
}

// GetByID handles GET /api/courts/{id} (public)
func (h *CourtHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	court, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get court")
		return
	}

	utils.ResponseSuccess(w, "success", court)
}

// GetAvailability handles GET /api/courts/{id}/availability (public)
func (h *CourtHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	availability, err := h.service.GetAvailability(
		r.Context(),
		chi.URLParam(r, "id"),
		query.Get("from"),
		query.Get("to"),
	)
	if err != nil {
		handleServiceError(w, h.log, err, "get availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}

// CheckAvailability handles POST /api/courts/{id}/check (public)
func (h *CourtHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req request.CheckAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.CheckAvailability(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "check availability")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// CheckAvailabilityAll handles POST /api/courts/check (public)
func (h *CourtHandler) CheckAvailabilityAll(w http.ResponseWriter, r *http.Request) {
	var req request.CheckAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.CheckAvailabilityAll(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "check availability all")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// Create handles POST /api/admin/courts (admin)
func (h *CourtHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CourtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	court, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create court")
		return
	}

	utils.ResponseCreated(w, "success", court)
}

// Update handles PUT /api/admin/courts/{id} (admin)
func (h *CourtHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.CourtUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	court, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update court")
		return
	}

	utils.ResponseSuccess(w, "success", court)
}

// SetActive handles PATCH /api/admin/courts/{id}/active (admin)
func (h *CourtHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req request.SetCourtActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.SetActive(r.Context(), chi.URLParam(r, "id"), req.IsActive); err != nil {
		handleServiceError(w, h.log, err, "set court active")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// Delete handles DELETE /api/admin/courts/{id} (admin)
func (h *CourtHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete court")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
