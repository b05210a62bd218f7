package adaptor

import (
	"net/http"

	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PlanHandler struct {
	service usecase.PlanService
	log     *zap.Logger
}

func NewPlanHandler(service usecase.PlanService, log *zap.Logger) *PlanHandler {
	return &PlanHandler{
		service: service,
		log:     log.With(zap.String("handler", "plan")),
	}
}

// GetAll handles GET /api/plans (public)
func (h *PlanHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.GetAll(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get plans")
		return
	}

	utils.ResponseSuccess(w, "success", plans)
}

// GetByID handles GET /api/plans/{id} (public)
func (h *PlanHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	plan, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get plan")
		return
	}

	utils.ResponseSuccess(w, "success", plan)
}
