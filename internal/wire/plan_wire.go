package wire

import (
	"court-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePlan(r chi.Router, planHandler *adaptor.PlanHandler) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/plans", planHandler.GetAll)
	r.Get("/api/plans/{id}", planHandler.GetByID)
}
