package wire

import (
	"court-booking/internal/adaptor"
	"court-booking/internal/data/repository"
	"court-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCourt(
	r chi.Router,
	courtHandler *adaptor.CourtHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/courts", courtHandler.GetAll)
	r.Get("/api/courts/{id}", courtHandler.GetByID)
	r.Get("/api/courts/{id}/availability", courtHandler.GetAvailability)
	r.Post("/api/courts/check", courtHandler.CheckAvailabilityAll)
	r.Post("/api/courts/{id}/check", courtHandler.CheckAvailability)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/courts", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Post("/", courtHandler.Create)
		r.Put("/{id}", courtHandler.Update)
		r.Patch("/{id}/active", courtHandler.SetActive)
		r.Delete("/{id}", courtHandler.Delete)
	})
}
