package wire

import (
	"court-booking/internal/adaptor"
	"court-booking/internal/data/repository"
	"court-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireMatch(
	r chi.Router,
	matchHandler *adaptor.MatchHandler,
	chatHandler *adaptor.ChatHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/matches", matchHandler.GetAllOpen)
	r.Get("/api/matches/categories", matchHandler.GetCategories)
	r.Get("/api/matches/{id}", matchHandler.GetByID)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		r.Post("/api/matches", matchHandler.Create)
		r.Put("/api/matches/{id}", matchHandler.Update)
		r.Post("/api/matches/{id}/join", matchHandler.Join)
		r.Post("/api/matches/{id}/leave", matchHandler.Leave)
		r.Post("/api/matches/{id}/remove", matchHandler.RemoveParticipant)
		r.Post("/api/matches/{id}/cancel", matchHandler.Cancel)
		r.Get("/api/user/matches", matchHandler.GetUpcoming)

		r.Post("/api/matches/{id}/chat", chatHandler.Send)
		r.Get("/api/matches/{id}/chat", chatHandler.GetForMatch)
	})
}
