package wire

import (
	"court-booking/internal/adaptor"
	"court-booking/internal/data/repository"
	"court-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	paymentHandler *adaptor.PaymentHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		r.Post("/api/bookings", bookingHandler.Create)
		r.Get("/api/bookings", bookingHandler.GetAll)
		r.Get("/api/bookings/{id}", bookingHandler.GetByID)
		r.Patch("/api/bookings/{id}/status", bookingHandler.UpdateStatus)

		r.Post("/api/pay", paymentHandler.Process)
		r.Get("/api/payments", paymentHandler.GetAll)
		r.Get("/api/payments/{id}", paymentHandler.GetByID)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/payments", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Patch("/{id}/status", paymentHandler.UpdateStatus)
	})
}
