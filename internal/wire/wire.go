package wire

import (
	"net/http"

	"court-booking/internal/adaptor"
	"court-booking/internal/data/repository"
	"court-booking/internal/notifier"
	"court-booking/internal/usecase"
	"court-booking/pkg/database"
	"court-booking/pkg/middleware"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type App struct {
	Router *chi.Mux
}

func Wiring(db database.PgxIface, repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	hub := notifier.NewHub(logger)
	service := usecase.NewService(db, repo, config, hub, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, hub, repo, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	hub *notifier.Hub,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireAuth(r, handler.Auth, repo, logger)
	wireUser(r, handler.User, repo, logger)
	wireCourt(r, handler.Court, repo, logger)
	wireBooking(r, handler.Booking, handler.Payment, repo, logger)
	wireMatch(r, handler.Match, handler.Chat, repo, logger)
	wirePlan(r, handler.Plan)

	// Event stream for live booking/match updates
	r.Get("/ws/{channel}", hub.HandleWS)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
