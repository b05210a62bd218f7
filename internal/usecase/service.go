package usecase

import (
	"court-booking/internal/data/repository"
	"court-booking/internal/notifier"
	"court-booking/pkg/database"
	"court-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Court   CourtService
	Booking BookingService
	Match   MatchService
	Payment PaymentService
	Plan    PlanService
	Chat    ChatService
}

func NewService(
	db database.PgxIface,
	repo *repository.Repository,
	config *utils.Config,
	notif notifier.Notifier,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:    NewAuthService(repo, config, log),
		User:    NewUserService(repo, notif, log),
		Court:   NewCourtService(repo, config, log),
		Booking: NewBookingService(db, repo, notif, log),
		Match:   NewMatchService(db, repo, notif, log),
		Payment: NewPaymentService(db, repo, log),
		Plan:    NewPlanService(repo, log),
		Chat:    NewChatService(repo, notif, log),
	}
}
