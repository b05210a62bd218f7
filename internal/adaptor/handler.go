package adaptor

import (
	"court-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Court   *CourtHandler
	Booking *BookingHandler
	Match   *MatchHandler
	Payment *PaymentHandler
	Plan    *PlanHandler
	Chat    *ChatHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		User:    NewUserHandler(service.User, log),
		Court:   NewCourtHandler(service.Court, log),
		Booking: NewBookingHandler(service.Booking, log),
		Match:   NewMatchHandler(service.Match, log),
		Payment: NewPaymentHandler(service.Payment, log),
		Plan:    NewPlanHandler(service.Plan, log),
		Chat:    NewChatHandler(service.Chat, log),
	}
}
