package repository

import (
	"court-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User          UserRepository
	Session       SessionRepository
	Court         CourtRepository
	CourtImage    CourtImageRepository
	Booking       BookingRepository
	Payment       PaymentRepository
	Match         MatchRepository
	MatchCategory MatchCategoryRepository
	Plan          PlanRepository
	Chat          ChatRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:          NewUserRepository(db, log),
		Session:       NewSessionRepository(db, log),
		Court:         NewCourtRepository(db, log),
		CourtImage:    NewCourtImageRepository(db, log),
		Booking:       NewBookingRepository(db, log),
		Payment:       NewPaymentRepository(db, log),
		Match:         NewMatchRepository(db, log),
		MatchCategory: NewMatchCategoryRepository(db, log),
		Plan:          NewPlanRepository(db, log),
		Chat:          NewChatRepository(db, log),
	}
}
