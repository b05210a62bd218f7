package usecase

import (
	"context"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/internal/notifier"
	"court-booking/pkg/apperrors"
	"court-booking/pkg/database"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	Create(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetByID(ctx context.Context, userID string, isAdmin bool, bookingID string) (*response.BookingResponse, error)
	GetAll(ctx context.Context, userID string, isAdmin bool, status, from, to string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	UpdateStatus(ctx context.Context, userID string, isAdmin bool, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)
}

type bookingService struct {
	db    database.PgxIface
	repo  *repository.Repository
	notif notifier.Notifier
	log   *zap.Logger
}

func NewBookingService(db database.PgxIface, repo *repository.Repository, notif notifier.Notifier, log *zap.Logger) BookingService {
	return &bookingService{
		db:    db,
		repo:  repo,
		notif: notif,
		log:   log.With(zap.String("service", "booking")),
	}
}

// Create reserves [start, end) on a court. The overlap check and the booking
// insert run in one transaction under a FOR UPDATE lock on the court row, so
// two concurrent requests for the same slot cannot both succeed.
func (s *bookingService) Create(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, apperrors.NewValidation("", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperrors.NewValidation("user_id", "invalid user ID format")
	}

	courtUUID, err := uuid.Parse(req.CourtID)
	if err != nil {
		return nil, apperrors.NewValidation("court_id", "invalid court ID format")
	}

	start, err := utils.ParseISOTime(req.StartTime)
	if err != nil {
		return nil, apperrors.NewValidation("start_time", "must be an RFC3339 timestamp")
	}
	end, err := utils.ParseISOTime(req.EndTime)
	if err != nil {
		return nil, apperrors.NewValidation("end_time", "must be an RFC3339 timestamp")
	}
	if !end.After(start) {
		return nil, apperrors.NewValidation("end_time", "must be after start_time")
	}
	if start.Before(time.Now()) {
		return nil, apperrors.NewValidation("start_time", "must be in the future")
	}

	court, err := s.repo.Court.FindByID(ctx, courtUUID)
	if err != nil {
		s.log.Error("Failed to find court", zap.Error(err), zap.String("court_id", req.CourtID))
		return nil, apperrors.ErrInternal
	}
	if court == nil {
		return nil, apperrors.NewNotFound("court", req.CourtID)
	}
	if !court.IsActive {
		return nil, apperrors.NewConflict("court is not active")
	}

	percentage := req.PaymentPercentage
	if percentage == 0 {
		percentage = 100
	}

	hours := end.Sub(start).Hours()
	total := court.Price * hours
	amount := total * percentage / 100

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CourtID:   courtUUID,
		UserID:    userUUID,
		StartTime: start,
		EndTime:   end,
		Status:    entity.BookingStatusPending,
	}

	payment := &entity.Payment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID: booking.ID,
		UserID:    userUUID,
		Amount:    amount,
		Status:    entity.PaymentStatusPending,
		Method:    entity.PaymentMethod(req.PaymentMethod),
	}

	err = database.WithTx(ctx, s.db, func(q database.Querier) error {
		locked, err := s.repo.Court.LockRow(ctx, q, courtUUID)
		if err != nil {
			s.log.Error("Failed to lock court row", zap.Error(err), zap.String("court_id", req.CourtID))
			return apperrors.ErrInternal
		}
		if !locked {
			return apperrors.NewNotFound("court", req.CourtID)
		}

		overlapping, err := s.repo.Booking.FindOverlapping(ctx, q, courtUUID, start, end, nil)
		if err != nil {
			s.log.Error("Failed to check overlap", zap.Error(err), zap.String("court_id", req.CourtID))
			return apperrors.ErrInternal
		}
		if len(overlapping) > 0 {
			return apperrors.NewConflict("court already booked for this time")
		}

		if err := s.repo.Booking.CreateIn(ctx, q, booking); err != nil {
			s.log.Error("Failed to create booking", zap.Error(err))
			return apperrors.ErrInternal
		}

		if err := s.repo.Payment.CreateIn(ctx, q, payment); err != nil {
			s.log.Error("Failed to create payment", zap.Error(err))
			return apperrors.ErrInternal
		}

		if err := s.repo.Booking.SetPaymentIn(ctx, q, booking.ID, payment.ID); err != nil {
			s.log.Error("Failed to attach payment", zap.Error(err))
			return apperrors.ErrInternal
		}

		booking.PaymentID = &payment.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("court_id", req.CourtID),
		zap.String("user_id", userID),
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Float64("amount", amount),
	)

	s.notif.Notify(notifier.ChannelBookings, notifier.EventBookingCreated, map[string]any{
		"booking_id": booking.ID.String(),
		"court_id":   req.CourtID,
		"start_time": start,
		"end_time":   end,
	})

	resp := response.BookingToResponse(booking, payment)
	resp.CourtName = court.Name
	return &resp, nil
}

func (s *bookingService) GetByID(ctx context.Context, userID string, isAdmin bool, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && booking.UserID.String() != userID {
		return nil, apperrors.NewForbidden("booking belongs to another user")
	}

	payment, err := s.repo.Payment.FindByBookingID(ctx, booking.ID)
	if err != nil {
		s.log.Error("Failed to load payment", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, apperrors.ErrInternal
	}

	resp := response.BookingToResponse(booking, payment)
	if court, err := s.repo.Court.FindByID(ctx, booking.CourtID); err == nil && court != nil {
		resp.CourtName = court.Name
	}
	return &resp, nil
}

func (s *bookingService) GetAll(ctx context.Context, userID string, isAdmin bool, status, from, to string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	opts := repository.BookingQueryOptions{
		Limit:  req.Limit(),
		Offset: req.Offset(),
	}

	// Non-admins only ever see their own bookings.
	if !isAdmin {
		userUUID, err := uuid.Parse(userID)
		if err != nil {
			return nil, apperrors.NewValidation("user_id", "invalid user ID format")
		}
		opts.UserID = &userUUID
	}

	if status != "" {
		bs := entity.BookingStatus(status)
		switch bs {
		case entity.BookingStatusPending, entity.BookingStatusConfirmed, entity.BookingStatusCancelled:
			opts.Status = &bs
		default:
			return nil, apperrors.NewValidation("status", "unknown booking status")
		}
	}
	if from != "" {
		t, err := utils.ParseISOTime(from)
		if err != nil {
			return nil, apperrors.NewValidation("from", "must be an RFC3339 timestamp")
		}
		opts.From = &t
	}
	if to != "" {
		t, err := utils.ParseISOTime(to)
		if err != nil {
			return nil, apperrors.NewValidation("to", "must be an RFC3339 timestamp")
		}
		opts.To = &t
	}

	bookings, err := s.repo.Booking.FindAll(ctx, opts)
	if err != nil {
		s.log.Error("Failed to list bookings", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	total, err := s.repo.Booking.CountAll(ctx, opts)
	if err != nil {
		s.log.Error("Failed to count bookings", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		payment, err := s.repo.Payment.FindByBookingID(ctx, booking.ID)
		if err != nil {
			s.log.Error("Failed to load payment", zap.Error(err), zap.String("booking_id", booking.ID.String()))
			return nil, apperrors.ErrInternal
		}
		bookingResponses[i] = response.BookingToResponse(booking, payment)
	}

	return response.NewPaginatedResponse(bookingResponses, req.Page, req.Limit(), total), nil
}

// UpdateStatus applies one step of the booking state machine. Confirming is
// admin-only; cancelling is allowed to the owner and admins. Cancelling a
// booking refunds its payment in the same transaction.
func (s *bookingService) UpdateStatus(ctx context.Context, userID string, isAdmin bool, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperrors.NewValidation("", utils.FormatValidationErrors(errs))
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	target := entity.BookingStatus(req.Status)

	isOwner := booking.UserID.String() == userID
	if !isAdmin && !isOwner {
		return nil, apperrors.NewForbidden("booking belongs to another user")
	}
	if target == entity.BookingStatusConfirmed && !isAdmin {
		return nil, apperrors.NewForbidden("only admins can confirm bookings")
	}

	if !validBookingTransition(booking.Status, target) {
		return nil, apperrors.NewInvalidTransition(string(booking.Status), string(target))
	}

	payment, err := s.repo.Payment.FindByBookingID(ctx, booking.ID)
	if err != nil {
		s.log.Error("Failed to load payment", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, apperrors.ErrInternal
	}

	err = database.WithTx(ctx, s.db, func(q database.Querier) error {
		if err := s.repo.Booking.UpdateStatusIn(ctx, q, booking.ID, target); err != nil {
			s.log.Error("Failed to update booking status", zap.Error(err), zap.String("booking_id", bookingID))
			return apperrors.ErrInternal
		}

		// Cancelling refunds the payment regardless of whether it was
		// settled yet; a pending payment is never collected after this.
		if target == entity.BookingStatusCancelled && payment != nil {
			if err := s.repo.Payment.UpdateStatusIn(ctx, q, payment.ID, entity.PaymentStatusRefunded); err != nil {
				s.log.Error("Failed to refund payment", zap.Error(err), zap.String("payment_id", payment.ID.String()))
				return apperrors.ErrInternal
			}
			payment.Status = entity.PaymentStatusRefunded
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	booking.Status = target

	s.log.Info("Booking status changed",
		zap.String("booking_id", bookingID),
		zap.String("status", string(target)),
		zap.String("changed_by", userID),
	)

	event := notifier.EventBookingConfirmed
	if target == entity.BookingStatusCancelled {
		event = notifier.EventBookingCancelled
	}
	s.notif.Notify(notifier.ChannelBookings, event, map[string]any{
		"booking_id": bookingID,
		"status":     string(target),
	})

	resp := response.BookingToResponse(booking, payment)
	return &resp, nil
}

func (s *bookingService) findBooking(ctx context.Context, bookingID string) (*entity.Booking, error) {
	bookingUUID, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperrors.NewValidation("booking_id", "invalid booking ID format")
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingUUID)
	if err != nil {
		s.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, apperrors.ErrInternal
	}
	if booking == nil {
		return nil, apperrors.NewNotFound("booking", bookingID)
	}

	return booking, nil
}

func validBookingTransition(from, to entity.BookingStatus) bool {
	switch from {
	case entity.BookingStatusPending:
		return to == entity.BookingStatusConfirmed || to == entity.BookingStatusCancelled
	case entity.BookingStatusConfirmed:
		return to == entity.BookingStatusCancelled
	default:
		return false
	}
}
