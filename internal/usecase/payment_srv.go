package usecase

import (
	"context"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/pkg/apperrors"
	"court-booking/pkg/database"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentService interface {
	Process(ctx context.Context, userID string, req *request.ProcessPaymentRequest) (*response.PaymentResponse, error)
	GetByID(ctx context.Context, userID string, isAdmin bool, paymentID string) (*response.PaymentResponse, error)
	GetAll(ctx context.Context, userID string, isAdmin bool, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentResponse], error)

	// UpdateStatus is the admin override for stuck payments.
	UpdateStatus(ctx context.Context, paymentID string, req *request.UpdatePaymentStatusRequest) (*response.PaymentResponse, error)
}

type paymentService struct {
	db   database.PgxIface
	repo *repository.Repository
	log  *zap.Logger
}

func NewPaymentService(db database.PgxIface, repo *repository.Repository, log *zap.Logger) PaymentService {
	return &paymentService{
		db:   db,
		repo: repo,
		log:  log.With(zap.String("service", "payment")),
	}
}

// Process settles a pending payment and confirms its booking in the same
// transaction. Settling twice is a conflict, not a double charge.
func (s *paymentService) Process(ctx context.Context, userID string, req *request.ProcessPaymentRequest) (*response.PaymentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Process payment validation failed", zap.Any("errors", errs))
		return nil, apperrors.NewValidation("", utils.FormatValidationErrors(errs))
	}

	paymentUUID, err := uuid.Parse(req.PaymentID)
	if err != nil {
		return nil, apperrors.NewValidation("payment_id", "invalid payment ID format")
	}

	payment, err := s.repo.Payment.FindByID(ctx, paymentUUID)
	if err != nil {
		s.log.Error("Failed to find payment", zap.Error(err), zap.String("payment_id", req.PaymentID))
		return nil, apperrors.ErrInternal
	}
	if payment == nil {
		return nil, apperrors.NewNotFound("payment", req.PaymentID)
	}
	if payment.UserID.String() != userID {
		return nil, apperrors.NewForbidden("payment belongs to another user")
	}

	err = database.WithTx(ctx, s.db, func(q database.Querier) error {
		settled, err := s.repo.Payment.SettleIn(ctx, q, paymentUUID, req.TransactionID)
		if err != nil {
			s.log.Error("Failed to settle payment", zap.Error(err), zap.String("payment_id", req.PaymentID))
			return apperrors.ErrInternal
		}
		if !settled {
			return apperrors.NewConflict("payment is not pending")
		}

		if err := s.repo.Booking.UpdateStatusIn(ctx, q, payment.BookingID, entity.BookingStatusConfirmed); err != nil {
			s.log.Error("Failed to confirm booking", zap.Error(err), zap.String("booking_id", payment.BookingID.String()))
			return apperrors.ErrInternal
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	payment.Status = entity.PaymentStatusCompleted
	payment.TransactionID = req.TransactionID

	s.log.Info("Payment processed",
		zap.String("payment_id", req.PaymentID),
		zap.String("booking_id", payment.BookingID.String()),
		zap.Float64("amount", payment.Amount),
	)

	return response.PaymentToResponse(payment), nil
}

func (s *paymentService) GetByID(ctx context.Context, userID string, isAdmin bool, paymentID string) (*response.PaymentResponse, error) {
	paymentUUID, err := uuid.Parse(paymentID)
	if err != nil {
		return nil, apperrors.NewValidation("payment_id", "invalid payment ID format")
	}

	payment, err := s.repo.Payment.FindByID(ctx, paymentUUID)
	if err != nil {
		s.log.Error("Failed to find payment", zap.Error(err), zap.String("payment_id", paymentID))
		return nil, apperrors.ErrInternal
	}
	if payment == nil {
		return nil, apperrors.NewNotFound("payment", paymentID)
	}
	if !isAdmin && payment.UserID.String() != userID {
		return nil, apperrors.NewForbidden("payment belongs to another user")
	}

	return response.PaymentToResponse(payment), nil
}

func (s *paymentService) UpdateStatus(ctx context.Context, paymentID string, req *request.UpdatePaymentStatusRequest) (*response.PaymentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperrors.NewValidation("", utils.FormatValidationErrors(errs))
	}

	paymentUUID, err := uuid.Parse(paymentID)
	if err != nil {
		return nil, apperrors.NewValidation("payment_id", "invalid payment ID format")
	}

	payment, err := s.repo.Payment.FindByID(ctx, paymentUUID)
	if err != nil {
		s.log.Error("Failed to find payment", zap.Error(err), zap.String("payment_id", paymentID))
		return nil, apperrors.ErrInternal
	}
	if payment == nil {
		return nil, apperrors.NewNotFound("payment", paymentID)
	}

	target := entity.PaymentStatus(req.Status)
	if err := s.repo.Payment.UpdateStatus(ctx, paymentUUID, target); err != nil {
		s.log.Error("Failed to update payment status", zap.Error(err), zap.String("payment_id", paymentID))
		return nil, apperrors.ErrInternal
	}
	payment.Status = target

	s.log.Info("Payment status overridden",
		zap.String("payment_id", paymentID),
		zap.String("status", req.Status),
	)

	return response.PaymentToResponse(payment), nil
}

func (s *paymentService) GetAll(ctx context.Context, userID string, isAdmin bool, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentResponse], error) {
	var filterUser *uuid.UUID
	if !isAdmin {
		userUUID, err := uuid.Parse(userID)
		if err != nil {
			return nil, apperrors.NewValidation("user_id", "invalid user ID format")
		}
		filterUser = &userUUID
	}

	payments, err := s.repo.Payment.FindAll(ctx, filterUser, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list payments", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	total, err := s.repo.Payment.CountAll(ctx, filterUser)
	if err != nil {
		s.log.Error("Failed to count payments", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	paymentResponses := make([]response.PaymentResponse, len(payments))
	for i, payment := range payments {
		paymentResponses[i] = *response.PaymentToResponse(payment)
	}

	return response.NewPaginatedResponse(paymentResponses, req.Page, req.Limit(), total), nil
}
