package usecase

import (
	"context"
	"testing"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/pkg/apperrors"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestProcessPayment_SettlesAndConfirmsBooking(t *testing.T) {
	owner := uuid.New()
	payment := &entity.Payment{
		Base:      entity.Base{ID: uuid.New()},
		BookingID: uuid.New(),
		UserID:    owner,
		Amount:    100,
		Status:    entity.PaymentStatusPending,
	}

	var bookingStatus entity.BookingStatus
	repo := &repository.Repository{
		Payment: &mockPaymentRepo{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
				return payment, nil
			},
			settleInFunc: func(ctx context.Context, q database.Querier, id uuid.UUID, transactionID *string) (bool, error) {
				return true, nil
			},
		},
		Booking: &mockBookingRepo{
			updateStatusInFunc: func(ctx context.Context, q database.Querier, id uuid.UUID, status entity.BookingStatus) error {
				bookingStatus = status
				return nil
			},
		},
	}
	service := NewPaymentService(&fakeDB{}, repo, zap.NewNop())

	txID := "tx-12345"
	req := &request.ProcessPaymentRequest{PaymentID: payment.ID.String(), TransactionID: &txID}

	resp, err := service.Process(context.Background(), owner.String(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != entity.PaymentStatusCompleted {
		t.Errorf("expected completed payment, got %s", resp.Status)
	}
	if bookingStatus != entity.BookingStatusConfirmed {
		t.Errorf("settling should confirm the booking, got %q", bookingStatus)
	}
}

func TestProcessPayment_AlreadySettled(t *testing.T) {
	owner := uuid.New()
	payment := &entity.Payment{
		Base:      entity.Base{ID: uuid.New()},
		BookingID: uuid.New(),
		UserID:    owner,
		Status:    entity.PaymentStatusCompleted,
	}

	confirmed := false
	repo := &repository.Repository{
		Payment: &mockPaymentRepo{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
				return payment, nil
			},
		},
		Booking: &mockBookingRepo{
			updateStatusInFunc: func(ctx context.Context, q database.Querier, id uuid.UUID, status entity.BookingStatus) error {
				confirmed = true
				return nil
			},
		},
	}
	service := NewPaymentService(&fakeDB{}, repo, zap.NewNop())

	req := &request.ProcessPaymentRequest{PaymentID: payment.ID.String()}
	_, err := service.Process(context.Background(), owner.String(), req)
	if !apperrors.IsConflict(err) {
		t.Fatalf("settling twice should conflict, got %v", err)
	}
	if confirmed {
		t.Error("booking must not be touched when the settle is rejected")
	}
}

func TestProcessPayment_StrangerForbidden(t *testing.T) {
	payment := &entity.Payment{
		Base:      entity.Base{ID: uuid.New()},
		BookingID: uuid.New(),
		UserID:    uuid.New(),
		Status:    entity.PaymentStatusPending,
	}

	repo := &repository.Repository{
		Payment: &mockPaymentRepo{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
				return payment, nil
			},
		},
		Booking: &mockBookingRepo{},
	}
	service := NewPaymentService(&fakeDB{}, repo, zap.NewNop())

	req := &request.ProcessPaymentRequest{PaymentID: payment.ID.String()}
	_, err := service.Process(context.Background(), uuid.New().String(), req)
	if !apperrors.IsForbidden(err) {
		t.Fatalf("expected forbidden for another user's payment, got %v", err)
	}
}

func TestGetAllPayments_NonAdminScopedToOwn(t *testing.T) {
	userID := uuid.New()

	var seenFilter *uuid.UUID
	repo := &repository.Repository{
		Payment: &mockPaymentRepo{
			findAllFunc: func(ctx context.Context, filterUser *uuid.UUID, limit, offset int) ([]*entity.Payment, error) {
				seenFilter = filterUser
				return nil, nil
			},
		},
	}
	service := NewPaymentService(&fakeDB{}, repo, zap.NewNop())

	_, err := service.GetAll(context.Background(), userID.String(), false, &request.PaginatedRequest{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seenFilter == nil || *seenFilter != userID {
		t.Error("non-admin listing must be filtered to the caller's payments")
	}
}
