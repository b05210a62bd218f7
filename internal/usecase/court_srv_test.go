package usecase

import (
	"context"
	"testing"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/pkg/apperrors"
	"court-booking/pkg/database"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func testBookingConfig() *utils.Config {
	return &utils.Config{
		Booking: utils.BookingConfig{
			Timezone:  "UTC",
			OpenHour:  6,
			CloseHour: 23,
		},
	}
}

func newAvailabilityService(court *entity.Court, bookings []*entity.Booking) CourtService {
	repo := &repository.Repository{
		Court: &mockCourtRepo{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Court, error) {
				if court != nil && id == court.ID {
					return court, nil
				}
				return nil, nil
			},
		},
		CourtImage: &mockCourtImageRepo{},
		Booking: &mockBookingRepo{
			findActiveInRangeFunc: func(ctx context.Context, courtID uuid.UUID, start, end time.Time) ([]*entity.Booking, error) {
				return bookings, nil
			},
		},
	}
	return NewCourtService(repo, testBookingConfig(), zap.NewNop())
}

func testCourt() *entity.Court {
	return &entity.Court{
		Base:     entity.Base{ID: uuid.New()},
		Name:     "Cancha 1",
		Price:    50,
		IsActive: true,
	}
}

func TestGetAvailability_EmptyCourtAllFree(t *testing.T) {
	court := testCourt()
	service := newAvailabilityService(court, nil)

	avail, err := service.GetAvailability(context.Background(), court.ID.String(), "2026-09-07", "2026-09-07")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	day, ok := avail.Days["2026-09-07"]
	if !ok {
		t.Fatalf("expected day 2026-09-07 in grid, got %v", avail.Days)
	}
	if len(day) != 18 {
		t.Errorf("expected 18 hour buckets (6..23), got %d", len(day))
	}
	for hour := 6; hour <= 23; hour++ {
		if !day[hour] {
			t.Errorf("hour %d should be free on an empty court", hour)
		}
	}
}

func TestGetAvailability_BookingMarksHoursBusy(t *testing.T) {
	court := testCourt()
	booking := &entity.Booking{
		Base:      entity.Base{ID: uuid.New()},
		CourtID:   court.ID,
		StartTime: time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC),
		Status:    entity.BookingStatusConfirmed,
	}
	service := newAvailabilityService(court, []*entity.Booking{booking})

	avail, err := service.GetAvailability(context.Background(), court.ID.String(), "2026-09-07", "2026-09-07")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	day := avail.Days["2026-09-07"]
	if day[10] || day[11] {
		t.Errorf("hours 10 and 11 should be busy, got 10=%v 11=%v", day[10], day[11])
	}
	if !day[9] {
		t.Error("hour 9 should be free before the booking")
	}
	if !day[12] {
		t.Error("hour 12 should be free; a booking ending at 12:00 does not touch it")
	}
}

func TestGetAvailability_PartialHourBlocksWholeHour(t *testing.T) {
	court := testCourt()
	booking := &entity.Booking{
		Base:      entity.Base{ID: uuid.New()},
		CourtID:   court.ID,
		StartTime: time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 7, 10, 30, 0, 0, time.UTC),
		Status:    entity.BookingStatusPending,
	}
	service := newAvailabilityService(court, []*entity.Booking{booking})

	avail, err := service.GetAvailability(context.Background(), court.ID.String(), "2026-09-07", "2026-09-07")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	day := avail.Days["2026-09-07"]
	if day[10] {
		t.Error("hour 10 should be busy; a half-hour booking still occupies the bucket")
	}
	if !day[11] {
		t.Error("hour 11 should stay free")
	}
}

func TestGetAvailability_TouchingEndpointLeavesHourFree(t *testing.T) {
	court := testCourt()
	booking := &entity.Booking{
		Base:      entity.Base{ID: uuid.New()},
		CourtID:   court.ID,
		StartTime: time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		Status:    entity.BookingStatusConfirmed,
	}
	service := newAvailabilityService(court, []*entity.Booking{booking})

	avail, err := service.GetAvailability(context.Background(), court.ID.String(), "2026-09-07", "2026-09-07")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	day := avail.Days["2026-09-07"]
	if day[9] {
		t.Error("hour 9 should be busy")
	}
	if !day[10] {
		t.Error("hour 10 should be free when a booking ends exactly at 10:00")
	}
}

func TestGetAvailability_MultiDayGrid(t *testing.T) {
	court := testCourt()
	service := newAvailabilityService(court, nil)

	avail, err := service.GetAvailability(context.Background(), court.ID.String(), "2026-09-07", "2026-09-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(avail.Days) != 3 {
		t.Errorf("expected 3 days in grid, got %d", len(avail.Days))
	}
	for _, date := range []string{"2026-09-07", "2026-09-08", "2026-09-09"} {
		if _, ok := avail.Days[date]; !ok {
			t.Errorf("missing day %s in grid", date)
		}
	}
}

func TestGetAvailability_RejectsInvertedRange(t *testing.T) {
	court := testCourt()
	service := newAvailabilityService(court, nil)

	_, err := service.GetAvailability(context.Background(), court.ID.String(), "2026-09-09", "2026-09-07")
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetAvailability_UnknownCourt(t *testing.T) {
	service := newAvailabilityService(nil, nil)

	_, err := service.GetAvailability(context.Background(), uuid.New().String(), "2026-09-07", "2026-09-07")
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCheckAvailability_FreeSlot(t *testing.T) {
	court := testCourt()
	repo := &repository.Repository{
		Court: &mockCourtRepo{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Court, error) {
				return court, nil
			},
		},
		Booking: &mockBookingRepo{},
	}
	service := NewCourtService(repo, testBookingConfig(), zap.NewNop())

	req := &request.CheckAvailabilityRequest{
		StartTime: "2026-09-07T10:00:00Z",
		EndTime:   "2026-09-07T12:00:00Z",
	}
	result, err := service.CheckAvailability(context.Background(), court.ID.String(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Available {
		t.Error("expected slot to be available with no bookings")
	}
}

func TestCheckAvailability_TakenSlot(t *testing.T) {
	court := testCourt()
	repo := &repository.Repository{
		Court: &mockCourtRepo{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Court, error) {
				return court, nil
			},
		},
		Booking: &mockBookingRepo{
			findOverlappingFunc: func(ctx context.Context, q database.Querier, courtID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*entity.Booking, error) {
				return []*entity.Booking{{Base: entity.Base{ID: uuid.New()}}}, nil
			},
		},
	}
	service := NewCourtService(repo, testBookingConfig(), zap.NewNop())

	req := &request.CheckAvailabilityRequest{
		StartTime: "2026-09-07T10:00:00Z",
		EndTime:   "2026-09-07T12:00:00Z",
	}
	result, err := service.CheckAvailability(context.Background(), court.ID.String(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Error("expected slot to be unavailable when an active booking overlaps")
	}
}
