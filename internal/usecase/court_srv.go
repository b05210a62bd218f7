package usecase

import (
	"context"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/pkg/apperrors"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxAvailabilityRangeDays = 31
	maxCourtsPerCheck        = 200
)

type CourtService interface {
	GetAll(ctx context.Context, name string, activeOnly bool, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CourtResponse], error)
	GetByID(ctx context.Context, courtID string) (*response.CourtResponse, error)

	// Availability projects active bookings onto an hour grid.
	GetAvailability(ctx context.Context, courtID, from, to string) (*response.AvailabilityResponse, error)
	CheckAvailability(ctx context.Context, courtID string, req *request.CheckAvailabilityRequest) (*response.CheckAvailabilityResponse, error)
	CheckAvailabilityAll(ctx context.Context, req *request.CheckAvailabilityRequest) ([]response.CourtAvailabilityItem, error)

	// Admin endpoints
	Create(ctx context.Context, req *request.CourtRequest) (*response.CourtResponse, error)
	Update(ctx context.Context, courtID string, req *request.CourtUpdateRequest) (*response.CourtResponse, error)
	SetActive(ctx context.Context, courtID string, active bool) error
	Delete(ctx context.Context, courtID string) error
}

type courtService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewCourtService(repo *repository.Repository, config *utils.Config, log *zap.Logger) CourtService {
	return &courtService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "court")),
	}
}

func (s *courtService) GetAll(ctx context.Context, name string, activeOnly bool, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CourtResponse], error) {
	opts := repository.CourtQueryOptions{
		Limit:  req.Limit(),
		Offset: req.Offset(),
	}
	if name != "" {
		opts.NameContains = &name
	}
	if activeOnly {
		active := true
		opts.IsActive = &active
	}

	courts, err := s.repo.Court.FindAll(ctx, opts)
	if err != nil {
		s.log.Error("Failed to list courts", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	total, err := s.repo.Court.CountAll(ctx, opts)
	if err != nil {
		s.log.Error("Failed to count courts", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	courtResponses := make([]response.CourtResponse, len(courts))
	for i, court := range courts {
		images, err := s.repo.CourtImage.FindByCourtID(ctx, court.ID)
		if err != nil {
			s.log.Error("Failed to load court images", zap.Error(err), zap.String("court_id", court.ID.String()))
			return nil, apperrors.ErrInternal
		}
		courtResponses[i] = response.CourtToResponse(court, images)
	}

	return response.NewPaginatedResponse(courtResponses, req.Page, req.Limit(), total), nil
}

func (s *courtService) GetByID(ctx context.Context, courtID string) (*response.CourtResponse, error) {
	court, err := s.findCourt(ctx, courtID)
	if err != nil {
		return nil, err
	}

	images, err := s.repo.CourtImage.FindByCourtID(ctx, court.ID)
	if err != nil {
		s.log.Error("Failed to load court images", zap.Error(err), zap.String("court_id", courtID))
		return nil, apperrors.ErrInternal
	}

	resp := response.CourtToResponse(court, images)
	return &resp, nil
}

// GetAvailability builds the hour grid for [from, to] inclusive. Each day
// maps opening hours to whether the full hour starting then is free. A
// booking that touches any part of an hour marks that hour busy; a booking
// ending exactly on the hour leaves that hour free.
func (s *courtService) GetAvailability(ctx context.Context, courtID, from, to string) (*response.AvailabilityResponse, error) {
	court, err := s.findCourt(ctx, courtID)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(s.config.Booking.Timezone)
	if err != nil {
		s.log.Error("Failed to load timezone", zap.Error(err), zap.String("timezone", s.config.Booking.Timezone))
		return nil, apperrors.ErrInternal
	}

	now := time.Now().In(loc)
	fromDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if from != "" {
		fromDate, err = time.ParseInLocation("2006-01-02", from, loc)
		if err != nil {
			return nil, apperrors.NewValidation("from", "must be a date in 2006-01-02 form")
		}
	}

	toDate := fromDate.AddDate(0, 0, 6)
	if to != "" {
		toDate, err = time.ParseInLocation("2006-01-02", to, loc)
		if err != nil {
			return nil, apperrors.NewValidation("to", "must be a date in 2006-01-02 form")
		}
	}

	if toDate.Before(fromDate) {
		return nil, apperrors.NewValidation("to", "must not be before from")
	}
	if toDate.Sub(fromDate) > maxAvailabilityRangeDays*24*time.Hour {
		return nil, apperrors.NewValidation("to", "range too large")
	}

	rangeStart := fromDate
	rangeEnd := toDate.AddDate(0, 0, 1)

	bookings, err := s.repo.Booking.FindActiveInRange(ctx, court.ID, rangeStart, rangeEnd)
	if err != nil {
		s.log.Error("Failed to load bookings for availability",
			zap.Error(err),
			zap.String("court_id", courtID),
		)
		return nil, apperrors.ErrInternal
	}

	openHour := s.config.Booking.OpenHour
	closeHour := s.config.Booking.CloseHour

	days := make(map[string]map[int]bool)
	for day := fromDate; !day.After(toDate); day = day.AddDate(0, 0, 1) {
		hours := make(map[int]bool, closeHour-openHour+1)
		for hour := openHour; hour <= closeHour; hour++ {
			bucketStart := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, loc)
			bucketEnd := bucketStart.Add(time.Hour)

			free := true
			for _, booking := range bookings {
				if booking.StartTime.Before(bucketEnd) && booking.EndTime.After(bucketStart) {
					free = false
					break
				}
			}
			hours[hour] = free
		}
		days[day.Format("2006-01-02")] = hours
	}

	return &response.AvailabilityResponse{
		CourtID:  court.ID.String(),
		Timezone: s.config.Booking.Timezone,
		Days:     days,
	}, nil
}

func (s *courtService) CheckAvailability(ctx context.Context, courtID string, req *request.CheckAvailabilityRequest) (*response.CheckAvailabilityResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperrors.NewValidation("", utils.FormatValidationErrors(errs))
	}

	court, err := s.findCourt(ctx, courtID)
	if err != nil {
		return nil, err
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

	overlapping, err := s.repo.Booking.FindOverlapping(ctx, nil, court.ID, start, end, nil)
	if err != nil {
		s.log.Error("Failed to check overlap", zap.Error(err), zap.String("court_id", courtID))
		return nil, apperrors.ErrInternal
	}

	return &response.CheckAvailabilityResponse{
		CourtID:   court.ID.String(),
		StartTime: start,
		EndTime:   end,
		Available: len(overlapping) == 0,
	}, nil
}

// CheckAvailabilityAll runs the slot check against every active court, for
// the "find me any free court" flow.
func (s *courtService) CheckAvailabilityAll(ctx context.Context, req *request.CheckAvailabilityRequest) ([]response.CourtAvailabilityItem, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperrors.NewValidation("", utils.FormatValidationErrors(errs))
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

	active := true
	courts, err := s.repo.Court.FindAll(ctx, repository.CourtQueryOptions{
		IsActive: &active,
		Limit:    maxCourtsPerCheck,
	})
	if err != nil {
		s.log.Error("Failed to list courts for availability check", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	items := make([]response.CourtAvailabilityItem, len(courts))
	for i, court := range courts {
		overlapping, err := s.repo.Booking.FindOverlapping(ctx, nil, court.ID, start, end, nil)
		if err != nil {
			s.log.Error("Failed to check overlap", zap.Error(err), zap.String("court_id", court.ID.String()))
			return nil, apperrors.ErrInternal
		}
		items[i] = response.CourtAvailabilityItem{
			CourtID:   court.ID.String(),
			Name:      court.Name,
			Available: len(overlapping) == 0,
		}
	}

	return items, nil
}

func (s *courtService) Create(ctx context.Context, req *request.CourtRequest) (*response.CourtResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create court validation failed", zap.Any("errors", errs))
		return nil, apperrors.NewValidation("", utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	court := &entity.Court{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsActive:    true,
	}

	if err := s.repo.Court.Create(ctx, court); err != nil {
		s.log.Error("Failed to create court", zap.Error(err), zap.String("name", req.Name))
		return nil, apperrors.ErrInternal
	}

	var images []*entity.CourtImage
	for _, url := range req.ImageURLs {
		image := &entity.CourtImage{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			CourtID: court.ID,
			URL:     url,
		}
		if err := s.repo.CourtImage.Create(ctx, image); err != nil {
			s.log.Error("Failed to create court image", zap.Error(err), zap.String("court_id", court.ID.String()))
			return nil, apperrors.ErrInternal
		}
		images = append(images, image)
	}

	s.log.Info("Court created",
		zap.String("court_id", court.ID.String()),
		zap.String("name", court.Name),
	)

	resp := response.CourtToResponse(court, images)
	return &resp, nil
}

func (s *courtService) Update(ctx context.Context, courtID string, req *request.CourtUpdateRequest) (*response.CourtResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperrors.NewValidation("", utils.FormatValidationErrors(errs))
	}

	court, err := s.findCourt(ctx, courtID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		court.Name = *req.Name
	}
	if req.Description != nil {
		court.Description = *req.Description
	}
	if req.Price != nil {
		court.Price = *req.Price
	}

	if err := s.repo.Court.Update(ctx, court); err != nil {
		s.log.Error("Failed to update court", zap.Error(err), zap.String("court_id", courtID))
		return nil, apperrors.ErrInternal
	}

	s.log.Info("Court updated", zap.String("court_id", courtID))

	images, err := s.repo.CourtImage.FindByCourtID(ctx, court.ID)
	if err != nil {
		s.log.Error("Failed to load court images", zap.Error(err), zap.String("court_id", courtID))
		return nil, apperrors.ErrInternal
	}

	resp := response.CourtToResponse(court, images)
	return &resp, nil
}

func (s *courtService) SetActive(ctx context.Context, courtID string, active bool) error {
	court, err := s.findCourt(ctx, courtID)
	if err != nil {
		return err
	}

	if err := s.repo.Court.SetActive(ctx, court.ID, active); err != nil {
		s.log.Error("Failed to set court active flag", zap.Error(err), zap.String("court_id", courtID))
		return apperrors.ErrInternal
	}

	s.log.Info("Court active flag changed",
		zap.String("court_id", courtID),
		zap.Bool("active", active),
	)

	return nil
}

// Delete removes the court and its images permanently. Existing bookings
// keep their court_id; deactivation is the normal way to retire a court.
func (s *courtService) Delete(ctx context.Context, courtID string) error {
	court, err := s.findCourt(ctx, courtID)
	if err != nil {
		return err
	}

	if err := s.repo.CourtImage.DeleteByCourtID(ctx, court.ID); err != nil {
		s.log.Error("Failed to delete court images", zap.Error(err), zap.String("court_id", courtID))
		return apperrors.ErrInternal
	}

	if err := s.repo.Court.Delete(ctx, court.ID); err != nil {
		s.log.Error("Failed to delete court", zap.Error(err), zap.String("court_id", courtID))
		return apperrors.ErrInternal
	}

	s.log.Warn("Court deleted", zap.String("court_id", courtID))

	return nil
}

func (s *courtService) findCourt(ctx context.Context, courtID string) (*entity.Court, error) {
	courtUUID, err := uuid.Parse(courtID)
	if err != nil {
		return nil, apperrors.NewValidation("court_id", "invalid court ID format")
	}

	court, err := s.repo.Court.FindByID(ctx, courtUUID)
	if err != nil {
		s.log.Error("Failed to find court", zap.Error(err), zap.String("court_id", courtID))
		return nil, apperrors.ErrInternal
	}
	if court == nil {
		return nil, apperrors.NewNotFound("court", courtID)
	}

	return court, nil
}
