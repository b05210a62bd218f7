package usecase

import (
	"context"

	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/internal/notifier"
	"court-booking/pkg/apperrors"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *request.UpdateProfileRequest) (*response.UserResponse, error)

	// Admin endpoints
	GetAllUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	SetActive(ctx context.Context, userID string, active bool) error
	Delete(ctx context.Context, userID string) error
}

type userService struct {
	repo  *repository.Repository
	notif notifier.Notifier
	log   *zap.Logger
}

func NewUserService(repo *repository.Repository, notif notifier.Notifier, log *zap.Logger) UserService {
	return &userService{
		repo:  repo,
		notif: notif,
		log:   log.With(zap.String("service", "user")),
	}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*response.UserResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperrors.NewValidation("user_id", "invalid user ID format")
	}

	user, err := s.repo.User.FindByID(ctx, userUUID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID))
		return nil, apperrors.ErrInternal
	}
	if user == nil {
		return nil, apperrors.NewNotFound("user", userID)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update profile validation failed", zap.Any("errors", errs))
		return nil, apperrors.NewValidation("", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperrors.NewValidation("user_id", "invalid user ID format")
	}

	user, err := s.repo.User.FindByID(ctx, userUUID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID))
		return nil, apperrors.ErrInternal
	}
	if user == nil {
		return nil, apperrors.NewNotFound("user", userID)
	}

	if req.Username != nil && *req.Username != user.Username {
		existing, err := s.repo.User.FindByUsername(ctx, *req.Username)
		if err != nil {
			s.log.Error("Failed to check username", zap.Error(err))
			return nil, apperrors.ErrInternal
		}
		if existing != nil {
			return nil, apperrors.NewConflict("username already taken")
		}
		user.Username = *req.Username
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			s.log.Error("Failed to hash password", zap.Error(err))
			return nil, apperrors.ErrInternal
		}
		user.PasswordHash = hash
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to update user", zap.Error(err), zap.String("user_id", userID))
		return nil, apperrors.ErrInternal
	}

	s.log.Info("Profile updated", zap.String("user_id", userID))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) GetAllUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	users, err := s.repo.User.FindAll(ctx, limit, offset)
	if err != nil {
		s.log.Error("Failed to list users", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	total, err := s.repo.User.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count users", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	userResponses := make([]response.UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = response.UserToResponse(user)
	}

	return response.NewPaginatedResponse(userResponses, req.Page, limit, total), nil
}

func (s *userService) SetActive(ctx context.Context, userID string, active bool) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return apperrors.NewValidation("user_id", "invalid user ID format")
	}

	user, err := s.repo.User.FindByID(ctx, userUUID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID))
		return apperrors.ErrInternal
	}
	if user == nil {
		return apperrors.NewNotFound("user", userID)
	}

	if err := s.repo.User.SetActive(ctx, userUUID, active); err != nil {
		s.log.Error("Failed to set user active flag", zap.Error(err), zap.String("user_id", userID))
		return apperrors.ErrInternal
	}

	// Deactivation kills all live sessions so the user is logged out at once.
	if !active {
		if err := s.repo.Session.RevokeAllUserSessions(ctx, userUUID); err != nil {
			s.log.Error("Failed to revoke sessions", zap.Error(err), zap.String("user_id", userID))
			return apperrors.ErrInternal
		}
	}

	s.log.Info("User active flag changed",
		zap.String("user_id", userID),
		zap.Bool("active", active),
	)

	s.notif.Notify(notifier.ChannelUsers, "user.status_changed", map[string]any{
		"user_id":   userID,
		"is_active": active,
	})

	return nil
}

func (s *userService) Delete(ctx context.Context, userID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return apperrors.NewValidation("user_id", "invalid user ID format")
	}

	user, err := s.repo.User.FindByID(ctx, userUUID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID))
		return apperrors.ErrInternal
	}
	if user == nil {
		return apperrors.NewNotFound("user", userID)
	}

	if err := s.repo.Session.RevokeAllUserSessions(ctx, userUUID); err != nil {
		s.log.Error("Failed to revoke sessions", zap.Error(err), zap.String("user_id", userID))
		return apperrors.ErrInternal
	}

	if err := s.repo.User.Delete(ctx, userUUID); err != nil {
		s.log.Error("Failed to delete user", zap.Error(err), zap.String("user_id", userID))
		return apperrors.ErrInternal
	}

	s.log.Warn("User deleted", zap.String("user_id", userID))

	return nil
}
