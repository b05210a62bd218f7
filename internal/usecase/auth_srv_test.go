package usecase

import (
	"context"
	"testing"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/pkg/apperrors"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestRegister_Success(t *testing.T) {
	var createdUser *entity.User
	var createdSession *entity.Session

	repo := &repository.Repository{
		User: &mockUserRepo{
			createFunc: func(ctx context.Context, user *entity.User) error {
				createdUser = user
				return nil
			},
		},
		Session: &mockSessionRepo{
			createFunc: func(ctx context.Context, session *entity.Session) error {
				createdSession = session
				return nil
			},
		},
	}
	service := NewAuthService(repo, testBookingConfig(), zap.NewNop())

	req := &request.RegisterRequest{
		Username: "carlos",
		Email:    "carlos@example.com",
		Password: "secret123",
	}

	resp, err := service.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if createdUser == nil {
		t.Fatal("user was never persisted")
	}
	if createdUser.Role != entity.RoleCustomer {
		t.Errorf("new users should get the customer role, got %s", createdUser.Role)
	}
	if !createdUser.IsActive {
		t.Error("new users should be active")
	}
	if createdUser.PasswordHash == req.Password {
		t.Error("password must not be stored in plain text")
	}
	if createdSession == nil {
		t.Fatal("registration should open a session")
	}
	if resp.Token == "" {
		t.Error("expected a session token in the response")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &repository.Repository{
		User: &mockUserRepo{
			findByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				return &entity.User{Base: entity.Base{ID: uuid.New()}, Email: email}, nil
			},
		},
		Session: &mockSessionRepo{},
	}
	service := NewAuthService(repo, testBookingConfig(), zap.NewNop())

	req := &request.RegisterRequest{
		Username: "carlos",
		Email:    "taken@example.com",
		Password: "secret123",
	}

	_, err := service.Register(context.Background(), req)
	if !apperrors.IsConflict(err) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := utils.HashPassword("correct-password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	repo := &repository.Repository{
		User: &mockUserRepo{
			findByUsernameFunc: func(ctx context.Context, username string) (*entity.User, error) {
				return &entity.User{
					Base:         entity.Base{ID: uuid.New()},
					Username:     username,
					PasswordHash: hash,
					IsActive:     true,
				}, nil
			},
		},
		Session: &mockSessionRepo{},
	}
	service := NewAuthService(repo, testBookingConfig(), zap.NewNop())

	req := &request.LoginRequest{Username: "carlos", Password: "wrong-password"}
	_, err = service.Login(context.Background(), req)
	if !apperrors.IsForbidden(err) {
		t.Fatalf("expected forbidden for wrong password, got %v", err)
	}
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	hash, err := utils.HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	repo := &repository.Repository{
		User: &mockUserRepo{
			findByUsernameFunc: func(ctx context.Context, username string) (*entity.User, error) {
				return &entity.User{
					Base:         entity.Base{ID: uuid.New()},
					Username:     username,
					PasswordHash: hash,
					IsActive:     false,
				}, nil
			},
		},
		Session: &mockSessionRepo{},
	}
	service := NewAuthService(repo, testBookingConfig(), zap.NewNop())

	req := &request.LoginRequest{Username: "carlos", Password: "secret123"}
	_, err = service.Login(context.Background(), req)
	if !apperrors.IsForbidden(err) {
		t.Fatalf("expected forbidden for deactivated account, got %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	repo := &repository.Repository{
		User:    &mockUserRepo{},
		Session: &mockSessionRepo{},
	}
	service := NewAuthService(repo, testBookingConfig(), zap.NewNop())

	req := &request.LoginRequest{Username: "nobody", Password: "secret123"}
	_, err := service.Login(context.Background(), req)
	if !apperrors.IsForbidden(err) {
		t.Fatalf("expected forbidden for unknown user, got %v", err)
	}
}
