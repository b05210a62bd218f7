package usecase

import (
	"context"

	"court-booking/internal/data/repository"
	"court-booking/internal/dto/response"
	"court-booking/pkg/apperrors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PlanService interface {
	GetAll(ctx context.Context) ([]response.PlanResponse, error)
	GetByID(ctx context.Context, planID string) (*response.PlanResponse, error)
}

type planService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewPlanService(repo *repository.Repository, log *zap.Logger) PlanService {
	return &planService{
		repo: repo,
		log:  log.With(zap.String("service", "plan")),
	}
}

func (s *planService) GetAll(ctx context.Context) ([]response.PlanResponse, error) {
	plans, err := s.repo.Plan.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list plans", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	planResponses := make([]response.PlanResponse, len(plans))
	for i, plan := range plans {
		planResponses[i] = response.PlanToResponse(plan)
	}

	return planResponses, nil
}

func (s *planService) GetByID(ctx context.Context, planID string) (*response.PlanResponse, error) {
	planUUID, err := uuid.Parse(planID)
	if err != nil {
		return nil, apperrors.NewValidation("plan_id", "invalid plan ID format")
	}

	plan, err := s.repo.Plan.FindByID(ctx, planUUID)
	if err != nil {
		s.log.Error("Failed to find plan", zap.Error(err), zap.String("plan_id", planID))
		return nil, apperrors.ErrInternal
	}
	if plan == nil {
		return nil, apperrors.NewNotFound("plan", planID)
	}

	resp := response.PlanToResponse(plan)
	return &resp, nil
}
