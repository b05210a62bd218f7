package response

import "court-booking/internal/data/entity"

type PlanResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	IsActive    bool    `json:"is_active"`
}

// Helper converters
func PlanToResponse(plan *entity.Plan) PlanResponse {
	return PlanResponse{
		ID:          plan.ID.String(),
		Name:        plan.Name,
		Description: plan.Description,
		Price:       plan.Price,
		IsActive:    plan.IsActive,
	}
}
