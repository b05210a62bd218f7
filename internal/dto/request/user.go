package request

type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
}

type SetUserActiveRequest struct {
	IsActive bool `json:"is_active"`
}
