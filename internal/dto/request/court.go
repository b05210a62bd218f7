package request

type CourtRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=100"`
	Description string   `json:"description" validate:"max=1000"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	ImageURLs   []string `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
}

type CourtUpdateRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=1000"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
}

type SetCourtActiveRequest struct {
	IsActive bool `json:"is_active"`
}

type AvailabilityRequest struct {
	From string `json:"from" validate:"required,datetime=2006-01-02"`
	To   string `json:"to" validate:"required,datetime=2006-01-02"`
}

type CheckAvailabilityRequest struct {
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}
