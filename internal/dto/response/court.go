package response

import (
	"time"

	"court-booking/internal/data/entity"
)

type CourtResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	IsActive    bool      `json:"is_active"`
	ImageURLs   []string  `json:"image_urls,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AvailabilityResponse is the hour grid for one court over a date range.
// Keys of Days are dates in 2006-01-02 form; each day maps opening hours to
// whether the full hour starting then is free.
type AvailabilityResponse struct {
	CourtID  string                  `json:"court_id"`
	Timezone string                  `json:"timezone"`
	Days     map[string]map[int]bool `json:"days"`
}

// CourtAvailabilityItem is one row of the all-courts slot check.
type CourtAvailabilityItem struct {
	CourtID   string `json:"court_id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

type CheckAvailabilityResponse struct {
	CourtID   string    `json:"court_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Available bool      `json:"available"`
}

// Helper converters
func CourtToResponse(court *entity.Court, images []*entity.CourtImage) CourtResponse {
	resp := CourtResponse{
		ID:          court.ID.String(),
		Name:        court.Name,
		Description: court.Description,
		Price:       court.Price,
		IsActive:    court.IsActive,
		CreatedAt:   court.CreatedAt,
	}

	for _, image := range images {
		resp.ImageURLs = append(resp.ImageURLs, image.URL)
	}

	return resp
}
