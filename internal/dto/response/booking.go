package response

import (
	"time"

	"court-booking/internal/data/entity"
)

type BookingResponse struct {
	ID        string               `json:"id"`
	CourtID   string               `json:"court_id"`
	CourtName string               `json:"court_name,omitempty"`
	UserID    string               `json:"user_id"`
	StartTime time.Time            `json:"start_time"`
	EndTime   time.Time            `json:"end_time"`
	Status    entity.BookingStatus `json:"status"`
	Payment   *PaymentResponse     `json:"payment,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

type PaymentResponse struct {
	ID            string               `json:"id"`
	BookingID     string               `json:"booking_id"`
	Amount        float64              `json:"amount"`
	Status        entity.PaymentStatus `json:"status"`
	Method        entity.PaymentMethod `json:"method"`
	TransactionID *string              `json:"transaction_id,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// Helper converters
func PaymentToResponse(payment *entity.Payment) *PaymentResponse {
	if payment == nil {
		return nil
	}
	return &PaymentResponse{
		ID:            payment.ID.String(),
		BookingID:     payment.BookingID.String(),
		Amount:        payment.Amount,
		Status:        payment.Status,
		Method:        payment.Method,
		TransactionID: payment.TransactionID,
		CreatedAt:     payment.CreatedAt,
	}
}

func BookingToResponse(booking *entity.Booking, payment *entity.Payment) BookingResponse {
	return BookingResponse{
		ID:        booking.ID.String(),
		CourtID:   booking.CourtID.String(),
		UserID:    booking.UserID.String(),
		StartTime: booking.StartTime,
		EndTime:   booking.EndTime,
		Status:    booking.Status,
		Payment:   PaymentToResponse(payment),
		CreatedAt: booking.CreatedAt,
	}
}
