package request

type CreateBookingRequest struct {
	CourtID           string  `json:"court_id" validate:"required,uuid4"`
	StartTime         string  `json:"start_time" validate:"required"`
	EndTime           string  `json:"end_time" validate:"required"`
	PaymentPercentage float64 `json:"payment_percentage,omitempty" validate:"omitempty,min=10,max=100"`
	PaymentMethod     string  `json:"payment_method" validate:"required,oneof=credit_card pse other"`
}

type ProcessPaymentRequest struct {
	PaymentID     string  `json:"payment_id" validate:"required,uuid4"`
	TransactionID *string `json:"transaction_id,omitempty"`
}

type UpdatePaymentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed failed refunded"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}
