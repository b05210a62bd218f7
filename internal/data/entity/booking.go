package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// ActiveBookingStatuses are the statuses that count toward interval
// conflicts. Cancelled bookings never conflict.
var ActiveBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
}

// Booking reserves a court for the half-open interval [StartTime, EndTime).
// Bookings are never physically deleted; cancellation is a status change.
type Booking struct {
	Base
	CourtID   uuid.UUID     `db:"court_id"`
	UserID    uuid.UUID     `db:"user_id"`
	StartTime time.Time     `db:"start_time"`
	EndTime   time.Time     `db:"end_time"`
	Status    BookingStatus `db:"status"`
	PaymentID *uuid.UUID    `db:"payment_id"`
}

// IsActive reports whether the booking counts toward conflicts.
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}
