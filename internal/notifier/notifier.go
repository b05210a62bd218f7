package notifier

// Channels that clients can subscribe to over the websocket endpoint.
const (
	ChannelBookings = "bookings"
	ChannelMatches  = "matches"
	ChannelUsers    = "users"
	ChannelChat     = "chat"
)

// Event types published by the services.
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventMatchCreated     = "match.created"
	EventMatchJoined      = "match.joined"
	EventMatchLeft        = "match.left"
	EventMatchFull        = "match.full"
	EventMatchReopened    = "match.reopened"
	EventMatchUpdated     = "match.updated"
	EventMatchCancelled   = "match.cancelled"
	EventChatMessage      = "chat.message"
)

// Notifier publishes domain events to interested subscribers. Delivery is
// best-effort: services call Notify after their transaction commits and never
// block on slow or absent consumers.
type Notifier interface {
	Notify(channel, event string, payload any)
}

// NopNotifier discards all events. Used in tests and as a safe default.
type NopNotifier struct{}

func (NopNotifier) Notify(channel, event string, payload any) {}
