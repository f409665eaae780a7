// Package queue defines the booking event payloads exchanged over
// RabbitMQ and the background consumer that records them.
package queue

// Queue names shared by the publisher and the consumer.
const (
	BookingConfirmedQueue = "booking.confirmed"
	BookingCancelledQueue = "booking.cancelled"
)

// BookingConfirmedEvent is published after a booking transaction
// commits. It carries enough context for downstream consumers to log,
// notify or feed analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID       uint64 `json:"booking_id"`
	UserID          uint64 `json:"user_id"`
	RoomID          uint64 `json:"room_id"`
	RoomNumber      string `json:"room_number"`
	HotelID         uint64 `json:"hotel_id"`
	HotelName       string `json:"hotel_name"`
	RoomType        string `json:"room_type"`
	CheckinDate     string `json:"checkin_date"`
	CheckoutDate    string `json:"checkout_date"`
	Nights          int    `json:"nights"`
	GuestCount      uint32 `json:"guest_count"`
	TotalPriceCents uint32 `json:"total_price_cents"`
	TransactionRef  string `json:"transaction_ref"`
	ConfirmedAt     string `json:"confirmed_at"`
}

// BookingCancelledEvent is published after a cancellation commits and
// the payment has been marked refunded.
type BookingCancelledEvent struct {
	BookingID    uint64 `json:"booking_id"`
	UserID       uint64 `json:"user_id"`
	RoomID       uint64 `json:"room_id"`
	HotelName    string `json:"hotel_name"`
	CheckinDate  string `json:"checkin_date"`
	CheckoutDate string `json:"checkout_date"`
	CancelledAt  string `json:"cancelled_at"`
}
