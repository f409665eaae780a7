package model

import "time"

// Booking status values.  PENDING and CONFIRMED block other bookings
// for the same room over an overlapping date range; the remaining
// statuses never block.  Bookings insert as CONFIRMED directly –
// PENDING exists for future two-phase flows and is accepted but not
// produced by the create path.
const (
	BookingStatusPending   = "PENDING"
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCancelled = "CANCELLED"
	BookingStatusCompleted = "COMPLETED"
	BookingStatusFailed    = "FAILED"
)

// Booking records a user's reservation of a specific room over a
// half-open date range [CheckinDate, CheckoutDate).  Bookings are
// never deleted; state transitions flip the status column instead.
// This struct corresponds to a row in the `bookings` table.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – user who made the booking.
//  RoomID          – room being booked.
//  CheckinDate     – first night of the stay (inclusive).
//  CheckoutDate    – day of departure (exclusive, after CheckinDate).
//  TotalPriceCents – nightly base price multiplied by nights, in cents.
//  GuestCount      – number of guests, at least 1.
//  SpecialRequests – free-text requests passed along to the hotel.
//  Status          – one of the BookingStatus* constants.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Booking struct {
	ID              uint64    // bookings.id
	UserID          uint64    // bookings.user_id
	RoomID          uint64    // bookings.room_id
	CheckinDate     time.Time // bookings.checkin_date (DATE)
	CheckoutDate    time.Time // bookings.checkout_date (DATE)
	TotalPriceCents uint32    // bookings.total_price_cents
	GuestCount      uint32    // bookings.guest_count
	SpecialRequests string    // bookings.special_requests
	Status          string    // bookings.status
	CreatedAt       time.Time // bookings.created_at
	UpdatedAt       time.Time // bookings.updated_at
}
