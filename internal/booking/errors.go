// Package booking implements the reservation and cancellation
// engines: the only two code paths allowed to move money, flip room
// status and extend the booking ledger. Both run as a single database
// transaction and either commit every write or none of them.
package booking

import "errors"

// Outcome errors returned by the engines. Each aborts the transaction
// with a full rollback before it reaches the caller, so a caller may
// always retry after any failure without risking a duplicate booking.
// Handlers map these onto HTTP statuses; anything not in this list is
// an infrastructure failure and surfaces as 500.
var (
	// ErrInvalidDateRange means checkout is not strictly after checkin.
	ErrInvalidDateRange = errors.New("checkout date must be after checkin date")

	// ErrRoomUnavailable means the room does not exist or is not in
	// AVAILABLE status right now. Indistinguishable on purpose.
	ErrRoomUnavailable = errors.New("room unavailable")

	// ErrDateRangeConflict means a blocking booking already intersects
	// the requested range. Expected under contention, not fatal.
	ErrDateRangeConflict = errors.New("date range conflicts with an existing booking")

	// ErrBookingNotFound means the booking does not exist or belongs
	// to a different user. Indistinguishable on purpose.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAlreadyCancelled means the booking was cancelled before this
	// call; no second refund or audit entry is produced.
	ErrAlreadyCancelled = errors.New("booking already cancelled")
)
