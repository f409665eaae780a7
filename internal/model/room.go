package model

import "time"

// Room status values.  The status column is a cached projection of
// whether a blocking booking covers today; the booking ledger is
// authoritative for any date-range question.  Only the reservation
// and cancellation engines and the admin override mutate it.
const (
	RoomStatusAvailable   = "AVAILABLE"
	RoomStatusOccupied    = "OCCUPIED"
	RoomStatusMaintenance = "MAINTENANCE"
	RoomStatusCleaning    = "CLEANING"
)

// Room describes an individual bookable unit within a hotel.  Rooms
// are uniquely identified by their hotel and room number and carry a
// reference to their room type for pricing.  This struct corresponds
// to a row in the `rooms` table.
//
// Fields:
//  ID         – primary key identifier.
//  HotelID    – hotel to which this room belongs.
//  RoomTypeID – room type determining price and capacity.
//  RoomNumber – room number or code, unique per hotel.
//  Status     – one of AVAILABLE, OCCUPIED, MAINTENANCE, CLEANING.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Room struct {
	ID         uint64    // rooms.id
	HotelID    uint64    // rooms.hotel_id
	RoomTypeID uint64    // rooms.room_type_id
	RoomNumber string    // rooms.room_number
	Status     string    // rooms.status
	CreatedAt  time.Time // rooms.created_at
	UpdatedAt  time.Time // rooms.updated_at
}
