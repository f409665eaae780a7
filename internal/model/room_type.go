package model

import "time"

// RoomType describes a category of rooms within a hotel, such as
// "Standard Double" or "Deluxe Suite".  The nightly base price for
// every room of this type is stored here in cents.  This struct
// corresponds to a row in the `room_types` table.
//
// Fields:
//  ID             – primary key identifier.
//  HotelID        – hotel to which this type belongs.
//  Name           – unique type name per hotel.
//  Description    – optional description of the type.
//  BasePriceCents – nightly price in cents for rooms of this type.
//  Capacity       – maximum number of guests the type accommodates.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type RoomType struct {
	ID             uint64    // room_types.id
	HotelID        uint64    // room_types.hotel_id
	Name           string    // room_types.name
	Description    *string   // room_types.description (nullable)
	BasePriceCents uint32    // room_types.base_price_cents
	Capacity       uint32    // room_types.capacity
	CreatedAt      time.Time // room_types.created_at
	UpdatedAt      time.Time // room_types.updated_at
}
