package model

import "time"

// Hotel represents a property that contains bookable rooms.
// A hotel groups room types and rooms and is managed by
// administrators.  This struct corresponds to a row in the
// `hotels` table.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique hotel name.
//  Address     – street address of the property.
//  Description – optional free-text description.
//  IsActive    – whether the hotel is open for booking.
//  CreatedAt   – timestamp when the hotel was created.
//  UpdatedAt   – timestamp of last update.
type Hotel struct {
	ID          uint64    // hotels.id
	Name        string    // hotels.name
	Address     string    // hotels.address
	Description *string   // hotels.description (nullable)
	IsActive    bool      // hotels.is_active
	CreatedAt   time.Time // hotels.created_at
	UpdatedAt   time.Time // hotels.updated_at
}
