package model

import "time"

// Audit action tags written by the engines and the admin override
// paths.  Every state-changing action appends exactly one row inside
// the same transaction as the change itself.
const (
	AuditActionCreateBooking         = "CREATE_BOOKING"
	AuditActionCancelBooking         = "CANCEL_BOOKING"
	AuditActionRoomStatusOverride    = "ROOM_STATUS_OVERRIDE"
	AuditActionBookingStatusOverride = "BOOKING_STATUS_OVERRIDE"
)

// AuditLogEntry is an append-only record of a state-changing action.
// Entries fate-share with the transaction that produced them: if the
// transaction rolls back, the entry must not persist.  This struct
// corresponds to a row in the `audit_logs` table.
//
// Fields:
//  ID          – primary key identifier.
//  BookingID   – affected booking (nil for non-booking actions).
//  UserID      – actor who performed the action.
//  Action      – one of the AuditAction* constants.
//  TargetTable – table of the record the action touched.
//  TargetID    – primary key of the touched record.
//  Details     – free-text description of the change.
//  IP          – originating client address, when known.
//  CreatedAt   – creation timestamp.
type AuditLogEntry struct {
	ID          uint64    // audit_logs.id
	BookingID   *uint64   // audit_logs.booking_id (nullable)
	UserID      uint64    // audit_logs.user_id
	Action      string    // audit_logs.action
	TargetTable string    // audit_logs.target_table
	TargetID    uint64    // audit_logs.target_id
	Details     string    // audit_logs.details
	IP          *string   // audit_logs.ip (nullable)
	CreatedAt   time.Time // audit_logs.created_at
}
