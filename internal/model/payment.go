package model

import "time"

// Payment status values.  SUCCESS records funds as captured at
// booking time; REFUNDED is set atomically with cancellation.
const (
	PaymentStatusSuccess  = "SUCCESS"
	PaymentStatusRefunded = "REFUNDED"
	PaymentStatusFailed   = "FAILED"
)

// Payment records the money side of a booking.  There is exactly one
// payment per booking and its amount always equals the booking's
// total price.  The transaction reference is generated at creation
// time and is unique, serving as the idempotency and audit
// correlation key.  This struct corresponds to a row in the
// `payments` table.
//
// Fields:
//  ID             – primary key identifier.
//  BookingID      – booking this payment belongs to (1:1).
//  AmountCents    – captured amount in cents.
//  Method         – payment method label supplied by the caller.
//  Status         – one of the PaymentStatus* constants.
//  TransactionRef – unique reference generated at creation time.
//  CreatedAt      – creation timestamp.
type Payment struct {
	ID             uint64    // payments.id
	BookingID      uint64    // payments.booking_id
	AmountCents    uint32    // payments.amount_cents
	Method         string    // payments.method
	Status         string    // payments.status
	TransactionRef string    // payments.transaction_ref
	CreatedAt      time.Time // payments.created_at
}
