package booking

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

// Engine executes booking creation and cancellation as single
// database transactions. The room row lock it takes first is the sole
// mechanism serializing concurrent calls touching the same room;
// bookings for different rooms never block each other. The engine
// introduces no goroutines and no retries; a conflict is a terminal
// outcome for the caller to handle.
type Engine struct {
	db       *sql.DB
	rooms    *repository.RoomRepo
	bookings *repository.BookingRepo
	payments *repository.PaymentRepo
	audit    *repository.AuditRepo
}

// NewEngine constructs an Engine. All dependencies must be non-nil.
func NewEngine(db *sql.DB, rooms *repository.RoomRepo, bookings *repository.BookingRepo, payments *repository.PaymentRepo, audit *repository.AuditRepo) *Engine {
	if db == nil || rooms == nil || bookings == nil || payments == nil || audit == nil {
		panic("nil dependency passed to NewEngine")
	}
	return &Engine{db: db, rooms: rooms, bookings: bookings, payments: payments, audit: audit}
}

// CreateInput carries everything needed to reserve a room. Checkin
// and Checkout are calendar dates (time-of-day ignored) under
// half-open [Checkin, Checkout) semantics. GuestCount below 1 is
// coerced to 1; no upper bound is enforced here.
type CreateInput struct {
	UserID          uint64
	RoomID          uint64
	Checkin         time.Time
	Checkout        time.Time
	GuestCount      uint32
	SpecialRequests string
	PaymentMethod   string
	ClientIP        string
}

// CreateResult is returned on a committed booking.
type CreateResult struct {
	BookingID       uint64
	TransactionRef  string
	TotalPriceCents uint32
	Nights          int
}

// CreateBooking reserves a room for a date range. The write ordering
// inside the transaction is load-bearing:
//
//  1. lock the room row filtered to AVAILABLE (miss → ErrRoomUnavailable)
//  2. count blocking bookings intersecting the range, still under the
//     lock (hit → ErrDateRangeConflict)
//  3. insert the booking as CONFIRMED
//  4. insert the payment as SUCCESS with a fresh transaction ref
//  5. flip the room to OCCUPIED
//  6. append the audit entry
//  7. commit
//
// Any failure rolls the whole unit back: no partial booking, payment,
// status change or audit entry survives.
func (e *Engine) CreateBooking(ctx context.Context, in CreateInput) (*CreateResult, error) {
	if !in.Checkout.After(in.Checkin) {
		return nil, ErrInvalidDateRange
	}
	if in.GuestCount < 1 {
		in.GuestCount = 1
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	room, err := e.rooms.LockAvailableTx(ctx, tx, in.RoomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomUnavailable
		}
		return nil, fmt.Errorf("lock room: %w", err)
	}

	overlapping, err := e.bookings.CountOverlappingTx(ctx, tx, room.ID, in.Checkin, in.Checkout)
	if err != nil {
		return nil, fmt.Errorf("overlap check: %w", err)
	}
	if overlapping > 0 {
		return nil, ErrDateRangeConflict
	}

	nights := Nights(in.Checkin, in.Checkout)
	total := TotalPriceCents(room.BasePriceCents, nights)

	b := &model.Booking{
		UserID:          in.UserID,
		RoomID:          room.ID,
		CheckinDate:     in.Checkin,
		CheckoutDate:    in.Checkout,
		TotalPriceCents: total,
		GuestCount:      in.GuestCount,
		SpecialRequests: in.SpecialRequests,
		Status:          model.BookingStatusConfirmed,
	}
	if err := e.bookings.CreateTx(ctx, tx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	txRef, err := newTransactionRef(b.ID)
	if err != nil {
		return nil, fmt.Errorf("generate transaction ref: %w", err)
	}
	p := &model.Payment{
		BookingID:      b.ID,
		AmountCents:    total,
		Method:         in.PaymentMethod,
		Status:         model.PaymentStatusSuccess,
		TransactionRef: txRef,
	}
	if err := e.payments.CreateTx(ctx, tx, p); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	if err := e.rooms.UpdateStatusTx(ctx, tx, room.ID, model.RoomStatusOccupied); err != nil {
		return nil, fmt.Errorf("update room status: %w", err)
	}

	if err := e.appendAudit(ctx, tx, &b.ID, in.UserID, model.AuditActionCreateBooking, b.ID,
		fmt.Sprintf("booked room %d from %s to %s for %d cents (ref %s)",
			room.ID, in.Checkin.Format("2006-01-02"), in.Checkout.Format("2006-01-02"), total, txRef),
		in.ClientIP,
	); err != nil {
		return nil, fmt.Errorf("append audit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	committed = true

	return &CreateResult{
		BookingID:       b.ID,
		TransactionRef:  txRef,
		TotalPriceCents: total,
		Nights:          nights,
	}, nil
}

// CancelBooking reverts a booking owned by the calling user: the
// booking flips to CANCELLED, the room to AVAILABLE and the payment to
// REFUNDED, with one audit entry, all in one transaction. The booking row and its room row are both
// locked so cancellation never interleaves with a concurrent
// availability check on the same room. A booking owned by someone
// else is reported as ErrBookingNotFound, not as a permission error.
//
// No overlap verification happens here: freeing a room only removes a
// blocking interval, it can never introduce a conflict.
func (e *Engine) CancelBooking(ctx context.Context, userID, bookingID uint64, clientIP string) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := e.bookings.GetForUpdateTx(ctx, tx, bookingID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("lock booking: %w", err)
	}
	if _, err := e.rooms.LockTx(ctx, tx, b.RoomID); err != nil {
		return fmt.Errorf("lock room: %w", err)
	}

	if b.Status == model.BookingStatusCancelled {
		return ErrAlreadyCancelled
	}

	if err := e.bookings.UpdateStatusTx(ctx, tx, b.ID, model.BookingStatusCancelled); err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if err := e.rooms.UpdateStatusTx(ctx, tx, b.RoomID, model.RoomStatusAvailable); err != nil {
		return fmt.Errorf("update room status: %w", err)
	}
	if err := e.payments.MarkRefundedByBookingTx(ctx, tx, b.ID); err != nil {
		return fmt.Errorf("refund payment: %w", err)
	}

	if err := e.appendAudit(ctx, tx, &b.ID, userID, model.AuditActionCancelBooking, b.ID,
		fmt.Sprintf("cancelled booking for room %d (%s to %s), payment refunded",
			b.RoomID, b.CheckinDate.Format("2006-01-02"), b.CheckoutDate.Format("2006-01-02")),
		clientIP,
	); err != nil {
		return fmt.Errorf("append audit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

func (e *Engine) appendAudit(ctx context.Context, tx *sql.Tx, bookingID *uint64, userID uint64, action string, targetID uint64, details, clientIP string) error {
	entry := &model.AuditLogEntry{
		BookingID:   bookingID,
		UserID:      userID,
		Action:      action,
		TargetTable: "bookings",
		TargetID:    targetID,
		Details:     details,
	}
	if clientIP != "" {
		entry.IP = &clientIP
	}
	return e.audit.AppendTx(ctx, tx, entry)
}

// newTransactionRef builds a unique payment reference from a time
// component, the booking id and random bytes. Uniqueness is also
// enforced by the payments.transaction_ref column.
func newTransactionRef(bookingID uint64) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("TXN-%d-%d-%s", time.Now().UTC().UnixNano(), bookingID, hex.EncodeToString(buf)), nil
}
