package booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

// SQL fragments the engine must issue, as regular expressions matched
// against the driver-level queries. sqlmock verifies them in order, so
// these tests pin down the write ordering inside the transaction, not
// just the final outcome.
const (
	lockAvailableSQL = `SELECT r.id, r.hotel_id, r.room_type_id, rt.base_price_cents FROM rooms r JOIN room_types rt ON rt.id = r.room_type_id WHERE r.id = . AND r.status = 'AVAILABLE' FOR UPDATE`
	countOverlapSQL  = `SELECT COUNT\(\*\) FROM bookings WHERE room_id = . AND status IN \('PENDING','CONFIRMED'\) AND checkout_date > . AND checkin_date < .`
	insertBookingSQL = `INSERT INTO bookings \(user_id, room_id, checkin_date, checkout_date, total_price_cents, guest_count, special_requests, status\)`
	bookingTimesSQL  = `SELECT created_at, updated_at FROM bookings WHERE id = .`
	insertPaymentSQL = `INSERT INTO payments \(booking_id, amount_cents, method, status, transaction_ref\)`
	updateRoomSQL    = `UPDATE rooms SET status = ., updated_at = CURRENT_TIMESTAMP WHERE id = .`
	insertAuditSQL   = `INSERT INTO audit_logs \(booking_id, user_id, action, target_table, target_id, details, ip\)`
	lockBookingSQL   = `SELECT id, user_id, room_id, checkin_date, checkout_date, total_price_cents, guest_count, special_requests, status, created_at, updated_at FROM bookings WHERE id = . AND user_id = . FOR UPDATE`
	lockRoomSQL      = `SELECT status FROM rooms WHERE id = . FOR UPDATE`
	updateBookingSQL = `UPDATE bookings SET status = ., updated_at = CURRENT_TIMESTAMP WHERE id = .`
	refundSQL        = `UPDATE payments SET status = 'REFUNDED' WHERE booking_id = .`
)

func newEngineWithMock(t *testing.T) (*Engine, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	e := NewEngine(db,
		repository.NewRoomRepo(db),
		repository.NewBookingRepo(db),
		repository.NewPaymentRepo(db),
		repository.NewAuditRepo(db),
	)
	return e, mock, func() { db.Close() }
}

func verify(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func createInput(t *testing.T) CreateInput {
	return CreateInput{
		UserID:          7,
		RoomID:          42,
		Checkin:         date(t, "2024-03-01"),
		Checkout:        date(t, "2024-03-04"),
		GuestCount:      2,
		SpecialRequests: "late checkin",
		PaymentMethod:   "CARD",
		ClientIP:        "203.0.113.7",
	}
}

func TestCreateBookingCommitsInOrder(t *testing.T) {
	e, mock, done := newEngineWithMock(t)
	defer done()
	in := createInput(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(lockAvailableSQL).
		WithArgs(in.RoomID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hotel_id", "room_type_id", "base_price_cents"}).
			AddRow(42, 3, 5, 10000))
	mock.ExpectQuery(countOverlapSQL).
		WithArgs(in.RoomID, "2024-03-01", "2024-03-04").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec(insertBookingSQL).
		WithArgs(in.UserID, in.RoomID, "2024-03-01", "2024-03-04", 30000, 2, "late checkin", model.BookingStatusConfirmed).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery(bookingTimesSQL).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec(insertPaymentSQL).
		WithArgs(9, 30000, "CARD", model.PaymentStatusSuccess, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec(updateRoomSQL).
		WithArgs(model.RoomStatusOccupied, in.RoomID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertAuditSQL).
		WithArgs(9, in.UserID, model.AuditActionCreateBooking, "bookings", 9, sqlmock.AnyArg(), in.ClientIP).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	res, err := e.CreateBooking(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if res.BookingID != 9 {
		t.Errorf("BookingID = %d, want 9", res.BookingID)
	}
	if res.Nights != 3 {
		t.Errorf("Nights = %d, want 3", res.Nights)
	}
	if res.TotalPriceCents != 30000 {
		t.Errorf("TotalPriceCents = %d, want 30000", res.TotalPriceCents)
	}
	if !strings.HasPrefix(res.TransactionRef, "TXN-") {
		t.Errorf("TransactionRef = %q, want TXN- prefix", res.TransactionRef)
	}
	verify(t, mock)
}

func TestCreateBookingInvalidDateRange(t *testing.T) {
	e, mock, done := newEngineWithMock(t)
	defer done()

	in := createInput(t)
	in.Checkout = in.Checkin
	if _, err := e.CreateBooking(context.Background(), in); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("equal dates: err = %v, want ErrInvalidDateRange", err)
	}

	in.Checkout = in.Checkin.AddDate(0, 0, -1)
	if _, err := e.CreateBooking(context.Background(), in); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("reversed dates: err = %v, want ErrInvalidDateRange", err)
	}

	// Rejected before the transaction starts: no Begin expected.
	verify(t, mock)
}

func TestCreateBookingRoomUnavailable(t *testing.T) {
	e, mock, done := newEngineWithMock(t)
	defer done()
	in := createInput(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockAvailableSQL).
		WithArgs(in.RoomID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hotel_id", "room_type_id", "base_price_cents"}))
	mock.ExpectRollback()

	_, err := e.CreateBooking(context.Background(), in)
	if !errors.Is(err, ErrRoomUnavailable) {
		t.Fatalf("err = %v, want ErrRoomUnavailable", err)
	}
	verify(t, mock)
}

func TestCreateBookingDateRangeConflict(t *testing.T) {
	e, mock, done := newEngineWithMock(t)
	defer done()
	in := createInput(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockAvailableSQL).
		WithArgs(in.RoomID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hotel_id", "room_type_id", "base_price_cents"}).
			AddRow(42, 3, 5, 10000))
	mock.ExpectQuery(countOverlapSQL).
		WithArgs(in.RoomID, "2024-03-01", "2024-03-04").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectRollback()

	_, err := e.CreateBooking(context.Background(), in)
	if !errors.Is(err, ErrDateRangeConflict) {
		t.Fatalf("err = %v, want ErrDateRangeConflict", err)
	}
	// No insert, payment, room update or audit entry was issued.
	verify(t, mock)
}

func TestCreateBookingRollsBackOnPaymentFailure(t *testing.T) {
	e, mock, done := newEngineWithMock(t)
	defer done()
	in := createInput(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(lockAvailableSQL).
		WithArgs(in.RoomID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hotel_id", "room_type_id", "base_price_cents"}).
			AddRow(42, 3, 5, 10000))
	mock.ExpectQuery(countOverlapSQL).
		WithArgs(in.RoomID, "2024-03-01", "2024-03-04").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec(insertBookingSQL).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery(bookingTimesSQL).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec(insertPaymentSQL).
		WillReturnError(errors.New("duplicate transaction_ref"))
	mock.ExpectRollback()

	_, err := e.CreateBooking(context.Background(), in)
	if err == nil {
		t.Fatal("expected error from payment insert")
	}
	if errors.Is(err, ErrRoomUnavailable) || errors.Is(err, ErrDateRangeConflict) {
		t.Fatalf("infrastructure failure surfaced as outcome error: %v", err)
	}
	verify(t, mock)
}

func TestCreateBookingCoercesGuestCount(t *testing.T) {
	e, mock, done := newEngineWithMock(t)
	defer done()
	in := createInput(t)
	in.GuestCount = 0
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(lockAvailableSQL).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hotel_id", "room_type_id", "base_price_cents"}).
			AddRow(42, 3, 5, 10000))
	mock.ExpectQuery(countOverlapSQL).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec(insertBookingSQL).
		WithArgs(in.UserID, in.RoomID, "2024-03-01", "2024-03-04", 30000, 1, "late checkin", model.BookingStatusConfirmed).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery(bookingTimesSQL).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec(insertPaymentSQL).
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec(updateRoomSQL).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertAuditSQL).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if _, err := e.CreateBooking(context.Background(), in); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	verify(t, mock)
}

func cancelBookingRow(t *testing.T, status string) *sqlmock.Rows {
	t.Helper()
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "room_id", "checkin_date", "checkout_date",
		"total_price_cents", "guest_count", "special_requests", "status",
		"created_at", "updated_at",
	}).AddRow(9, 7, 42, date(t, "2024-03-01"), date(t, "2024-03-04"), 30000, 2, "", status, now, now)
}

func TestCancelBookingSuccess(t *testing.T) {
	e, mock, done := newEngineWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(lockBookingSQL).
		WithArgs(9, 7).
		WillReturnRows(cancelBookingRow(t, model.BookingStatusConfirmed))
	mock.ExpectQuery(lockRoomSQL).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(model.RoomStatusOccupied))
	mock.ExpectExec(updateBookingSQL).
		WithArgs(model.BookingStatusCancelled, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(updateRoomSQL).
		WithArgs(model.RoomStatusAvailable, 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(refundSQL).
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertAuditSQL).
		WithArgs(9, 7, model.AuditActionCancelBooking, "bookings", 9, sqlmock.AnyArg(), "203.0.113.7").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	if err := e.CancelBooking(context.Background(), 7, 9, "203.0.113.7"); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	verify(t, mock)
}

func TestCancelBookingNotFoundForOtherUser(t *testing.T) {
	e, mock, done := newEngineWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(lockBookingSQL).
		WithArgs(9, 8).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := e.CancelBooking(context.Background(), 8, 9, "")
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("err = %v, want ErrBookingNotFound", err)
	}
	verify(t, mock)
}

func TestCancelBookingAlreadyCancelled(t *testing.T) {
	e, mock, done := newEngineWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(lockBookingSQL).
		WithArgs(9, 7).
		WillReturnRows(cancelBookingRow(t, model.BookingStatusCancelled))
	mock.ExpectQuery(lockRoomSQL).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(model.RoomStatusAvailable))
	mock.ExpectRollback()

	err := e.CancelBooking(context.Background(), 7, 9, "")
	if !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("err = %v, want ErrAlreadyCancelled", err)
	}
	// No status update, refund or audit entry was issued.
	verify(t, mock)
}

func TestCancelBookingAbortsWhenPaymentMissing(t *testing.T) {
	e, mock, done := newEngineWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(lockBookingSQL).
		WithArgs(9, 7).
		WillReturnRows(cancelBookingRow(t, model.BookingStatusConfirmed))
	mock.ExpectQuery(lockRoomSQL).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(model.RoomStatusOccupied))
	mock.ExpectExec(updateBookingSQL).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(updateRoomSQL).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(refundSQL).
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := e.CancelBooking(context.Background(), 7, 9, ""); err == nil {
		t.Fatal("expected error when no payment row exists")
	}
	verify(t, mock)
}

// Cancellation must make the room bookable again, including for a
// range that starts on the cancelled booking's checkout day. Three
// transactions run in sequence against one connection: book
// [03-01,03-04), cancel it, then book [03-04,03-06) on the same room.
func TestRebookAfterCancel(t *testing.T) {
	e, mock, done := newEngineWithMock(t)
	defer done()
	in := createInput(t)
	now := time.Now()

	// First booking commits and occupies the room.
	mock.ExpectBegin()
	mock.ExpectQuery(lockAvailableSQL).
		WithArgs(in.RoomID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hotel_id", "room_type_id", "base_price_cents"}).
			AddRow(42, 3, 5, 10000))
	mock.ExpectQuery(countOverlapSQL).
		WithArgs(in.RoomID, "2024-03-01", "2024-03-04").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec(insertBookingSQL).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery(bookingTimesSQL).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec(insertPaymentSQL).
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec(updateRoomSQL).
		WithArgs(model.RoomStatusOccupied, in.RoomID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertAuditSQL).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	// Cancellation frees the room.
	mock.ExpectBegin()
	mock.ExpectQuery(lockBookingSQL).
		WithArgs(9, in.UserID).
		WillReturnRows(cancelBookingRow(t, model.BookingStatusConfirmed))
	mock.ExpectQuery(lockRoomSQL).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(model.RoomStatusOccupied))
	mock.ExpectExec(updateBookingSQL).
		WithArgs(model.BookingStatusCancelled, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(updateRoomSQL).
		WithArgs(model.RoomStatusAvailable, 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(refundSQL).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertAuditSQL).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	// Second booking starts on the cancelled one's checkout day: the
	// room row is AVAILABLE again and the cancelled booking no longer
	// matches the blocking-status overlap count.
	mock.ExpectBegin()
	mock.ExpectQuery(lockAvailableSQL).
		WithArgs(in.RoomID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hotel_id", "room_type_id", "base_price_cents"}).
			AddRow(42, 3, 5, 10000))
	mock.ExpectQuery(countOverlapSQL).
		WithArgs(in.RoomID, "2024-03-04", "2024-03-06").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec(insertBookingSQL).
		WithArgs(in.UserID, in.RoomID, "2024-03-04", "2024-03-06", 20000, 2, "late checkin", model.BookingStatusConfirmed).
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectQuery(bookingTimesSQL).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec(insertPaymentSQL).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec(updateRoomSQL).
		WithArgs(model.RoomStatusOccupied, in.RoomID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertAuditSQL).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	first, err := e.CreateBooking(context.Background(), in)
	if err != nil {
		t.Fatalf("first CreateBooking: %v", err)
	}
	if err := e.CancelBooking(context.Background(), in.UserID, first.BookingID, in.ClientIP); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}

	in.Checkin = date(t, "2024-03-04")
	in.Checkout = date(t, "2024-03-06")
	second, err := e.CreateBooking(context.Background(), in)
	if err != nil {
		t.Fatalf("rebook after cancel: %v", err)
	}
	if second.BookingID != 10 {
		t.Errorf("BookingID = %d, want 10", second.BookingID)
	}
	if second.Nights != 2 || second.TotalPriceCents != 20000 {
		t.Errorf("got %d nights for %d cents, want 2 nights for 20000", second.Nights, second.TotalPriceCents)
	}
	verify(t, mock)
}
