package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// dateLayout is how DATE columns travel to and from MySQL.
const dateLayout = "2006-01-02"

// BookingRepo provides data access to the bookings table.  Bookings
// group a user, a room and a half-open date range.  The Tx methods
// are called by the reservation and cancellation engines inside their
// transaction; the remaining methods serve read endpoints.  All
// timestamp fields are assumed to be stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CountOverlappingTx counts bookings for a room whose date range
// intersects [checkin, checkout) and whose status blocks new bookings
// (PENDING or CONFIRMED).  Two half-open intervals [a1,a2) and
// [b1,b2) overlap iff NOT (a2 <= b1 OR b2 <= a1); the WHERE clause is
// that negation spelled out.  Must be called while the engine holds
// the room row lock, otherwise the count can go stale before the
// insert.
func (r *BookingRepo) CountOverlappingTx(ctx context.Context, tx *sql.Tx, roomID uint64, checkin, checkout time.Time) (int, error) {
	const q = `SELECT COUNT(*) FROM bookings
               WHERE room_id = ?
                 AND status IN ('PENDING','CONFIRMED')
                 AND checkout_date > ? AND checkin_date < ?`
	var n int
	err := tx.QueryRowContext(ctx, q, roomID, checkin.Format(dateLayout), checkout.Format(dateLayout)).Scan(&n)
	return n, err
}

// CreateTx inserts a new booking within the scope of an existing
// transaction.  It populates the generated ID on the provided record
// and queries the row back to fill timestamps.  The caller must
// commit or roll back the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings
               (user_id, room_id, checkin_date, checkout_date, total_price_cents, guest_count, special_requests, status)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		b.UserID, b.RoomID,
		b.CheckinDate.Format(dateLayout), b.CheckoutDate.Format(dateLayout),
		b.TotalPriceCents, b.GuestCount, b.SpecialRequests, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt)
}

// GetForUpdateTx locks the booking row for the given id scoped to the
// requesting user.  A booking owned by someone else behaves exactly
// like a missing booking (sql.ErrNoRows) so existence is not leaked
// to unauthorized callers.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, bookingID, userID uint64) (*model.Booking, error) {
	const q = `SELECT id, user_id, room_id, checkin_date, checkout_date,
	                  total_price_cents, guest_count, special_requests, status,
	                  created_at, updated_at
               FROM bookings
               WHERE id = ? AND user_id = ?
               FOR UPDATE`
	var b model.Booking
	// parseTime=true in the DSN maps DATE columns onto time.Time.
	err := tx.QueryRowContext(ctx, q, bookingID, userID).Scan(
		&b.ID, &b.UserID, &b.RoomID, &b.CheckinDate, &b.CheckoutDate,
		&b.TotalPriceCents, &b.GuestCount, &b.SpecialRequests, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateStatusTx flips the booking status within the transaction.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, bookingID uint64, status string) error {
	const q = `UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, status, bookingID)
	return err
}

// BookingDetail carries a booking together with room and hotel
// context for display to customers.
type BookingDetail struct {
	ID              uint64 `json:"id"`
	RoomID          uint64 `json:"room_id"`
	RoomNumber      string `json:"room_number"`
	RoomType        string `json:"room_type"`
	HotelID         uint64 `json:"hotel_id"`
	HotelName       string `json:"hotel_name"`
	CheckinDate     string `json:"checkin_date"`
	CheckoutDate    string `json:"checkout_date"`
	TotalPriceCents uint32 `json:"total_price_cents"`
	GuestCount      uint32 `json:"guest_count"`
	SpecialRequests string `json:"special_requests"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
}

const bookingDetailSelect = `SELECT b.id, b.room_id, r.room_number, rt.name, h.id, h.name,
                      DATE_FORMAT(b.checkin_date, '%Y-%m-%d'),
                      DATE_FORMAT(b.checkout_date, '%Y-%m-%d'),
                      b.total_price_cents, b.guest_count, b.special_requests, b.status,
                      DATE_FORMAT(b.created_at, '%Y-%m-%d %T')
               FROM bookings b
               JOIN rooms r       ON r.id = b.room_id
               JOIN room_types rt ON rt.id = r.room_type_id
               JOIN hotels h      ON h.id = r.hotel_id`

func scanBookingDetail(row interface{ Scan(...any) error }, d *BookingDetail) error {
	return row.Scan(
		&d.ID, &d.RoomID, &d.RoomNumber, &d.RoomType, &d.HotelID, &d.HotelName,
		&d.CheckinDate, &d.CheckoutDate,
		&d.TotalPriceCents, &d.GuestCount, &d.SpecialRequests, &d.Status,
		&d.CreatedAt,
	)
}

// GetByIDForUser returns a single booking for the given user with
// room and hotel details.  Ownership is enforced in SQL; when no
// booking with the specified ID exists for the user, sql.ErrNoRows is
// returned.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID, userID uint64) (*BookingDetail, error) {
	const q = bookingDetailSelect + ` WHERE b.id = ? AND b.user_id = ?`
	var d BookingDetail
	if err := scanBookingDetail(r.db.QueryRowContext(ctx, q, bookingID, userID), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByUser returns all bookings for the given user ordered by
// creation time descending (newest first).  When no bookings exist,
// an empty slice is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = bookingDetailSelect + ` WHERE b.user_id = ? ORDER BY b.created_at DESC`
	return r.listDetails(ctx, q, userID)
}

// ListByHotel returns all bookings touching rooms of a hotel, newest
// first.  Used by admin endpoints.
func (r *BookingRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]BookingDetail, error) {
	const q = bookingDetailSelect + ` WHERE h.id = ? ORDER BY b.created_at DESC`
	return r.listDetails(ctx, q, hotelID)
}

func (r *BookingRepo) listDetails(ctx context.Context, q string, args ...any) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		if err := scanBookingDetail(rows, &d); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// AdminUpdateStatus sets a booking status outside the engines, for
// example marking a stay COMPLETED after checkout.  It deliberately
// bypasses overlap checking; the caller owns the consequences.
// Returns sql.ErrNoRows when the booking does not exist.
func (r *BookingRepo) AdminUpdateStatus(ctx context.Context, bookingID uint64, status string) error {
	const q = `UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, bookingID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
