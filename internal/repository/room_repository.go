package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// ErrRoomNotFound is returned when a room lookup fails.
var ErrRoomNotFound = errors.New("room not found")

// RoomRepo provides data access for rooms.  The Tx methods run inside
// a caller-supplied transaction so that the reservation and
// cancellation engines can keep the room lock, the overlap check and
// every subsequent write on one atomic unit.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// LockedRoom carries the fields the reservation engine needs from the
// room row it has locked: identity plus the nightly base price joined
// in from the room type.
type LockedRoom struct {
	ID             uint64
	HotelID        uint64
	RoomTypeID     uint64
	BasePriceCents uint32
}

// LockAvailableTx acquires an exclusive lock on the room row, filtered
// to AVAILABLE status, and returns its pricing information.  The lock
// is held until the transaction commits or rolls back; a second
// transaction selecting the same row blocks here, which is what
// serializes concurrent bookings of one room.  sql.ErrNoRows means the
// room is missing or not currently AVAILABLE.
func (r *RoomRepo) LockAvailableTx(ctx context.Context, tx *sql.Tx, roomID uint64) (*LockedRoom, error) {
	const q = `SELECT r.id, r.hotel_id, r.room_type_id, rt.base_price_cents
               FROM rooms r
               JOIN room_types rt ON rt.id = r.room_type_id
               WHERE r.id = ? AND r.status = 'AVAILABLE'
               FOR UPDATE`
	var lr LockedRoom
	if err := tx.QueryRowContext(ctx, q, roomID).Scan(&lr.ID, &lr.HotelID, &lr.RoomTypeID, &lr.BasePriceCents); err != nil {
		return nil, err
	}
	return &lr, nil
}

// LockTx acquires an exclusive lock on the room row regardless of its
// status.  The cancellation engine takes this lock so that freeing a
// room never interleaves with a concurrent availability check on the
// same room.  sql.ErrNoRows means the room does not exist.
func (r *RoomRepo) LockTx(ctx context.Context, tx *sql.Tx, roomID uint64) (string, error) {
	const q = `SELECT status FROM rooms WHERE id = ? FOR UPDATE`
	var status string
	if err := tx.QueryRowContext(ctx, q, roomID).Scan(&status); err != nil {
		return "", err
	}
	return status, nil
}

// UpdateStatusTx flips the cached room status within the transaction.
func (r *RoomRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, roomID uint64, status string) error {
	const q = `UPDATE rooms SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, status, roomID)
	return err
}

const roomColumns = `id, hotel_id, room_type_id, room_number, status, created_at, updated_at`

func scanRoom(row interface{ Scan(...any) error }, m *model.Room) error {
	return row.Scan(&m.ID, &m.HotelID, &m.RoomTypeID, &m.RoomNumber, &m.Status, &m.CreatedAt, &m.UpdatedAt)
}

// Create inserts a new room with AVAILABLE status and reads the
// record back so timestamps are populated on the passed struct.
func (r *RoomRepo) Create(ctx context.Context, m *model.Room) error {
	const qInsert = `INSERT INTO rooms (hotel_id, room_type_id, room_number, status)
	                 VALUES (?, ?, ?, 'AVAILABLE')`
	res, err := r.db.ExecContext(ctx, qInsert, m.HotelID, m.RoomTypeID, m.RoomNumber)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	const qSelect = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	return scanRoom(r.db.QueryRowContext(ctx, qSelect, m.ID), m)
}

// GetByID retrieves a room by its ID.  It returns ErrRoomNotFound
// when no row is found.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	var m model.Room
	if err := scanRoom(r.db.QueryRowContext(ctx, q, id), &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListByHotel returns all rooms of a hotel, ordered by room number.
func (r *RoomRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]*model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE hotel_id = ? ORDER BY room_number`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Room
	for rows.Next() {
		m := new(model.Room)
		if err := scanRoom(rows, m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes the room number and room type of a room.  Returns
// sql.ErrNoRows when the room does not exist.
func (r *RoomRepo) Update(ctx context.Context, m *model.Room) error {
	const q = `UPDATE rooms
               SET room_type_id = ?, room_number = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, m.RoomTypeID, m.RoomNumber, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// OverrideStatus sets the room status outside the booking engines.
// This is the admin escape hatch (maintenance, cleaning, manual
// release); it deliberately performs no overlap checking.  Returns
// sql.ErrNoRows when the room does not exist.
func (r *RoomRepo) OverrideStatus(ctx context.Context, roomID uint64, status string) error {
	const q = `UPDATE rooms SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, roomID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a room.  Returns ErrConflict when bookings still
// reference it and sql.ErrNoRows when it does not exist.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		if isFKViolation(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
