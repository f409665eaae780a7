package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// ErrRoomTypeNotFound is returned when a room type lookup fails.
var ErrRoomTypeNotFound = errors.New("room type not found")

// RoomTypeRepo provides data access for room types.  Room types carry
// the nightly base price used by the reservation engine when pricing
// a stay.
type RoomTypeRepo struct {
	db *sql.DB
}

// NewRoomTypeRepo constructs a RoomTypeRepo with the given DB handle.
func NewRoomTypeRepo(db *sql.DB) *RoomTypeRepo {
	return &RoomTypeRepo{db: db}
}

const roomTypeColumns = `id, hotel_id, name, description, base_price_cents, capacity, created_at, updated_at`

func scanRoomType(row interface{ Scan(...any) error }, t *model.RoomType) error {
	var desc sql.NullString
	if err := row.Scan(&t.ID, &t.HotelID, &t.Name, &desc, &t.BasePriceCents, &t.Capacity, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return err
	}
	if desc.Valid {
		d := desc.String
		t.Description = &d
	}
	return nil
}

// Create inserts a new room type and reads the record back so
// timestamps are populated on the passed struct.
func (r *RoomTypeRepo) Create(ctx context.Context, t *model.RoomType) error {
	const qInsert = `INSERT INTO room_types (hotel_id, name, description, base_price_cents, capacity)
	                 VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, t.HotelID, t.Name, t.Description, t.BasePriceCents, t.Capacity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const qSelect = `SELECT ` + roomTypeColumns + ` FROM room_types WHERE id = ?`
	return scanRoomType(r.db.QueryRowContext(ctx, qSelect, t.ID), t)
}

// GetByID retrieves a room type by its ID.  It returns
// ErrRoomTypeNotFound when no row is found.
func (r *RoomTypeRepo) GetByID(ctx context.Context, id uint64) (*model.RoomType, error) {
	const q = `SELECT ` + roomTypeColumns + ` FROM room_types WHERE id = ?`
	var t model.RoomType
	if err := scanRoomType(r.db.QueryRowContext(ctx, q, id), &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomTypeNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListByHotel returns all room types belonging to a hotel, ordered by id.
func (r *RoomTypeRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]*model.RoomType, error) {
	const q = `SELECT ` + roomTypeColumns + ` FROM room_types WHERE hotel_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.RoomType
	for rows.Next() {
		t := new(model.RoomType)
		if err := scanRoomType(rows, t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes name, description, base price and capacity.  Returns
// sql.ErrNoRows when the room type does not exist.
func (r *RoomTypeRepo) Update(ctx context.Context, t *model.RoomType) error {
	const q = `UPDATE room_types
               SET name = ?, description = ?, base_price_cents = ?, capacity = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Description, t.BasePriceCents, t.Capacity, t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a room type.  Returns ErrConflict when rooms still
// reference it and sql.ErrNoRows when it does not exist.
func (r *RoomTypeRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM room_types WHERE id = ?`, id)
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
