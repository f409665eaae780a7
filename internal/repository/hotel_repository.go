package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// ErrHotelNotFound is returned when a hotel lookup fails.
var ErrHotelNotFound = errors.New("hotel not found")

// HotelRepo provides methods to create and retrieve hotels.  It embeds
// a database handle to perform queries and commands.
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo constructs a HotelRepo with the given DB handle.
func NewHotelRepo(db *sql.DB) *HotelRepo {
	return &HotelRepo{db: db}
}

const hotelColumns = `id, name, address, description, is_active, created_at, updated_at`

func scanHotel(row interface{ Scan(...any) error }, h *model.Hotel) error {
	var desc sql.NullString
	if err := row.Scan(&h.ID, &h.Name, &h.Address, &desc, &h.IsActive, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return err
	}
	if desc.Valid {
		d := desc.String
		h.Description = &d
	}
	return nil
}

// Create inserts a new hotel.  Name and Address must be set.  After
// insert the record is queried back so timestamps and defaults are
// populated on the passed struct.
func (r *HotelRepo) Create(ctx context.Context, h *model.Hotel) error {
	const qInsert = `INSERT INTO hotels (name, address, description) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, h.Name, h.Address, h.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	const qSelect = `SELECT ` + hotelColumns + ` FROM hotels WHERE id = ?`
	return scanHotel(r.db.QueryRowContext(ctx, qSelect, h.ID), h)
}

// GetByID retrieves a hotel by its ID.  It returns ErrHotelNotFound
// when no row is found.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (*model.Hotel, error) {
	const q = `SELECT ` + hotelColumns + ` FROM hotels WHERE id = ?`
	var h model.Hotel
	if err := scanHotel(r.db.QueryRowContext(ctx, q, id), &h); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	return &h, nil
}

// ListActive returns all hotels currently open for booking, ordered by id.
func (r *HotelRepo) ListActive(ctx context.Context) ([]*model.Hotel, error) {
	const q = `SELECT ` + hotelColumns + ` FROM hotels WHERE is_active = 1 ORDER BY id`
	return r.list(ctx, q)
}

// ListAll returns every hotel regardless of active flag, ordered by id.
// Used by admin endpoints.
func (r *HotelRepo) ListAll(ctx context.Context) ([]*model.Hotel, error) {
	const q = `SELECT ` + hotelColumns + ` FROM hotels ORDER BY id`
	return r.list(ctx, q)
}

func (r *HotelRepo) list(ctx context.Context, q string, args ...any) ([]*model.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Hotel
	for rows.Next() {
		h := new(model.Hotel)
		if err := scanHotel(rows, h); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes name, address, description and active flag of a
// hotel.  Returns sql.ErrNoRows when the hotel does not exist.
func (r *HotelRepo) Update(ctx context.Context, h *model.Hotel) error {
	const q = `UPDATE hotels
               SET name = ?, address = ?, description = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, h.Name, h.Address, h.Description, h.IsActive, h.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a hotel.  It returns ErrConflict when rooms still
// reference the hotel (foreign key 1451) and sql.ErrNoRows when the
// hotel does not exist.
func (r *HotelRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM hotels WHERE id = ?`, id)
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
