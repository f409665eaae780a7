package repository

import (
	"context"
	"strings"
	"time"
)

// AvailabilityQuery defines filters & pagination for searching rooms
// that are free over a date range.  Checkin/Checkout are required and
// follow half-open [checkin, checkout) semantics.
type AvailabilityQuery struct {
	Checkin   time.Time
	Checkout  time.Time
	HotelID   uint64
	HotelName string
	RoomType  string
	MaxPrice  uint32 // cents per night; 0 means no cap
	Guests    uint32 // 0 means no capacity filter
	Page      int
	PageSize  int
}

// AvailableRoomRow is the JSON shape returned by availability search.
type AvailableRoomRow struct {
	RoomID         uint64  `json:"room_id"`
	RoomNumber     string  `json:"room_number"`
	HotelID        uint64  `json:"hotel_id"`
	HotelName      string  `json:"hotel_name"`
	RoomType       string  `json:"room_type"`
	Capacity       uint32  `json:"capacity"`
	BasePriceCents uint32  `json:"base_price_cents"`
	BasePrice      float64 `json:"base_price"`
}

// SearchAvailable returns rooms with no blocking booking intersecting
// the requested range.  The NOT EXISTS subquery is the same interval
// predicate the reservation engine re-evaluates under the room lock;
// running it here without a lock is fine because the result is only a
// suggestion; the engine remains the sole authority at booking time.
// The cached rooms.status column is deliberately not consulted: the
// ledger is authoritative for ranges.
func (r *RoomRepo) SearchAvailable(ctx context.Context, q AvailabilityQuery) ([]AvailableRoomRow, int64, error) {
	where := []string{"h.is_active = 1"}
	args := []any{}

	if q.HotelID != 0 {
		where = append(where, "h.id = ?")
		args = append(args, q.HotelID)
	}
	if q.HotelName != "" {
		where = append(where, "LOWER(h.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.HotelName)+"%")
	}
	if q.RoomType != "" {
		where = append(where, "LOWER(rt.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.RoomType)+"%")
	}
	if q.MaxPrice > 0 {
		where = append(where, "rt.base_price_cents <= ?")
		args = append(args, q.MaxPrice)
	}
	if q.Guests > 0 {
		where = append(where, "rt.capacity >= ?")
		args = append(args, q.Guests)
	}
	where = append(where, `NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.room_id = r.id
			  AND b.status IN ('PENDING','CONFIRMED')
			  AND b.checkout_date > ? AND b.checkin_date < ?
		)`)
	args = append(args, q.Checkin.Format(dateLayout), q.Checkout.Format(dateLayout))

	cond := strings.Join(where, " AND ")

	var total int64
	countSQL := `SELECT COUNT(*)
		FROM rooms r
		JOIN room_types rt ON rt.id = r.room_type_id
		JOIN hotels h      ON h.id = r.hotel_id
		WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if q.PageSize <= 0 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT
			r.id,
			r.room_number,
			h.id   AS hotel_id,
			h.name AS hotel_name,
			rt.name AS room_type,
			rt.capacity,
			rt.base_price_cents
		FROM rooms r
		JOIN room_types rt ON rt.id = r.room_type_id
		JOIN hotels h      ON h.id = r.hotel_id
		WHERE ` + cond + `
		ORDER BY h.id, r.room_number
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]AvailableRoomRow, 0, limit)
	for rows.Next() {
		var d AvailableRoomRow
		if err := rows.Scan(
			&d.RoomID,
			&d.RoomNumber,
			&d.HotelID,
			&d.HotelName,
			&d.RoomType,
			&d.Capacity,
			&d.BasePriceCents,
		); err != nil {
			return nil, 0, err
		}
		d.BasePrice = float64(d.BasePriceCents) / 100.0
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
