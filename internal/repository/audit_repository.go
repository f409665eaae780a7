package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// AuditRepo provides append and query access to the audit_logs
// table.  Appends happen inside the same transaction as the state
// change they describe so that a rolled-back action leaves no trace
// in the log.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo returns a new AuditRepo bound to the given database.
func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{db: db} }

// AppendTx writes one audit entry within the provided transaction.
func (r *AuditRepo) AppendTx(ctx context.Context, tx *sql.Tx, e *model.AuditLogEntry) error {
	const q = `INSERT INTO audit_logs (booking_id, user_id, action, target_table, target_id, details, ip)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, e.BookingID, e.UserID, e.Action, e.TargetTable, e.TargetID, e.Details, e.IP)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// Append writes one audit entry outside any engine transaction.  Used
// by admin override paths, which are single-statement changes.
func (r *AuditRepo) Append(ctx context.Context, e *model.AuditLogEntry) error {
	const q = `INSERT INTO audit_logs (booking_id, user_id, action, target_table, target_id, details, ip)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, e.BookingID, e.UserID, e.Action, e.TargetTable, e.TargetID, e.Details, e.IP)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// AuditQuery defines filters and pagination for listing audit
// entries.  Zero values mean "no filter".
type AuditQuery struct {
	BookingID uint64
	UserID    uint64
	Action    string
	Page      int
	PageSize  int
}

// AuditRow is the JSON shape returned to admin listings.
type AuditRow struct {
	ID          uint64  `json:"id"`
	BookingID   *uint64 `json:"booking_id,omitempty"`
	UserID      uint64  `json:"user_id"`
	Action      string  `json:"action"`
	TargetTable string  `json:"target_table"`
	TargetID    uint64  `json:"target_id"`
	Details     string  `json:"details"`
	IP          *string `json:"ip,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// List returns audit entries newest first, with an overall count for
// pagination.  Filters combine with AND.
func (r *AuditRepo) List(ctx context.Context, q AuditQuery) ([]AuditRow, int64, error) {
	where := []string{}
	args := []any{}
	if q.BookingID != 0 {
		where = append(where, "booking_id = ?")
		args = append(args, q.BookingID)
	}
	if q.UserID != 0 {
		where = append(where, "user_id = ?")
		args = append(args, q.UserID)
	}
	if q.Action != "" {
		where = append(where, "action = ?")
		args = append(args, strings.ToUpper(strings.TrimSpace(q.Action)))
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if q.PageSize <= 0 {
		q.PageSize = 50
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT id, booking_id, user_id, action, target_table, target_id, details, ip,
	                   DATE_FORMAT(created_at, '%Y-%m-%d %T')
	            FROM audit_logs
	            WHERE ` + cond + `
	            ORDER BY id DESC
	            LIMIT ? OFFSET ?`
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]AuditRow, 0, limit)
	for rows.Next() {
		var row AuditRow
		var bookingID sql.NullInt64
		var ip sql.NullString
		if err := rows.Scan(&row.ID, &bookingID, &row.UserID, &row.Action, &row.TargetTable, &row.TargetID, &row.Details, &ip, &row.CreatedAt); err != nil {
			return nil, 0, err
		}
		if bookingID.Valid {
			b := uint64(bookingID.Int64)
			row.BookingID = &b
		}
		if ip.Valid {
			v := ip.String
			row.IP = &v
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
