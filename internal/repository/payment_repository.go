package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// PaymentRepo provides data access to the payments table.  Payments
// are written and refunded exclusively inside the engine transaction,
// so the mutating methods take a *sql.Tx.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// CreateTx inserts the payment row for a freshly created booking
// within the provided transaction and populates the generated ID.
// TransactionRef must already be set and is unique; a collision
// surfaces as a driver error and aborts the whole booking.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	const q = `INSERT INTO payments (booking_id, amount_cents, method, status, transaction_ref)
               VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.BookingID, p.AmountCents, p.Method, p.Status, p.TransactionRef)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// MarkRefundedByBookingTx flips the payment of a booking to REFUNDED
// within the provided transaction.  sql.ErrNoRows is returned when no
// payment row exists for the booking, which indicates corrupted state
// and should abort the cancellation.
func (r *PaymentRepo) MarkRefundedByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error {
	const q = `UPDATE payments SET status = 'REFUNDED' WHERE booking_id = ?`
	res, err := tx.ExecContext(ctx, q, bookingID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetByBookingID fetches the payment attached to a booking.
func (r *PaymentRepo) GetByBookingID(ctx context.Context, bookingID uint64) (*model.Payment, error) {
	const q = `SELECT id, booking_id, amount_cents, method, status, transaction_ref, created_at
               FROM payments WHERE booking_id = ? LIMIT 1`
	var p model.Payment
	err := r.db.QueryRowContext(ctx, q, bookingID).Scan(
		&p.ID, &p.BookingID, &p.AmountCents, &p.Method, &p.Status, &p.TransactionRef, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
