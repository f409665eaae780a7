package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// The WHERE clauses are load-bearing: revocation and expiry must be
// checked in SQL, and revocation updates must never touch rows that
// are already revoked or belong to another user.
const (
	validateRefreshSQL = `SELECT user_id FROM refresh_tokens WHERE token_hash = . AND revoked_at IS NULL AND expires_at > UTC_TIMESTAMP\(\) LIMIT 1`
	revokeByHashSQL    = `UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP\(\) WHERE token_hash = . AND revoked_at IS NULL`
	revokeAllSQL       = `UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP\(\) WHERE user_id = . AND revoked_at IS NULL`
)

func newTokenRepoWithMock(t *testing.T) (*TokenRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	return NewTokenRepo(db), mock, func() { db.Close() }
}

func TestValidateRefreshResolvesOwner(t *testing.T) {
	r, mock, done := newTokenRepoWithMock(t)
	defer done()

	mock.ExpectQuery(validateRefreshSQL).
		WithArgs("deadbeef").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(7))

	userID, err := r.ValidateRefresh(context.Background(), "deadbeef")
	if err != nil {
		t.Fatalf("ValidateRefresh: %v", err)
	}
	if userID != 7 {
		t.Errorf("userID = %d, want 7", userID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestValidateRefreshRejectsDeadTokens(t *testing.T) {
	r, mock, done := newTokenRepoWithMock(t)
	defer done()

	// Revoked and expired tokens never match the filtered query, so
	// they are indistinguishable from unknown hashes.
	mock.ExpectQuery(validateRefreshSQL).
		WithArgs("revoked-or-expired").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	if _, err := r.ValidateRefresh(context.Background(), "revoked-or-expired"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("err = %v, want sql.ErrNoRows", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRevokeScoping(t *testing.T) {
	r, mock, done := newTokenRepoWithMock(t)
	defer done()

	mock.ExpectExec(revokeByHashSQL).
		WithArgs("deadbeef").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(revokeAllSQL).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := r.RevokeByHash(context.Background(), "deadbeef"); err != nil {
		t.Fatalf("RevokeByHash: %v", err)
	}
	if err := r.RevokeAllForUser(context.Background(), 7); err != nil {
		t.Fatalf("RevokeAllForUser: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoreRefreshInsertsHashOnly(t *testing.T) {
	r, mock, done := newTokenRepoWithMock(t)
	defer done()
	exp := time.Now().Add(24 * time.Hour)

	mock.ExpectExec(`INSERT INTO refresh_tokens \(user_id, token_hash, expires_at\)`).
		WithArgs(uint64(7), "deadbeef", exp).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := r.StoreRefresh(context.Background(), 7, "deadbeef", exp); err != nil {
		t.Fatalf("StoreRefresh: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
