package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUserNormalizesEmailAndMapsDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	r := NewUserRepo(db)

	mock.ExpectExec(`INSERT INTO users \(email, password_hash, role\)`).
		WithArgs("guest@hotel.test", sqlmock.AnyArg(), "CUSTOMER").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec(`INSERT INTO users \(email, password_hash, role\)`).
		WithArgs("guest@hotel.test", sqlmock.AnyArg(), "CUSTOMER").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'guest@hotel.test' for key 'users.email'"))

	id, err := r.Create(context.Background(), "  Guest@Hotel.Test ", "open sesame", "CUSTOMER", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != 3 {
		t.Errorf("id = %d, want 3", id)
	}

	if _, err := r.Create(context.Background(), "guest@hotel.test", "open sesame", "CUSTOMER", bcrypt.MinCost); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("duplicate: err = %v, want ErrEmailExists", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
