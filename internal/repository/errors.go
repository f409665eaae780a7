// Package repository defines error values that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as handlers to distinguish between different failure
// scenarios without inspecting driver error strings. Entity-specific
// not-found errors live next to the repository that returns them.
package repository

import (
	"errors"
	"strings"
)

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as attempting to
// delete a room that still has blocking bookings. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// isFKViolation reports whether the error is a MySQL foreign key
// constraint failure (1451 child rows exist, 1452 parent missing).
func isFKViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "1451") || strings.Contains(msg, "1452")
}
