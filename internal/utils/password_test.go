package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("open sesame", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "open sesame") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "open says me") {
		t.Error("wrong password accepted")
	}
	if VerifyPassword("", "open sesame") {
		t.Error("empty hash accepted")
	}
}

func TestHashPasswordClampsCost(t *testing.T) {
	for _, cost := range []int{-1, 0, bcrypt.MaxCost + 1, 99} {
		hash, err := HashPassword("open sesame", cost)
		if err != nil {
			t.Fatalf("cost %d: HashPassword: %v", cost, err)
		}
		got, err := bcrypt.Cost([]byte(hash))
		if err != nil {
			t.Fatalf("cost %d: bcrypt.Cost: %v", cost, err)
		}
		if got != bcrypt.DefaultCost {
			t.Errorf("cost %d: hashed with cost %d, want clamped to %d", cost, got, bcrypt.DefaultCost)
		}
	}
}
