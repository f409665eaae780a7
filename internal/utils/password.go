package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword bcrypt-hashes an account password.  Costs outside
// bcrypt's valid range are clamped to the default so a misconfigured
// BCRYPT_COST cannot weaken hashing or crash registration.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether the password matches the stored hash
// in constant time.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
