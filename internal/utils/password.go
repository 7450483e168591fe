package utils

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost matches bcrypt's own default of 10 rounds. Used when
// the configured cost is out of bcrypt's accepted range.
const DefaultBcryptCost = bcrypt.DefaultCost

// HashPassword returns a bcrypt hash of plain using the given cost. Bcrypt
// embeds a fresh random salt in every hash, so two hashes of the same
// password never match each other.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares a bcrypt hash and a plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
