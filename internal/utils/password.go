package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when no cost is configured.
const DefaultBcryptCost = 12

// ErrPasswordTooLong is returned when the password exceeds bcrypt's 72-byte input limit.
var ErrPasswordTooLong = errors.New("password must be at most 72 bytes")

// BcryptEncoder hashes and compares passwords with bcrypt.
type BcryptEncoder struct {
	cost int
}

// NewBcryptEncoder returns an encoder using cost, falling back to
// DefaultBcryptCost when cost is outside bcrypt's accepted range.
func NewBcryptEncoder(cost int) *BcryptEncoder {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptEncoder{cost: cost}
}

// Hash returns a salted bcrypt hash of plain. Two calls with the same input
// produce different hashes.
func (e *BcryptEncoder) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), e.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", err
	}
	return string(b), nil
}

// Compare safely compares a bcrypt hash with a plain password. Any mismatch,
// including a malformed hash, yields false.
func (e *BcryptEncoder) Compare(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
