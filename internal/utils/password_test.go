package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptEncoder_HashAndCompare(t *testing.T) {
	enc := NewBcryptEncoder(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
	}{
		{name: "simple password", password: "p@ss"},
		{name: "complex password", password: "P@ssw0rd!#$%^&*()"},
		{name: "unicode password", password: "密码123"},
		{name: "empty password", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := enc.Hash(tt.password)
			require.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)
			assert.True(t, enc.Compare(tt.password, hash))
			assert.False(t, enc.Compare(tt.password+"x", hash))
		})
	}
}

func TestBcryptEncoder_UniqueHashes(t *testing.T) {
	enc := NewBcryptEncoder(bcrypt.MinCost)

	h1, err := enc.Hash("samepassword")
	require.NoError(t, err)
	h2, err := enc.Hash("samepassword")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "salted hashes must differ")
	assert.True(t, enc.Compare("samepassword", h1))
	assert.True(t, enc.Compare("samepassword", h2))
}

func TestBcryptEncoder_CompareMalformedHash(t *testing.T) {
	enc := NewBcryptEncoder(bcrypt.MinCost)
	assert.False(t, enc.Compare("whatever", "not-a-bcrypt-hash"))
	assert.False(t, enc.Compare("whatever", ""))
}

func TestBcryptEncoder_PasswordTooLong(t *testing.T) {
	enc := NewBcryptEncoder(bcrypt.MinCost)
	_, err := enc.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestNewBcryptEncoder_InvalidCostFallsBack(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewBcryptEncoder(0).cost)
	assert.Equal(t, DefaultBcryptCost, NewBcryptEncoder(99).cost)
	assert.Equal(t, 10, NewBcryptEncoder(10).cost)
}
