package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, hasher.Compare(hash, "s3cret-pass"))
	assert.ErrorIs(t, hasher.Compare(hash, "wrong-pass"), ErrPasswordMismatch)
}

func TestHash_LengthBounds(t *testing.T) {
	hasher := NewBcryptHasher(4)

	_, err := hasher.Hash("short")
	assert.Error(t, err)

	_, err = hasher.Hash(strings.Repeat("x", 73))
	assert.Error(t, err)

	_, err = hasher.Hash(strings.Repeat("x", 72))
	assert.NoError(t, err)
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	// out-of-range costs must not panic GenerateFromPassword
	for _, cost := range []int{-1, 0, 99} {
		hash, err := NewBcryptHasher(cost).Hash("s3cret-pass")
		require.NoError(t, err, "cost %d", cost)
		assert.NotEmpty(t, hash)
	}
}
