package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheapParams keeps hashing fast in tests.
var cheapParams = HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := NewPasswordHasher(cheapParams)

	encoded, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$"))
	assert.NotContains(t, encoded, "correct horse")

	assert.True(t, h.Verify(encoded, "correct horse"))
	assert.False(t, h.Verify(encoded, "Correct horse"))
	assert.False(t, h.Verify(encoded, ""))
}

func TestPasswordHasher_SaltsDiffer(t *testing.T) {
	h := NewPasswordHasher(cheapParams)

	a, err := h.Hash("secret1")
	require.NoError(t, err)
	b, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestPasswordHasher_VerifyUsesEncodedParams(t *testing.T) {
	encoded, err := NewPasswordHasher(cheapParams).Hash("secret1")
	require.NoError(t, err)

	// A hasher with different defaults still verifies older hashes.
	assert.True(t, NewPasswordHasher(DefaultHashParams).Verify(encoded, "secret1"))
}

func TestPasswordHasher_Rejects(t *testing.T) {
	h := NewPasswordHasher(cheapParams)

	_, err := h.Hash("")
	require.ErrorIs(t, err, ErrEmptyPassword)

	_, err = h.Hash(strings.Repeat("a", maxPasswordLength+1))
	require.Error(t, err)

	for _, bad := range []string{"", "plain", "$argon2i$v=19$m=1,t=1,p=1$AA$AA", "$argon2id$v=1$m=1,t=1,p=1$AA$AA"} {
		assert.False(t, h.Verify(bad, "anything"), bad)
	}
}
