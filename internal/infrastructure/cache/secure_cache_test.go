package cache

import (
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T, size int) string {
	t.Helper()
	raw := make([]byte, size)
	_, err := rand.Read(raw)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(raw)
}

func TestNewSecureCache_KeyValidation(t *testing.T) {
	_, err := NewSecureCache(nil, "not base64 !!!")
	require.Error(t, err)

	_, err = NewSecureCache(nil, testKey(t, 16))
	require.Error(t, err, "short keys are rejected")

	_, err = NewSecureCache(nil, testKey(t, 32))
	require.NoError(t, err)

	// Longer material is truncated to 32 bytes rather than rejected.
	_, err = NewSecureCache(nil, testKey(t, 48))
	require.NoError(t, err)
}

func TestSecureCache_SealOpenRoundTrip(t *testing.T) {
	c, err := NewSecureCache(nil, testKey(t, 32))
	require.NoError(t, err)

	plaintext := []byte(`[{"id":"1","email":"a@example.com","riskScore":42}]`)

	sealed, err := c.seal(plaintext)
	require.NoError(t, err)
	assert.NotContains(t, sealed, "example.com", "ciphertext must not leak plaintext")

	opened, err := c.open(sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestSecureCache_SealIsNonDeterministic(t *testing.T) {
	c, err := NewSecureCache(nil, testKey(t, 32))
	require.NoError(t, err)

	a, err := c.seal([]byte("payload"))
	require.NoError(t, err)
	b, err := c.seal([]byte("payload"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "each entry gets a fresh nonce")
}

func TestSecureCache_OpenRejectsTampering(t *testing.T) {
	c, err := NewSecureCache(nil, testKey(t, 32))
	require.NoError(t, err)

	sealed, err := c.seal([]byte("payload"))
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sealed)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xFF

	_, err = c.open(base64.StdEncoding.EncodeToString(raw))
	require.Error(t, err)
}

func TestSecureCache_OpenRejectsWrongKey(t *testing.T) {
	a, err := NewSecureCache(nil, testKey(t, 32))
	require.NoError(t, err)
	b, err := NewSecureCache(nil, testKey(t, 32))
	require.NoError(t, err)

	sealed, err := a.seal([]byte("payload"))
	require.NoError(t, err)

	_, err = b.open(sealed)
	require.Error(t, err)
}

func TestSecureCache_OpenRejectsTruncatedEntry(t *testing.T) {
	c, err := NewSecureCache(nil, testKey(t, 32))
	require.NoError(t, err)

	_, err = c.open(base64.StdEncoding.EncodeToString([]byte("short")))
	require.Error(t, err)
}
