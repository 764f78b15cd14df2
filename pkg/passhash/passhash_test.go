package passhash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFormat(t *testing.T) {
	hash, err := Hash("secret123")
	require.NoError(t, err)

	digestHex, saltHex, ok := strings.Cut(hash, ":")
	require.True(t, ok, "hash must contain a single colon separator")

	assert.Len(t, digestHex, 64, "sha256 digest is 32 bytes hex-encoded")
	assert.Len(t, saltHex, 32, "salt is 16 bytes hex-encoded")
	assert.Equal(t, strings.ToLower(digestHex), digestHex)
	assert.Equal(t, strings.ToLower(saltHex), saltHex)

	_, err = hex.DecodeString(digestHex)
	assert.NoError(t, err)
	_, err = hex.DecodeString(saltHex)
	assert.NoError(t, err)
}

func TestHashProducesDistinctSalts(t *testing.T) {
	first, err := Hash("same-password")
	require.NoError(t, err)
	second, err := Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "fresh salt per call means distinct hashes")
	assert.True(t, Verify("same-password", first))
	assert.True(t, Verify("same-password", second))
}

func TestVerify(t *testing.T) {
	hash, err := Hash("correct horse")
	require.NoError(t, err)

	assert.True(t, Verify("correct horse", hash))
	assert.False(t, Verify("wrong horse", hash))
	assert.False(t, Verify("", hash))
}

func TestVerifyLegacyRecord(t *testing.T) {
	// A record produced outside this package must verify bit-identically.
	salt := []byte("0123456789abcdef")
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte("legacy-password"))
	stored := hex.EncodeToString(h.Sum(nil)) + ":" + hex.EncodeToString(salt)

	assert.True(t, Verify("legacy-password", stored))
	assert.False(t, Verify("other-password", stored))
}

func TestVerifyMalformedStored(t *testing.T) {
	tests := []struct {
		name   string
		stored string
	}{
		{"empty", ""},
		{"no separator", "deadbeef"},
		{"bad salt hex", "deadbeef:zzzz"},
		{"bad digest hex", "not-hex:deadbeef"},
		{"separator only", ":"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Verify("anything", tt.stored))
		})
	}
}
