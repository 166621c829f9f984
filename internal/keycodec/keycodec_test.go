package keycodec

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keyFormat = regexp.MustCompile(`^([0-9A-F]{4}-){7}[0-9A-F]{4}$`)

func TestGenerateFormat(t *testing.T) {
	key, err := Generate()
	require.NoError(t, err)
	assert.Len(t, key, 39) // 32 hex + 7 дефисов
	assert.Regexp(t, keyFormat, key)
}

func TestGenerateUniqueness(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		key, err := Generate()
		require.NoError(t, err)
		_, dup := seen[key]
		require.False(t, dup, "duplicate key after %d generations: %s", i, key)
		seen[key] = struct{}{}
	}
}

func TestFingerprint(t *testing.T) {
	key, err := Generate()
	require.NoError(t, err)

	fp := Fingerprint(key)
	assert.Len(t, fp, 64)
	assert.Regexp(t, `^[0-9a-f]{64}$`, fp)
	assert.Equal(t, fp, Fingerprint(key), "fingerprint must be deterministic")
	assert.NotEqual(t, fp, Fingerprint(key+"X"))

	// известный вектор sha256
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		Fingerprint(""))
}
