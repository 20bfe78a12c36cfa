package digest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// BLAKE3-256 of the empty input.
const emptyDigest = "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"

func TestBytes_Empty(t *testing.T) {
	assert.Equal(t, emptyDigest, Bytes(nil))
}

func TestDigestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.paper")
	data := []byte("PAPER capture bytes")
	require.NoError(t, os.WriteFile(path, data, 0600))

	got, err := NewBlake3().DigestFile(path)
	require.NoError(t, err)
	assert.Len(t, got, 64)
	assert.Equal(t, Bytes(data), got)
}

func TestDigestFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.paper")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	got, err := NewBlake3().DigestFile(path)
	require.NoError(t, err)
	assert.Equal(t, emptyDigest, got)
}

func TestDigestFile_Missing(t *testing.T) {
	_, err := NewBlake3().DigestFile(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReader_MatchesBytes(t *testing.T) {
	data := strings.Repeat("ink", 10000)
	got, err := Reader(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Bytes([]byte(data)), got)
}

func TestBytes_DifferentInputs(t *testing.T) {
	assert.NotEqual(t, Bytes([]byte("a")), Bytes([]byte("b")))
}
