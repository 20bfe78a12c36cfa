package compress

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compressible() []byte {
	return bytes.Repeat([]byte("pen sample 0123 "), 256)
}

func TestCompress_RoundTrip(t *testing.T) {
	data := compressible()

	for _, alg := range []Algorithm{None, Zip, LZ4, Zstd} {
		t.Run(string(alg), func(t *testing.T) {
			packed, err := Compress(data, alg)
			require.NoError(t, err)
			if alg != None {
				assert.Less(t, len(packed), len(data))
			}

			unpacked, err := Decompress(packed, alg, len(data))
			require.NoError(t, err)
			assert.Equal(t, data, unpacked)
		})
	}
}

func TestCompress_Incompressible(t *testing.T) {
	data := make([]byte, 64)
	_, err := rand.Read(data)
	require.NoError(t, err)

	for _, alg := range []Algorithm{Zip, LZ4, Zstd} {
		t.Run(string(alg), func(t *testing.T) {
			_, err := Compress(data, alg)
			assert.ErrorIs(t, err, ErrIncompressible)
		})
	}
}

func TestDecompress_SizeMismatch(t *testing.T) {
	data := compressible()

	_, err := Decompress(data, None, len(data)+1)
	assert.Error(t, err)

	packed, err := Compress(data, Zstd)
	require.NoError(t, err)
	_, err = Decompress(packed, Zstd, len(data)-1)
	assert.Error(t, err)

	packed, err = Compress(data, Zip)
	require.NoError(t, err)
	_, err = Decompress(packed, Zip, len(data)-1)
	assert.Error(t, err)
}

func TestDecompress_SizeLimit(t *testing.T) {
	tiny := []byte{0x10, 0x00, 0x00, 0x00, 0x00}

	tests := []struct {
		name string
		data []byte
		alg  Algorithm
		size int
	}{
		{"lz4 beyond expansion ratio", tiny, LZ4, 1 << 31},
		{"lz4 just beyond ratio", tiny, LZ4, len(tiny)*maxRatioLZ4 + ratioSlack + 1},
		{"deflate beyond expansion ratio", tiny, Zip, 1 << 20},
		{"zstd above block limit", tiny, Zstd, MaxBlockSize + 1},
		{"none above block limit", tiny, None, MaxBlockSize + 1},
		{"negative", tiny, LZ4, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decompress(tt.data, tt.alg, tt.size)
			assert.ErrorIs(t, err, ErrSizeLimit)
		})
	}
}

func TestDecompress_Garbage(t *testing.T) {
	_, err := Decompress([]byte{0xff, 0xfe, 0x01}, LZ4, 100)
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	for _, name := range []string{"none", "zip", "lz4", "zstd"} {
		alg, err := Parse(name)
		require.NoError(t, err)
		assert.Equal(t, Algorithm(name), alg)
	}

	alg, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, None, alg)

	_, err = Parse("brotli")
	assert.Error(t, err)
}

func TestCompress_Unsupported(t *testing.T) {
	_, err := Compress([]byte("x"), Algorithm("rar"))
	assert.Error(t, err)
	_, err = Decompress([]byte("x"), Algorithm("rar"), 1)
	assert.Error(t, err)
}
