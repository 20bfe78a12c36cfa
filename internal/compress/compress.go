// Package compress implements the block compressions used by paper
// containers and ink container chunks.
package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm names a compression algorithm.
type Algorithm string

// Supported algorithms.
const (
	None Algorithm = "none"
	Zip  Algorithm = "zip"
	LZ4  Algorithm = "lz4"
	Zstd Algorithm = "zstd"
)

// ErrIncompressible is returned when compression would not shrink the data.
// Callers store such data uncompressed.
var ErrIncompressible = errors.New("data is incompressible")

// ErrSizeLimit is returned when a declared uncompressed size cannot be
// produced from the compressed input or exceeds MaxBlockSize.
var ErrSizeLimit = errors.New("declared size out of range")

// MaxBlockSize is the largest uncompressed block Decompress produces.
const MaxBlockSize = 256 << 20

// Upper bounds on the expansion of one compressed byte, with slack for
// block headers on tiny inputs.
const (
	maxRatioLZ4   = 255
	maxRatioFlate = 1032
	ratioSlack    = 64
)

// zstdEncoder and zstdDecoder are safe for concurrent use and reused across calls.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("compress: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxBlockSize))
	if err != nil {
		panic("compress: zstd decoder initialization failed: " + err.Error())
	}
}

// Parse validates an algorithm name.
func Parse(name string) (Algorithm, error) {
	switch a := Algorithm(name); a {
	case None, Zip, LZ4, Zstd:
		return a, nil
	case "":
		return None, nil
	default:
		return "", fmt.Errorf("unknown compression %q", name)
	}
}

// Compress compresses data with the algorithm. For None the input is
// returned unchanged. ErrIncompressible means the caller should store
// the data with None instead.
func Compress(data []byte, alg Algorithm) ([]byte, error) {
	switch alg {
	case None, "":
		return data, nil
	case Zip:
		return compressFlate(data)
	case LZ4:
		return compressLZ4(data)
	case Zstd:
		out := zstdEncoder.EncodeAll(data, nil)
		if len(out) >= len(data) {
			return nil, ErrIncompressible
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported compression %q", alg)
	}
}

// Decompress reverses Compress. size is the exact uncompressed length.
// Sizes the input could not expand to are rejected with ErrSizeLimit
// before anything is allocated.
func Decompress(data []byte, alg Algorithm, size int) ([]byte, error) {
	if err := checkSize(len(data), alg, size); err != nil {
		return nil, err
	}
	switch alg {
	case None, "":
		if len(data) != size {
			return nil, fmt.Errorf("uncompressed block: size %d does not match expected %d", len(data), size)
		}
		return data, nil
	case Zip:
		return decompressFlate(data, size)
	case LZ4:
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(data, out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if n != size {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", n, size)
		}
		return out, nil
	case Zstd:
		out, err := zstdDecoder.DecodeAll(data, make([]byte, 0, min(size, len(data)*maxRatioFlate)))
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(out) != size {
			return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(out), size)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported compression %q", alg)
	}
}

func checkSize(n int, alg Algorithm, size int) error {
	if size < 0 || size > MaxBlockSize {
		return fmt.Errorf("%w: %d bytes", ErrSizeLimit, size)
	}
	var ratio int
	switch alg {
	case LZ4:
		ratio = maxRatioLZ4
	case Zip:
		ratio = maxRatioFlate
	default:
		return nil
	}
	if size > n*ratio+ratioSlack {
		return fmt.Errorf("%w: %d bytes from %d %s bytes", ErrSizeLimit, size, n, alg)
	}
	return nil
}

func compressLZ4(data []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, dst, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	// CompressBlock returns 0 for incompressible input.
	if n == 0 || n >= len(data) {
		return nil, ErrIncompressible
	}
	return dst[:n], nil
}

func compressFlate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	if buf.Len() >= len(data) {
		return nil, ErrIncompressible
	}
	return buf.Bytes(), nil
}

func decompressFlate(data []byte, size int) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	out := make([]byte, size)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	// Trailing data means the declared size was wrong.
	var extra [1]byte
	if n, _ := r.Read(extra[:]); n > 0 {
		return nil, fmt.Errorf("inflate: more than %d bytes", size)
	}
	return out, nil
}
