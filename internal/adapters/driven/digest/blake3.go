// Package digest computes content digests of input files.
package digest

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"

	"github.com/custodia-labs/paperink/internal/core/ports/driven"
)

// Ensure Blake3 implements the interface.
var _ driven.Digester = (*Blake3)(nil)

// Blake3 hashes files with BLAKE3-256.
type Blake3 struct{}

// NewBlake3 creates a BLAKE3 digester.
func NewBlake3() *Blake3 {
	return &Blake3{}
}

// DigestFile returns the hex-encoded BLAKE3-256 digest of the file.
func (Blake3) DigestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return Reader(f)
}

// Reader returns the hex-encoded BLAKE3-256 digest of everything read from r.
func Reader(r io.Reader) (string, error) {
	h := blake3.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("hashing: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Bytes returns the hex-encoded BLAKE3-256 digest of data.
func Bytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
