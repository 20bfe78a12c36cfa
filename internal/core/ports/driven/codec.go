package driven

import (
	"github.com/custodia-labs/paperink/internal/core/domain"
)

// InkEncoder serialises an ink model into the binary ink container.
type InkEncoder interface {
	// Encode returns the container bytes for the model.
	Encode(model *domain.InkModel) ([]byte, error)

	// Compression returns the chunk compression this encoder applies.
	Compression() domain.Compression
}

// InkDecoder reads binary ink containers.
type InkDecoder interface {
	// Decode parses container bytes into an ink model.
	Decode(data []byte) (*domain.InkModel, error)

	// Chunks lists the container chunks without decoding their payloads.
	Chunks(data []byte) ([]domain.ChunkInfo, error)
}

// InkEncoderFactory creates encoders for a chunk compression.
type InkEncoderFactory interface {
	// NewEncoder returns an encoder applying c to every data chunk.
	NewEncoder(c domain.Compression) (InkEncoder, error)
}
