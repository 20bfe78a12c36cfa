package uim

import (
	"fmt"

	"github.com/custodia-labs/paperink/internal/core/domain"
	"github.com/custodia-labs/paperink/internal/core/ports/driven"
)

// Verify interface compliance.
var (
	_ driven.InkEncoder        = (*Encoder)(nil)
	_ driven.InkDecoder        = (*Decoder)(nil)
	_ driven.InkEncoderFactory = EncoderFactory{}
)

// EncoderFactory creates encoders on demand, one per requested compression.
type EncoderFactory struct{}

// NewEncoder implements driven.InkEncoderFactory.
func (EncoderFactory) NewEncoder(c domain.Compression) (driven.InkEncoder, error) {
	enc, err := NewEncoder(c)
	if err != nil {
		return nil, err
	}
	return enc, nil
}

// Encoder writes ink models as 3.1.0 containers.
type Encoder struct {
	compression domain.Compression
}

// NewEncoder creates an encoder that compresses every data chunk with c.
func NewEncoder(c domain.Compression) (*Encoder, error) {
	if c == "" {
		c = domain.CompressionNone
	}
	if _, err := compressionTag(c); err != nil {
		return nil, err
	}
	return &Encoder{compression: c}, nil
}

// Compression returns the configured chunk compression.
func (e *Encoder) Compression() domain.Compression {
	return e.compression
}

// Encode serialises the model. The model must validate.
func (e *Encoder) Encode(m *domain.InkModel) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("nil model: %w", domain.ErrInvalidInput)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	payloads := map[string][]byte{
		chunkPRPS: marshalProperties(m),
		chunkINPT: marshalInput(m.Input),
		chunkBRSH: marshalBrushes(m.Brushes),
		chunkINKD: marshalStrokes(m.Strokes),
		chunkINKS: marshalStructure(m),
	}

	chunks := make([]chunk, 0, len(dataChunks))
	for _, id := range dataChunks {
		c, err := packChunk(id, payloads[id], e.compression)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return writeRIFF(chunks), nil
}

// Decoder reads 3.x containers.
type Decoder struct{}

// NewDecoder creates a decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode parses a container into an ink model.
func (d *Decoder) Decode(data []byte) (*domain.InkModel, error) {
	c, err := readRIFF(data)
	if err != nil {
		return nil, err
	}

	m := &domain.InkModel{Version: c.version()}
	payload := func(id string) ([]byte, error) {
		ch, ok := c.find(id)
		if !ok {
			return nil, fmt.Errorf("missing %s chunk: %w", id, domain.ErrCorruptContainer)
		}
		return unpackChunk(ch)
	}

	b, err := payload(chunkPRPS)
	if err != nil {
		return nil, err
	}
	if err := unmarshalProperties(b, m); err != nil {
		return nil, fmt.Errorf("%s: %w", chunkPRPS, err)
	}

	if b, err = payload(chunkINPT); err != nil {
		return nil, err
	}
	if err := unmarshalInput(b, &m.Input); err != nil {
		return nil, fmt.Errorf("%s: %w", chunkINPT, err)
	}

	if b, err = payload(chunkBRSH); err != nil {
		return nil, err
	}
	if m.Brushes, err = unmarshalBrushes(b); err != nil {
		return nil, fmt.Errorf("%s: %w", chunkBRSH, err)
	}

	if b, err = payload(chunkINKD); err != nil {
		return nil, err
	}
	strokes, err := unmarshalStrokes(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", chunkINKD, err)
	}

	if b, err = payload(chunkINKS); err != nil {
		return nil, err
	}
	order, bounds, err := unmarshalStructure(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", chunkINKS, err)
	}
	m.Bounds = bounds

	if m.Strokes, err = orderStrokes(strokes, order); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrCorruptContainer)
	}
	return m, nil
}

// Chunks lists the data chunks of a container with their compression.
func (d *Decoder) Chunks(data []byte) ([]domain.ChunkInfo, error) {
	c, err := readRIFF(data)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ChunkInfo, 0, len(c.chunks))
	for _, ch := range c.chunks {
		comp, _, err := tagCompression(ch.tag)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.ChunkInfo{ID: ch.id, Size: len(ch.payload), Compression: comp})
	}
	return out, nil
}

// orderStrokes arranges strokes by the structure order. An empty order
// keeps the stored order.
func orderStrokes(strokes []domain.Stroke, order []string) ([]domain.Stroke, error) {
	if len(order) == 0 {
		return strokes, nil
	}
	if len(order) != len(strokes) {
		return nil, fmt.Errorf("structure lists %d strokes, found %d: %w",
			len(order), len(strokes), domain.ErrCorruptContainer)
	}
	byID := make(map[string]int, len(strokes))
	for i := range strokes {
		byID[strokes[i].ID] = i
	}
	out := make([]domain.Stroke, 0, len(strokes))
	for _, id := range order {
		i, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("structure references unknown stroke %q: %w", id, domain.ErrCorruptContainer)
		}
		out = append(out, strokes[i])
	}
	return out, nil
}
