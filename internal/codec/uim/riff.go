package uim

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/custodia-labs/paperink/internal/compress"
	"github.com/custodia-labs/paperink/internal/core/domain"
)

// Container version.
const (
	VersionMajor = 3
	VersionMinor = 1
	VersionPatch = 0
)

// Chunk identifiers.
const (
	chunkRIFF = "RIFF"
	formUINK  = "UINK"
	chunkHEAD = "HEAD"
	chunkPRPS = "PRPS"
	chunkINPT = "INPT"
	chunkBRSH = "BRSH"
	chunkINKD = "INKD"
	chunkINKS = "INKS"
)

// dataChunks is the fixed order of data chunks after HEAD.
var dataChunks = []string{chunkPRPS, chunkINPT, chunkBRSH, chunkINKD, chunkINKS}

// contentTypeProtobuf marks a protobuf payload in a chunk descriptor.
const contentTypeProtobuf = 1

// Compression tags stored in chunk descriptors.
const (
	tagNone byte = 0
	tagZip  byte = 1
	tagLZ4  byte = 2
)

func compressionTag(c domain.Compression) (byte, error) {
	switch c {
	case domain.CompressionNone, "":
		return tagNone, nil
	case domain.CompressionZip:
		return tagZip, nil
	case domain.CompressionLZ4:
		return tagLZ4, nil
	default:
		return 0, fmt.Errorf("compression %q: %w", c, domain.ErrUnsupportedType)
	}
}

func tagCompression(tag byte) (domain.Compression, compress.Algorithm, error) {
	switch tag {
	case tagNone:
		return domain.CompressionNone, compress.None, nil
	case tagZip:
		return domain.CompressionZip, compress.Zip, nil
	case tagLZ4:
		return domain.CompressionLZ4, compress.LZ4, nil
	default:
		return "", "", fmt.Errorf("compression tag %d: %w", tag, domain.ErrCorruptContainer)
	}
}

type chunk struct {
	id      string
	payload []byte
	tag     byte
}

// packChunk compresses a payload. Incompressible payloads are stored as-is.
func packChunk(id string, payload []byte, c domain.Compression) (chunk, error) {
	tag, err := compressionTag(c)
	if err != nil {
		return chunk{}, err
	}
	if tag == tagNone {
		return chunk{id: id, payload: payload, tag: tagNone}, nil
	}
	_, alg, _ := tagCompression(tag)
	packed, err := compress.Compress(payload, alg)
	if errors.Is(err, compress.ErrIncompressible) {
		return chunk{id: id, payload: payload, tag: tagNone}, nil
	}
	if err != nil {
		return chunk{}, fmt.Errorf("compressing %s: %w", id, err)
	}
	out := binary.LittleEndian.AppendUint32(make([]byte, 0, 4+len(packed)), uint32(len(payload)))
	return chunk{id: id, payload: append(out, packed...), tag: tag}, nil
}

// unpackChunk reverses packChunk.
func unpackChunk(c chunk) ([]byte, error) {
	_, alg, err := tagCompression(c.tag)
	if err != nil {
		return nil, err
	}
	if alg == compress.None {
		return c.payload, nil
	}
	if len(c.payload) < 4 {
		return nil, fmt.Errorf("%s: short compressed payload: %w", c.id, domain.ErrCorruptContainer)
	}
	size := int(binary.LittleEndian.Uint32(c.payload))
	out, err := compress.Decompress(c.payload[4:], alg, size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", c.id, err, domain.ErrCorruptContainer)
	}
	return out, nil
}

// writeRIFF frames the data chunks behind a HEAD chunk.
func writeRIFF(chunks []chunk) []byte {
	head := []byte{VersionMajor, VersionMinor, VersionPatch, 0}
	for _, c := range chunks {
		head = append(head, contentTypeProtobuf, c.tag, 0, 0)
	}

	body := []byte(formUINK)
	body = appendChunk(body, chunkHEAD, head)
	for _, c := range chunks {
		body = appendChunk(body, c.id, c.payload)
	}

	out := make([]byte, 0, 8+len(body))
	out = append(out, chunkRIFF...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(body)))
	return append(out, body...)
}

func appendChunk(b []byte, id string, payload []byte) []byte {
	b = append(b, id...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(payload)))
	b = append(b, payload...)
	if len(payload)%2 == 1 {
		b = append(b, 0)
	}
	return b
}

// container is a parsed RIFF file.
type container struct {
	major, minor, patch byte
	chunks              []chunk
}

// readRIFF parses the framing and HEAD descriptors without decompressing.
func readRIFF(data []byte) (*container, error) {
	if len(data) < 12 || string(data[0:4]) != chunkRIFF || string(data[8:12]) != formUINK {
		return nil, fmt.Errorf("missing RIFF/UINK header: %w", domain.ErrCorruptContainer)
	}
	size := int(binary.LittleEndian.Uint32(data[4:8]))
	if size < 4 || 8+size > len(data) {
		return nil, fmt.Errorf("RIFF size %d exceeds %d bytes: %w", size, len(data), domain.ErrCorruptContainer)
	}

	rest := data[12 : 8+size]
	var raw []chunk
	for len(rest) > 0 {
		if len(rest) < 8 {
			return nil, fmt.Errorf("truncated chunk header: %w", domain.ErrCorruptContainer)
		}
		id := string(rest[0:4])
		n := int(binary.LittleEndian.Uint32(rest[4:8]))
		if n < 0 || 8+n > len(rest) {
			return nil, fmt.Errorf("chunk %s size %d exceeds container: %w", id, n, domain.ErrCorruptContainer)
		}
		raw = append(raw, chunk{id: id, payload: rest[8 : 8+n]})
		next := 8 + n
		if n%2 == 1 && next < len(rest) {
			next++
		}
		rest = rest[next:]
	}

	if len(raw) == 0 || raw[0].id != chunkHEAD {
		return nil, fmt.Errorf("first chunk is not HEAD: %w", domain.ErrCorruptContainer)
	}
	head := raw[0].payload
	if len(head) < 4 {
		return nil, fmt.Errorf("short HEAD: %w", domain.ErrCorruptContainer)
	}
	c := &container{major: head[0], minor: head[1], patch: head[2]}
	if c.major != VersionMajor {
		return nil, fmt.Errorf("container version %d.%d.%d: %w", c.major, c.minor, c.patch, domain.ErrUnsupportedVersion)
	}

	descriptors := head[4:]
	body := raw[1:]
	if len(descriptors) != 4*len(body) {
		return nil, fmt.Errorf("HEAD lists %d chunks, found %d: %w",
			len(descriptors)/4, len(body), domain.ErrCorruptContainer)
	}
	for i := range body {
		d := descriptors[4*i : 4*i+4]
		if d[0] != contentTypeProtobuf {
			return nil, fmt.Errorf("chunk %s content type %d: %w", body[i].id, d[0], domain.ErrCorruptContainer)
		}
		body[i].tag = d[1]
	}
	c.chunks = body
	return c, nil
}

func (c *container) version() string {
	return fmt.Sprintf("%d.%d.%d", c.major, c.minor, c.patch)
}

func (c *container) find(id string) (chunk, bool) {
	for _, ch := range c.chunks {
		if ch.id == id {
			return ch, true
		}
	}
	return chunk{}, false
}
