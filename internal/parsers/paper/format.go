package paper

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/custodia-labs/paperink/internal/compress"
	"github.com/custodia-labs/paperink/internal/core/domain"
)

// Magic identifies a paper container.
const Magic = "PAPER"

// FormatVersion is the only container version this package reads.
const FormatVersion = 1

// DefaultMaxPressure is used when the header omits max_pressure.
const DefaultMaxPressure = 1023

// Header is the top-level CBOR map of a paper container.
type Header struct {
	Magic       string   `cbor:"magic"`
	Version     int      `cbor:"version"`
	Device      Device   `cbor:"device"`
	Page        Page     `cbor:"page"`
	Created     int64    `cbor:"created"`
	MaxPressure uint16   `cbor:"max_pressure,omitempty"`
	Template    Template `cbor:"template"`
	Compression string   `cbor:"compression"`
	BodySize    int      `cbor:"body_size"`
	Body        []byte   `cbor:"body"`
}

// Device identifies the smart pad.
type Device struct {
	Name   string `cbor:"name"`
	Serial string `cbor:"serial"`
	Model  string `cbor:"model"`
}

// Page is the writable area in device units.
type Page struct {
	Width      int32 `cbor:"width"`
	Height     int32 `cbor:"height"`
	Resolution int32 `cbor:"resolution"`
}

// Template describes the printed page background.
type Template struct {
	Name string `cbor:"name,omitempty"`

	// Image is a PNG of the whole page, scaled to the page when rendered.
	Image []byte `cbor:"image,omitempty"`

	// Ruling is the line spacing in device units; 0 draws a blank page.
	Ruling int32 `cbor:"ruling,omitempty"`
}

// PenStroke is one pen-down to pen-up trace in device units.
type PenStroke struct {
	Start   int64       `cbor:"start"`
	Color   uint32      `cbor:"color"`
	Width   int32       `cbor:"width"`
	Samples []PenSample `cbor:"samples"`
}

// PenSample is one raw pen report.
type PenSample struct {
	X   int32  `cbor:"x"`
	Y   int32  `cbor:"y"`
	T   uint32 `cbor:"t"`
	P   uint16 `cbor:"p"`
	Alt int16  `cbor:"alt"`
	Az  int16  `cbor:"az"`
}

// Document is a decoded paper container.
type Document struct {
	Header  Header
	Strokes []PenStroke
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("paper: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("paper: CBOR decoder initialization failed: " + err.Error())
	}
}

// Decode parses and validates a paper container.
func Decode(data []byte) (*Document, error) {
	var h Header
	if err := decMode.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("decoding header: %v: %w", err, domain.ErrInvalidPaper)
	}
	if h.Magic != Magic {
		return nil, fmt.Errorf("magic %q: %w", h.Magic, domain.ErrInvalidPaper)
	}
	if h.Version != FormatVersion {
		return nil, fmt.Errorf("paper version %d: %w", h.Version, domain.ErrUnsupportedVersion)
	}
	if h.Page.Width <= 0 || h.Page.Height <= 0 || h.Page.Resolution <= 0 {
		return nil, fmt.Errorf("page %dx%d at %d units/in: %w",
			h.Page.Width, h.Page.Height, h.Page.Resolution, domain.ErrInvalidPaper)
	}
	if pw, ph := pagePixels(h.Page, int(dip)); pw*ph > MaxTemplatePixels {
		return nil, fmt.Errorf("page %dx%d at %d units/in is too large: %w",
			h.Page.Width, h.Page.Height, h.Page.Resolution, domain.ErrInvalidPaper)
	}
	if h.MaxPressure == 0 {
		h.MaxPressure = DefaultMaxPressure
	}

	alg, err := compress.Parse(h.Compression)
	if err != nil || alg == compress.Zip {
		return nil, fmt.Errorf("body compression %q: %w", h.Compression, domain.ErrUnsupportedType)
	}
	if h.BodySize < 0 {
		return nil, fmt.Errorf("body size %d: %w", h.BodySize, domain.ErrInvalidPaper)
	}

	body, err := compress.Decompress(h.Body, alg, h.BodySize)
	if err != nil {
		return nil, fmt.Errorf("body: %w: %w", err, domain.ErrInvalidPaper)
	}

	var strokes []PenStroke
	if len(body) > 0 {
		if err := decMode.Unmarshal(body, &strokes); err != nil {
			return nil, fmt.Errorf("decoding strokes: %v: %w", err, domain.ErrInvalidPaper)
		}
	}

	h.Body = nil
	return &Document{Header: h, Strokes: strokes}, nil
}

// Encode serialises a document. The body is compressed with the
// algorithm named in the header; incompressible bodies are stored as "none".
func Encode(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}
	h := doc.Header
	h.Magic = Magic
	if h.Version == 0 {
		h.Version = FormatVersion
	}

	body, err := encMode.Marshal(doc.Strokes)
	if err != nil {
		return nil, fmt.Errorf("encoding strokes: %w", err)
	}

	alg, err := compress.Parse(h.Compression)
	if err != nil || alg == compress.Zip {
		return nil, fmt.Errorf("body compression %q: %w", h.Compression, domain.ErrUnsupportedType)
	}

	packed, err := compress.Compress(body, alg)
	if errors.Is(err, compress.ErrIncompressible) {
		packed, alg = body, compress.None
	} else if err != nil {
		return nil, err
	}

	h.Compression = string(alg)
	h.BodySize = len(body)
	h.Body = packed

	return encMode.Marshal(h)
}
