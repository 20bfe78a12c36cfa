package driven

import (
	"context"
	"image"

	"github.com/custodia-labs/paperink/internal/core/domain"
)

// PaperParser decodes paper captures.
// A parser is configured once and then used for both the ink and the
// template of the same capture, so that both are cropped identically.
type PaperParser interface {
	// Configure sets cropping and rendering options for subsequent calls.
	Configure(opts domain.ParserOptions) error

	// Parse decodes the capture at path into an ink model.
	Parse(ctx context.Context, path string) (*domain.InkModel, error)

	// ParseTemplate renders the page template of the capture at path.
	ParseTemplate(ctx context.Context, path string) (image.Image, error)
}
