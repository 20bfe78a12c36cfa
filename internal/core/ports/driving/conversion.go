package driving

import (
	"context"

	"github.com/custodia-labs/paperink/internal/core/domain"
)

// ConversionService converts paper captures into ink outputs.
type ConversionService interface {
	// Convert runs parse, template render, encode and exports in order.
	// It stops at the first failing step.
	Convert(ctx context.Context, req domain.ConversionRequest) (*domain.ConversionResult, error)
}

// InspectService reads ink containers back.
type InspectService interface {
	// Inspect decodes the ink container at path and summarises it.
	Inspect(ctx context.Context, path string) (*domain.InkSummary, error)

	// Load decodes the ink container at path into a model.
	Load(ctx context.Context, path string) (*domain.InkModel, error)
}

// HistoryService exposes recorded conversions.
type HistoryService interface {
	// List returns the most recent conversions first.
	List(ctx context.Context, limit int) ([]domain.ConversionRecord, error)

	// Get retrieves a conversion record by ID.
	Get(ctx context.Context, id string) (*domain.ConversionRecord, error)

	// Clear removes all records.
	Clear(ctx context.Context) (int, error)
}

// WatchEvent reports the outcome of one watched conversion.
type WatchEvent struct {
	Input  string
	Result *domain.ConversionResult
	Err    error
}

// Watcher converts paper files as they appear in a directory.
type Watcher interface {
	// Watch blocks until ctx is cancelled, converting new or changed
	// captures in dir into outDir. Events are sent on the returned channel,
	// which is closed when watching stops.
	Watch(ctx context.Context, dir, outDir string) (<-chan WatchEvent, error)
}
