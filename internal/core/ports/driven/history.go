package driven

import (
	"context"

	"github.com/custodia-labs/paperink/internal/core/domain"
)

// HistoryStore persists conversion records.
type HistoryStore interface {
	// Save inserts or replaces a record.
	Save(ctx context.Context, record *domain.ConversionRecord) error

	// Get retrieves a record by ID.
	Get(ctx context.Context, id string) (*domain.ConversionRecord, error)

	// List returns the most recent records first, at most limit (0 = all).
	List(ctx context.Context, limit int) ([]domain.ConversionRecord, error)

	// Clear removes all records and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Digester fingerprints files for history records.
type Digester interface {
	// DigestFile returns a hex digest of the file content.
	DigestFile(path string) (string, error)
}
