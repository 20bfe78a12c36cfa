package domain

import "errors"

// Domain errors represent conversion failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown attribute, compression or format name.
	ErrUnsupportedType = errors.New("unsupported type")

	// Paper Errors.

	// ErrInvalidPaper indicates the input is not a paper container.
	ErrInvalidPaper = errors.New("invalid paper file")

	// ErrUnsupportedVersion indicates a container version this build cannot read.
	ErrUnsupportedVersion = errors.New("unsupported version")

	// Ink Container Errors.

	// ErrCorruptContainer indicates an ink container with bad framing or payloads.
	ErrCorruptContainer = errors.New("corrupt ink container")

	// Export Errors.

	// ErrEmptyLayout indicates a CSV export was requested with no attributes.
	ErrEmptyLayout = errors.New("stroke attribute layout is empty")

	// ErrHistoryUnavailable indicates the history store is not configured.
	// Conversions still run; they are just not recorded.
	ErrHistoryUnavailable = errors.New("conversion history unavailable")
)
