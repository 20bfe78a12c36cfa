// Package domain defines the core entities for paperink.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - InkModel: Strokes, sensor channels and metadata decoded from a paper capture
//   - Stroke: A single pen-down to pen-up trace with its spline and sensor samples
//   - StrokeAttribute: A selectable per-sample channel used for tabular export
//   - ConversionRequest / ConversionResult: The inputs and outputs of one conversion
//   - ConversionRecord: A persisted history entry
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
