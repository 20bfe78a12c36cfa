// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for a conversion to run:
//
//   - PaperParser: Decodes a paper capture into an ink model and template image
//   - InkEncoder: Serialises an ink model into the binary ink container
//   - TemplateWriter: Writes the template image
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ExporterRegistry: CSV and JSON exports. Only consulted when an export is requested.
//   - InkDecoder: Reads ink containers back. Without it, inspect is disabled.
//   - HistoryStore: Conversion history. Without it, conversions are not recorded.
//   - Digester: Input digests for history records.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, parser, codec or exporter package
package driven
