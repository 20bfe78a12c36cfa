// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services do not touch file formats directly; parsing, encoding and
// exporting are delegated to driven ports.
package services
