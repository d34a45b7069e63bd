// Package cli implements the opdot command-line interface.
//
// This package provides commands for exporting IR module documents to
// Graphviz DOT, rendering them as SVG or PNG, opening the result in the
// system viewer, serving exports over HTTP, and managing the artifact
// cache. The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - export: Emit the DOT document for a module
//   - render: Generate DOT, SVG, or PNG artifacts
//   - view: Render and open the graph in the system viewer
//   - serve: Run an HTTP export service
//   - cache: Manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so every command shares one configured
// logger.
package cli
