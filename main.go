// =============================================================================
// Order Consolidator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the takko CLI application. It delegates
// command execution to the cmd package.
//
// USAGE:
//   takko consolidate [files...]  - Merge order exports per recipient
//   takko invoice [files...]      - Expand tracking numbers per line item
//   takko serve                   - Serve the browser upload pages
//   takko version                 - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core business logic (not for external import)
//   - pkg/           : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/donghyeon/takkobebe/cmd"
)

func main() {
	cmd.Execute()
}
