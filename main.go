// =============================================================================
// Order Tally - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Order Tally CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   tally pivot       - Product / color x size counts for an orders export
//   tally earnings    - Per-order earnings and batch net profit
//   tally progress    - Read and update the fulfillment checklist
//   tally validate    - Report column-level problems in an export
//   tally version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core business logic (not for external import)
//   - pkg/           : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/order-tally/cmd"
)

func main() {
	cmd.Execute()
}
