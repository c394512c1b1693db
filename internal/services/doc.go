// Package services defines shared error utilities consumed by the CLI and
// the conversion pipeline.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that keep failure
//     messages consistent across components.
//   - Exit-code classification so the CLI reports configuration and
//     validation problems distinctly from tool failures and cancellation.
package services
