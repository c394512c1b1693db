// Package logging assembles the structured slog loggers used across
// gifsmith.
//
// It owns the console/JSON handler selection, centralizes level and output
// plumbing, and provides a no-op logger for tests and wiring code that
// cannot fail. Diagnostics always go to stderr so they never mix with
// conversion output on stdout.
package logging
