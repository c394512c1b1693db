// Package ffmpeg mediates access to the ffmpeg CLI used for GIF conversion.
//
// It normalizes command invocation and parses the diagnostic stderr stream
// that ffmpeg produces while encoding. The text format of that stream is an
// untyped contract that drifts across ffmpeg versions, so the parser is a
// permissive extractor: lines it does not recognize are ignored rather than
// treated as errors.
//
// Prefer this package over ad-hoc exec.Command usage when interacting with
// ffmpeg so argument construction and progress extraction remain consistent.
package ffmpeg
