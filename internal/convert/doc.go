// Package convert turns source videos into animated GIFs by driving ffmpeg
// as a child process.
//
// Each job runs one orchestrator goroutine plus three workers: a stdout
// collector that buffers the encoded GIF bytes, a stderr reader that feeds
// the diagnostic stream through the progress parser, and a cancellation
// controller that races a caller-supplied cancel channel against natural
// process exit. The workers communicate with the caller only through the
// outbound message channel; the process handle and its streams are never
// shared.
//
// Every job emits exactly one terminal KindSuccess or KindError message,
// always followed by KindDone, after which the channel is closed.
package convert
