package convert

import (
	"fmt"
	"strings"
	"time"
)

// MessageKind tags the events a conversion job emits.
type MessageKind int

const (
	// KindVideoDuration carries the source duration, sent at most once and
	// always before any progress message derived from it.
	KindVideoDuration MessageKind = iota
	// KindProgress carries a completion fraction in [0, 1]. Fractions within
	// one job never decrease.
	KindProgress
	// KindSuccess carries the encoded GIF bytes. Exactly one of
	// KindSuccess/KindError concludes every job.
	KindSuccess
	// KindError carries the job's terminal failure.
	KindError
	// KindDone is the final message of every job, regardless of outcome.
	// The channel is closed immediately after it.
	KindDone
)

// Message is one event on the outbound job channel. Only the fields relevant
// to Kind are populated.
type Message struct {
	Kind     MessageKind
	Duration time.Duration
	Fraction float64
	Data     []byte
	Err      *JobError
}

// FailureKind classifies terminal job failures so callers can branch
// programmatically instead of matching on text.
type FailureKind string

const (
	// FailureSpawn means the ffmpeg binary could not be launched at all. No
	// workers were started and no partial job state exists.
	FailureSpawn FailureKind = "spawn_failed"
	// FailureStream means a pipe read failed mid-job.
	FailureStream FailureKind = "stream_io"
	// FailureEmptyOutput means ffmpeg exited successfully but wrote zero
	// bytes, which usually indicates an unsupported or invalid input file.
	FailureEmptyOutput FailureKind = "empty_stdout"
	// FailureProcessExit means ffmpeg exited with a failure status.
	FailureProcessExit FailureKind = "process_failed"
	// FailureCancelled confirms a caller cancellation was honored.
	FailureCancelled FailureKind = "cancelled"
)

// JobError is the typed terminal failure of a conversion job.
type JobError struct {
	Kind FailureKind
	// ExitCode is set for FailureProcessExit; -1 when the process could not
	// be reaped cleanly.
	ExitCode int
	// StderrTail holds the most recent non-progress diagnostic lines at the
	// time of failure.
	StderrTail []string
	Err        error
}

func (e *JobError) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	switch e.Kind {
	case FailureSpawn:
		b.WriteString("launch ffmpeg")
	case FailureStream:
		b.WriteString("read ffmpeg stream")
	case FailureEmptyOutput:
		b.WriteString("ffmpeg produced no output; the input file is likely unsupported")
	case FailureProcessExit:
		fmt.Fprintf(&b, "ffmpeg exited with status %d", e.ExitCode)
	case FailureCancelled:
		b.WriteString("conversion cancelled")
	default:
		b.WriteString("conversion failed")
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if len(e.StderrTail) > 0 {
		fmt.Fprintf(&b, " (last diagnostics: %s)", strings.Join(e.StderrTail, " | "))
	}
	return b.String()
}

func (e *JobError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// stderrTail retains the most recent diagnostic lines, skipping per-frame
// progress chatter, so process failures carry useful context.
type stderrTail struct {
	limit int
	lines []string
}

func newStderrTail(limit int) *stderrTail {
	if limit <= 0 {
		limit = 20
	}
	return &stderrTail{limit: limit}
}

func (t *stderrTail) Add(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "frame=") {
		return
	}
	t.lines = append(t.lines, line)
	if len(t.lines) > t.limit {
		t.lines = t.lines[1:]
	}
}

func (t *stderrTail) Lines() []string {
	if len(t.lines) == 0 {
		return nil
	}
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}
