package testsupport

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// FFmpegScript describes the behaviour of a stubbed ffmpeg executable.
// Stderr lines are emitted carriage-return separated the way ffmpeg rewrites
// its stats line, Stdout is written verbatim, then the script exits with
// ExitCode.
type FFmpegScript struct {
	Stderr   []string
	Stdout   string
	ExitCode int
}

// StubFFmpeg writes a shell script that mimics ffmpeg and returns its path.
// Script content must not contain single quotes.
func StubFFmpeg(t testing.TB, script FFmpegScript) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	for _, line := range script.Stderr {
		if strings.ContainsRune(line, '\'') {
			t.Fatalf("stderr line contains single quote: %q", line)
		}
		b.WriteString("printf '%s\\r' '" + line + "' >&2\n")
	}
	if script.Stdout != "" {
		if strings.ContainsRune(script.Stdout, '\'') {
			t.Fatalf("stdout contains single quote: %q", script.Stdout)
		}
		b.WriteString("printf '%s' '" + script.Stdout + "'\n")
	}
	b.WriteString("exit ")
	b.WriteString(strconv.Itoa(script.ExitCode))
	b.WriteString("\n")

	dir := t.TempDir()
	path := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(path, []byte(b.String()), 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}
	return path
}
