package ffmpeg

import (
	"strconv"
	"strings"
	"time"
)

// ScanLines is a bufio.SplitFunc that treats both carriage returns and line
// feeds as terminators. ffmpeg rewrites its per-frame stats line in place
// using bare \r, so splitting on \n alone would withhold every progress
// update until the process exits.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	for i := 0; i < len(data); i++ {
		if data[i] == '\r' || data[i] == '\n' {
			advance = i + 1
			for advance < len(data) && (data[advance] == '\r' || data[advance] == '\n') {
				advance++
			}
			return advance, data[0:i], nil
		}
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// ParseClock converts an ffmpeg HH:MM:SS.mmm time string (e.g. 00:00:04.91)
// into a duration. It reports false for anything that does not match the
// expected shape so callers can skip unrecognized text.
func ParseClock(s string) (time.Duration, bool) {
	dotSplit := strings.Split(strings.TrimSpace(s), ".")
	if len(dotSplit) != 2 {
		return 0, false
	}
	colonSplit := strings.Split(dotSplit[0], ":")
	if len(colonSplit) != 3 {
		return 0, false
	}

	millis, err := strconv.ParseUint(dotSplit[1], 10, 64)
	if err != nil || millis >= 1000 {
		return 0, false
	}
	seconds, err := strconv.ParseUint(colonSplit[2], 10, 64)
	if err != nil || seconds >= 60 {
		return 0, false
	}
	minutes, err := strconv.ParseUint(colonSplit[1], 10, 64)
	if err != nil || minutes >= 60 {
		return 0, false
	}
	hours, err := strconv.ParseUint(colonSplit[0], 10, 64)
	if err != nil {
		return 0, false
	}

	total := millis + seconds*1000 + minutes*60*1000 + hours*60*60*1000
	return time.Duration(total) * time.Millisecond, true
}

// ExtractDuration pulls the source duration out of ffmpeg's input banner.
// Expected shape: "Duration: 00:00:05.06, start: 0.000000, bitrate: ...".
func ExtractDuration(line string) (time.Duration, bool) {
	const prefix = "Duration: "
	const startMarker = ", start: "

	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, prefix) {
		return 0, false
	}
	rest := strings.TrimPrefix(trimmed, prefix)
	idx := strings.Index(rest, startMarker)
	if idx < 0 {
		return 0, false
	}
	return ParseClock(rest[:idx])
}

// ExtractFrameTime pulls the elapsed encoding time out of a per-frame stats
// line. Expected shape: "frame=   50 fps=3.9 ... time=00:00:04.91 ...".
func ExtractFrameTime(line string) (time.Duration, bool) {
	const fieldPrefix = "time="

	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "frame=") {
		return 0, false
	}
	for _, field := range strings.Fields(trimmed) {
		if strings.HasPrefix(field, fieldPrefix) {
			return ParseClock(strings.TrimPrefix(field, fieldPrefix))
		}
	}
	return 0, false
}
