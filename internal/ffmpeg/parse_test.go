package ffmpeg_test

import (
	"bufio"
	"strings"
	"testing"
	"time"

	"gifsmith/internal/ffmpeg"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  time.Duration
		ok    bool
	}{
		{"seconds and millis", "00:00:04.91", 4*time.Second + 91*time.Millisecond, true},
		{"hours minutes", "01:02:03.5", time.Hour + 2*time.Minute + 3*time.Second + 5*time.Millisecond, true},
		{"surrounding space", " 00:00:01.0 ", time.Second, true},
		{"no fraction", "00:00:04", 0, false},
		{"too many colons", "00:00:00:04.91", 0, false},
		{"minutes overflow", "00:61:04.91", 0, false},
		{"seconds overflow", "00:00:61.91", 0, false},
		{"millis overflow", "00:00:04.1000", 0, false},
		{"not a clock", "N/A", 0, false},
		{"empty", "", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ffmpeg.ParseClock(tc.input)
			if ok != tc.ok {
				t.Fatalf("ParseClock(%q) ok = %v, want %v", tc.input, ok, tc.ok)
			}
			if got != tc.want {
				t.Fatalf("ParseClock(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestExtractDuration(t *testing.T) {
	line := "  Duration: 00:00:05.06, start: 0.000000, bitrate: 1785 kb/s"
	got, ok := ffmpeg.ExtractDuration(line)
	if !ok {
		t.Fatalf("expected duration from banner line")
	}
	want := 5*time.Second + 60*time.Millisecond
	if got != want {
		t.Fatalf("ExtractDuration = %v, want %v", got, want)
	}

	ignored := []string{
		"Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'assets/flower.mp4':",
		"    creation_time   : 2018-03-07T15:21:21.000000Z",
		"  Duration: N/A, start: 0.000000, bitrate: N/A",
		"  Duration: 00:00:05.06",
		"",
	}
	for _, line := range ignored {
		if _, ok := ffmpeg.ExtractDuration(line); ok {
			t.Fatalf("expected no duration from %q", line)
		}
	}
}

func TestExtractFrameTime(t *testing.T) {
	line := "frame=   50 fps=3.9 q=-0.0 Lsize=   23430kB time=00:00:04.91 bitrate=39091.3kbits/s speed=0.379x"
	got, ok := ffmpeg.ExtractFrameTime(line)
	if !ok {
		t.Fatalf("expected frame time from stats line")
	}
	want := 4*time.Second + 91*time.Millisecond
	if got != want {
		t.Fatalf("ExtractFrameTime = %v, want %v", got, want)
	}

	ignored := []string{
		"size=   23430kB time=00:00:04.91 bitrate=39091.3kbits/s",
		"frame=   50 fps=3.9 q=-0.0",
		"frame=   50 time=N/A",
	}
	for _, line := range ignored {
		if _, ok := ffmpeg.ExtractFrameTime(line); ok {
			t.Fatalf("expected no frame time from %q", line)
		}
	}
}

func TestLogParserEmitsDurationOnceThenMonotonicProgress(t *testing.T) {
	parser := &ffmpeg.LogParser{}

	lines := []string{
		"Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'assets/flower.mp4':",
		"  Duration: 00:00:10.00, start: 0.000000, bitrate: 1785 kb/s",
		"  Duration: 00:00:20.00, start: 0.000000, bitrate: 1785 kb/s",
		"frame=   10 fps=3.9 q=-0.0 size=microsize time=00:00:02.00 bitrate=1.0kbits/s",
		"frame=   11 fps=3.9 q=-0.0 size=microsize time=00:00:02.00 bitrate=1.0kbits/s",
		"frame=   20 fps=3.9 q=-0.0 size=microsize time=00:00:05.00 bitrate=1.0kbits/s",
		"frame=   90 fps=3.9 q=-0.0 size=microsize time=00:00:15.00 bitrate=1.0kbits/s",
	}

	var updates []ffmpeg.Update
	for _, line := range lines {
		if update, ok := parser.Parse(line); ok {
			updates = append(updates, update)
		}
	}

	if len(updates) != 4 {
		t.Fatalf("expected 4 updates, got %d: %#v", len(updates), updates)
	}
	if updates[0].Kind != ffmpeg.UpdateDuration || updates[0].Duration != 10*time.Second {
		t.Fatalf("expected first update to latch 10s duration, got %#v", updates[0])
	}
	fractions := []float64{updates[1].Fraction, updates[2].Fraction, updates[3].Fraction}
	want := []float64{0.2, 0.5, 1.0}
	for i, fraction := range fractions {
		if fraction != want[i] {
			t.Fatalf("fraction[%d] = %v, want %v", i, fraction, want[i])
		}
	}
}

func TestLogParserIgnoresFrameTimeBeforeDuration(t *testing.T) {
	parser := &ffmpeg.LogParser{}
	if _, ok := parser.Parse("frame=   10 fps=3.9 time=00:00:02.00 bitrate=1.0kbits/s"); ok {
		t.Fatal("expected frame line before duration to be ignored")
	}
	if _, ok := parser.TotalDuration(); ok {
		t.Fatal("expected no duration latched")
	}
}

func TestScanLinesSplitsOnCarriageReturns(t *testing.T) {
	input := "first line\nframe= 1 time=00:00:01.00\rframe= 2 time=00:00:02.00\r\nlast"
	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Split(ffmpeg.ScanLines)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scanner error: %v", err)
	}

	want := []string{
		"first line",
		"frame= 1 time=00:00:01.00",
		"frame= 2 time=00:00:02.00",
		"last",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %#v", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestBuildArgsStreamsGIFToStdout(t *testing.T) {
	args := ffmpeg.BuildArgs("/videos/clip.mp4", 200, 10)
	if args[len(args)-1] != "-" {
		t.Fatalf("expected stdout sink as final argument, got %q", args[len(args)-1])
	}
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-i /videos/clip.mp4") {
		t.Fatalf("expected input path in args: %v", args)
	}
	if !strings.Contains(joined, "fps=10,scale=200:-1") {
		t.Fatalf("expected fps/scale filter in args: %v", args)
	}
	if args[0] != "-stats" {
		t.Fatalf("expected -stats to keep progress lines enabled, got %v", args)
	}
}
