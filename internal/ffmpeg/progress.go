package ffmpeg

import "time"

// UpdateKind classifies events extracted from the diagnostic stream.
type UpdateKind int

const (
	// UpdateDuration reports the total source duration, emitted at most once.
	UpdateDuration UpdateKind = iota
	// UpdateProgress reports a new completion fraction in [0, 1].
	UpdateProgress
)

// Update is a typed event derived from one diagnostic line.
type Update struct {
	Kind     UpdateKind
	Duration time.Duration
	Fraction float64
}

// LogParser extracts duration and progress updates from ffmpeg stderr lines.
// It holds per-job state: the total duration is latched on first sight, and
// emitted fractions never decrease. The zero value is ready to use; create a
// fresh parser for each job.
type LogParser struct {
	total        time.Duration
	haveTotal    bool
	lastFraction float64
}

// TotalDuration returns the latched source duration, if discovered.
func (p *LogParser) TotalDuration() (time.Duration, bool) {
	return p.total, p.haveTotal
}

// Parse inspects one line of diagnostic text and reports the update it
// yields, if any. Unrecognized lines, repeated duration banners, frame lines
// seen before any duration, and fractions that would not advance the last
// emitted value all return false.
func (p *LogParser) Parse(line string) (Update, bool) {
	if !p.haveTotal {
		if total, ok := ExtractDuration(line); ok && total > 0 {
			p.total = total
			p.haveTotal = true
			return Update{Kind: UpdateDuration, Duration: total}, true
		}
	}

	elapsed, ok := ExtractFrameTime(line)
	if !ok || !p.haveTotal {
		return Update{}, false
	}

	fraction := float64(elapsed.Milliseconds()) / float64(p.total.Milliseconds())
	if fraction > 1 {
		fraction = 1
	}
	if fraction <= p.lastFraction {
		return Update{}, false
	}
	p.lastFraction = fraction
	return Update{Kind: UpdateProgress, Fraction: fraction}, true
}
