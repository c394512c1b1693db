package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// progressRenderer receives conversion progress events. Implementations must
// tolerate SetFraction before SetDuration; ffmpeg output ordering guarantees
// the reverse but renderers stay defensive about it.
type progressRenderer interface {
	SetDuration(d time.Duration)
	SetFraction(f float64)
	Done()
}

func newProgressRenderer(w io.Writer) progressRenderer {
	if f, ok := w.(*os.File); ok {
		fd := f.Fd()
		if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			return newBarRenderer(w)
		}
	}
	return &plainRenderer{w: w}
}

const barResolution = 1000

type barRenderer struct {
	bar *progressbar.ProgressBar
}

func newBarRenderer(w io.Writer) *barRenderer {
	bar := progressbar.NewOptions(barResolution,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("converting"),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return &barRenderer{bar: bar}
}

func (r *barRenderer) SetDuration(time.Duration) {}

func (r *barRenderer) SetFraction(f float64) {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	_ = r.bar.Set(int(f * barResolution))
}

func (r *barRenderer) Done() {
	_ = r.bar.Finish()
}

// plainRenderer prints coarse progress lines for non-interactive output,
// one per ten percent step.
type plainRenderer struct {
	w        io.Writer
	duration time.Duration
	lastStep int
}

func (r *plainRenderer) SetDuration(d time.Duration) {
	r.duration = d
	fmt.Fprintf(r.w, "source duration %s\n", d)
}

func (r *plainRenderer) SetFraction(f float64) {
	step := int(f * 10)
	if step <= r.lastStep {
		return
	}
	r.lastStep = step
	fmt.Fprintf(r.w, "progress %d%%\n", step*10)
}

func (r *plainRenderer) Done() {}
