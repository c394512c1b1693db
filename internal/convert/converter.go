package convert

import (
	"bufio"
	"bytes"
	"io"
	"sync"
	"sync/atomic"

	"log/slog"

	"github.com/google/uuid"

	"gifsmith/internal/ffmpeg"
	"gifsmith/internal/logging"
)

// messageBuffer sizes the outbound channel. Producers send blocking, so the
// buffer only smooths bursts; callers must receive until the channel closes.
const messageBuffer = 16

// Option configures the Converter.
type Option func(*Converter)

// WithStarter injects a custom process starter (primarily for tests).
func WithStarter(starter Starter) Option {
	return func(c *Converter) {
		if starter != nil {
			c.starter = starter
		}
	}
}

// WithLogger attaches a structured logger. Conversions log under a fresh
// job id each.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Converter runs video-to-GIF conversion jobs by driving ffmpeg as a child
// process. A single Converter may run any number of jobs; each Convert call
// is independent.
type Converter struct {
	starter Starter
	logger  *slog.Logger
}

// New constructs a Converter.
func New(opts ...Option) *Converter {
	c := &Converter{
		starter: execStarter{},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert starts one conversion job and returns its message channel.
//
// The channel carries zero or more KindVideoDuration/KindProgress events,
// then exactly one KindSuccess or KindError, then KindDone, and is closed.
// Callers must receive until the channel closes.
//
// cancel requests early termination: close the channel (the idiomatic
// single-shot signal; duplicate or late closes are impossible and a close
// after the job concluded is a no-op) or send one value into it. A nil
// channel means the job can only finish naturally.
//
// Spawn failures are detected before any worker starts: the returned channel
// already holds KindError(FailureSpawn) followed by KindDone.
func (c *Converter) Convert(settings Settings, cancel <-chan struct{}) <-chan Message {
	messages := make(chan Message, messageBuffer)

	logger := c.logger.With(
		logging.String("job_id", uuid.NewString()),
		logging.String("input", settings.VideoPath),
	)

	if err := settings.validate(); err != nil {
		logger.Error("invalid conversion settings", logging.Error(err))
		finish(messages, &JobError{Kind: FailureSpawn, Err: err})
		return messages
	}

	binary := settings.binary()
	args := ffmpeg.BuildArgs(settings.VideoPath, settings.Width, settings.fps())
	logger.Info("launching ffmpeg",
		logging.String("command", ffmpeg.CommandLine(binary, args)),
		logging.Int("gif_width", settings.Width),
		logging.Int("gif_fps", settings.fps()),
	)

	proc, err := c.starter.Start(binary, args)
	if err != nil {
		logger.Error("failed to launch ffmpeg", logging.Error(err))
		finish(messages, &JobError{Kind: FailureSpawn, Err: err})
		return messages
	}

	go c.run(proc, cancel, messages, logger)
	return messages
}

// run drains the process streams, honours cancellation, and reconciles the
// worker outcomes into exactly one terminal message.
func (c *Converter) run(proc Process, cancel <-chan struct{}, messages chan<- Message, logger *slog.Logger) {
	var (
		output    bytes.Buffer
		stdoutErr error
		stderrErr error
		cancelled atomic.Bool
	)
	tail := newStderrTail(20)
	procDone := make(chan struct{})

	var readers sync.WaitGroup
	readers.Add(2)

	// Stdout collector: GIF bytes, no interpretation.
	go func() {
		defer readers.Done()
		if _, err := io.Copy(&output, proc.Stdout()); err != nil {
			stdoutErr = err
		}
	}()

	// Stderr reader: feed the diagnostic stream through the progress parser.
	go func() {
		defer readers.Done()
		parser := &ffmpeg.LogParser{}
		scanner := bufio.NewScanner(proc.Stderr())
		scanner.Split(ffmpeg.ScanLines)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			tail.Add(line)
			update, ok := parser.Parse(line)
			if !ok {
				continue
			}
			switch update.Kind {
			case ffmpeg.UpdateDuration:
				logger.Info("source duration discovered", logging.Duration("video_duration", update.Duration))
				messages <- Message{Kind: KindVideoDuration, Duration: update.Duration}
			case ffmpeg.UpdateProgress:
				messages <- Message{Kind: KindProgress, Fraction: update.Fraction}
			}
		}
		if err := scanner.Err(); err != nil {
			stderrErr = err
		}
	}()

	// Cancellation controller: wake on whichever comes first. The procDone
	// arm guarantees this goroutine terminates when no cancellation ever
	// arrives.
	var controller sync.WaitGroup
	controller.Add(1)
	go func() {
		defer controller.Done()
		stdin := proc.Stdin()
		select {
		case <-procDone:
			_ = stdin.Close()
		case <-cancel:
			logger.Info("cancellation requested, asking ffmpeg to quit")
			if _, err := io.WriteString(stdin, "q"); err != nil {
				logger.Warn("graceful quit refused, killing process", logging.Error(err))
				_ = proc.Kill()
			}
			_ = stdin.Close()
			cancelled.Store(true)
		}
	}()

	readers.Wait()
	exitCode, waitErr := proc.Wait()
	close(procDone)
	controller.Wait()

	jobErr := reconcile(cancelled.Load(), exitCode, waitErr, output.Len(), stdoutErr, stderrErr, tail)
	if jobErr != nil {
		logger.Error("conversion failed", logging.Error(jobErr), logging.String("failure_kind", string(jobErr.Kind)))
		finish(messages, jobErr)
		return
	}

	logger.Info("conversion complete", logging.Int("gif_bytes", output.Len()))
	messages <- Message{Kind: KindSuccess, Data: output.Bytes()}
	messages <- Message{Kind: KindDone}
	close(messages)
}

// reconcile folds the individual worker outcomes into at most one terminal
// error. A honored cancellation wins over everything, including partially
// buffered output. Exit failures outrank the empty-output check so a crashed
// process is not misreported as a codec mismatch.
func reconcile(cancelled bool, exitCode int, waitErr error, outputLen int, stdoutErr, stderrErr error, tail *stderrTail) *JobError {
	switch {
	case cancelled:
		return &JobError{Kind: FailureCancelled}
	case waitErr != nil:
		return &JobError{Kind: FailureProcessExit, ExitCode: -1, StderrTail: tail.Lines(), Err: waitErr}
	case exitCode != 0:
		return &JobError{Kind: FailureProcessExit, ExitCode: exitCode, StderrTail: tail.Lines()}
	case stdoutErr != nil:
		return &JobError{Kind: FailureStream, Err: stdoutErr}
	case stderrErr != nil:
		return &JobError{Kind: FailureStream, Err: stderrErr}
	case outputLen == 0:
		return &JobError{Kind: FailureEmptyOutput, StderrTail: tail.Lines()}
	default:
		return nil
	}
}

// finish emits the terminal error, the Done sentinel, and closes the stream.
func finish(messages chan<- Message, jobErr *JobError) {
	messages <- Message{Kind: KindError, Err: jobErr}
	messages <- Message{Kind: KindDone}
	close(messages)
}
