package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"gifsmith/internal/config"
	"gifsmith/internal/convert"
	"gifsmith/internal/services"
	"gifsmith/internal/textutil"
)

type convertOptions struct {
	output string
	width  int
	fps    int
	ffmpeg string
	force  bool
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert <video>",
		Short: "Convert a video file into an animated GIF",
		Long: `Convert decodes the source video with ffmpeg and re-encodes it as an
animated GIF using a generated palette. Progress is reported on stderr;
press Ctrl-C to cancel a running conversion.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return runConvert(cfg, logger, opts, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Destination GIF path (defaults next to the source video)")
	cmd.Flags().IntVarP(&opts.width, "width", "w", 0, "GIF width in pixels (height follows the source aspect)")
	cmd.Flags().IntVar(&opts.fps, "fps", 0, "GIF frame rate")
	cmd.Flags().StringVar(&opts.ffmpeg, "ffmpeg", "", "Path to the ffmpeg binary")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite the destination if it exists")

	return cmd
}

func runConvert(cfg *config.Config, logger *slog.Logger, opts convertOptions, videoArg string, stdout, stderr io.Writer) error {
	videoPath, err := config.ExpandPath(videoArg)
	if err != nil {
		return services.Wrap(services.ErrValidation, "convert", "resolve source", "", err)
	}
	info, err := os.Stat(videoPath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "convert", "inspect source", videoArg, err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrValidation, "convert", "inspect source", fmt.Sprintf("%s is a directory", videoPath), nil)
	}

	settings := buildSettings(cfg, opts, videoPath)

	outputPath, err := resolveOutputPath(opts.output, cfg, videoPath)
	if err != nil {
		return err
	}
	if !opts.force {
		if _, err := os.Stat(outputPath); err == nil {
			return services.Wrap(services.ErrValidation, "convert", "prepare output",
				fmt.Sprintf("%s already exists (use --force to overwrite)", outputPath), nil)
		}
	}

	lock := flock.New(outputPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock output path: %w", err)
	}
	if !locked {
		return services.Wrap(services.ErrValidation, "convert", "prepare output",
			fmt.Sprintf("another gifsmith process is writing %s", outputPath), nil)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	cancel := make(chan struct{})
	jobDone := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			close(cancel)
		case <-jobDone:
		}
	}()

	conv := convert.New(convert.WithLogger(logger))
	started := time.Now()

	gif, jobErr := consume(conv.Convert(settings, cancel), newProgressRenderer(stderr))
	close(jobDone)

	if jobErr != nil {
		return wrapJobError(jobErr)
	}

	if err := os.WriteFile(outputPath, gif, 0o644); err != nil {
		return fmt.Errorf("write gif: %w", err)
	}
	elapsed := time.Since(started).Round(time.Millisecond)

	logger.Info("gif written",
		slog.String("source", videoPath),
		slog.String("output", outputPath),
		slog.Int("bytes", len(gif)),
		slog.Duration("elapsed", elapsed))

	fmt.Fprintln(stdout, renderSummary(videoPath, outputPath, settings, len(gif), elapsed))
	return nil
}

// consume drains the job channel, feeding progress into the renderer. It
// returns the GIF bytes on success or the terminal failure otherwise.
func consume(messages <-chan convert.Message, renderer progressRenderer) ([]byte, *convert.JobError) {
	var gif []byte
	var jobErr *convert.JobError
	for msg := range messages {
		switch msg.Kind {
		case convert.KindVideoDuration:
			renderer.SetDuration(msg.Duration)
		case convert.KindProgress:
			renderer.SetFraction(msg.Fraction)
		case convert.KindSuccess:
			gif = msg.Data
		case convert.KindError:
			jobErr = msg.Err
		case convert.KindDone:
		}
	}
	renderer.Done()
	return gif, jobErr
}

func buildSettings(cfg *config.Config, opts convertOptions, videoPath string) convert.Settings {
	width := opts.width
	if width <= 0 {
		width = cfg.GIF.Width
	}
	settings := convert.NewSettings(videoPath, width)
	if opts.fps > 0 {
		settings.FPS = opts.fps
	} else if cfg.GIF.FPS > 0 {
		settings.FPS = cfg.GIF.FPS
	}
	if binary := strings.TrimSpace(opts.ffmpeg); binary != "" {
		settings.FFmpegBinary = binary
	} else {
		settings.FFmpegBinary = cfg.FFmpegBinary()
	}
	return settings
}

func resolveOutputPath(explicit string, cfg *config.Config, videoPath string) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		expanded, err := config.ExpandPath(explicit)
		if err != nil {
			return "", services.Wrap(services.ErrValidation, "convert", "resolve output", "", err)
		}
		if dir := filepath.Dir(expanded); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", fmt.Errorf("create output directory %q: %w", dir, err)
			}
		}
		return expanded, nil
	}

	base := textutil.SanitizeFileName(strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))) + ".gif"
	if cfg.Paths.OutputDir != "" {
		if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
			return "", fmt.Errorf("create output directory %q: %w", cfg.Paths.OutputDir, err)
		}
		return filepath.Join(cfg.Paths.OutputDir, base), nil
	}
	return filepath.Join(filepath.Dir(videoPath), base), nil
}

func wrapJobError(jobErr *convert.JobError) error {
	switch jobErr.Kind {
	case convert.FailureCancelled:
		return services.Wrap(services.ErrCancelled, "convert", "run", "", jobErr)
	case convert.FailureSpawn:
		return services.Wrap(services.ErrConfiguration, "convert", "launch ffmpeg", "", jobErr)
	default:
		return services.Wrap(services.ErrExternalTool, "convert", "run", "", jobErr)
	}
}

func renderSummary(videoPath, outputPath string, settings convert.Settings, size int, elapsed time.Duration) string {
	fps := settings.FPS
	if fps <= 0 {
		fps = convert.StandardFPS
	}
	rows := [][]string{
		{"Source", videoPath},
		{"Output", outputPath},
		{"Width", fmt.Sprintf("%d px", settings.Width)},
		{"Frame rate", fmt.Sprintf("%d fps", fps)},
		{"Size", humanBytes(int64(size))},
		{"Elapsed", elapsed.String()},
	}
	return renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignLeft})
}

func humanBytes(v int64) string {
	const unit = 1024
	if v < unit {
		return fmt.Sprintf("%d B", v)
	}
	div := int64(unit)
	exp := 0
	for n := v / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	value := float64(v) / float64(div)
	return fmt.Sprintf("%.1f %ciB", value, "KMGTPEZY"[exp])
}
