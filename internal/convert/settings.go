package convert

import (
	"errors"
	"strings"

	"gifsmith/internal/ffmpeg"
)

// StandardFPS is the default frame rate for generated GIFs.
const StandardFPS = 10

// Settings describes one conversion job. It is treated as immutable once
// handed to Convert.
type Settings struct {
	// VideoPath is the source video to convert.
	VideoPath string
	// Width is the GIF width in pixels; height follows the source aspect.
	Width int
	// FPS is the GIF frame rate. Zero means StandardFPS.
	FPS int
	// FFmpegBinary overrides the ffmpeg executable path when set.
	FFmpegBinary string
}

// NewSettings builds Settings for videoPath at the given width using the
// standard frame rate.
func NewSettings(videoPath string, width int) Settings {
	return Settings{VideoPath: videoPath, Width: width, FPS: StandardFPS}
}

func (s Settings) binary() string {
	if binary := strings.TrimSpace(s.FFmpegBinary); binary != "" {
		return binary
	}
	return ffmpeg.DefaultBinary
}

func (s Settings) fps() int {
	if s.FPS > 0 {
		return s.FPS
	}
	return StandardFPS
}

func (s Settings) validate() error {
	if strings.TrimSpace(s.VideoPath) == "" {
		return errors.New("video path required")
	}
	if s.Width <= 0 {
		return errors.New("gif width must be positive")
	}
	if s.FPS < 0 {
		return errors.New("gif fps must not be negative")
	}
	return nil
}
