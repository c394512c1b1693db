package ffmpeg

import (
	"fmt"
	"strings"
)

// DefaultBinary is the ffmpeg executable name used when the configuration
// does not override it.
const DefaultBinary = "ffmpeg"

// FilterComplex builds the -filter_complex value used to produce a
// palette-optimized animated GIF at the requested frame rate and width.
// Height follows the source aspect ratio.
func FilterComplex(fps, width int) string {
	return fmt.Sprintf(
		"fps=%d,scale=%d:-1[s]; [s]split[a][b]; [a]palettegen[palette]; [b][palette]paletteuse",
		fps, width,
	)
}

// BuildArgs assembles the ffmpeg argument list for converting videoPath into
// an animated GIF written to stdout. -stats keeps per-frame progress lines on
// stderr so the converter can derive completion fractions.
func BuildArgs(videoPath string, width, fps int) []string {
	return []string{
		"-stats",
		"-i", videoPath,
		"-filter_complex", FilterComplex(fps, width),
		"-f", "gif",
		"-",
	}
}

// CommandLine renders the invocation for logs.
func CommandLine(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, binary)
	for _, arg := range args {
		if strings.ContainsAny(arg, " ;[]") {
			parts = append(parts, fmt.Sprintf("%q", arg))
			continue
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}
