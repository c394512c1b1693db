package config

const (
	defaultLogDir    = "~/.local/share/gifsmith/logs"
	defaultGIFWidth  = 480
	defaultGIFFPS    = 10
	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		GIF: GIF{
			Width: defaultGIFWidth,
			FPS:   defaultGIFFPS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
