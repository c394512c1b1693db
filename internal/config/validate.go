package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGIF(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGIF() error {
	if c.GIF.Width < 0 {
		return errors.New("gif.width must not be negative")
	}
	if c.GIF.Width > 0 && c.GIF.Width < 16 {
		return errors.New("gif.width below 16 pixels is not useful")
	}
	if c.GIF.FPS < 0 {
		return errors.New("gif.fps must not be negative")
	}
	if c.GIF.FPS > 50 {
		return errors.New("gif.fps above 50 exceeds the GIF format's usable rate")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
