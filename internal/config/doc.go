// Package config loads, normalizes, and validates gifsmith configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GIFSMITH_FFMPEG. A missing configuration file is not an error; defaults
// apply and the CLI can create a sample with `gifsmith config init`.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
