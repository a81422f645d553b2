package tui

import (
	"github.com/Veraticus/smartspend/internal/tracker"
	"github.com/Veraticus/smartspend/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Controller *tracker.Controller
	Theme      themes.Theme
	Width      int
	Height     int
	ShowHelp   bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:  themes.Light,
		Width:  80,
		Height: 24,
	}
}

// WithController sets the controller the dashboard reads and mutates.
func WithController(c *tracker.Controller) Option {
	return func(cfg *Config) {
		cfg.Controller = c
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithHelp starts with the full help visible.
func WithHelp(show bool) Option {
	return func(c *Config) {
		c.ShowHelp = show
	}
}
