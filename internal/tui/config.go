package tui

import (
	"context"

	"github.com/Veraticus/tally/internal/engine"
	"github.com/Veraticus/tally/internal/tui/themes"
)

// Loader produces a fresh view of the ledger.
type Loader func(ctx context.Context) (engine.Dashboard, error)

// Config holds TUI configuration.
type Config struct {
	Theme    themes.Theme
	Loader   Loader
	Currency string
	Width    int
	Height   int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:    themes.Default,
		Currency: "Rs",
		Width:    100,
		Height:   24,
	}
}

// WithLoader sets the function used to load and reload the ledger.
func WithLoader(loader Loader) Option {
	return func(c *Config) {
		c.Loader = loader
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

// WithCurrency sets the currency prefix used for amounts.
func WithCurrency(currency string) Option {
	return func(c *Config) {
		c.Currency = currency
	}
}
