package tui

import (
	"github.com/Veraticus/pour-decisions/internal/model"
	"github.com/Veraticus/pour-decisions/internal/pricing"
	"github.com/Veraticus/pour-decisions/internal/storage"
	"github.com/Veraticus/pour-decisions/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme  themes.Theme
	Store  storage.WineStore
	Engine *pricing.Engine
	// Wines seeds the grid when no store is configured.
	Wines    []model.WineRow
	Width    int
	Height   int
	ShowHelp bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:  themes.Default,
		Width:  100,
		Height: 24,
	}
}

// WithStore sets where the wine list is loaded from and saved to.
func WithStore(store storage.WineStore) Option {
	return func(c *Config) {
		c.Store = store
	}
}

// WithEngine sets the engine used to recompute prices after every edit.
func WithEngine(engine *pricing.Engine) Option {
	return func(c *Config) {
		c.Engine = engine
	}
}

// WithWines seeds the grid directly.
func WithWines(wines []model.WineRow) Option {
	return func(c *Config) {
		c.Wines = append([]model.WineRow(nil), wines...)
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

// WithHelp starts with the full key help expanded.
func WithHelp(show bool) Option {
	return func(c *Config) {
		c.ShowHelp = show
	}
}
