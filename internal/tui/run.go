package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/pour-decisions/internal/model"
)

// ErrNoEngine is returned when the editor is started without a pricing engine.
var ErrNoEngine = errors.New("pricing engine is required")

// Run starts the wine list editor and blocks until the user quits or ctx
// is cancelled. It returns the list as it stood on exit, saved or not.
func Run(ctx context.Context, opts ...Option) ([]model.WineRow, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Engine == nil {
		return nil, ErrNoEngine
	}

	p := tea.NewProgram(
		newModel(cfg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return nil, fmt.Errorf("editor failed: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", final)
	}
	if m.dirty {
		return m.Wines(), ErrUnsaved
	}
	return m.Wines(), nil
}

// ErrUnsaved is returned when the editor exits with edits that were never
// saved.
var ErrUnsaved = errors.New("wine list has unsaved changes")
