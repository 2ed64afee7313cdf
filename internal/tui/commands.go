package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/pour-decisions/internal/model"
)

// loadWines reads the wine list from storage.
func (m Model) loadWines() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		if store == nil {
			return winesLoadedMsg{err: fmt.Errorf("storage not configured")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		wines, err := store.ListWines(ctx)
		return winesLoadedMsg{wines: wines, err: err}
	}
}

// saveWines replaces the stored list with the grid's inputs.
func (m Model) saveWines() tea.Cmd {
	store := m.store
	wines := append([]model.WineRow(nil), m.wines...)
	return func() tea.Msg {
		if store == nil {
			return winesSavedMsg{err: fmt.Errorf("storage not configured")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := store.ReplaceWines(ctx, wines); err != nil {
			return winesSavedMsg{err: err}
		}
		return winesSavedMsg{count: len(wines)}
	}
}
