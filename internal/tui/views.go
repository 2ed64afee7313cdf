package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the editor.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.loading {
		return m.renderLoading()
	}

	sections := []string{
		m.renderTitle(),
		m.table.View(),
		m.renderPrompt(),
		m.renderStatus(),
		m.help.View(m.keymap),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderLoading() string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.theme.Title.Render("Pour Decisions"),
		"",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Loading wine list..."),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderTitle() string {
	title := m.theme.Title.Render("🍷 Pour Decisions")

	count := fmt.Sprintf("%d wines", len(m.wines))
	if len(m.wines) == 1 {
		count = "1 wine"
	}
	if len(m.failures) > 0 {
		count += fmt.Sprintf(", %d unpriced", len(m.failures))
	}
	if m.dirty {
		count += " (unsaved)"
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, title, " ", m.theme.Subtitle.Render(count))
}

func (m Model) renderPrompt() string {
	if m.mode == ModeBrowse {
		if len(m.wines) == 0 {
			return m.theme.Subtitle.Render("No wines yet. Press a to add one.")
		}
		return ""
	}
	return m.theme.Prompt.Render(m.input.View())
}

func (m Model) renderStatus() string {
	text := m.status
	if f, ok := m.failures[m.table.Cursor()]; ok && m.mode == ModeBrowse {
		text = f.Error()
		return m.theme.StatusError.Render(truncate(text, m.width))
	}

	switch m.statusKind {
	case statusError:
		return m.theme.StatusError.Render(truncate(text, m.width))
	case statusWarning:
		return m.theme.StatusWarning.Render(truncate(text, m.width))
	case statusSuccess:
		return m.theme.StatusSuccess.Render(truncate(text, m.width))
	default:
		return m.theme.StatusInfo.Render(truncate(text, m.width))
	}
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return strings.TrimSpace(string(runes[:width-3])) + "..."
}
