package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/pour-decisions/internal/cli"
	"github.com/Veraticus/pour-decisions/internal/model"
	"github.com/Veraticus/pour-decisions/internal/pricing"
	"github.com/Veraticus/pour-decisions/internal/storage"
	"github.com/Veraticus/pour-decisions/internal/tui/themes"
	"github.com/Veraticus/pour-decisions/internal/wines"
)

// Mode is what the editor is currently accepting input for.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeEditPrice
	ModeAddName
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

// chromeHeight is the lines taken by the title, prompt, status and help.
const chromeHeight = 7

// Model holds the wine list editor state. Every edit reprices the whole
// list so the grid never shows stale numbers.
type Model struct {
	engine      *pricing.Engine
	store       storage.WineStore
	theme       themes.Theme
	keymap      KeyMap
	help        help.Model
	table       table.Model
	input       textinput.Model
	wines       []model.WineRow
	priced      []*model.PricedRow
	failures    map[int]pricing.RowFailure
	status      string
	pendingName string
	width       int
	height      int
	mode        Mode
	statusKind  statusKind
	dirty       bool
	confirmQuit bool
	loading     bool
	quitting    bool
}

// newModel creates a new model with the given configuration.
func newModel(cfg Config) Model {
	input := textinput.New()
	input.CharLimit = 64

	h := help.New()
	h.ShowAll = cfg.ShowHelp

	m := Model{
		engine:   cfg.Engine,
		store:    cfg.Store,
		theme:    cfg.Theme,
		keymap:   DefaultKeyMap(),
		help:     h,
		input:    input,
		wines:    append([]model.WineRow(nil), cfg.Wines...),
		failures: make(map[int]pricing.RowFailure),
		width:    cfg.Width,
		height:   cfg.Height,
		loading:  cfg.Store != nil && len(cfg.Wines) == 0,
	}

	m.table = table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(m.tableHeight()),
	)
	styles := table.DefaultStyles()
	styles.Header = m.theme.Header
	styles.Selected = m.theme.Selected
	m.table.SetStyles(styles)

	m.recompute()
	return m
}

// Init loads the stored list unless wines were supplied directly.
func (m Model) Init() tea.Cmd {
	if m.loading {
		return m.loadWines()
	}
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(m.tableHeight())
		m.table.SetWidth(msg.Width)
		m.help.Width = msg.Width
		return m, nil

	case winesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.setStatus(statusError, fmt.Sprintf("Failed to load wines: %v", msg.err))
			return m, nil
		}
		m.wines = msg.wines
		m.dirty = false
		m.recompute()
		m.setStatus(statusInfo, fmt.Sprintf("Loaded %d wines", len(m.wines)))
		return m, nil

	case winesSavedMsg:
		if msg.err != nil {
			m.setStatus(statusError, fmt.Sprintf("Failed to save: %v", msg.err))
			return m, nil
		}
		m.dirty = false
		m.setStatus(statusSuccess, fmt.Sprintf("Saved %d wines", msg.count))
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case ModeEditPrice, ModeAddName:
			return m.updatePrompt(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	if m.mode != ModeBrowse {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keymap.Quit) {
		m.confirmQuit = false
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.dirty && !m.confirmQuit {
			m.confirmQuit = true
			m.setStatus(statusWarning, "Unsaved changes. Press q again to quit, or s to save.")
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.table.SetHeight(m.tableHeight())
		return m, nil

	case key.Matches(msg, m.keymap.Up):
		m.table.MoveUp(1)
		return m, nil

	case key.Matches(msg, m.keymap.Down):
		m.table.MoveDown(1)
		return m, nil

	case key.Matches(msg, m.keymap.EditPrice):
		wine, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = ModeEditPrice
		m.input.Reset()
		m.input.Prompt = "Retail price for " + wine.Name + ": $"
		m.input.Placeholder = wine.RetailPrice.StringFixed(2)
		return m, m.input.Focus()

	case key.Matches(msg, m.keymap.CycleColor):
		i := m.table.Cursor()
		if i < 0 || i >= len(m.wines) {
			return m, nil
		}
		m.wines = slices.Clone(m.wines)
		m.wines[i].Color = m.wines[i].Color.Next()
		m.edited()
		return m, nil

	case key.Matches(msg, m.keymap.TogglePremium):
		i := m.table.Cursor()
		if i < 0 || i >= len(m.wines) {
			return m, nil
		}
		m.wines = slices.Clone(m.wines)
		m.wines[i].ForcePremium = !m.wines[i].ForcePremium
		m.edited()
		return m, nil

	case key.Matches(msg, m.keymap.Add):
		m.mode = ModeAddName
		m.pendingName = ""
		m.input.Reset()
		m.input.Prompt = "Wine name: "
		m.input.Placeholder = ""
		return m, m.input.Focus()

	case key.Matches(msg, m.keymap.Delete):
		i := m.table.Cursor()
		if i < 0 || i >= len(m.wines) {
			return m, nil
		}
		name := m.wines[i].Name
		m.wines = slices.Delete(slices.Clone(m.wines), i, i+1)
		m.edited()
		m.setStatus(statusInfo, "Deleted "+name)
		return m, nil

	case key.Matches(msg, m.keymap.Save):
		if m.store == nil {
			m.setStatus(statusError, "No storage configured")
			return m, nil
		}
		m.setStatus(statusInfo, "Saving...")
		return m, m.saveWines()
	}

	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Cancel):
		m.closePrompt()
		m.setStatus(statusInfo, "Cancelled")
		return m, nil

	case key.Matches(msg, m.keymap.Confirm):
		value := strings.TrimSpace(m.input.Value())
		if m.mode == ModeAddName {
			return m.confirmName(value)
		}
		return m.confirmPrice(value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) confirmName(name string) (tea.Model, tea.Cmd) {
	if name == "" {
		m.setStatus(statusError, "Name cannot be empty")
		return m, nil
	}
	for _, wine := range m.wines {
		if strings.EqualFold(wine.Name, name) {
			m.setStatus(statusError, fmt.Sprintf("%s is already on the list", wine.Name))
			return m, nil
		}
	}

	m.pendingName = name
	m.mode = ModeEditPrice
	m.input.Reset()
	m.input.Prompt = "Retail price for " + name + ": $"
	m.input.Placeholder = "0.00"
	return m, nil
}

func (m Model) confirmPrice(value string) (tea.Model, tea.Cmd) {
	price, err := wines.ParsePrice(value)
	if err != nil {
		m.setStatus(statusError, "Retail price "+err.Error())
		return m, nil
	}

	if m.pendingName != "" {
		m.wines = append(slices.Clone(m.wines), model.WineRow{
			Name:        m.pendingName,
			Color:       model.ColorRed,
			RetailPrice: price,
		})
		name := m.pendingName
		m.closePrompt()
		m.edited()
		m.table.SetCursor(len(m.wines) - 1)
		m.setStatus(statusInfo, "Added "+name)
		return m, nil
	}

	i := m.table.Cursor()
	if i >= 0 && i < len(m.wines) {
		m.wines = slices.Clone(m.wines)
		m.wines[i].RetailPrice = price
	}
	m.closePrompt()
	m.edited()
	return m, nil
}

func (m *Model) closePrompt() {
	m.mode = ModeBrowse
	m.pendingName = ""
	m.input.Blur()
	m.input.Reset()
}

// edited marks the list dirty and reprices it.
func (m *Model) edited() {
	m.dirty = true
	m.confirmQuit = false
	m.recompute()
}

// recompute prices every wine and rebuilds the grid. A row that fails
// keeps its inputs and shows the reason in the status line when selected.
func (m *Model) recompute() {
	m.priced = make([]*model.PricedRow, len(m.wines))
	m.failures = make(map[int]pricing.RowFailure)

	if m.engine != nil {
		batch := m.engine.PriceBatch(m.wines)
		m.failures = lo.KeyBy(batch.Failures, func(f pricing.RowFailure) int {
			return f.Index
		})
		next := 0
		for i := range m.wines {
			if _, failed := m.failures[i]; failed {
				continue
			}
			if next < len(batch.Rows) {
				m.priced[i] = &batch.Rows[next]
				next++
			}
		}
	}

	rows := make([]table.Row, len(m.wines))
	for i, wine := range m.wines {
		rows[i] = m.row(wine, m.priced[i])
	}
	m.table.SetRows(rows)

	// An empty table leaves the cursor at -1.
	if n := len(rows); n > 0 {
		if cursor := m.table.Cursor(); cursor < 0 || cursor >= n {
			m.table.SetCursor(min(max(cursor, 0), n-1))
		}
	}

	if len(m.failures) > 0 {
		m.setStatus(statusError, m.failureSummary())
	}
}

func (m Model) failureSummary() string {
	first := len(m.wines)
	for i := range m.failures {
		first = min(first, i)
	}
	f := m.failures[first]
	if len(m.failures) == 1 {
		return f.Error()
	}
	return fmt.Sprintf("%s (and %d more)", f.Error(), len(m.failures)-1)
}

func (m Model) row(wine model.WineRow, priced *model.PricedRow) table.Row {
	premium := ""
	if wine.ForcePremium {
		premium = "yes"
	}

	row := table.Row{
		wine.Name,
		wine.Color.String(),
		"$" + wine.RetailPrice.StringFixed(2),
		premium,
	}

	targets := m.targets()
	if priced == nil {
		row = append(row, "error", "", "")
		for range targets {
			row = append(row, "")
		}
		return row
	}

	row = append(row,
		priced.Tier.String(),
		fmt.Sprintf("$%d", priced.BottlePriceRounded),
		"$"+priced.GlassPriceFinal.String(),
	)
	for i := range targets {
		cell := ""
		if i < len(priced.Diagnostics) {
			cell = cli.FormatDiagnostic(priced.Diagnostics[i])
		}
		row = append(row, cell)
	}
	return row
}

func (m Model) columns() []table.Column {
	columns := []table.Column{
		{Title: "Wine", Width: 24},
		{Title: "Color", Width: 9},
		{Title: "Retail", Width: 9},
		{Title: "Force", Width: 5},
		{Title: "Tier", Width: 9},
		{Title: "Bottle", Width: 7},
		{Title: "Glass", Width: 6},
	}
	for _, t := range m.targets() {
		columns = append(columns, table.Column{Title: "@" + wines.TargetLabel(t), Width: 16})
	}
	return columns
}

func (m Model) targets() []decimal.Decimal {
	if m.engine == nil {
		return nil
	}
	return m.engine.Config().Targets
}

func (m Model) tableHeight() int {
	h := m.height - chromeHeight
	if m.help.ShowAll {
		h -= 3
	}
	return max(h, 3)
}

func (m Model) selected() (model.WineRow, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.wines) {
		return model.WineRow{}, false
	}
	return m.wines[i], true
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.status = text
}

// Wines returns the current inputs in display order.
func (m Model) Wines() []model.WineRow {
	return append([]model.WineRow(nil), m.wines...)
}

// Priced returns the priced row for each wine, nil where pricing failed.
func (m Model) Priced() []*model.PricedRow {
	return append([]*model.PricedRow(nil), m.priced...)
}

// Failure returns the pricing failure for the wine at index i.
func (m Model) Failure(i int) (pricing.RowFailure, bool) {
	f, ok := m.failures[i]
	return f, ok
}

// Dirty reports whether there are unsaved edits.
func (m Model) Dirty() bool {
	return m.dirty
}

// Mode returns the current input mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Status returns the status line text.
func (m Model) Status() string {
	return m.status
}

// Cursor returns the selected row index.
func (m Model) Cursor() int {
	return m.table.Cursor()
}
