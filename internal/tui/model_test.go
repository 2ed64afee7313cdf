package tui

import (
	"context"
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/pour-decisions/internal/model"
	"github.com/Veraticus/pour-decisions/internal/pricing"
	"github.com/Veraticus/pour-decisions/internal/testutil"
	"github.com/Veraticus/pour-decisions/internal/wines"
)

func testEngine(t *testing.T) *pricing.Engine {
	t.Helper()
	engine, err := pricing.NewEngine(pricing.DefaultConfig(),
		pricing.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return engine
}

func testModel(t *testing.T, opts ...Option) Model {
	t.Helper()
	cfg := defaultConfig()
	cfg.Engine = testEngine(t)
	for _, opt := range opts {
		opt(&cfg)
	}
	return newModel(cfg)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

// sendAndRun delivers msg and then the message its command produces.
func sendAndRun(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m, ok := next.(Model)
	require.True(t, ok)
	require.NotNil(t, cmd)
	return send(t, m, cmd())
}

func typeText(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

func TestModel_InitialPricing(t *testing.T) {
	m := testModel(t, WithWines(wines.SampleWines()))

	priced := m.Priced()
	require.Len(t, priced, 4)
	for _, row := range priced {
		require.NotNil(t, row)
	}
	assert.Equal(t, model.TierEntry, priced[0].Tier)
	assert.Equal(t, int64(65), priced[0].BottlePriceRounded)
	assert.Equal(t, model.TierPremium, priced[3].Tier)
	assert.Equal(t, int64(240), priced[3].BottlePriceRounded)
	assert.False(t, m.Dirty())
	assert.Nil(t, m.Init())
}

func TestModel_Navigation(t *testing.T) {
	m := testModel(t, WithWines(wines.SampleWines()))
	assert.Equal(t, 0, m.Cursor())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown}, runes("j"))
	assert.Equal(t, 2, m.Cursor())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, m.Cursor())
}

func TestModel_EditPrice(t *testing.T) {
	m := testModel(t, WithWines(wines.SampleWines()))

	m = send(t, m, runes("e"))
	require.Equal(t, ModeEditPrice, m.Mode())

	m = send(t, m, typeText("140")...)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ModeBrowse, m.Mode())
	assert.True(t, m.Dirty())
	assert.True(t, decimal.NewFromInt(140).Equal(m.Wines()[0].RetailPrice))

	row := m.Priced()[0]
	require.NotNil(t, row)
	assert.Equal(t, model.TierPremium, row.Tier)
	assert.Equal(t, int64(240), row.BottlePriceRounded)
}

func TestModel_EditPriceRejectsBadInput(t *testing.T) {
	m := testModel(t, WithWines(wines.SampleWines()))

	m = send(t, m, runes("e"))
	m = send(t, m, typeText("lots")...)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ModeEditPrice, m.Mode())
	assert.Contains(t, m.Status(), "not a number")
	assert.False(t, m.Dirty())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeBrowse, m.Mode())
	assert.True(t, decimal.NewFromInt(25).Equal(m.Wines()[0].RetailPrice))
}

func TestModel_CycleColorAndTogglePremium(t *testing.T) {
	original := wines.SampleWines()
	m := testModel(t, WithWines(original))

	m = send(t, m, runes("c"))
	assert.Equal(t, model.ColorWhite, m.Wines()[0].Color)
	assert.Equal(t, model.ColorRed, original[0].Color)

	m = send(t, m, runes("p"))
	assert.True(t, m.Wines()[0].ForcePremium)

	row := m.Priced()[0]
	require.NotNil(t, row)
	assert.Equal(t, model.TierPremium, row.Tier)
	assert.Equal(t, int64(125), row.BottlePriceRounded)
	assert.True(t, m.Dirty())
}

func TestModel_AddWine(t *testing.T) {
	m := testModel(t, WithWines(wines.SampleWines()))

	m = send(t, m, runes("a"))
	require.Equal(t, ModeAddName, m.Mode())
	m = send(t, m, typeText("Sancerre")...)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ModeAddName, m.Mode())
	assert.Contains(t, m.Status(), "already on the list")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc}, runes("a"))
	m = send(t, m, typeText("Rioja")...)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ModeEditPrice, m.Mode())
	m = send(t, m, typeText("30")...)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, m.Wines(), 5)
	added := m.Wines()[4]
	assert.Equal(t, "Rioja", added.Name)
	assert.Equal(t, model.ColorRed, added.Color)
	assert.True(t, decimal.NewFromInt(30).Equal(added.RetailPrice))
	assert.Equal(t, 4, m.Cursor())
	require.NotNil(t, m.Priced()[4])
}

func TestModel_DeleteWine(t *testing.T) {
	m := testModel(t, WithWines(wines.SampleWines()))

	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 3, m.Cursor())

	m = send(t, m, runes("d"))
	require.Len(t, m.Wines(), 3)
	assert.Equal(t, 2, m.Cursor())
	assert.Equal(t, "Deleted Barolo", m.Status())

	m = send(t, m, runes("d"), runes("d"), runes("d"))
	assert.Empty(t, m.Wines())

	// Nothing left to act on.
	m = send(t, m, runes("d"), runes("e"), runes("c"))
	assert.Equal(t, ModeBrowse, m.Mode())
	assert.Contains(t, m.View(), "Press a to add one")
}

func TestModel_RowFailureShowsInStatus(t *testing.T) {
	rows := append(wines.SampleWines(), model.WineRow{
		Name:        "Broken",
		Color:       model.ColorWhite,
		RetailPrice: decimal.NewFromInt(-5),
	})
	m := testModel(t, WithWines(rows))

	priced := m.Priced()
	require.Len(t, priced, 5)
	assert.Nil(t, priced[4])
	assert.NotNil(t, priced[3])

	f, ok := m.Failure(4)
	require.True(t, ok)
	assert.ErrorIs(t, f, pricing.ErrInvalidInput)
	assert.Contains(t, m.Status(), "Broken")
	assert.Contains(t, m.View(), "1 unpriced")
}

func TestModel_QuitWithUnsavedChanges(t *testing.T) {
	m := testModel(t, WithWines(wines.SampleWines()))
	m = send(t, m, runes("p"))

	next, cmd := m.Update(runes("q"))
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Contains(t, m.Status(), "Unsaved changes")

	_, cmd = m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_QuitClean(t *testing.T) {
	m := testModel(t, WithWines(wines.SampleWines()))

	next, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, next.View())
}

func TestModel_SaveAndLoad(t *testing.T) {
	db := testutil.SetupTestDB(t, wines.SampleWines())

	m := testModel(t, WithStore(db.Storage))
	assert.Contains(t, m.View(), "Loading")

	cmd := m.Init()
	require.NotNil(t, cmd)
	m = send(t, m, cmd())
	require.Len(t, m.Wines(), 4)
	assert.Equal(t, "Loaded 4 wines", m.Status())

	m = send(t, m, runes("d"))
	assert.True(t, m.Dirty())

	m = sendAndRun(t, m, runes("s"))
	assert.False(t, m.Dirty())
	assert.Equal(t, "Saved 3 wines", m.Status())

	stored := db.MustListWines()
	require.Len(t, stored, 3)
	assert.Equal(t, "Sancerre", stored[0].Name)
}

func TestModel_EditsAfterLoad(t *testing.T) {
	db := testutil.SetupTestDB(t, wines.SampleWines())

	m := testModel(t, WithStore(db.Storage))
	m = send(t, m, m.Init()())
	require.Len(t, m.Wines(), 4)
	require.Equal(t, 0, m.Cursor())

	m = send(t, m, runes("p"))
	require.True(t, m.Dirty())
	assert.True(t, m.Wines()[0].ForcePremium)

	m = send(t, m, runes("c"))
	assert.Equal(t, model.ColorWhite, m.Wines()[0].Color)

	m = send(t, m, runes("e"))
	assert.Equal(t, ModeEditPrice, m.Mode())
}

func TestModel_AddAfterDeletingEverything(t *testing.T) {
	m := testModel(t, WithWines(wines.SampleWines()))

	m = send(t, m, runes("d"), runes("d"), runes("d"), runes("d"))
	require.Empty(t, m.Wines())

	m = send(t, m, runes("a"))
	m = send(t, m, typeText("Rioja")...)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = send(t, m, typeText("30")...)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, m.Wines(), 1)
	assert.Equal(t, 0, m.Cursor())

	m = send(t, m, runes("p"))
	assert.True(t, m.Wines()[0].ForcePremium)

	m = send(t, m, runes("d"))
	assert.Empty(t, m.Wines())
}

func TestModel_SaveWithoutStore(t *testing.T) {
	m := testModel(t, WithWines(wines.SampleWines()))
	m = send(t, m, runes("s"))
	assert.Equal(t, "No storage configured", m.Status())
}

func TestModel_HelpToggle(t *testing.T) {
	m := testModel(t, WithWines(wines.SampleWines()))
	assert.NotContains(t, m.View(), "cycle color")

	m = send(t, m, runes("?"))
	assert.Contains(t, m.View(), "cycle color")
}

func TestRun_RequiresEngine(t *testing.T) {
	_, err := Run(context.Background())
	assert.ErrorIs(t, err, ErrNoEngine)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a long...", truncate("a long status line", 9))
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "anything", truncate("anything", 0))
}
