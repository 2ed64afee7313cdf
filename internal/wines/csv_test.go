package wines

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/pour-decisions/internal/model"
	"github.com/Veraticus/pour-decisions/internal/pricing"
)

func TestParseCSV(t *testing.T) {
	input := `Name,Color,RetailPrice,ForcePremium
Chianti Classico, red ,25,false
Sancerre,WHITE,$38.00,
Champagne Brut,Sparkling,65,no
Barolo,Red,140,FALSE
Provence,rose,22,
Orange Wine,amber,30,0
Library Riesling,White,45,yes
`

	result, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Empty(t, result.Failures)
	require.Len(t, result.Rows, 7)

	assert.Equal(t, "Chianti Classico", result.Rows[0].Name)
	assert.Equal(t, model.ColorRed, result.Rows[0].Color)
	assert.True(t, decimal.NewFromInt(25).Equal(result.Rows[0].RetailPrice))

	assert.Equal(t, model.ColorWhite, result.Rows[1].Color)
	assert.True(t, decimal.NewFromInt(38).Equal(result.Rows[1].RetailPrice))
	assert.False(t, result.Rows[1].ForcePremium)

	assert.Equal(t, model.ColorRose, result.Rows[4].Color)
	assert.Equal(t, model.ColorOther, result.Rows[5].Color)
	assert.True(t, result.Rows[6].ForcePremium)
}

func TestParseCSV_RowFailures(t *testing.T) {
	input := `name,retailprice,forcepremium
Good,20,
No Price,,
Words,twenty,
Negative,-4,
Bad Flag,30,maybe
,15,
Also Good,55,TRUE
`

	result, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	assert.Equal(t, "Good", result.Rows[0].Name)
	assert.Equal(t, model.ColorOther, result.Rows[0].Color)
	assert.Equal(t, "Also Good", result.Rows[1].Name)
	assert.True(t, result.Rows[1].ForcePremium)
	assert.Equal(t, 1, result.Skipped)

	require.Len(t, result.Failures, 4)
	expected := []struct {
		name  string
		field string
		index int
	}{
		{name: "No Price", field: ColumnRetailPrice, index: 1},
		{name: "Words", field: ColumnRetailPrice, index: 2},
		{name: "Negative", field: ColumnRetailPrice, index: 3},
		{name: "Bad Flag", field: ColumnForcePremium, index: 4},
	}
	for i, want := range expected {
		failure := result.Failures[i]
		assert.Equal(t, want.name, failure.Name)
		assert.Equal(t, want.index, failure.Index)
		assert.True(t, errors.Is(failure, pricing.ErrInvalidInput))

		var inputErr *pricing.InvalidInputError
		require.True(t, errors.As(failure.Err, &inputErr))
		assert.Equal(t, want.field, inputErr.Field)
		assert.Contains(t, inputErr.Error(), want.name)
	}
}

func TestParseCSV_BrokenQuotingIsScopedToRow(t *testing.T) {
	input := "Name,RetailPrice\n" +
		"Chianti,25\n" +
		"Bad \"Quote,30\n" +
		"\"Stray\"x,12\n" +
		"Barolo,140\n"

	result, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	assert.Equal(t, "Chianti", result.Rows[0].Name)
	assert.Equal(t, "Barolo", result.Rows[1].Name)

	require.Len(t, result.Failures, 2)
	for i, failure := range result.Failures {
		assert.Equal(t, i+1, failure.Index)
		assert.ErrorIs(t, failure, pricing.ErrInvalidInput)
		assert.Contains(t, failure.Error(), fmt.Sprintf("row %d: invalid csv", i+2))
	}
}

func TestParseResult_SourceFailures(t *testing.T) {
	input := `Name,RetailPrice
,10
Words,twenty
Chianti,25
Barolo,140
`
	result, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, []int{2, 3}, result.Sources)

	// Barolo is the second row handed to the engine.
	priced := []pricing.RowFailure{{
		Index: 1,
		Name:  "Barolo",
		Err:   &pricing.InvalidInputError{Row: 1, Name: "Barolo", Field: "price", Reason: "too dear"},
	}}

	failures := result.SourceFailures(priced)
	require.Len(t, failures, 2)
	assert.Equal(t, 1, failures[0].Index)
	assert.Equal(t, "Words", failures[0].Name)
	assert.Equal(t, 3, failures[1].Index)
	assert.Equal(t, "row 4 (Barolo): invalid price: too dear", failures[1].Error())

	// The caller's failure is left alone.
	assert.Equal(t, 1, priced[0].Index)
	assert.Equal(t, "row 2 (Barolo): invalid price: too dear", priced[0].Error())
}

func TestParseResult_SourceFailuresWithoutSources(t *testing.T) {
	result := ParseResult{Rows: SampleWines()}
	failures := result.SourceFailures([]pricing.RowFailure{
		{Index: 2, Name: "Champagne", Err: errors.New("boom")},
		{Index: 0, Name: "Chianti", Err: errors.New("bang")},
	})

	require.Len(t, failures, 2)
	assert.Equal(t, 0, failures[0].Index)
	assert.Equal(t, 2, failures[1].Index)
}

func TestParseCSV_MissingColumns(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("Name,Color\nBarolo,Red\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = ParseCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"TRUE", "true", "1", "yes", "Y", "t"} {
		got, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.True(t, got, s)
	}
	for _, s := range []string{"FALSE", "false", "0", "No", "n", "F", "", "  "} {
		got, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.False(t, got, s)
	}
	_, err := ParseBool("sometimes")
	assert.Error(t, err)
}

func TestParsePrice(t *testing.T) {
	got, err := ParsePrice(" $1,250.50 ")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1250.50").Equal(got))

	_, err = ParsePrice("")
	assert.Error(t, err)
	_, err = ParsePrice("-1")
	assert.Error(t, err)
	_, err = ParsePrice("abc")
	assert.Error(t, err)
}

func pricedSample(t *testing.T) ([]model.PricedRow, []decimal.Decimal) {
	t.Helper()
	engine, err := pricing.NewEngine(pricing.DefaultConfig(),
		pricing.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	batch := engine.PriceBatch(SampleWines())
	require.Empty(t, batch.Failures)
	return batch.Rows, engine.Config().Targets
}

func TestWriteCSV(t *testing.T) {
	rows, targets := pricedSample(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows, targets))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t,
		"Name,Color,RetailPrice,ForcePremium,Tier,BottlePriceRaw,BottlePriceRnd,GlassPriceRaw,GlassPriceRnd,GlassPrice,Premium_AddOn,Premium_Mult,"+
			"GlassRevenueOK120,GlassNeeded120,CapBlocks120,GlassesNeededFor120,BTG_WorthIt@120,"+
			"GlassRevenueOK125,GlassNeeded125,CapBlocks125,GlassesNeededFor125,BTG_WorthIt@125",
		lines[0])
	assert.Equal(t,
		"Chianti Classico,Red,25,FALSE,Entry,62.50,65,13.00,15,16,,,FALSE,19,FALSE,5,TRUE,FALSE,19,FALSE,6,FALSE",
		lines[1])
	assert.Equal(t,
		"Barolo,Red,140,FALSE,Premium,240.00,240,48.00,49,21,240.00,210.00,FALSE,59,TRUE,14,FALSE,FALSE,60,TRUE,15,FALSE",
		lines[4])
}

func TestWriteCSV_Deterministic(t *testing.T) {
	rows, targets := pricedSample(t)
	again, _ := pricedSample(t)

	var first, second bytes.Buffer
	require.NoError(t, WriteCSV(&first, rows, targets))
	require.NoError(t, WriteCSV(&second, again, targets))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestWriteInputCSV_RoundTrip(t *testing.T) {
	original := append(SampleWines(), model.WineRow{
		Name:         "Vin de Garde",
		Color:        model.ColorRose,
		RetailPrice:  decimal.RequireFromString("19.99"),
		ForcePremium: true,
	})

	var buf bytes.Buffer
	require.NoError(t, WriteInputCSV(&buf, original))

	result, err := ParseCSV(&buf)
	require.NoError(t, err)
	require.Empty(t, result.Failures)
	require.Len(t, result.Rows, len(original))
	for i := range original {
		assert.Equal(t, original[i].Name, result.Rows[i].Name)
		assert.Equal(t, original[i].Color, result.Rows[i].Color)
		assert.True(t, original[i].RetailPrice.Equal(result.Rows[i].RetailPrice))
		assert.Equal(t, original[i].ForcePremium, result.Rows[i].ForcePremium)
	}
}

func TestTargetLabel(t *testing.T) {
	assert.Equal(t, "120", TargetLabel(decimal.RequireFromString("1.20")))
	assert.Equal(t, "125", TargetLabel(decimal.RequireFromString("1.25")))
	assert.Equal(t, "112.5", TargetLabel(decimal.RequireFromString("1.125")))
}
