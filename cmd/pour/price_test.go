package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/pour-decisions/internal/common"
	"github.com/Veraticus/pour-decisions/internal/config"
	"github.com/Veraticus/pour-decisions/internal/pricing"
	"github.com/Veraticus/pour-decisions/internal/sheets"
	"github.com/Veraticus/pour-decisions/internal/wines"
)

func testViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	config.SetPricingDefaults(v)
	v.Set(config.KeyDatabasePath, filepath.Join(t.TempDir(), "pour.db"))
	return v
}

func useMockExporter(t *testing.T) *sheets.MockWriter {
	t.Helper()
	mock := sheets.NewMockWriter()
	original := newExporter
	newExporter = func(context.Context, *viper.Viper) (sheets.Exporter, error) {
		return mock, nil
	}
	t.Cleanup(func() { newExporter = original })
	return mock
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunPrice_Sample(t *testing.T) {
	var out, errOut bytes.Buffer
	err := runPrice(context.Background(), &out, &errOut, testViper(t), priceOptions{sample: true})
	require.NoError(t, err)

	got := out.String()
	for _, name := range []string{"Chianti Classico", "Sancerre", "Champagne Brut", "Barolo"} {
		assert.Contains(t, got, name)
	}
	assert.Contains(t, got, "@120")
	assert.Contains(t, got, "@125")
	assert.Contains(t, got, "Priced 4 wines (Entry 2, Mid 1, Premium 1); 1 worth pouring by the glass")
	assert.NotContains(t, got, "could not be priced")
}

func TestRunPrice_WritesCSV(t *testing.T) {
	output := filepath.Join(t.TempDir(), "priced.csv")

	var out bytes.Buffer
	err := runPrice(context.Background(), &out, &out, testViper(t), priceOptions{sample: true, output: output})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Wrote "+output)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "Name,Color,RetailPrice,ForcePremium,Tier,"))
	assert.True(t, strings.HasPrefix(lines[4], "Barolo,Red,140,FALSE,Premium,240.00,240,"))
}

func TestRunPrice_InputWithBadRows(t *testing.T) {
	input := writeFile(t, "list.csv", `Name,Color,RetailPrice
Rioja,Red,30
Mystery,White,lots
,White,10
`)

	var out bytes.Buffer
	err := runPrice(context.Background(), &out, &out, testViper(t), priceOptions{input: input})
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "Rioja")
	assert.Contains(t, got, "1 wine could not be priced")
	assert.Contains(t, got, "Mystery")
	assert.Contains(t, got, "Priced 1 wines (Entry 1)")
}

func TestRunPrice_FailuresInFileOrder(t *testing.T) {
	input := writeFile(t, "list.csv", `Name,RetailPrice
Free Pour,0
Broken,abc
Chianti,25
`)
	v := testViper(t)
	v.Set(config.KeyFloorRedSparkling, "0")
	v.Set(config.KeyFloorWhiteRose, "0")

	var out bytes.Buffer
	err := runPrice(context.Background(), &out, &out, v, priceOptions{input: input})
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "2 wines could not be priced")
	assert.Contains(t, got, "row 2 (Broken)")
	free := strings.Index(got, "Free Pour")
	broken := strings.Index(got, "Broken")
	require.NotEqual(t, -1, free)
	assert.Less(t, free, broken)
	assert.Contains(t, got, "Priced 1 wines (Entry 1)")
}

func TestRunPrice_MissingInput(t *testing.T) {
	var out bytes.Buffer
	err := runPrice(context.Background(), &out, &out, testViper(t), priceOptions{input: filepath.Join(t.TempDir(), "nope.csv")})
	require.Error(t, err)

	var userErr *common.UserError
	assert.True(t, errors.As(err, &userErr))
}

func TestRunPrice_Scheme(t *testing.T) {
	v := testViper(t)
	var out bytes.Buffer

	err := runPrice(context.Background(), &out, &out, v, priceOptions{sample: true, scheme: "combined-mid"})
	require.NoError(t, err)
	assert.Equal(t, "combined-mid", v.GetString(config.KeyScheme))

	err = runPrice(context.Background(), &out, &out, v, priceOptions{sample: true, scheme: "vibes"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown scheme")
}

func TestRunPrice_InvalidConfig(t *testing.T) {
	v := testViper(t)
	v.Set(config.KeyGlassServings, 0)

	var out bytes.Buffer
	err := runPrice(context.Background(), &out, &out, v, priceOptions{sample: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestRunPrice_StoredList(t *testing.T) {
	v := testViper(t)
	ctx := context.Background()

	var out bytes.Buffer
	err := runPrice(ctx, &out, &out, v, priceOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNoWines)

	store, err := initStorage(ctx, v)
	require.NoError(t, err)
	require.NoError(t, store.ReplaceWines(ctx, wines.SampleWines()))
	require.NoError(t, store.Close())

	out.Reset()
	require.NoError(t, runPrice(ctx, &out, &out, v, priceOptions{}))
	assert.Contains(t, out.String(), "Priced 4 wines")
}

func TestRunPrice_LargeListWithProgress(t *testing.T) {
	var b strings.Builder
	b.WriteString("Name,Color,RetailPrice\n")
	for i := range progressThreshold + 5 {
		fmt.Fprintf(&b, "Wine %d,Red,%d\n", i, 10+i%150)
	}
	input := writeFile(t, "big.csv", b.String())

	var out, errOut bytes.Buffer
	err := runPrice(context.Background(), &out, &errOut, testViper(t), priceOptions{input: input})
	require.NoError(t, err)
	assert.Contains(t, out.String(), fmt.Sprintf("Priced %d wines", progressThreshold+5))
}

func TestRunPrice_Sheets(t *testing.T) {
	mock := useMockExporter(t)

	var out bytes.Buffer
	err := runPrice(context.Background(), &out, &out, testViper(t), priceOptions{sample: true, toSheets: true})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Exported to Google Sheets")

	calls := mock.GetWriteCalls()
	require.Len(t, calls, 1)
	assert.Len(t, calls[0].Rows, 4)
	assert.Len(t, calls[0].Targets, 2)
}

func TestRunPrice_SheetsFailure(t *testing.T) {
	mock := useMockExporter(t)
	mock.SetWriteError(common.ErrSheetsUnavailable)

	var out bytes.Buffer
	err := runPrice(context.Background(), &out, &out, testViper(t), priceOptions{sample: true, toSheets: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrSheetsUnavailable)
	assert.Contains(t, err.Error(), "failed to export")
}

func TestNewEngine(t *testing.T) {
	engine, err := newEngine(testViper(t))
	require.NoError(t, err)
	assert.Equal(t, pricing.DefaultConfig().GlassServings, engine.Config().GlassServings)
}
