package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/pour-decisions/internal/common"
	"github.com/Veraticus/pour-decisions/internal/config"
	"github.com/Veraticus/pour-decisions/internal/model"
	"github.com/Veraticus/pour-decisions/internal/pricing"
	"github.com/Veraticus/pour-decisions/internal/storage"
	"github.com/Veraticus/pour-decisions/internal/testutil"
	"github.com/Veraticus/pour-decisions/internal/testutil/winelist"
	"github.com/Veraticus/pour-decisions/internal/wines"
)

func testStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	return testutil.SetupTestDB(t, nil).Storage
}

func TestListWines_Empty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, listWines(context.Background(), &out, testStore(t)))
	assert.Contains(t, out.String(), "No wines stored yet")
}

func TestAddAndListWines(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	var out bytes.Buffer
	require.NoError(t, addWine(ctx, &out, store, "Chianti Classico", "$25", "red", false))
	require.NoError(t, addWine(ctx, &out, store, "Vintage Port", "48", "tawny", true))
	assert.Contains(t, out.String(), "Saved Chianti Classico (Red, $25.00)")
	assert.Contains(t, out.String(), "Saved Vintage Port (Other, $48.00)")

	out.Reset()
	require.NoError(t, listWines(ctx, &out, store))
	got := out.String()
	assert.Contains(t, got, "Chianti Classico")
	assert.Contains(t, got, "$48.00")
	assert.Contains(t, got, "yes")
	assert.Contains(t, got, "2 wines")
	assert.Less(t, strings.Index(got, "Chianti Classico"), strings.Index(got, "Vintage Port"))
}

func TestAddWine_Invalid(t *testing.T) {
	var out bytes.Buffer
	err := addWine(context.Background(), &out, testStore(t), "Mystery", "lots", "red", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)

	err = addWine(context.Background(), &out, testStore(t), "  ", "10", "red", false)
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)
}

func TestRemoveWine(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDBWithBuilder(t, func(b *winelist.Builder) *winelist.Builder {
		return b.WithSample()
	}).Storage

	var out bytes.Buffer
	require.NoError(t, removeWine(ctx, &out, store, "barolo"))
	assert.Contains(t, out.String(), "Removed barolo")

	rows, err := store.ListWines(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	err = removeWine(ctx, &out, store, "Barolo")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)

	var userErr *common.UserError
	require.True(t, errors.As(err, &userErr))
	assert.Equal(t, `No wine named "Barolo"`, userErr.UserMessage)
}

func TestImportWines(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDBWithBuilder(t, func(b *winelist.Builder) *winelist.Builder {
		return b.WithWine("House Red", model.ColorRed, "0").WithWine("Barolo", model.ColorRed, "140")
	}).Storage

	result, err := wines.ParseCSV(strings.NewReader(`Name,Color,RetailPrice
BAROLO,Red,150
Sancerre,White,38
Broken,White,
,Red,5
`))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, importWines(ctx, &out, store, result, false))
	got := out.String()
	assert.Contains(t, got, "1 wine could not be priced")
	assert.Contains(t, got, "Imported 2 wines (1 blank rows skipped)")

	rows, err := store.ListWines(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "House Red", rows[0].Name)
	assert.Equal(t, "150", rows[1].RetailPrice.String())
	assert.Equal(t, "Sancerre", rows[2].Name)

	out.Reset()
	require.NoError(t, importWines(ctx, &out, store, result, true))
	rows, err = store.ListWines(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "BAROLO", rows[0].Name)
}

func TestImportWines_NothingValid(t *testing.T) {
	result, err := wines.ParseCSV(strings.NewReader("Name,RetailPrice\nBroken,abc\n"))
	require.NoError(t, err)

	var out bytes.Buffer
	err = importWines(context.Background(), &out, testStore(t), result, true)
	assert.ErrorIs(t, err, common.ErrNoWines)
}

func TestWinesExportCmd(t *testing.T) {
	v := testViper(t)
	viper.Set(config.KeyDatabasePath, v.GetString(config.KeyDatabasePath))
	t.Cleanup(func() { viper.Set(config.KeyDatabasePath, "") })

	original := appFs
	appFs = afero.NewMemMapFs()
	t.Cleanup(func() { appFs = original })

	store, err := initStorage(context.Background(), v)
	require.NoError(t, err)
	require.NoError(t, store.ReplaceWines(context.Background(), wines.SampleWines()))
	require.NoError(t, store.Close())

	cmd := winesExportCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--output", "/exports/wines.csv"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "Exported 4 wines to /exports/wines.csv")

	result, err := wines.ReadFile(appFs, "/exports/wines.csv")
	require.NoError(t, err)
	require.Len(t, result.Rows, 4)
	assert.Equal(t, "Champagne Brut", result.Rows[2].Name)
	assert.Equal(t, model.ColorSparkling, result.Rows[2].Color)

	out.Reset()
	cmd = winesExportCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.True(t, strings.HasPrefix(out.String(), "Name,Color,RetailPrice,ForcePremium\n"))
}
