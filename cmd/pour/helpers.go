package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/Veraticus/pour-decisions/internal/common"
	"github.com/Veraticus/pour-decisions/internal/config"
	"github.com/Veraticus/pour-decisions/internal/model"
	"github.com/Veraticus/pour-decisions/internal/pricing"
	"github.com/Veraticus/pour-decisions/internal/storage"
	"github.com/Veraticus/pour-decisions/internal/wines"
)

// initStorage opens the wine list database and brings its schema up to date.
func initStorage(ctx context.Context, v *viper.Viper) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath(v))
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newEngine builds a pricing engine from the effective configuration.
func newEngine(v *viper.Viper, opts ...pricing.Option) (*pricing.Engine, error) {
	cfg, err := config.LoadPricingConfig(v)
	if err != nil {
		return nil, common.NewUserError("Pricing configuration is invalid", err)
	}

	opts = append([]pricing.Option{pricing.WithLogger(slog.Default())}, opts...)
	engine, err := pricing.NewEngine(cfg, opts...)
	if err != nil {
		return nil, common.NewUserError("Pricing configuration is invalid", err)
	}
	return engine, nil
}

// appFs is where wine list files are read and written.
var appFs = afero.NewOsFs()

// readWineFile parses a CSV wine list from disk.
func readWineFile(path string) (wines.ParseResult, error) {
	result, err := wines.ReadFile(appFs, path)
	if err != nil {
		return wines.ParseResult{}, common.NewUserError(fmt.Sprintf("Cannot read wine list %s", path), err)
	}

	slog.Debug("Read wine list",
		"file", path,
		"wines", len(result.Rows),
		"invalid", len(result.Failures),
		"skipped", result.Skipped)

	return result, nil
}

// storedWines returns the saved wine list.
func storedWines(ctx context.Context, v *viper.Viper) ([]model.WineRow, error) {
	store, err := initStorage(ctx, v)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	return store.ListWines(ctx)
}
