package pricing

import (
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/pour-decisions/internal/model"
)

// ProgressFunc is called after each row of a batch is processed.
type ProgressFunc func(done, total int)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for row-level diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithProgress registers a progress callback for PriceBatch.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// Batch is the result of pricing a wine list. Rows keeps input order for
// every row that priced cleanly; Failures lists the rest.
type Batch struct {
	Rows     []model.PricedRow
	Failures []RowFailure
}

// Engine prices wine rows against one immutable Config.
type Engine struct {
	logger   *slog.Logger
	progress ProgressFunc
	cfg      Config
}

// NewEngine validates cfg and returns an engine bound to it. Configuration
// errors are fatal for the whole batch.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Targets = append([]decimal.Decimal(nil), cfg.Targets...)

	e := &Engine{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the configuration snapshot the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// PriceRow runs one row through calculation, rounding, glass derivation
// and diagnostics.
func (e *Engine) PriceRow(row model.WineRow) (model.PricedRow, error) {
	bottle, err := ComputeBottlePrice(row, e.cfg)
	if err != nil {
		return model.PricedRow{}, err
	}

	bottleRounded, err := RoundToMenuFriendly(bottle.Raw)
	if err != nil {
		return model.PricedRow{}, err
	}

	glass, err := DeriveGlassPrice(bottleRounded, row.Color, e.cfg)
	if err != nil {
		return model.PricedRow{}, err
	}

	diagnostics, err := Diagnose(row.Name, row.Color, bottleRounded, glass.Final, e.cfg)
	if err != nil {
		return model.PricedRow{}, err
	}

	return model.PricedRow{
		WineRow:               row,
		Tier:                  bottle.Tier,
		BottlePriceRaw:        bottle.Raw,
		BottlePriceRounded:    bottleRounded,
		PremiumAddOnCandidate: bottle.PremiumAddOn,
		PremiumMultCandidate:  bottle.PremiumMult,
		GlassPriceRaw:         glass.Raw,
		GlassPriceRounded:     glass.Rounded,
		GlassPriceFinal:       glass.Final,
		Diagnostics:           diagnostics,
	}, nil
}

// PriceBatch prices every row independently. A failing row is recorded in
// Failures and does not stop the rest of the batch.
func (e *Engine) PriceBatch(rows []model.WineRow) Batch {
	batch := Batch{Rows: make([]model.PricedRow, 0, len(rows))}

	for i, row := range rows {
		priced, err := e.PriceRow(row)
		if err != nil {
			var inputErr *InvalidInputError
			if errors.As(err, &inputErr) && inputErr.Row < 0 {
				scoped := *inputErr
				scoped.Row = i
				scoped.Name = row.Name
				err = &scoped
			}

			e.logger.Warn("Failed to price wine",
				"row", i+1,
				"name", row.Name,
				"error", err)
			batch.Failures = append(batch.Failures, RowFailure{Index: i, Name: row.Name, Err: err})
		} else {
			batch.Rows = append(batch.Rows, priced)
		}

		if e.progress != nil {
			e.progress(i+1, len(rows))
		}
	}

	e.logger.Debug("Priced wine list",
		"rows", len(rows),
		"priced", len(batch.Rows),
		"failed", len(batch.Failures))

	return batch
}
