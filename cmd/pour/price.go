package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/pour-decisions/internal/cli"
	"github.com/Veraticus/pour-decisions/internal/common"
	"github.com/Veraticus/pour-decisions/internal/config"
	"github.com/Veraticus/pour-decisions/internal/model"
	"github.com/Veraticus/pour-decisions/internal/pricing"
	"github.com/Veraticus/pour-decisions/internal/sheets"
	"github.com/Veraticus/pour-decisions/internal/wines"
)

// progressThreshold is the list size above which pricing shows a progress bar.
const progressThreshold = 200

// newExporter builds the Sheets exporter; tests swap it for a mock.
var newExporter = func(ctx context.Context, v *viper.Viper) (sheets.Exporter, error) {
	cfg, err := config.LoadSheetsConfig(v)
	if err != nil {
		return nil, common.NewUserError("Google Sheets is not configured. Run 'pour auth sheets' or set sheets.service_account_path", err)
	}
	return sheets.NewWriter(ctx, *cfg, slog.Default())
}

type priceOptions struct {
	input    string
	output   string
	scheme   string
	sample   bool
	toSheets bool
}

func priceCmd() *cobra.Command {
	var opts priceOptions

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a wine list",
		Long: `Price a wine list by the bottle and by the glass.

The list comes from --input (a CSV with Name, Color, RetailPrice and
ForcePremium columns), --sample, or the stored list managed with 'pour wines'.
Each glass column shows whether the glass price covers the target, the glass
price that would, and how many glasses pay back the bottle.`,
		Example: `  pour price --sample
  pour price --input list.csv --output priced.csv
  pour price --sheets --scheme combined-mid`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPrice(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), viper.GetViper(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "CSV wine list to price")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the priced table as CSV")
	cmd.Flags().StringVar(&opts.scheme, "scheme", "", "tier scheme (upper-mid, combined-mid)")
	cmd.Flags().BoolVar(&opts.sample, "sample", false, "price the built-in sample list")
	cmd.Flags().BoolVar(&opts.toSheets, "sheets", false, "export the priced table to Google Sheets")
	cmd.MarkFlagsMutuallyExclusive("input", "sample")

	return cmd
}

func runPrice(ctx context.Context, out, errOut io.Writer, v *viper.Viper, opts priceOptions) error {
	if opts.scheme != "" {
		if _, err := pricing.ParseScheme(opts.scheme); err != nil {
			return common.NewUserError(fmt.Sprintf("Unknown scheme %q", opts.scheme), err)
		}
		v.Set(config.KeyScheme, opts.scheme)
	}

	source, err := loadRows(ctx, v, opts)
	if err != nil {
		return err
	}
	rows := source.Rows
	if len(rows) == 0 && len(source.Failures) == 0 {
		return common.NewUserError("No wines to price. Add some with 'pour wines add' or pass --input", common.ErrNoWines)
	}

	var engineOpts []pricing.Option
	if len(rows) > progressThreshold {
		bar := cli.NewProgressBar(errOut, len(rows), "Pricing wines")
		engineOpts = append(engineOpts, pricing.WithProgress(cli.PricingProgress(bar)))
	}

	engine, err := newEngine(v, engineOpts...)
	if err != nil {
		return err
	}

	batch := engine.PriceBatch(rows)
	failures := source.SourceFailures(batch.Failures)
	targets := engine.Config().Targets

	if err := renderPriced(out, batch.Rows, failures, targets); err != nil {
		return err
	}

	if opts.output != "" {
		if err := wines.WritePricedFile(appFs, opts.output, batch.Rows, targets); err != nil {
			return common.NewUserError(fmt.Sprintf("Cannot write %s", opts.output), err)
		}
		_, _ = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Wrote %s", opts.output)))
	}

	if opts.toSheets {
		if err := exportToSheets(ctx, out, v, batch.Rows, targets); err != nil {
			return err
		}
	}

	return nil
}

// loadRows picks the wine list source. Parse failures from a CSV travel
// with the rows so they are reported with pricing failures.
func loadRows(ctx context.Context, v *viper.Viper, opts priceOptions) (wines.ParseResult, error) {
	switch {
	case opts.sample:
		return wines.ParseResult{Rows: wines.SampleWines()}, nil
	case opts.input != "":
		return readWineFile(opts.input)
	default:
		rows, err := storedWines(ctx, v)
		if err != nil {
			return wines.ParseResult{}, fmt.Errorf("failed to load stored wines: %w", err)
		}
		return wines.ParseResult{Rows: rows}, nil
	}
}

func renderPriced(out io.Writer, rows []model.PricedRow, failures []pricing.RowFailure, targets []decimal.Decimal) error {
	if len(rows) > 0 {
		if err := cli.RenderPricedTable(out, rows, targets); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
	}

	if err := cli.RenderFailures(out, failures); err != nil {
		return err
	}

	_, err := fmt.Fprintln(out, cli.FormatInfo(cli.Summary(rows)))
	return err
}

func exportToSheets(ctx context.Context, out io.Writer, v *viper.Viper, rows []model.PricedRow, targets []decimal.Decimal) error {
	if len(rows) == 0 {
		return common.NewUserError("Nothing priced, skipping Sheets export", common.ErrNoWines)
	}

	handler := cli.NewInterruptHandler(out)
	ctx = handler.HandleInterrupts(ctx, "The sheet may be partially written. Run the export again to replace it.")

	exporter, err := newExporter(ctx, v)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "%s Exporting %d wines to Google Sheets...\n", cli.ChartIcon, len(rows))
	if err := exporter.Write(ctx, rows, targets); err != nil {
		if handler.WasInterrupted() || errors.Is(err, context.Canceled) {
			return common.NewUserError("Export interrupted", err)
		}
		return fmt.Errorf("failed to export to Google Sheets: %w", err)
	}

	_, _ = fmt.Fprintln(out, cli.FormatSuccess("Exported to Google Sheets"))
	return nil
}
