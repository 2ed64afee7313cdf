package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/pour-decisions/internal/common"
	"github.com/Veraticus/pour-decisions/internal/model"
	"github.com/Veraticus/pour-decisions/internal/wines"
)

// Exporter publishes a priced wine list somewhere outside the terminal.
type Exporter interface {
	Write(ctx context.Context, rows []model.PricedRow, targets []decimal.Decimal) error
}

// Writer exports priced rows to a single tab of a Google spreadsheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient, err := authenticatedClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return newWriter(ctx, config, logger, option.WithHTTPClient(httpClient))
}

func newWriter(ctx context.Context, config Config, logger *slog.Logger, opts ...option.ClientOption) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
	}, nil
}

// Write replaces the contents of the pricing tab with the given rows. The
// spreadsheet and tab are created when missing.
func (w *Writer) Write(ctx context.Context, rows []model.PricedRow, targets []decimal.Decimal) error {
	if len(rows) == 0 {
		return common.ErrNoWines
	}

	w.logger.Info("starting sheets export", "wines", len(rows), "targets", len(targets))

	retryOpts := common.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	var spreadsheet *sheets.Spreadsheet
	err := common.WithRetry(ctx, func() error {
		var getErr error
		spreadsheet, getErr = w.getOrCreateSpreadsheet(ctx)
		return classifyError(getErr)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	var sheetID int64
	err = common.WithRetry(ctx, func() error {
		var ensureErr error
		sheetID, ensureErr = w.ensureSheet(ctx, spreadsheet)
		return classifyError(ensureErr)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to prepare %q tab: %w", w.config.SheetTitle, err)
	}

	err = common.WithRetry(ctx, func() error {
		return classifyError(w.clearSheet(ctx, spreadsheet.SpreadsheetId))
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	values := buildValues(rows, targets)
	err = common.WithRetry(ctx, func() error {
		return classifyError(w.writeData(ctx, spreadsheet.SpreadsheetId, values))
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return classifyError(w.applyFormatting(ctx, spreadsheet.SpreadsheetId, sheetID, len(values), targets))
		}, retryOpts)
		if err != nil {
			// Formatting is cosmetic; the data is already written.
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("sheets export completed",
		"spreadsheet_id", spreadsheet.SpreadsheetId,
		"url", spreadsheet.SpreadsheetUrl,
		"rows_written", len(values))

	return nil
}

func authenticatedClient(ctx context.Context, config Config) (*http.Client, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}
		tokenSource = oauthConfig(config.ClientID, config.ClientSecret, "").TokenSource(ctx, token)
	}

	return oauth2.NewClient(ctx, tokenSource), nil
}

// classifyError marks rate limits and server-side failures as retryable.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case apiErr.Code >= http.StatusInternalServerError:
		return &common.RetryableError{Err: fmt.Errorf("%w: %w", common.ErrSheetsUnavailable, err), Retryable: true}
	default:
		return err
	}
}

func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (*sheets.Spreadsheet, error) {
	if w.config.SpreadsheetID != "" {
		spreadsheet, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return spreadsheet, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{
				Properties: &sheets.SheetProperties{
					Title: w.config.SheetTitle,
				},
			},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	// Later exports in this process reuse it.
	w.config.SpreadsheetID = created.SpreadsheetId

	return created, nil
}

// ensureSheet returns the ID of the pricing tab, adding it if necessary.
func (w *Writer) ensureSheet(ctx context.Context, spreadsheet *sheets.Spreadsheet) (int64, error) {
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == w.config.SheetTitle {
			return sheet.Properties.SheetId, nil
		}
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(spreadsheet.SpreadsheetId, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: w.config.SheetTitle}}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return 0, err
	}

	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil {
		return 0, fmt.Errorf("add sheet returned no properties")
	}

	w.logger.Debug("added sheet", "title", w.config.SheetTitle)
	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, w.sheetRange("A:ZZ"), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (w *Writer) sheetRange(cells string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(w.config.SheetTitle, "'", "''"), cells)
}

// buildValues lays out the header and one line per wine, in the same column
// order as the CSV export.
func buildValues(rows []model.PricedRow, targets []decimal.Decimal) [][]any {
	values := make([][]any, 0, len(rows)+1)
	values = append(values, toCells(wines.Header(targets)))
	for _, row := range rows {
		values = append(values, toCells(wines.Record(row)))
	}
	return values
}

func toCells(record []string) []any {
	cells := make([]any, len(record))
	for i, s := range record {
		cells[i] = s
	}
	return cells
}

func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))

		batch := values[i:end]
		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, w.sheetRange(fmt.Sprintf("A%d", i+1)), &sheets.ValueRange{
			Values: batch,
		}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "start_row", i+1, "rows", len(batch))
	}

	return nil
}

// currencyColumns returns the zero-based [start, end) column spans holding
// prices.
func currencyColumns(targets []decimal.Decimal) [][2]int64 {
	spans := [][2]int64{
		{2, 3},  // RetailPrice
		{5, 12}, // bottle, glass and premium candidates
	}
	base := int64(len(wines.Header(nil)))
	for i := range targets {
		col := base + int64(i)*5 + 1 // GlassNeeded
		spans = append(spans, [2]int64{col, col + 1})
	}
	return spans
}

func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, sheetID int64, totalRows int, targets []decimal.Decimal) error {
	columnCount := int64(len(wines.Header(targets)))

	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   columnCount,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
	}

	for _, span := range currencyColumns(targets) {
		requests = append(requests, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    1,
					EndRowIndex:      int64(totalRows),
					StartColumnIndex: span[0],
					EndColumnIndex:   span[1],
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						NumberFormat: &sheets.NumberFormat{
							Type:    "CURRENCY",
							Pattern: "$#,##0.00",
						},
					},
				},
				Fields: "userEnteredFormat.numberFormat",
			},
		})
	}

	requests = append(requests,
		&sheets.Request{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: sheetID,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount: 1,
					},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
		&sheets.Request{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   columnCount,
				},
			},
		},
	)

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}
