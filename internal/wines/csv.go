// Package wines converts wine lists between delimited text and typed rows.
package wines

import (
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/pour-decisions/internal/model"
	"github.com/Veraticus/pour-decisions/internal/pricing"
)

// Input column names.
const (
	ColumnName         = "Name"
	ColumnColor        = "Color"
	ColumnRetailPrice  = "RetailPrice"
	ColumnForcePremium = "ForcePremium"
)

// ErrMissingColumn is returned when a required header is absent.
var ErrMissingColumn = errors.New("missing required column")

// ParseResult holds the rows that parsed cleanly and the ones that didn't.
// Index in each failure is the zero-based data row, not counting the header.
// Sources[i] is the data row Rows[i] came from.
type ParseResult struct {
	Rows     []model.WineRow
	Failures []pricing.RowFailure
	Sources  []int
	Skipped  int
}

// SourceFailures merges failures from pricing r.Rows with the parse failures,
// renumbering them to data rows of the input. The result is in input order.
// Without Sources, failure indexes are kept as they are.
func (r ParseResult) SourceFailures(priced []pricing.RowFailure) []pricing.RowFailure {
	merged := slices.Clone(r.Failures)
	for _, f := range priced {
		if f.Index >= 0 && f.Index < len(r.Sources) {
			source := r.Sources[f.Index]
			var inputErr *pricing.InvalidInputError
			if errors.As(f.Err, &inputErr) && inputErr.Row == f.Index {
				scoped := *inputErr
				scoped.Row = source
				f.Err = &scoped
			}
			f.Index = source
		}
		merged = append(merged, f)
	}

	slices.SortStableFunc(merged, func(a, b pricing.RowFailure) int {
		return cmp.Compare(a.Index, b.Index)
	})
	return merged
}

// ParseCSV reads a wine list with a header row. Name and RetailPrice are
// required columns; Color and ForcePremium are optional. Rows with a blank
// name are skipped. A malformed row, including one with broken quoting, is
// reported in Failures and parsing continues; only a read failure or a
// missing header aborts.
func ParseCSV(r io.Reader) (ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ParseResult{}, fmt.Errorf("%w: file is empty", ErrMissingColumn)
		}
		return ParseResult{}, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, required := range []string{ColumnName, ColumnRetailPrice} {
		if _, ok := columns[strings.ToLower(required)]; !ok {
			return ParseResult{}, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	field := func(record []string, column string) (string, bool) {
		i, ok := columns[strings.ToLower(column)]
		if !ok || i >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[i]), true
	}

	var result ParseResult
	for index := 0; ; index++ {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(readErr, &parseErr) {
			result.Failures = append(result.Failures, pricing.RowFailure{
				Index: index,
				Err:   &pricing.InvalidInputError{Row: index, Field: "csv", Reason: parseErr.Err.Error()},
			})
			continue
		}
		if readErr != nil {
			return result, fmt.Errorf("failed to read row %d: %w", index+1, readErr)
		}

		name, _ := field(record, ColumnName)
		if name == "" {
			result.Skipped++
			slog.Debug("Skipping wine with blank name", "row", index+1)
			continue
		}

		color, _ := field(record, ColumnColor)
		retail, _ := field(record, ColumnRetailPrice)
		force, _ := field(record, ColumnForcePremium)

		row, rowErr := ParseRow(index, name, color, retail, force)
		if rowErr != nil {
			result.Failures = append(result.Failures, pricing.RowFailure{Index: index, Name: name, Err: rowErr})
			continue
		}
		result.Rows = append(result.Rows, row)
		result.Sources = append(result.Sources, index)
	}

	return result, nil
}

// ParseRow validates raw cell values into a WineRow. Unknown colors resolve
// to Other rather than failing.
func ParseRow(index int, name, color, retail, forcePremium string) (model.WineRow, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.WineRow{}, &pricing.InvalidInputError{Row: index, Field: ColumnName, Reason: "is required"}
	}

	price, err := ParsePrice(retail)
	if err != nil {
		return model.WineRow{}, &pricing.InvalidInputError{Row: index, Name: name, Field: ColumnRetailPrice, Reason: err.Error()}
	}

	force, err := ParseBool(forcePremium)
	if err != nil {
		return model.WineRow{}, &pricing.InvalidInputError{Row: index, Name: name, Field: ColumnForcePremium, Reason: err.Error()}
	}

	return model.WineRow{
		Name:         name,
		Color:        model.ParseColor(color),
		RetailPrice:  price,
		ForcePremium: force,
	}, nil
}

// ParsePrice parses a non-negative price. A leading "$" and thousands
// separators are accepted.
func ParsePrice(s string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(s), "$"), ",", "")
	if cleaned == "" {
		return decimal.Zero, errors.New("is missing")
	}

	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", s)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("cannot be negative, got %s", price)
	}
	return price, nil
}

// ParseBool parses a spreadsheet-style flag. Blank means false.
func ParseBool(s string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRUE", "1", "YES", "Y", "T":
		return true, nil
	case "FALSE", "0", "NO", "N", "F", "":
		return false, nil
	default:
		return false, fmt.Errorf("%q is not a yes/no value", s)
	}
}

// WriteCSV writes priced rows with a header row.
func WriteCSV(w io.Writer, rows []model.PricedRow, targets []decimal.Decimal) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header(targets)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(Record(row)); err != nil {
			return fmt.Errorf("failed to write %s: %w", row.Name, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteInputCSV writes wine rows in the input layout so a stored list can
// be exported and re-imported.
func WriteInputCSV(w io.Writer, rows []model.WineRow) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{ColumnName, ColumnColor, ColumnRetailPrice, ColumnForcePremium}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write([]string{row.Name, row.Color.String(), row.RetailPrice.String(), formatBool(row.ForcePremium)}); err != nil {
			return fmt.Errorf("failed to write %s: %w", row.Name, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
