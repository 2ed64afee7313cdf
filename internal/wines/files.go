package wines

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"

	"github.com/Veraticus/pour-decisions/internal/model"
)

// ReadFile parses a CSV wine list from fsys.
func ReadFile(fsys afero.Fs, path string) (ParseResult, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return ParseResult{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	result, err := ParseCSV(f)
	if err != nil {
		return ParseResult{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return result, nil
}

// WritePricedFile writes the priced table to path, creating parent
// directories as needed.
func WritePricedFile(fsys afero.Fs, path string, rows []model.PricedRow, targets []decimal.Decimal) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows, targets); err != nil {
		return err
	}
	return writeFile(fsys, path, buf.Bytes())
}

// WriteInputFile writes wine inputs to path in the import layout.
func WriteInputFile(fsys afero.Fs, path string, rows []model.WineRow) error {
	var buf bytes.Buffer
	if err := WriteInputCSV(&buf, rows); err != nil {
		return err
	}
	return writeFile(fsys, path, buf.Bytes())
}

func writeFile(fsys afero.Fs, path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
