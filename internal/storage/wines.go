package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/pour-decisions/internal/common"
	"github.com/Veraticus/pour-decisions/internal/model"
)

// SaveWine inserts a wine or updates the existing one with the same name
// (case-insensitive). An update keeps the wine's place in the list.
func (s *SQLiteStorage) SaveWine(ctx context.Context, wine model.WineRow) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateWine(wine); err != nil {
		return err
	}
	return s.saveWineTx(ctx, s.db, wine)
}

func (s *SQLiteStorage) saveWineTx(ctx context.Context, q queryable, wine model.WineRow) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO wines (name, color, retail_price, force_premium)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			name = excluded.name,
			color = excluded.color,
			retail_price = excluded.retail_price,
			force_premium = excluded.force_premium
	`, strings.TrimSpace(wine.Name), wine.Color.String(), wine.RetailPrice.String(), wine.ForcePremium)
	if err != nil {
		return fmt.Errorf("failed to save wine %q: %w", wine.Name, err)
	}
	return nil
}

// GetWine retrieves a wine by name. It returns common.ErrNotFound when no
// wine matches.
func (s *SQLiteStorage) GetWine(ctx context.Context, name string) (model.WineRow, error) {
	if err := validateContext(ctx); err != nil {
		return model.WineRow{}, err
	}
	if err := validateString(name, "name"); err != nil {
		return model.WineRow{}, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT name, color, retail_price, force_premium
		FROM wines
		WHERE name = ?
	`, strings.TrimSpace(name))

	wine, err := scanWine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.WineRow{}, fmt.Errorf("wine %q: %w", name, common.ErrNotFound)
	}
	if err != nil {
		return model.WineRow{}, fmt.Errorf("failed to get wine: %w", err)
	}
	return wine, nil
}

// ListWines returns every stored wine in the order it was first added.
func (s *SQLiteStorage) ListWines(ctx context.Context) ([]model.WineRow, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, color, retail_price, force_premium
		FROM wines
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query wines: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var wines []model.WineRow
	for rows.Next() {
		wine, scanErr := scanWine(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan wine: %w", scanErr)
		}
		wines = append(wines, wine)
	}

	return wines, rows.Err()
}

// DeleteWine removes a wine by name. It returns common.ErrNotFound when no
// wine matches.
func (s *SQLiteStorage) DeleteWine(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM wines WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("failed to delete wine: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("wine %q: %w", name, common.ErrNotFound)
	}
	return nil
}

// ReplaceWines swaps the whole list in one transaction. Either every wine
// is stored or the previous list is left untouched. Later duplicates of a
// name overwrite earlier ones.
func (s *SQLiteStorage) ReplaceWines(ctx context.Context, wines []model.WineRow) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateWines(wines); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM wines`); err != nil {
		return fmt.Errorf("failed to clear wines: %w", err)
	}
	// Restart ids so list order follows the import.
	if _, err := tx.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = 'wines'`); err != nil {
		return fmt.Errorf("failed to reset wine ids: %w", err)
	}

	for _, wine := range wines {
		if err := s.saveWineTx(ctx, tx, wine); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit wines: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWine(row scanner) (model.WineRow, error) {
	var (
		wine  model.WineRow
		color string
		price string
	)
	if err := row.Scan(&wine.Name, &color, &price, &wine.ForcePremium); err != nil {
		return model.WineRow{}, err
	}

	retail, err := decimal.NewFromString(price)
	if err != nil {
		return model.WineRow{}, fmt.Errorf("wine %q has corrupt retail price %q: %w", wine.Name, price, err)
	}
	wine.RetailPrice = retail
	wine.Color = model.ParseColor(color)
	return wine, nil
}
