// Package storage persists the wine list in SQLite.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/pour-decisions/internal/model"
)

// Validation errors.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
	ErrInvalidWine = errors.New("invalid wine")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateWine(wine model.WineRow) error {
	if strings.TrimSpace(wine.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidWine)
	}
	if wine.RetailPrice.IsNegative() {
		return fmt.Errorf("%w: %s has negative retail price %s", ErrInvalidWine, wine.Name, wine.RetailPrice)
	}
	return nil
}

func validateWines(wines []model.WineRow) error {
	for i, wine := range wines {
		if err := validateWine(wine); err != nil {
			return fmt.Errorf("wine at index %d: %w", i, err)
		}
	}
	return nil
}
