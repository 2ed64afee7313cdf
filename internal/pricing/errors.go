// Package pricing computes bottle and by-the-glass menu prices for a wine list
// and reports whether the glass program recovers its target revenue.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/pour-decisions/internal/common"
)

// Pricing errors.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrDivision     = errors.New("division by zero glass price")
)

// InvalidInputError reports a malformed wine row or an out-of-domain value.
// Row is the zero-based position in the batch, or -1 when not row-scoped.
type InvalidInputError struct {
	Name   string
	Field  string
	Reason string
	Row    int
}

func (e *InvalidInputError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	if e.Name == "" {
		return fmt.Sprintf("row %d: invalid %s: %s", e.Row+1, e.Field, e.Reason)
	}
	return fmt.Sprintf("row %d (%s): invalid %s: %s", e.Row+1, e.Name, e.Field, e.Reason)
}

// Is matches ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// InvalidConfigError reports a configuration value that makes a batch
// impossible to price.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid pricing config %s: %s", e.Field, e.Reason)
}

// Is matches common.ErrInvalidConfig.
func (e *InvalidConfigError) Is(target error) bool {
	return target == common.ErrInvalidConfig
}

// DivisionError is returned when a break-even count would divide by a zero
// glass price.
type DivisionError struct {
	Name   string
	Target decimal.Decimal
}

func (e *DivisionError) Error() string {
	return fmt.Sprintf("%s: cannot compute glasses to break even at %sx: glass price is zero", e.Name, e.Target.String())
}

// Is matches ErrDivision.
func (e *DivisionError) Is(target error) bool {
	return target == ErrDivision
}

// RowFailure records a row that could not be priced.
type RowFailure struct {
	Err   error
	Name  string
	Index int
}

func (f RowFailure) Error() string {
	return f.Err.Error()
}

func (f RowFailure) Unwrap() error {
	return f.Err
}
