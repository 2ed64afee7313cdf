// Package model holds the wine list types shared across the application.
package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Color is the wine category used for red bumps and glass floors.
type Color string

const (
	// ColorRed is a red wine.
	ColorRed Color = "Red"
	// ColorWhite is a white wine.
	ColorWhite Color = "White"
	// ColorSparkling is a sparkling wine.
	ColorSparkling Color = "Sparkling"
	// ColorRose is a rosé wine.
	ColorRose Color = "Rosé"
	// ColorOther is anything that doesn't resolve to a known color.
	ColorOther Color = "Other"
)

// Colors lists the known colors in display order.
var Colors = []Color{ColorRed, ColorWhite, ColorSparkling, ColorRose, ColorOther}

// ParseColor resolves a free-form color label. Matching ignores case and
// surrounding whitespace; unrecognized labels resolve to ColorOther.
func ParseColor(s string) Color {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red":
		return ColorRed
	case "white":
		return ColorWhite
	case "sparkling":
		return ColorSparkling
	case "rosé", "rose":
		return ColorRose
	default:
		return ColorOther
	}
}

// Next returns the color after c in Colors, wrapping around.
func (c Color) Next() Color {
	for i, color := range Colors {
		if color == c {
			return Colors[(i+1)%len(Colors)]
		}
	}
	return Colors[0]
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return string(c)
}

// WineRow is one wine on the list as supplied by the caller.
type WineRow struct {
	RetailPrice  decimal.Decimal
	Name         string
	Color        Color
	ForcePremium bool
}
