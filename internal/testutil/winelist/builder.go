// Package winelist builds wine lists for tests.
//
// Example usage:
//
//	wines := winelist.New().
//		WithSample().
//		WithWine("Vintage Port", model.ColorOther, "48").
//		Build()
package winelist

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/pour-decisions/internal/model"
	"github.com/Veraticus/pour-decisions/internal/wines"
)

// Builder accumulates wines in insertion order.
type Builder struct {
	wines []model.WineRow
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{}
}

// WithSample adds the four-wine sample list.
func (b *Builder) WithSample() *Builder {
	b.wines = append(b.wines, wines.SampleWines()...)
	return b
}

// WithWine adds one wine. retail must be a valid decimal.
func (b *Builder) WithWine(name string, color model.Color, retail string) *Builder {
	b.wines = append(b.wines, model.WineRow{
		Name:        name,
		Color:       color,
		RetailPrice: decimal.RequireFromString(retail),
	})
	return b
}

// WithPremiumWine adds a wine that is always priced as premium.
func (b *Builder) WithPremiumWine(name string, color model.Color, retail string) *Builder {
	b.WithWine(name, color, retail)
	b.wines[len(b.wines)-1].ForcePremium = true
	return b
}

// WithTierSpread adds one wine per tier under the default rules.
func (b *Builder) WithTierSpread() *Builder {
	return b.
		WithWine("House White", model.ColorWhite, "18").
		WithWine("Côtes du Rhône", model.ColorRed, "60").
		WithWine("Meursault", model.ColorWhite, "95").
		WithWine("Brunello", model.ColorRed, "150")
}

// Build returns a copy of the accumulated wines.
func (b *Builder) Build() []model.WineRow {
	return append([]model.WineRow(nil), b.wines...)
}
