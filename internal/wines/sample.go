package wines

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/pour-decisions/internal/model"
)

// SampleWines returns a small list that exercises the entry, mid and
// premium tiers.
func SampleWines() []model.WineRow {
	return []model.WineRow{
		{Name: "Chianti Classico", Color: model.ColorRed, RetailPrice: decimal.NewFromInt(25)},
		{Name: "Sancerre", Color: model.ColorWhite, RetailPrice: decimal.NewFromInt(38)},
		{Name: "Champagne Brut", Color: model.ColorSparkling, RetailPrice: decimal.NewFromInt(65)},
		{Name: "Barolo", Color: model.ColorRed, RetailPrice: decimal.NewFromInt(140)},
	}
}
