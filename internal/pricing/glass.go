package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/pour-decisions/internal/model"
)

// GlassPrice holds the three stages of a by-the-glass price.
type GlassPrice struct {
	Raw     decimal.Decimal
	Final   decimal.Decimal
	Rounded int64
}

// ColorFloor returns the minimum glass price for a color. Reds and sparkling
// wines share one floor; everything else uses the white/rosé floor.
func ColorFloor(color model.Color, cfg Config) decimal.Decimal {
	switch color {
	case model.ColorRed, model.ColorSparkling:
		return cfg.FloorRedSparkling
	default:
		return cfg.FloorWhiteRose
	}
}

// DeriveGlassPrice splits a rounded bottle price into pours, rounds the pour
// price to the menu, then applies the cap followed by the color floor. When
// the floor exceeds the cap the floor wins.
func DeriveGlassPrice(bottleRounded int64, color model.Color, cfg Config) (GlassPrice, error) {
	if cfg.GlassServings <= 0 {
		return GlassPrice{}, &InvalidConfigError{Field: "glass_servings", Reason: "must be positive"}
	}

	raw := decimal.NewFromInt(bottleRounded).Div(decimal.NewFromInt(int64(cfg.GlassServings)))
	rounded, err := RoundToMenuFriendly(raw)
	if err != nil {
		return GlassPrice{}, err
	}

	final := decimal.Min(decimal.NewFromInt(rounded), cfg.GlassCap)
	final = decimal.Max(final, ColorFloor(color, cfg))

	return GlassPrice{
		Raw:     raw,
		Rounded: rounded,
		Final:   final,
	}, nil
}
