package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/pour-decisions/internal/model"
)

// BottlePrice is the calculator output for one row. The premium candidates
// are set only when Tier is model.TierPremium.
type BottlePrice struct {
	PremiumAddOn *decimal.Decimal
	PremiumMult  *decimal.Decimal
	Raw          decimal.Decimal
	Tier         model.Tier
}

// Classify returns the tier for a row. Rules are checked in order and the
// first match wins: premium, entry, mid, upper-mid.
func Classify(row model.WineRow, cfg Config) model.Tier {
	retail := row.RetailPrice
	switch {
	case row.ForcePremium || retail.GreaterThan(cfg.PremiumMin):
		return model.TierPremium
	case retail.LessThan(cfg.EntryMax):
		return model.TierEntry
	case retail.LessThanOrEqual(cfg.MidMax):
		return model.TierMid
	case cfg.Scheme == SchemeCombinedMid:
		return model.TierMid
	default:
		return model.TierUpperMid
	}
}

// RedBump returns the multiple adjustment for a color.
func RedBump(color model.Color, cfg Config) decimal.Decimal {
	if color == model.ColorRed {
		return cfg.RedBump
	}
	return decimal.Zero
}

// ComputeBottlePrice classifies a row and computes its unrounded bottle price.
func ComputeBottlePrice(row model.WineRow, cfg Config) (BottlePrice, error) {
	retail := row.RetailPrice
	if retail.IsNegative() {
		return BottlePrice{}, &InvalidInputError{Row: -1, Name: row.Name, Field: "RetailPrice", Reason: fmt.Sprintf("cannot be negative, got %s", retail)}
	}

	bump := RedBump(row.Color, cfg)
	tier := Classify(row, cfg)
	out := BottlePrice{Tier: tier}

	switch tier {
	case model.TierPremium:
		addOn := round2(retail.Add(cfg.PremiumAddOn))
		mult := round2(retail.Mul(cfg.PremiumMult))
		out.PremiumAddOn = &addOn
		out.PremiumMult = &mult

		switch cfg.PremiumChoice {
		case PremiumAddOn:
			out.Raw = addOn
		case PremiumMult:
			out.Raw = mult
		default:
			out.Raw = decimal.Max(addOn, mult)
		}
	case model.TierEntry:
		out.Raw = round2(retail.Mul(cfg.EntryMultiple.Add(bump)))
	case model.TierMid:
		out.Raw = round2(retail.Mul(cfg.MidMultiple.Add(bump)))
	case model.TierUpperMid:
		if cfg.UpperMidMethod == UpperMidAddOn {
			out.Raw = round2(retail.Add(cfg.UpperMidAddOn))
		} else {
			out.Raw = round2(retail.Mul(cfg.UpperMidMultiple.Add(bump)))
		}
	}

	return out, nil
}

// round2 rounds half away from zero to cents; prices are non-negative so
// this is half-up.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
