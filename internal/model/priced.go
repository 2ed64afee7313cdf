package model

import "github.com/shopspring/decimal"

// Tier is the pricing band a wine falls into.
type Tier int

const (
	// TierEntry covers retail strictly below EntryMax.
	TierEntry Tier = iota
	// TierMid covers retail up to and including MidMax.
	TierMid
	// TierUpperMid covers retail above MidMax that isn't premium.
	TierUpperMid
	// TierPremium covers retail above PremiumMin or forced premium rows.
	TierPremium
)

// String returns the display name of the tier.
func (t Tier) String() string {
	switch t {
	case TierEntry:
		return "Entry"
	case TierMid:
		return "Mid"
	case TierUpperMid:
		return "Upper-Mid"
	case TierPremium:
		return "Premium"
	default:
		return "Unknown"
	}
}

// TargetDiagnostic reports how by-the-glass pricing fares against one
// target revenue multiple.
type TargetDiagnostic struct {
	Target             decimal.Decimal
	GlassNeeded        decimal.Decimal
	GlassesToBreakEven int64
	CapBlocks          bool
	RevenueOK          bool
	WorthIt            bool
}

// PricedRow is the computed output for one WineRow. It is produced once per
// pricing pass and never updated in place.
type PricedRow struct {
	PremiumAddOnCandidate *decimal.Decimal
	PremiumMultCandidate  *decimal.Decimal
	BottlePriceRaw        decimal.Decimal
	GlassPriceRaw         decimal.Decimal
	GlassPriceFinal       decimal.Decimal
	Diagnostics           []TargetDiagnostic
	WineRow
	BottlePriceRounded int64
	GlassPriceRounded  int64
	Tier               Tier
}

// IsPremium reports whether the row was priced in the premium tier.
func (p PricedRow) IsPremium() bool {
	return p.Tier == TierPremium
}
