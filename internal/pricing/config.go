package pricing

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
)

// UpperMidMethod selects how upper-mid bottles are marked up.
type UpperMidMethod string

const (
	// UpperMidMult multiplies retail by UpperMidMultiple plus the red bump.
	UpperMidMult UpperMidMethod = "MULT"
	// UpperMidAddOn adds a flat UpperMidAddOn to retail.
	UpperMidAddOn UpperMidMethod = "ADDON"
)

// PremiumChoice selects which premium candidate becomes the bottle price.
type PremiumChoice string

const (
	// PremiumAddOn picks retail plus PremiumAddOn.
	PremiumAddOn PremiumChoice = "ADDON"
	// PremiumMult picks retail times PremiumMult.
	PremiumMult PremiumChoice = "MULT"
	// PremiumHigher picks the larger of the two candidates.
	PremiumHigher PremiumChoice = "HIGHER"
)

// Scheme selects how retail prices between MidMax and PremiumMin are banded.
type Scheme string

const (
	// SchemeUpperMid treats MidMax < retail <= PremiumMin as its own tier.
	SchemeUpperMid Scheme = "upper-mid"
	// SchemeCombinedMid prices that range with the mid multiple.
	SchemeCombinedMid Scheme = "combined-mid"
)

// ParseUpperMidMethod parses a method name, ignoring case.
func ParseUpperMidMethod(s string) (UpperMidMethod, error) {
	switch m := UpperMidMethod(strings.ToUpper(strings.TrimSpace(s))); m {
	case UpperMidMult, UpperMidAddOn:
		return m, nil
	default:
		return "", &InvalidConfigError{Field: "upper_mid_method", Reason: fmt.Sprintf("unknown method %q (want MULT or ADDON)", s)}
	}
}

// ParsePremiumChoice parses a premium choice, ignoring case.
func ParsePremiumChoice(s string) (PremiumChoice, error) {
	switch c := PremiumChoice(strings.ToUpper(strings.TrimSpace(s))); c {
	case PremiumAddOn, PremiumMult, PremiumHigher:
		return c, nil
	default:
		return "", &InvalidConfigError{Field: "premium_choice", Reason: fmt.Sprintf("unknown choice %q (want ADDON, MULT or HIGHER)", s)}
	}
}

// ParseScheme parses a tier scheme name, ignoring case.
func ParseScheme(s string) (Scheme, error) {
	switch sc := Scheme(strings.ToLower(strings.TrimSpace(s))); sc {
	case SchemeUpperMid, SchemeCombinedMid:
		return sc, nil
	default:
		return "", &InvalidConfigError{Field: "scheme", Reason: fmt.Sprintf("unknown scheme %q (want upper-mid or combined-mid)", s)}
	}
}

// Config is a snapshot of every pricing rule. It is built once per run and
// passed by value; nothing in this package mutates it.
type Config struct {
	EntryMax   decimal.Decimal
	MidMin     decimal.Decimal
	MidMax     decimal.Decimal
	PremiumMin decimal.Decimal

	EntryMultiple    decimal.Decimal
	MidMultiple      decimal.Decimal
	UpperMidMultiple decimal.Decimal
	UpperMidAddOn    decimal.Decimal
	PremiumAddOn     decimal.Decimal
	PremiumMult      decimal.Decimal
	RedBump          decimal.Decimal

	GlassCap          decimal.Decimal
	FloorRedSparkling decimal.Decimal
	FloorWhiteRose    decimal.Decimal

	UpperMidMethod UpperMidMethod
	PremiumChoice  PremiumChoice
	Scheme         Scheme

	Targets       []decimal.Decimal
	GlassServings int
}

// DefaultConfig returns the house rules.
func DefaultConfig() Config {
	return Config{
		EntryMax:          decimal.NewFromInt(50),
		MidMin:            decimal.NewFromInt(50),
		MidMax:            decimal.NewFromInt(80),
		PremiumMin:        decimal.NewFromInt(120),
		EntryMultiple:     decimal.RequireFromString("2.40"),
		MidMultiple:       decimal.RequireFromString("2.10"),
		UpperMidMultiple:  decimal.RequireFromString("1.80"),
		UpperMidAddOn:     decimal.NewFromInt(50),
		PremiumAddOn:      decimal.NewFromInt(100),
		PremiumMult:       decimal.RequireFromString("1.50"),
		RedBump:           decimal.RequireFromString("0.10"),
		GlassServings:     5,
		GlassCap:          decimal.NewFromInt(21),
		FloorRedSparkling: decimal.NewFromInt(16),
		FloorWhiteRose:    decimal.NewFromInt(15),
		UpperMidMethod:    UpperMidMult,
		PremiumChoice:     PremiumHigher,
		Scheme:            SchemeUpperMid,
		Targets: []decimal.Decimal{
			decimal.RequireFromString("1.20"),
			decimal.RequireFromString("1.25"),
		},
	}
}

// Validate rejects configurations that cannot produce a priced table. Tier
// boundaries that are out of order are logged but allowed.
func (c Config) Validate() error {
	if c.GlassServings <= 0 {
		return &InvalidConfigError{Field: "glass_servings", Reason: fmt.Sprintf("must be positive, got %d", c.GlassServings)}
	}

	bounds := []struct {
		value decimal.Decimal
		field string
	}{
		{c.GlassCap, "glass_cap"},
		{c.FloorRedSparkling, "floor_red_sparkling"},
		{c.FloorWhiteRose, "floor_white_rose"},
	}
	for _, b := range bounds {
		if b.value.IsNegative() {
			return &InvalidConfigError{Field: b.field, Reason: fmt.Sprintf("cannot be negative, got %s", b.value)}
		}
	}

	if _, err := ParseUpperMidMethod(string(c.UpperMidMethod)); err != nil {
		return err
	}
	if _, err := ParsePremiumChoice(string(c.PremiumChoice)); err != nil {
		return err
	}
	if _, err := ParseScheme(string(c.Scheme)); err != nil {
		return err
	}

	for i, t := range c.Targets {
		if !t.IsPositive() {
			return &InvalidConfigError{Field: "targets", Reason: fmt.Sprintf("target %d must be positive, got %s", i+1, t)}
		}
	}

	if c.EntryMax.GreaterThan(c.MidMin) || c.MidMin.GreaterThan(c.MidMax) || c.MidMax.GreaterThan(c.PremiumMin) {
		slog.Warn("Tier boundaries are out of order",
			"entry_max", c.EntryMax.String(),
			"mid_min", c.MidMin.String(),
			"mid_max", c.MidMax.String(),
			"premium_min", c.PremiumMin.String())
	}

	return nil
}
