// Package config reads application settings from viper into typed values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/Veraticus/pour-decisions/internal/pricing"
)

// Pricing keys under the "pricing" section of the config file.
const (
	KeyEntryMax          = "pricing.entry_max"
	KeyMidMin            = "pricing.mid_min"
	KeyMidMax            = "pricing.mid_max"
	KeyPremiumMin        = "pricing.premium_min"
	KeyEntryMultiple     = "pricing.entry_multiple"
	KeyMidMultiple       = "pricing.mid_multiple"
	KeyUpperMidMultiple  = "pricing.upper_mid_multiple"
	KeyUpperMidAddOn     = "pricing.upper_mid_addon"
	KeyUpperMidMethod    = "pricing.upper_mid_method"
	KeyPremiumAddOn      = "pricing.premium_addon"
	KeyPremiumMult       = "pricing.premium_mult"
	KeyPremiumChoice     = "pricing.premium_choice"
	KeyRedBump           = "pricing.red_bump"
	KeyGlassServings     = "pricing.glass_servings"
	KeyGlassCap          = "pricing.glass_cap"
	KeyFloorRedSparkling = "pricing.floor_red_sparkling"
	KeyFloorWhiteRose    = "pricing.floor_white_rose"
	KeyTargets           = "pricing.targets"
	KeyScheme            = "pricing.scheme"

	KeyDatabasePath = "database.path"
)

// DefaultDatabasePath is where the wine list lives when database.path is unset.
const DefaultDatabasePath = "$HOME/.local/share/pour/pour.db"

// SetPricingDefaults registers the house rules as viper defaults so they
// show up in config dumps and can be overridden key by key.
func SetPricingDefaults(v *viper.Viper) {
	d := pricing.DefaultConfig()

	v.SetDefault(KeyEntryMax, d.EntryMax.String())
	v.SetDefault(KeyMidMin, d.MidMin.String())
	v.SetDefault(KeyMidMax, d.MidMax.String())
	v.SetDefault(KeyPremiumMin, d.PremiumMin.String())
	v.SetDefault(KeyEntryMultiple, d.EntryMultiple.String())
	v.SetDefault(KeyMidMultiple, d.MidMultiple.String())
	v.SetDefault(KeyUpperMidMultiple, d.UpperMidMultiple.String())
	v.SetDefault(KeyUpperMidAddOn, d.UpperMidAddOn.String())
	v.SetDefault(KeyUpperMidMethod, string(d.UpperMidMethod))
	v.SetDefault(KeyPremiumAddOn, d.PremiumAddOn.String())
	v.SetDefault(KeyPremiumMult, d.PremiumMult.String())
	v.SetDefault(KeyPremiumChoice, string(d.PremiumChoice))
	v.SetDefault(KeyRedBump, d.RedBump.String())
	v.SetDefault(KeyGlassServings, d.GlassServings)
	v.SetDefault(KeyGlassCap, d.GlassCap.String())
	v.SetDefault(KeyFloorRedSparkling, d.FloorRedSparkling.String())
	v.SetDefault(KeyFloorWhiteRose, d.FloorWhiteRose.String())
	v.SetDefault(KeyScheme, string(d.Scheme))

	targets := make([]string, 0, len(d.Targets))
	for _, t := range d.Targets {
		targets = append(targets, t.String())
	}
	v.SetDefault(KeyTargets, targets)
}

// LoadPricingConfig builds a pricing.Config from viper. Values may come from
// YAML numbers, strings, or POUR_* environment variables.
func LoadPricingConfig(v *viper.Viper) (pricing.Config, error) {
	var cfg pricing.Config
	var err error

	decimals := []struct {
		dst *decimal.Decimal
		key string
	}{
		{&cfg.EntryMax, KeyEntryMax},
		{&cfg.MidMin, KeyMidMin},
		{&cfg.MidMax, KeyMidMax},
		{&cfg.PremiumMin, KeyPremiumMin},
		{&cfg.EntryMultiple, KeyEntryMultiple},
		{&cfg.MidMultiple, KeyMidMultiple},
		{&cfg.UpperMidMultiple, KeyUpperMidMultiple},
		{&cfg.UpperMidAddOn, KeyUpperMidAddOn},
		{&cfg.PremiumAddOn, KeyPremiumAddOn},
		{&cfg.PremiumMult, KeyPremiumMult},
		{&cfg.RedBump, KeyRedBump},
		{&cfg.GlassCap, KeyGlassCap},
		{&cfg.FloorRedSparkling, KeyFloorRedSparkling},
		{&cfg.FloorWhiteRose, KeyFloorWhiteRose},
	}
	for _, d := range decimals {
		if *d.dst, err = decimalValue(v.Get(d.key)); err != nil {
			return pricing.Config{}, configErr(d.key, err)
		}
	}

	if cfg.GlassServings, err = cast.ToIntE(v.Get(KeyGlassServings)); err != nil {
		return pricing.Config{}, configErr(KeyGlassServings, err)
	}
	if cfg.UpperMidMethod, err = pricing.ParseUpperMidMethod(v.GetString(KeyUpperMidMethod)); err != nil {
		return pricing.Config{}, err
	}
	if cfg.PremiumChoice, err = pricing.ParsePremiumChoice(v.GetString(KeyPremiumChoice)); err != nil {
		return pricing.Config{}, err
	}
	if cfg.Scheme, err = pricing.ParseScheme(v.GetString(KeyScheme)); err != nil {
		return pricing.Config{}, err
	}
	if cfg.Targets, err = targetValues(v.Get(KeyTargets)); err != nil {
		return pricing.Config{}, configErr(KeyTargets, err)
	}

	return cfg, nil
}

// DatabasePath returns the expanded wine list database path.
func DatabasePath(v *viper.Viper) string {
	path := v.GetString(KeyDatabasePath)
	if path == "" {
		path = DefaultDatabasePath
	}
	return ExpandPath(path)
}

// ExpandPath expands a leading ~ and any environment variables in path.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return os.ExpandEnv(path)
}

func decimalValue(raw any) (decimal.Decimal, error) {
	s, err := cast.ToStringE(raw)
	if err != nil {
		return decimal.Zero, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("value is empty")
	}
	return decimal.NewFromString(s)
}

// targetValues accepts a YAML list or a comma-separated string, which is
// what POUR_PRICING_TARGETS=1.2,1.25 yields.
func targetValues(raw any) ([]decimal.Decimal, error) {
	var items []string
	if s, ok := raw.(string); ok {
		items = strings.Split(s, ",")
	} else {
		var err error
		if items, err = cast.ToStringSliceE(raw); err != nil {
			return nil, err
		}
	}

	targets := make([]decimal.Decimal, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		d, err := decimalValue(item)
		if err != nil {
			return nil, err
		}
		targets = append(targets, d)
	}
	return targets, nil
}

func configErr(key string, err error) error {
	return &pricing.InvalidConfigError{Field: strings.TrimPrefix(key, "pricing."), Reason: err.Error()}
}
