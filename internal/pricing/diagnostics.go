package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/pour-decisions/internal/model"
)

// Diagnose evaluates every configured target for a priced bottle and its
// final glass price. Results follow the order of cfg.Targets.
func Diagnose(name string, color model.Color, bottleRounded int64, glassFinal decimal.Decimal, cfg Config) ([]model.TargetDiagnostic, error) {
	out := make([]model.TargetDiagnostic, 0, len(cfg.Targets))
	for _, target := range cfg.Targets {
		d, err := diagnoseTarget(name, color, bottleRounded, glassFinal, target, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func diagnoseTarget(name string, color model.Color, bottleRounded int64, glassFinal, target decimal.Decimal, cfg Config) (model.TargetDiagnostic, error) {
	if cfg.GlassServings <= 0 {
		return model.TargetDiagnostic{}, &InvalidConfigError{Field: "glass_servings", Reason: "must be positive"}
	}

	servings := decimal.NewFromInt(int64(cfg.GlassServings))
	revenueTarget := target.Mul(decimal.NewFromInt(bottleRounded))

	needed, err := CeilToMenuFriendly(revenueTarget.Div(servings))
	if err != nil {
		return model.TargetDiagnostic{}, err
	}
	glassNeeded := decimal.Max(decimal.NewFromInt(needed), ColorFloor(color, cfg))

	if !glassFinal.IsPositive() {
		return model.TargetDiagnostic{}, &DivisionError{Name: name, Target: target}
	}
	breakEven := revenueTarget.Div(glassFinal).Ceil().IntPart()

	return model.TargetDiagnostic{
		Target:             target,
		GlassNeeded:        glassNeeded,
		CapBlocks:          glassNeeded.GreaterThan(cfg.GlassCap),
		RevenueOK:          glassFinal.GreaterThanOrEqual(glassNeeded),
		GlassesToBreakEven: breakEven,
		WorthIt:            breakEven <= int64(cfg.GlassServings),
	}, nil
}
