package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/pour-decisions/internal/model"
	"github.com/Veraticus/pour-decisions/internal/pricing"
	"github.com/Veraticus/pour-decisions/internal/wines"
)

// RenderPricedTable writes a compact, aligned view of a priced wine list.
// Each target column reads "✓ $19 5gl": whether the glass price covers the
// target, the glass price needed, and glasses to break even.
func RenderPricedTable(out io.Writer, rows []model.PricedRow, targets []decimal.Decimal) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	header := []string{"Wine", "Color", "Retail", "Tier", "Bottle", "Glass"}
	for _, t := range targets {
		header = append(header, "@"+wines.TargetLabel(t))
	}

	styled := make([]string, len(header))
	rules := make([]string, len(header))
	for i, h := range header {
		styled[i] = TableHeaderStyle.Render(h)
		rules[i] = strings.Repeat("─", max(len([]rune(h)), 6))
	}
	if _, err := fmt.Fprintln(w, strings.Join(styled, "\t")); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := fmt.Fprintln(w, strings.Join(rules, "\t")); err != nil {
		return fmt.Errorf("failed to write separator: %w", err)
	}

	for _, row := range rows {
		cells := []string{
			row.Name,
			row.Color.String(),
			"$" + row.RetailPrice.StringFixed(2),
			formatTier(row),
			fmt.Sprintf("$%d", row.BottlePriceRounded),
			"$" + row.GlassPriceFinal.String(),
		}
		for _, d := range row.Diagnostics {
			cells = append(cells, FormatDiagnostic(d))
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "\t")); err != nil {
			return fmt.Errorf("failed to write %s: %w", row.Name, err)
		}
	}

	return w.Flush()
}

func formatTier(row model.PricedRow) string {
	if row.ForcePremium {
		return row.Tier.String() + "*"
	}
	return row.Tier.String()
}

// FormatDiagnostic renders one target's outcome for a table cell.
func FormatDiagnostic(d model.TargetDiagnostic) string {
	mark := SuccessIcon
	if !d.RevenueOK {
		mark = ErrorIcon
	}

	cell := fmt.Sprintf("%s $%s %dgl", mark, d.GlassNeeded.String(), d.GlassesToBreakEven)
	if d.CapBlocks {
		cell += " cap"
	}
	return cell
}

// RenderFailures lists rows that could not be priced.
func RenderFailures(out io.Writer, failures []pricing.RowFailure) error {
	if len(failures) == 0 {
		return nil
	}

	noun := "wines"
	if len(failures) == 1 {
		noun = "wine"
	}
	if _, err := fmt.Fprintln(out, FormatWarning(fmt.Sprintf("%d %s could not be priced:", len(failures), noun))); err != nil {
		return err
	}
	for _, f := range failures {
		if _, err := fmt.Fprintln(out, "  "+FormatError(f.Error())); err != nil {
			return err
		}
	}
	return nil
}

// Summary counts wines by tier and how many pay for the glass program at
// the first target.
func Summary(rows []model.PricedRow) string {
	counts := lo.CountValuesBy(rows, func(row model.PricedRow) model.Tier {
		return row.Tier
	})
	worthIt := lo.CountBy(rows, func(row model.PricedRow) bool {
		return len(row.Diagnostics) > 0 && row.Diagnostics[0].WorthIt
	})

	parts := make([]string, 0, 4)
	for _, tier := range []model.Tier{model.TierEntry, model.TierMid, model.TierUpperMid, model.TierPremium} {
		if counts[tier] > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", tier, counts[tier]))
		}
	}

	return fmt.Sprintf("Priced %d wines (%s); %d worth pouring by the glass",
		len(rows), strings.Join(parts, ", "), worthIt)
}

// RenderConfig prints the effective pricing rules.
func RenderConfig(out io.Writer, cfg pricing.Config) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	targets := make([]string, len(cfg.Targets))
	for i, t := range cfg.Targets {
		targets[i] = t.String()
	}

	lines := [][2]string{
		{"scheme", string(cfg.Scheme)},
		{"entry_max", cfg.EntryMax.String()},
		{"mid_min", cfg.MidMin.String()},
		{"mid_max", cfg.MidMax.String()},
		{"premium_min", cfg.PremiumMin.String()},
		{"entry_multiple", cfg.EntryMultiple.String()},
		{"mid_multiple", cfg.MidMultiple.String()},
		{"upper_mid_method", string(cfg.UpperMidMethod)},
		{"upper_mid_multiple", cfg.UpperMidMultiple.String()},
		{"upper_mid_addon", cfg.UpperMidAddOn.String()},
		{"premium_choice", string(cfg.PremiumChoice)},
		{"premium_addon", cfg.PremiumAddOn.String()},
		{"premium_mult", cfg.PremiumMult.String()},
		{"red_bump", cfg.RedBump.String()},
		{"glass_servings", fmt.Sprint(cfg.GlassServings)},
		{"glass_cap", cfg.GlassCap.String()},
		{"floor_red_sparkling", cfg.FloorRedSparkling.String()},
		{"floor_white_rose", cfg.FloorWhiteRose.String()},
		{"targets", strings.Join(targets, ", ")},
	}

	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", BoldStyle.Render(line[0]), line[1]); err != nil {
			return err
		}
	}
	return w.Flush()
}
