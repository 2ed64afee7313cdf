package wines

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/pour-decisions/internal/model"
)

// baseColumns are the priced table columns that don't depend on targets.
var baseColumns = []string{
	"Name", "Color", "RetailPrice", "ForcePremium", "Tier",
	"BottlePriceRaw", "BottlePriceRnd",
	"GlassPriceRaw", "GlassPriceRnd", "GlassPrice",
	"Premium_AddOn", "Premium_Mult",
}

// TargetLabel renders a target multiple as the percentage used in column
// names, so 1.20 becomes "120".
func TargetLabel(target decimal.Decimal) string {
	return target.Mul(decimal.NewFromInt(100)).String()
}

// Header returns the priced table header for the given targets.
func Header(targets []decimal.Decimal) []string {
	header := make([]string, 0, len(baseColumns)+5*len(targets))
	header = append(header, baseColumns...)
	for _, t := range targets {
		label := TargetLabel(t)
		header = append(header,
			"GlassRevenueOK"+label,
			"GlassNeeded"+label,
			"CapBlocks"+label,
			"GlassesNeededFor"+label,
			"BTG_WorthIt@"+label,
		)
	}
	return header
}

// Record renders one priced row in Header order. Absent premium candidates
// are empty cells.
func Record(row model.PricedRow) []string {
	record := make([]string, 0, len(baseColumns)+5*len(row.Diagnostics))
	record = append(record,
		row.Name,
		row.Color.String(),
		row.RetailPrice.String(),
		formatBool(row.ForcePremium),
		row.Tier.String(),
		row.BottlePriceRaw.StringFixed(2),
		strconv.FormatInt(row.BottlePriceRounded, 10),
		row.GlassPriceRaw.StringFixed(2),
		strconv.FormatInt(row.GlassPriceRounded, 10),
		row.GlassPriceFinal.String(),
		optionalMoney(row.PremiumAddOnCandidate),
		optionalMoney(row.PremiumMultCandidate),
	)

	for _, d := range row.Diagnostics {
		record = append(record,
			formatBool(d.RevenueOK),
			d.GlassNeeded.String(),
			formatBool(d.CapBlocks),
			strconv.FormatInt(d.GlassesToBreakEven, 10),
			formatBool(d.WorthIt),
		)
	}
	return record
}

func optionalMoney(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}

func formatBool(b bool) string {
	return strings.ToUpper(strconv.FormatBool(b))
}
