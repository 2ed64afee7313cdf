package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/pour-decisions/internal/model"
)

func TestDiagnose(t *testing.T) {
	type want struct {
		needed    string
		breakEven int64
		capBlocks bool
		revenueOK bool
		worthIt   bool
	}

	tests := []struct {
		name       string
		color      model.Color
		glassFinal string
		want       []want
		bottle     int64
	}{
		{
			name:       "entry red under target",
			color:      model.ColorRed,
			bottle:     65,
			glassFinal: "16",
			want: []want{
				{needed: "19", breakEven: 5, worthIt: true},
				{needed: "19", breakEven: 6},
			},
		},
		{
			name:       "premium red blocked by cap",
			color:      model.ColorRed,
			bottle:     240,
			glassFinal: "21",
			want: []want{
				{needed: "59", breakEven: 14, capBlocks: true},
				{needed: "60", breakEven: 15, capBlocks: true},
			},
		},
		{
			name:       "cheap white raised to floor and hits target",
			color:      model.ColorWhite,
			bottle:     20,
			glassFinal: "15",
			want: []want{
				{needed: "15", breakEven: 2, revenueOK: true, worthIt: true},
				{needed: "15", breakEven: 2, revenueOK: true, worthIt: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			got, err := Diagnose("wine", tt.color, tt.bottle, dec(tt.glassFinal), cfg)
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))

			for i, w := range tt.want {
				assert.True(t, cfg.Targets[i].Equal(got[i].Target))
				assert.True(t, dec(w.needed).Equal(got[i].GlassNeeded), "target %s needed = %s, want %s", got[i].Target, got[i].GlassNeeded, w.needed)
				assert.Equal(t, w.capBlocks, got[i].CapBlocks, "target %s cap blocks", got[i].Target)
				assert.Equal(t, w.revenueOK, got[i].RevenueOK, "target %s revenue ok", got[i].Target)
				assert.Equal(t, w.breakEven, got[i].GlassesToBreakEven, "target %s break even", got[i].Target)
				assert.Equal(t, w.worthIt, got[i].WorthIt, "target %s worth it", got[i].Target)
			}
		})
	}
}

func TestDiagnose_NoTargets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Targets = nil

	got, err := Diagnose("wine", model.ColorRed, 65, dec("16"), cfg)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDiagnose_ZeroGlassPrice(t *testing.T) {
	cfg := DefaultConfig()

	_, err := Diagnose("Free Pour", model.ColorWhite, 20, decimal.Zero, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDivision))

	var divErr *DivisionError
	require.True(t, errors.As(err, &divErr))
	assert.Equal(t, "Free Pour", divErr.Name)
	assert.True(t, dec("1.20").Equal(divErr.Target))
}
