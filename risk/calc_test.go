package risk

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRR(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                string
		entry, stop, target string
		want                string
	}{
		{"bracket 1.15/0.98", "100", "98", "115", "7.5"},
		{"symmetric", "100", "90", "110", "1"},
		{"stop at entry", "100", "100", "110", "0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := RR(d(tt.entry), d(tt.stop), d(tt.target))
			assert.True(t, got.Equal(d(tt.want)), got.String())
		})
	}
}

func TestPlannedRisk(t *testing.T) {
	t.Parallel()

	got := PlannedRisk(d("-50"), d("100"), d("98"))
	assert.True(t, got.Equal(d("100")), got.String())
}

func TestTargetHoldings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		in        Inputs
		wantTgt   string
		wantDelta string
	}{
		{
			name:      "full allocation from flat",
			in:        Inputs{Equity: d("5000"), Fraction: d("1"), Price: d("100"), LotSize: d("0.01")},
			wantTgt:   "50",
			wantDelta: "50",
		},
		{
			name:      "rounds down to lot",
			in:        Inputs{Equity: d("1000"), Fraction: d("1"), Price: d("300"), LotSize: d("0.01")},
			wantTgt:   "3.33",
			wantDelta: "3.33",
		},
		{
			name:      "already partly invested",
			in:        Inputs{Equity: d("5000"), Fraction: d("1"), Price: d("100"), Holding: d("20"), LotSize: d("1")},
			wantTgt:   "50",
			wantDelta: "30",
		},
		{
			name:      "zero fraction sells everything",
			in:        Inputs{Equity: d("5000"), Fraction: d("0"), Price: d("100"), Holding: d("20")},
			wantTgt:   "0",
			wantDelta: "-20",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := TargetHoldings(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Target.Equal(d(tt.wantTgt)), got.Target.String())
			assert.True(t, got.Delta.Equal(d(tt.wantDelta)), got.Delta.String())
			assert.True(t, got.Value.LessThanOrEqual(tt.in.Equity))
		})
	}
}

func TestTargetHoldingsRejects(t *testing.T) {
	t.Parallel()

	_, err := TargetHoldings(Inputs{Equity: d("100"), Fraction: d("1"), Price: decimal.Zero})
	assert.Error(t, err)

	_, err = TargetHoldings(Inputs{Equity: d("100"), Fraction: d("-1"), Price: d("10")})
	assert.Error(t, err)
}
