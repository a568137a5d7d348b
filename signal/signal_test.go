package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Mode
	}{
		{"macd", ModeMACD},
		{"MACD", ModeMACD},
		{" sar ", ModeSAR},
		{"Histogram", ModeSAR},
		{"parabolic-sar", ModeSAR},
		{"rsi", ModeRSI},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseMode("bollinger")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestNewSelectsEvaluator(t *testing.T) {
	t.Parallel()

	e, err := New(ModeMACD, Params{Tolerance: 0.01})
	require.NoError(t, err)
	assert.Equal(t, MACD{Tolerance: 0.01}, e)

	e, err = New(ModeSAR, Params{})
	require.NoError(t, err)
	assert.Equal(t, ModeSAR, e.Mode())

	e, err = New(ModeRSI, Params{RSILow: 30, RSIHigh: 70})
	require.NoError(t, err)
	assert.Equal(t, RSI{Low: 30, High: 70}, e)

	_, err = New(Mode(99), Params{})
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestStringers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "EnterLong", EnterLong.String())
	assert.Equal(t, "ExitLong", ExitLong.String())
	assert.Equal(t, "Hold", Hold.String())
	assert.Equal(t, "Intent(7)", Intent(7).String())
	assert.Equal(t, "rsi", ModeRSI.String())
	assert.Equal(t, "mode(0)", Mode(0).String())
}

func TestMACDReadingDelta(t *testing.T) {
	t.Parallel()

	d, ok := MACDReading{Value: 2, Signal: 1, Fast: 200}.Delta()
	assert.True(t, ok)
	assert.InDelta(t, 0.005, d, 1e-12)

	_, ok = MACDReading{Value: 2, Signal: 1}.Delta()
	assert.False(t, ok)
}
